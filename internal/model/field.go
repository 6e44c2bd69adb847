package model

import "strings"

// ElementKind is the closed set of interactive element kinds the scanner
// distinguishes. It is derived from the tag name plus the type attribute.
type ElementKind string

const (
	KindText     ElementKind = "text"
	KindEmail    ElementKind = "email"
	KindTel      ElementKind = "tel"
	KindPassword ElementKind = "password"
	KindNumber   ElementKind = "number"
	KindDate     ElementKind = "date"
	KindURL      ElementKind = "url"
	KindDropdown ElementKind = "dropdown"
	KindCheckbox ElementKind = "checkbox"
	KindRadio    ElementKind = "radio"
	KindTextarea ElementKind = "textarea"
	KindHidden   ElementKind = "hidden"
	KindSubmit   ElementKind = "submit"
	KindButton   ElementKind = "button"
	KindFile     ElementKind = "file"
	KindOther    ElementKind = "other"
)

// Identifiers holds the raw signals extracted from one element. Hints carries
// nearby context text (preceding sibling, sibling text nodes) that is not an
// attribute of the element itself.
type Identifiers struct {
	Name         string   `json:"name,omitempty"`
	ID           string   `json:"id,omitempty"`
	Label        string   `json:"label,omitempty"`
	Placeholder  string   `json:"placeholder,omitempty"`
	AriaLabel    string   `json:"aria_label,omitempty"`
	Autocomplete string   `json:"autocomplete,omitempty"`
	Hints        []string `json:"hints,omitempty"`
}

// DetectedField is one candidate personal-data input found during a page
// scan. Fields live for the duration of a single scan; the Locator is an
// opaque selector that can be resolved back to the element later, never a
// live handle into the parsed document.
type DetectedField struct {
	PageURL      string      `json:"page_url,omitempty"`
	Locator      string      `json:"locator"`
	ElementKind  ElementKind `json:"element_kind"`
	Identifiers  Identifiers `json:"identifiers"`
	InferredType string      `json:"inferred_type,omitempty"`
	Confidence   int         `json:"confidence"`
}

// SignalTexts returns the individual signal strings, hints included, for
// callers that tokenize per signal.
func (f *DetectedField) SignalTexts() []string {
	out := make([]string, 0, 5+len(f.Identifiers.Hints))
	for _, s := range []string{
		f.Identifiers.Name,
		f.Identifiers.ID,
		f.Identifiers.Label,
		f.Identifiers.Placeholder,
		f.Identifiers.AriaLabel,
	} {
		if s != "" {
			out = append(out, s)
		}
	}
	out = append(out, f.Identifiers.Hints...)
	return out
}

// SignalText concatenates every identifying signal, autocomplete hint
// included, into one blob used by keyword and pattern matching.
func (f *DetectedField) SignalText() string {
	parts := f.SignalTexts()
	if f.Identifiers.Autocomplete != "" {
		parts = append(parts, f.Identifiers.Autocomplete)
	}
	return strings.Join(parts, " ")
}
