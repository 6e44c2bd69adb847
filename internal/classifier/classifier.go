// Package classifier infers a semantic type and a detection-quality
// confidence for a detected field. Classification is pure: identical input
// always yields identical output.
package classifier

import (
	"strings"

	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
)

// TypeCustom is the fallback when no signal pins a more specific type.
const TypeCustom = "custom"

// autocompleteTypes maps autocomplete hints to semantic field types.
var autocompleteTypes = map[string]string{
	"email":           "email",
	"tel":             "phone",
	"tel-national":    "phone",
	"name":            "name",
	"given-name":      "first_name",
	"additional-name": "name",
	"family-name":     "last_name",
	"nickname":        "username",
	"username":        "username",
	"organization":    "company",
	"street-address":  "address",
	"address-line1":   "address",
	"address-line2":   "address",
	"address-level1":  "state",
	"address-level2":  "city",
	"postal-code":     "postal_code",
	"country":         "country",
	"country-name":    "country",
	"bday":            "birthday",
	"url":             "website",
}

// keywordTypes is the keyword lookup table applied to the concatenation of
// all identifiers and contextual hints. Order matters: earlier entries win so
// the more specific types are listed before the generic ones.
var keywordTypes = []struct {
	fieldType string
	keywords  []string
}{
	{"email", []string{"email", "e-mail", "mail"}},
	{"phone", []string{"phone", "mobile", "telephone", "cell"}},
	{"first_name", []string{"first name", "firstname", "first_name", "given name", "given-name"}},
	{"last_name", []string{"last name", "lastname", "last_name", "surname", "family name"}},
	{"postal_code", []string{"zip", "postal", "postcode"}},
	{"address", []string{"address", "street", "billing", "shipping"}},
	{"city", []string{"city", "town", "locality"}},
	{"state", []string{"state", "province", "region"}},
	{"country", []string{"country"}},
	{"company", []string{"company", "organization", "organisation", "employer"}},
	{"birthday", []string{"birthday", "birth", "dob"}},
	{"website", []string{"website", "homepage", "url"}},
	{"username", []string{"username", "user name", "nickname", "handle"}},
	{"name", []string{"name"}},
}

// kindTypes pins the type directly from the element kind.
var kindTypes = map[model.ElementKind]string{
	model.KindEmail:    "email",
	model.KindTel:      "phone",
	model.KindPassword: "password",
}

// Classify infers the semantic type and confidence for a field. Precedence:
// explicit element kind, then autocomplete hint, then keyword lookup over the
// combined signal text, then TypeCustom.
func Classify(f *model.DetectedField) (fieldType string, confidence int) {
	fieldType = inferType(f)
	confidence = score(f)
	return fieldType, confidence
}

func inferType(f *model.DetectedField) string {
	if t, ok := kindTypes[f.ElementKind]; ok {
		return t
	}

	if ac := normalizeAutocomplete(f.Identifiers.Autocomplete); ac != "" {
		if t, ok := autocompleteTypes[ac]; ok {
			return t
		}
	}

	signal := strings.ToLower(f.SignalText())
	for _, entry := range keywordTypes {
		for _, kw := range entry.keywords {
			if strings.Contains(signal, kw) {
				return entry.fieldType
			}
		}
	}

	return TypeCustom
}

// normalizeAutocomplete reduces an autocomplete attribute to its field token,
// dropping section-* and shipping/billing scoping prefixes.
func normalizeAutocomplete(ac string) string {
	ac = strings.ToLower(strings.TrimSpace(ac))
	if ac == "" || ac == "off" || ac == "on" {
		return ""
	}
	tokens := strings.Fields(ac)
	return tokens[len(tokens)-1]
}

// Confidence contributions. Additive, capped at 100.
const (
	kindScore         = 40
	autocompleteScore = 30
	labelScore        = 20
	nameOrIDScore     = 10
	placeholderScore  = 10
	hintScore         = 5
)

func score(f *model.DetectedField) int {
	conf := 0
	if _, ok := kindTypes[f.ElementKind]; ok {
		conf += kindScore
	}
	if normalizeAutocomplete(f.Identifiers.Autocomplete) != "" {
		conf += autocompleteScore
	}
	if f.Identifiers.Label != "" {
		conf += labelScore
	}
	if f.Identifiers.Name != "" || f.Identifiers.ID != "" {
		conf += nameOrIDScore
	}
	if f.Identifiers.Placeholder != "" || f.Identifiers.AriaLabel != "" {
		conf += placeholderScore
	}
	if len(f.Identifiers.Hints) > 0 {
		conf += hintScore
	}
	if conf > 100 {
		conf = 100
	}
	return conf
}
