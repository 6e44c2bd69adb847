// Package scanner finds form fields on a page that are candidates for
// holding personal data, and watches pages for structural changes that
// warrant a rescan.
package scanner

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/KennethLeeJE8/datadam-sub000/internal/logging"
	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
)

// Scanner extracts candidate personal-data fields from page HTML.
type Scanner struct {
	cfg    Config
	logger logging.Logger
}

// New creates a Scanner.
func New(cfg Config, logger logging.Logger) *Scanner {
	if cfg.MaxHints == 0 {
		cfg = DefaultConfig()
	}
	return &Scanner{
		cfg:    cfg,
		logger: logger.With(logging.Field{Key: "component", Value: "scanner"}),
	}
}

// Scan parses body and returns the detected candidate fields. Fields are
// transient: callers must not hold them across page navigations.
func (s *Scanner) Scan(pageURL string, body []byte) ([]model.DetectedField, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var fields []model.DetectedField

	doc.Find("input, textarea, select").Each(func(i int, sel *goquery.Selection) {
		kind := elementKind(sel)
		ident := s.extractIdentifiers(doc, sel)

		if s.excluded(sel, kind, &ident) {
			return
		}
		if !s.included(sel, kind, &ident) {
			return
		}

		fields = append(fields, model.DetectedField{
			PageURL:     pageURL,
			Locator:     locator(sel, i),
			ElementKind: kind,
			Identifiers: ident,
		})
	})

	s.logger.Debug("page scanned",
		logging.Field{Key: "url", Value: pageURL},
		logging.Field{Key: "fields", Value: len(fields)})

	return fields, nil
}

// excluded applies the disqualifying checks. Exclusion always wins over
// inclusion.
func (s *Scanner) excluded(sel *goquery.Selection, kind model.ElementKind, ident *model.Identifiers) bool {
	switch kind {
	case model.KindHidden, model.KindSubmit, model.KindButton, model.KindFile, model.KindPassword:
		return true
	}

	if _, ok := sel.Attr("disabled"); ok {
		return true
	}
	if _, ok := sel.Attr("readonly"); ok {
		return true
	}
	if _, ok := sel.Attr("hidden"); ok {
		return true
	}
	if v, ok := sel.Attr("aria-hidden"); ok && v == "true" {
		return true
	}
	if style, ok := sel.Attr("style"); ok {
		st := strings.ReplaceAll(strings.ToLower(style), " ", "")
		if strings.Contains(st, "display:none") || strings.Contains(st, "visibility:hidden") {
			return true
		}
	}

	return containsAny(signalBlob(ident), exclusionVocabulary)
}

// included applies the qualifying checks.
func (s *Scanner) included(sel *goquery.Selection, kind model.ElementKind, ident *model.Identifiers) bool {
	if kind == model.KindEmail || kind == model.KindTel {
		return true
	}
	if ac := strings.ToLower(strings.TrimSpace(ident.Autocomplete)); ac != "" {
		tokens := strings.Fields(ac)
		if _, ok := autocompleteAllowlist[tokens[len(tokens)-1]]; ok {
			return true
		}
	}
	if containsAny(signalBlob(ident), personalVocabulary) {
		return true
	}

	// Fall back to the enclosing form context: a signup/checkout/profile
	// form qualifies all of its fields, a search/filter form none.
	form := sel.Closest("form")
	if form.Length() == 0 {
		return false
	}
	ctx := strings.ToLower(attr(form, "class") + " " + attr(form, "id"))
	if containsAny(ctx, formContextExclude) {
		return false
	}
	return containsAny(ctx, formContextInclude)
}

func (s *Scanner) extractIdentifiers(doc *goquery.Document, sel *goquery.Selection) model.Identifiers {
	ident := model.Identifiers{
		Name:         attr(sel, "name"),
		ID:           attr(sel, "id"),
		Placeholder:  attr(sel, "placeholder"),
		AriaLabel:    attr(sel, "aria-label"),
		Autocomplete: attr(sel, "autocomplete"),
	}
	ident.Label = labelText(doc, sel, ident.ID)
	ident.Hints = s.contextHints(sel)
	return ident
}

// labelText finds the text of a label referencing the element, either via
// for= or as a wrapping ancestor.
func labelText(doc *goquery.Document, sel *goquery.Selection, id string) string {
	if id != "" {
		if lbl := doc.Find("label[for=" + strconv.Quote(id) + "]"); lbl.Length() > 0 {
			return cleanText(lbl.First().Text())
		}
	}
	if wrap := sel.Closest("label"); wrap.Length() > 0 {
		return cleanText(wrap.First().Text())
	}
	return ""
}

// contextHints collects the text of the immediately preceding sibling element
// and of sibling text nodes within the same parent.
func (s *Scanner) contextHints(sel *goquery.Selection) []string {
	if len(sel.Nodes) == 0 {
		return nil
	}
	node := sel.Nodes[0]

	var hints []string
	add := func(text string) {
		text = cleanText(text)
		if text == "" || len(hints) >= s.cfg.MaxHints {
			return
		}
		if len(text) > s.cfg.HintMaxLen {
			text = text[:s.cfg.HintMaxLen]
		}
		for _, h := range hints {
			if h == text {
				return
			}
		}
		hints = append(hints, text)
	}

	// Immediately preceding sibling element.
	for prev := node.PrevSibling; prev != nil; prev = prev.PrevSibling {
		if prev.Type == html.ElementNode {
			add(nodeText(prev))
			break
		}
	}

	// Sibling text nodes within the same parent.
	if node.Parent != nil {
		for c := node.Parent.FirstChild; c != nil; c = c.NextSibling {
			if c != node && c.Type == html.TextNode {
				add(c.Data)
			}
		}
	}

	return hints
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// locator builds an opaque, stable selector for the element. It is resolved
// back to a live element only when needed and never outlives the scan's page.
func locator(sel *goquery.Selection, index int) string {
	tag := goquery.NodeName(sel)
	if id := attr(sel, "id"); id != "" {
		return "#" + id
	}
	if name := attr(sel, "name"); name != "" {
		return fmt.Sprintf("%s[name=%s]", tag, strconv.Quote(name))
	}
	return fmt.Sprintf("%s:nth(%d)", tag, index)
}

func elementKind(sel *goquery.Selection) model.ElementKind {
	switch goquery.NodeName(sel) {
	case "select":
		return model.KindDropdown
	case "textarea":
		return model.KindTextarea
	}

	switch strings.ToLower(attr(sel, "type")) {
	case "", "text":
		return model.KindText
	case "email":
		return model.KindEmail
	case "tel":
		return model.KindTel
	case "password":
		return model.KindPassword
	case "number":
		return model.KindNumber
	case "date":
		return model.KindDate
	case "url":
		return model.KindURL
	case "checkbox":
		return model.KindCheckbox
	case "radio":
		return model.KindRadio
	case "hidden":
		return model.KindHidden
	case "submit":
		return model.KindSubmit
	case "button", "reset", "image":
		return model.KindButton
	case "file":
		return model.KindFile
	default:
		return model.KindOther
	}
}

func attr(sel *goquery.Selection, name string) string {
	v, _ := sel.Attr(name)
	return strings.TrimSpace(v)
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func signalBlob(ident *model.Identifiers) string {
	parts := []string{ident.Name, ident.ID, ident.Label, ident.Placeholder, ident.AriaLabel, ident.Autocomplete}
	parts = append(parts, ident.Hints...)
	return strings.ToLower(strings.Join(parts, " "))
}
