// Package tagger derives normalized search tags from free text. The same
// normalization is applied to field signals and to record tags so both sides
// of the fuzzy comparison speak the same vocabulary.
package tagger

import "strings"

const (
	// MinTagLen is the shortest token kept as a tag.
	MinTagLen = 3
	// MaxPhraseLen is the longest cleaned phrase retained as a whole tag.
	MaxPhraseLen = 49
)

// isSeparator reports whether r splits tokens. Besides whitespace this covers
// the punctuation commonly used in attribute names and labels.
func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '-', '_', '.', ',', ':', ';', '/', '\\', '|', '[', ']', '(', ')':
		return true
	}
	return false
}

func stripNonAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tags normalizes the given texts into a de-duplicated, order-stable tag
// list. Each text is split on whitespace and common separators; tokens are
// lowercased, stripped of non-alphanumerics, and dropped when shorter than
// MinTagLen. The whole cleaned phrase is kept as one extra tag when its
// length falls within [MinTagLen, MaxPhraseLen].
func Tags(texts []string) []string {
	seen := make(map[string]struct{})
	var out []string

	add := func(tag string) {
		if len(tag) < MinTagLen {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}

	for _, text := range texts {
		lower := strings.ToLower(strings.TrimSpace(text))
		if lower == "" {
			continue
		}

		var phrase []string
		for _, token := range strings.FieldsFunc(lower, isSeparator) {
			cleaned := stripNonAlnum(token)
			add(cleaned)
			if cleaned != "" {
				phrase = append(phrase, cleaned)
			}
		}

		// Keep the whole cleaned phrase as one additional tag.
		whole := strings.Join(phrase, " ")
		if len(whole) >= MinTagLen && len(whole) <= MaxPhraseLen {
			add(whole)
		}
	}

	return out
}
