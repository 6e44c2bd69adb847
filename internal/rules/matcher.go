package rules

import (
	"sort"
	"strings"

	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
)

// MinMatchScore is the vote a rule must exceed to map a field. At or below
// this the field stays unmapped and is excluded from remote queries.
const MinMatchScore = 3

// Bonuses applied on top of the pattern vote.
const (
	inferredTypeBonus = 5 // field's classifier type equals the rule type
	elementKindBonus  = 8 // element kind maps directly to the rule type
)

// kindToType maps element kinds that pin a field type outright.
var kindToType = map[model.ElementKind]string{
	model.KindEmail: "email",
	model.KindTel:   "phone",
}

// Matcher scores fields against a rule table snapshot.
type Matcher struct {
	table *Table
}

// NewMatcher builds a matcher over an immutable table snapshot.
func NewMatcher(t *Table) *Matcher {
	return &Matcher{table: t}
}

// InferType scores the field against every rule and returns the best field
// type. ok is false when no rule clears MinMatchScore.
func (m *Matcher) InferType(f *model.DetectedField) (fieldType string, ok bool) {
	signal := strings.ToLower(f.SignalText())

	bestType := ""
	bestScore := 0

	// Iterate in sorted order so equal scores resolve deterministically.
	for _, r := range m.table.List() {
		score := r.matchScore(signal)
		if f.InferredType == r.FieldType {
			score += inferredTypeBonus
		}
		if kindToType[f.ElementKind] == r.FieldType {
			score += elementKindBonus
		}
		if score > bestScore {
			bestScore = score
			bestType = r.FieldType
		}
	}

	if bestScore <= MinMatchScore {
		return "", false
	}
	return bestType, true
}

// GroupByType partitions fields by inferred rule type. Fields that map to no
// rule are returned separately so callers can report them as unmatched.
func (m *Matcher) GroupByType(fields []model.DetectedField) (groups map[string][]model.DetectedField, unmatched []model.DetectedField) {
	groups = make(map[string][]model.DetectedField)
	for _, f := range fields {
		ft, ok := m.InferType(&f)
		if !ok {
			unmatched = append(unmatched, f)
			continue
		}
		groups[ft] = append(groups[ft], f)
	}
	return groups, unmatched
}

// SortedTypes returns the group keys sorted, for deterministic batch keys and
// iteration order.
func SortedTypes(groups map[string][]model.DetectedField) []string {
	types := make([]string, 0, len(groups))
	for t := range groups {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
