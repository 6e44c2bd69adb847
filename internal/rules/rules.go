// Package rules holds the versioned mapping from semantic field types to the
// patterns that recognize them and the backing-store field names used to
// query records. The table is immutable; administration operations produce a
// new table under a single-writer lock so concurrent readers never observe a
// partially mutated rule set.
package rules

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

var (
	ErrRuleExists   = errors.New("rules: rule already exists for field type")
	ErrRuleNotFound = errors.New("rules: no rule for field type")
)

// RegexPrefix marks a pattern as a regular expression instead of a literal
// substring.
const RegexPrefix = "re:"

// Rule maps one semantic field type to its matchers.
type Rule struct {
	FieldType     string   `json:"field_type"`
	Patterns      []string `json:"patterns"`
	BackingFields []string `json:"backing_field_names"`
	Priority      int      `json:"priority"`

	compiled []*regexp.Regexp // index-aligned with Patterns; nil for literals
}

func (r Rule) validate() error {
	if strings.TrimSpace(r.FieldType) == "" {
		return errors.New("rules: empty field type")
	}
	if r.Priority <= 0 {
		return fmt.Errorf("rules: priority must be positive, got %d", r.Priority)
	}
	if len(r.Patterns) == 0 {
		return fmt.Errorf("rules: rule %q has no patterns", r.FieldType)
	}
	if len(r.BackingFields) == 0 {
		return fmt.Errorf("rules: rule %q has no backing field names", r.FieldType)
	}
	return nil
}

// compile precompiles regex patterns. Literal patterns keep a nil slot.
func (r *Rule) compile() error {
	r.compiled = make([]*regexp.Regexp, len(r.Patterns))
	for i, p := range r.Patterns {
		if !strings.HasPrefix(p, RegexPrefix) {
			continue
		}
		re, err := regexp.Compile(strings.TrimPrefix(p, RegexPrefix))
		if err != nil {
			return fmt.Errorf("rules: rule %q pattern %q: %w", r.FieldType, p, err)
		}
		r.compiled[i] = re
	}
	return nil
}

// matchScore sums Priority for every pattern matching the lowercased signal
// text.
func (r *Rule) matchScore(signal string) int {
	score := 0
	for i, p := range r.Patterns {
		if re := r.compiled[i]; re != nil {
			if re.MatchString(signal) {
				score += r.Priority
			}
		} else if strings.Contains(signal, strings.ToLower(p)) {
			score += r.Priority
		}
	}
	return score
}

// Table is an immutable rule set. Version counts admin mutations since the
// process default.
type Table struct {
	Version int
	rules   map[string]Rule
}

// NewTable builds a table from the given rules. Every rule is validated and
// its regex patterns compiled.
func NewTable(rs []Rule) (*Table, error) {
	m := make(map[string]Rule, len(rs))
	for _, r := range rs {
		if err := r.validate(); err != nil {
			return nil, err
		}
		if _, dup := m[r.FieldType]; dup {
			return nil, fmt.Errorf("rules: duplicate rule for field type %q", r.FieldType)
		}
		if err := r.compile(); err != nil {
			return nil, err
		}
		m[r.FieldType] = r
	}
	return &Table{Version: 1, rules: m}, nil
}

// Get returns the rule for a field type.
func (t *Table) Get(fieldType string) (Rule, bool) {
	r, ok := t.rules[fieldType]
	return r, ok
}

// List returns all rules sorted by field type.
func (t *Table) List() []Rule {
	out := make([]Rule, 0, len(t.rules))
	for _, r := range t.rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FieldType < out[j].FieldType })
	return out
}

// Len returns the number of rules.
func (t *Table) Len() int { return len(t.rules) }

// BackingFields returns the backing-store field names for a field type, or
// nil when the type is unknown.
func (t *Table) BackingFields(fieldType string) []string {
	if r, ok := t.rules[fieldType]; ok {
		return r.BackingFields
	}
	return nil
}

func (t *Table) clone() *Table {
	m := make(map[string]Rule, len(t.rules))
	for k, v := range t.rules {
		m[k] = v
	}
	return &Table{Version: t.Version + 1, rules: m}
}

// Admin wraps a Table with the sanctioned runtime mutation operations. Reads
// go through Table(); mutations swap in a fresh table under a single writer
// lock so in-flight readers keep their consistent snapshot.
type Admin struct {
	mu    sync.RWMutex
	table *Table
}

// NewAdmin wraps an existing table.
func NewAdmin(t *Table) *Admin {
	return &Admin{table: t}
}

// Table returns the current immutable table snapshot.
func (a *Admin) Table() *Table {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.table
}

// AddRule installs a new rule. It fails if a rule for the type exists.
func (a *Admin) AddRule(r Rule) error {
	if err := r.validate(); err != nil {
		return err
	}
	if err := r.compile(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.table.rules[r.FieldType]; ok {
		return fmt.Errorf("%w: %q", ErrRuleExists, r.FieldType)
	}
	next := a.table.clone()
	next.rules[r.FieldType] = r
	a.table = next
	return nil
}

// UpdateRule replaces the rule for an existing field type.
func (a *Admin) UpdateRule(r Rule) error {
	if err := r.validate(); err != nil {
		return err
	}
	if err := r.compile(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.table.rules[r.FieldType]; !ok {
		return fmt.Errorf("%w: %q", ErrRuleNotFound, r.FieldType)
	}
	next := a.table.clone()
	next.rules[r.FieldType] = r
	a.table = next
	return nil
}

// DeleteRule removes the rule for a field type.
func (a *Admin) DeleteRule(fieldType string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.table.rules[fieldType]; !ok {
		return fmt.Errorf("%w: %q", ErrRuleNotFound, fieldType)
	}
	next := a.table.clone()
	delete(next.rules, fieldType)
	a.table = next
	return nil
}
