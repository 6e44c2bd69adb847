package model

import "time"

// MatchKind distinguishes how a candidate was found.
type MatchKind string

const (
	// MatchTraditional is a direct backing-field-name lookup in record content.
	MatchTraditional MatchKind = "traditional"
	// MatchFuzzy is a tag-similarity match.
	MatchFuzzy MatchKind = "fuzzy"
)

// MatchSource says whether a result was served from cache or a fresh fetch.
type MatchSource string

const (
	SourceCache  MatchSource = "cache"
	SourceRemote MatchSource = "remote"
)

// Candidate is one proposed fill value for a field.
type Candidate struct {
	Value       string    `json:"value"`
	RecordID    string    `json:"source_record_id"`
	RecordTitle string    `json:"record_title,omitempty"`
	Score       int       `json:"score"`
	Kind        MatchKind `json:"match_kind"`
	MatchedTag  string    `json:"matched_tag,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// MatchResult pairs a detected field with its ranked candidates.
type MatchResult struct {
	Field      DetectedField `json:"field"`
	FieldType  string        `json:"field_type"`
	Candidates []Candidate   `json:"candidates"`
	Confidence int           `json:"confidence"`
	Source     MatchSource   `json:"source"`
}

// MissingData names a field type for which no candidate cleared the
// threshold, with the fields that wanted it.
type MissingData struct {
	FieldType string          `json:"field_type"`
	Fields    []DetectedField `json:"fields"`
}

// MatchError surfaces a recoverable per-batch failure. Matching for other
// types continues.
type MatchError struct {
	Type          string   `json:"type"`
	Message       string   `json:"message"`
	AffectedTypes []string `json:"affected_types"`
}

// MatchReport is the full outcome of one MatchFieldsToStore invocation.
type MatchReport struct {
	Matches     []MatchResult   `json:"matches"`
	Unmatched   []DetectedField `json:"unmatched,omitempty"`
	MissingData []MissingData   `json:"missing_data,omitempty"`
	Errors      []MatchError    `json:"errors,omitempty"`
}

// Suggestion is one UI-facing fill suggestion derived from a MatchResult.
type Suggestion struct {
	Value      string      `json:"value"`
	Label      string      `json:"label"`
	Confidence int         `json:"confidence"`
	Source     MatchSource `json:"source"`
	LastUsed   time.Time   `json:"last_used,omitempty"`
}
