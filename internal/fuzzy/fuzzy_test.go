package fuzzy

import (
	"testing"

	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"email", "email", 100},
		{"Email", "email", 100},
		{"  email  ", "email", 100},
		{"mail", "email", 68},      // containment: 85*4/5
		{"email", "mail", 68},      // symmetric
		{"gmail", "email", 46},     // rune overlap: 70*4/6
		{"phone", "telephone", 47}, // containment: 85*5/9
		{"abc", "xyz", 0},
		{"", "email", 0},
		{"email", "", 0},
	}

	for _, tt := range tests {
		if got := Similarity(tt.a, tt.b); got != tt.want {
			t.Errorf("Similarity(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFindMatches_ThresholdAndOrder(t *testing.T) {
	records := []model.Record{
		{ID: "r1", Tags: []string{"email", "work"}},
		{ID: "r2", Tags: []string{"gmail"}},
		{ID: "r3", Tags: []string{"unrelated"}},
	}

	matches := FindMatches(records, []string{"email"}, DefaultThreshold)

	if len(matches) != 1 {
		t.Fatalf("expected 1 match at threshold %d, got %d", DefaultThreshold, len(matches))
	}
	if matches[0].Record.ID != "r1" || matches[0].Score != 100 {
		t.Errorf("unexpected best match: %+v", matches[0])
	}

	// Lowering the threshold admits the rune-overlap match, ranked below.
	matches = FindMatches(records, []string{"email"}, 40)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches at threshold 40, got %d", len(matches))
	}
	if matches[0].Record.ID != "r1" || matches[1].Record.ID != "r2" {
		t.Errorf("unexpected order: %s, %s", matches[0].Record.ID, matches[1].Record.ID)
	}
	if matches[1].Score != 46 {
		t.Errorf("expected gmail/email score 46, got %d", matches[1].Score)
	}
}

func TestFindMatches_TieBreaksByRecordID(t *testing.T) {
	records := []model.Record{
		{ID: "b", Tags: []string{"phone"}},
		{ID: "a", Tags: []string{"phone"}},
	}

	matches := FindMatches(records, []string{"phone"}, DefaultThreshold)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Record.ID != "a" || matches[1].Record.ID != "b" {
		t.Errorf("expected tie broken by record ID, got %s, %s", matches[0].Record.ID, matches[1].Record.ID)
	}
}

func TestFindMatches_BestTagPerRecord(t *testing.T) {
	records := []model.Record{
		{ID: "r1", Tags: []string{"mail", "email"}},
	}

	matches := FindMatches(records, []string{"email"}, DefaultThreshold)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].MatchedTag != "email" || matches[0].Score != 100 {
		t.Errorf("expected the exact tag to win, got %+v", matches[0])
	}
}

func TestFindMatches_NoSearchTags(t *testing.T) {
	records := []model.Record{{ID: "r1", Tags: []string{"email"}}}
	if matches := FindMatches(records, nil, DefaultThreshold); matches != nil {
		t.Errorf("expected no matches without search tags, got %v", matches)
	}
}
