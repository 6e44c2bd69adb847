// Package fuzzy scores tag similarity and ranks records by best tag overlap.
// Exact keyword rules miss paraphrased tags ("e-mail" vs "mail", "gmail" vs
// "email"); the fuzzy pass recovers those without an exhaustive synonym table.
package fuzzy

import (
	"sort"
	"strings"

	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
)

// DefaultThreshold is the minimum similarity for a record to be kept. It is a
// heuristic constant carried over unchanged; callers can override it.
const DefaultThreshold = 60

// Similarity computes a 0-100 score between two tags.
//
//	exact match (case-insensitive)        -> 100
//	one tag contains the other            -> floor(85 * min(len)/max(len))
//	otherwise rune-set Jaccard similarity -> floor(70 * |a∩b| / |a∪b|)
func Similarity(a, b string) int {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		min, max := len(a), len(b)
		if min > max {
			min, max = max, min
		}
		return 85 * min / max
	}

	setA := runeSet(a)
	setB := runeSet(b)
	inter := 0
	for r := range setA {
		if _, ok := setB[r]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return 70 * inter / union
}

func runeSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(s))
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}

// Match is one record kept by FindMatches, with the record tag that matched
// best and its score.
type Match struct {
	Record     model.Record
	MatchedTag string
	Score      int
}

// FindMatches computes, per record, the best pairwise similarity between any
// search tag and any record tag, keeps records whose best score reaches
// threshold, and returns them sorted by score descending (record ID breaks
// ties so the order is stable).
func FindMatches(records []model.Record, searchTags []string, threshold int) []Match {
	var out []Match
	for _, rec := range records {
		best := -1
		bestTag := ""
		for _, rt := range rec.Tags {
			for _, st := range searchTags {
				if s := Similarity(st, rt); s > best {
					best = s
					bestTag = rt
				}
			}
		}
		if best >= threshold {
			out = append(out, Match{Record: rec, MatchedTag: bestTag, Score: best})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Record.ID < out[j].Record.ID
	})
	return out
}
