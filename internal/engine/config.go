package engine

import "time"

// Config carries the engine's tunables. The thresholds and TTLs are
// heuristic constants inherited from earlier versions of the matcher; they
// are configuration, not truths.
type Config struct {
	// FuzzyThreshold is the minimum tag similarity for a fuzzy candidate.
	FuzzyThreshold int

	// TraditionalScore is the fixed score of a direct backing-field match.
	TraditionalScore int

	// MaxCandidates caps the ranked candidate list per field.
	MaxCandidates int

	// MaxSuggestions caps GetSuggestions output.
	MaxSuggestions int

	// TypeTTL bounds per-type cache entries.
	TypeTTL time.Duration

	// BatchTTL bounds raw batch entries kept for future fuzzy lookups.
	BatchTTL time.Duration

	// RecencyWindow is how young a winning record must be to earn the
	// recency confidence bonus.
	RecencyWindow time.Duration

	// QueryLimit caps records requested per remote fetch.
	QueryLimit int
}

// DefaultConfig returns development defaults.
func DefaultConfig() Config {
	return Config{
		FuzzyThreshold:   60,
		TraditionalScore: 90,
		MaxCandidates:    8,
		MaxSuggestions:   5,
		TypeTTL:          5 * time.Minute,
		BatchTTL:         10 * time.Minute,
		RecencyWindow:    30 * 24 * time.Hour,
		QueryLimit:       50,
	}
}
