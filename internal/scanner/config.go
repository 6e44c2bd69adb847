package scanner

import "time"

// Config controls scanning and rescan monitoring.
type Config struct {
	// MaxHints caps contextual hint strings collected per field.
	MaxHints int

	// HintMaxLen truncates a single hint string.
	HintMaxLen int

	// RescanDebounce delays a rescan after a structural change so bursts of
	// mutations collapse into one scan.
	RescanDebounce time.Duration

	// PollInterval is the default monitor poll interval.
	PollInterval time.Duration
}

// DefaultConfig returns development defaults.
func DefaultConfig() Config {
	return Config{
		MaxHints:       3,
		HintMaxLen:     80,
		RescanDebounce: 100 * time.Millisecond,
		PollInterval:   30 * time.Second,
	}
}
