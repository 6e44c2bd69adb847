// Package interfaces holds the minimal contracts shared across packages.
// Today that is only the structured logging surface every component takes.
package interfaces

// Logger is the logging surface components depend on. Production code gets
// the JSON stdout logger from internal/logging; tests inject the in-memory
// recorder from internal/testutil. Implementations must be safe for
// concurrent use.
type Logger interface {
	// Debug records developer-level detail.
	Debug(msg string, fields ...Field)

	// Info records normal operation.
	Info(msg string, fields ...Field)

	// Warn records a survivable problem.
	Warn(msg string, fields ...Field)

	// Error records a failure.
	Error(msg string, fields ...Field)

	// With returns a logger that attaches fields to every entry it emits.
	With(fields ...Field) Logger
}

// Field is one structured key/value attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}
