package interfaces

import "fmt"

// TestLogger prints entries to stdout for hand-run debugging sessions where
// the silent in-memory dummy would swallow the output. Quiet mode drops
// Debug and Info; Warn and Error always print.
type TestLogger struct {
	verbose bool
}

// NewTestLogger returns a TestLogger. verbose enables Debug and Info output.
func NewTestLogger(verbose bool) *TestLogger {
	return &TestLogger{verbose: verbose}
}

func (t *TestLogger) Debug(msg string, fields ...Field) {
	if t.verbose {
		t.print("DEBUG", msg, fields)
	}
}

func (t *TestLogger) Info(msg string, fields ...Field) {
	if t.verbose {
		t.print("INFO", msg, fields)
	}
}

func (t *TestLogger) Warn(msg string, fields ...Field) {
	t.print("WARN", msg, fields)
}

func (t *TestLogger) Error(msg string, fields ...Field) {
	t.print("ERROR", msg, fields)
}

// With returns the logger unchanged; persistent fields are a production
// concern this debugging aid does not need.
func (t *TestLogger) With(_ ...Field) Logger { return t }

func (t *TestLogger) print(level, msg string, fields []Field) {
	fmt.Printf("[%s] %s", level, msg)
	for _, f := range fields {
		fmt.Printf(" %s=%v", f.Key, f.Value)
	}
	fmt.Println()
}
