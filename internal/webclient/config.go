package webclient

import "time"

// Backend names understood by the factory.
const (
	ClientNetHTTP  = "nethttp"
	ClientChromeDP = "chromedp"
)

// Config selects and tunes the webclient backend.
type Config struct {
	// Backend is the registered backend name; empty means nethttp.
	Backend string

	// Timeout bounds a single request.
	Timeout time.Duration

	// NetworkIdleAfter is how long the chromedp backend waits after the last
	// network event before treating the page as settled.
	NetworkIdleAfter time.Duration
}

// DefaultConfig returns development defaults.
func DefaultConfig() Config {
	return Config{
		Backend:          ClientNetHTTP,
		Timeout:          30 * time.Second,
		NetworkIdleAfter: 2 * time.Second,
	}
}
