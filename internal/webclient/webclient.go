// Package webclient abstracts how page HTML is fetched: a plain net/http
// backend for static pages and a chromedp backend for pages that only render
// their forms after script execution.
package webclient

import (
	"context"

	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
)

// WebClient executes page requests. Implementations must be safe for
// concurrent use.
type WebClient interface {
	Do(ctx context.Context, req *model.Request) (*model.Response, error)

	Close() error
}
