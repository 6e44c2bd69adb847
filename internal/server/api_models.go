package server

import (
	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
)

// ScanRequest carries a page to scan. When HTML is empty the server fetches
// the URL through its webclient instead.
type ScanRequest struct {
	URL  string `json:"url" example:"https://shop.example.com/checkout"`
	HTML string `json:"html,omitempty"`
}

// MatchRequest carries detected fields for one match cycle.
type MatchRequest struct {
	Fields []model.DetectedField `json:"fields"`
}

// SuggestionsRequest carries one match result to turn into UI suggestions.
type SuggestionsRequest struct {
	Match model.MatchResult `json:"match"`
}

// SuggestionsResponse is the ranked suggestion list for a field.
type SuggestionsResponse struct {
	Suggestions []model.Suggestion `json:"suggestions"`
}

// CreateMonitorRequest starts a polling monitor on a page.
type CreateMonitorRequest struct {
	URL             string `json:"url" example:"https://shop.example.com/signup"`
	IntervalSeconds int    `json:"interval_seconds" example:"30"`
}

// CacheStatsResponse reports current cache occupancy.
type CacheStatsResponse struct {
	Entries    int `json:"entries" example:"12"`
	MaxEntries int `json:"max_entries" example:"64"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"not found"`
}
