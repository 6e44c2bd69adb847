package model

import (
	"net/http"
	"time"
)

// Request is the backend-agnostic page/API request passed to a webclient.
type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

// Response is the backend-agnostic result of executing a Request.
type Response struct {
	Request    *Request
	Headers    http.Header
	Body       []byte
	StatusCode int
	FetchedAt  time.Time
}
