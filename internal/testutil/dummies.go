// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/KennethLeeJE8/datadam-sub000/internal/logging"
	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// ─── WebClient ─────────────────────────────────────────────────────────

// DummyWebClient implements webclient.WebClient.
// Pages maps URL -> body; unknown URLs return "ok:<url>" with status 200.
// Set FailURLs[url] = true to force an error for a specific URL.
type DummyWebClient struct {
	Pages         map[string]string
	FailURLs      map[string]bool
	ResponseDelay time.Duration
	mu            sync.Mutex
	Requests      []*model.Request
}

func (d *DummyWebClient) Do(ctx context.Context, req *model.Request) (*model.Response, error) {
	if d.ResponseDelay > 0 {
		select {
		case <-time.After(d.ResponseDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	d.mu.Lock()
	d.Requests = append(d.Requests, req)
	fail := d.FailURLs != nil && d.FailURLs[req.URL]
	body := "ok:" + req.URL
	if d.Pages != nil {
		if p, ok := d.Pages[req.URL]; ok {
			body = p
		}
	}
	d.mu.Unlock()

	if fail {
		return nil, &errString{"dummy fetch fail for " + req.URL}
	}

	return &model.Response{
		Request:    req,
		Body:       []byte(body),
		StatusCode: 200,
		FetchedAt:  time.Now(),
	}, nil
}

func (d *DummyWebClient) Close() error { return nil }

// SetPage swaps the body served for url. Safe to call while requests are in
// flight.
func (d *DummyWebClient) SetPage(url, body string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Pages == nil {
		d.Pages = make(map[string]string)
	}
	d.Pages[url] = body
}

// RequestCount returns how many requests the client has served.
func (d *DummyWebClient) RequestCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Requests)
}

// ─── Record store ──────────────────────────────────────────────────────

// DummyRecordStore implements records.Store with a fixed record set.
// Every query is recorded; QueryDelay simulates a slow backend.
type DummyRecordStore struct {
	Records    []model.Record
	Err        error
	QueryDelay time.Duration

	mu      sync.Mutex
	Queries []model.RecordQuery
}

func (d *DummyRecordStore) Query(ctx context.Context, q model.RecordQuery) ([]model.Record, error) {
	if d.QueryDelay > 0 {
		select {
		case <-time.After(d.QueryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	d.mu.Lock()
	d.Queries = append(d.Queries, q)
	d.mu.Unlock()

	if d.Err != nil {
		return nil, d.Err
	}
	return append([]model.Record(nil), d.Records...), nil
}

// QueryCount returns how many queries the store has served.
func (d *DummyRecordStore) QueryCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Queries)
}

// ─── KV store ──────────────────────────────────────────────────────────

// DummyKVStore implements kvstore.Store with per-operation error injection.
type DummyKVStore struct {
	GetErr error
	SetErr error

	mu   sync.Mutex
	Data map[string]string
}

func (d *DummyKVStore) Get(_ context.Context, key string) (string, bool, error) {
	if d.GetErr != nil {
		return "", false, d.GetErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.Data[key]
	return v, ok, nil
}

func (d *DummyKVStore) Set(_ context.Context, key, value string) error {
	if d.SetErr != nil {
		return d.SetErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Data == nil {
		d.Data = make(map[string]string)
	}
	d.Data[key] = value
	return nil
}

func (d *DummyKVStore) Delete(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.Data, key)
	return nil
}

func (d *DummyKVStore) Close() error { return nil }

// ─── helpers ───────────────────────────────────────────────────────────

type errString struct{ s string }

func (e *errString) Error() string { return e.s }
