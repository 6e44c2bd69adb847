package records_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
	"github.com/KennethLeeJE8/datadam-sub000/internal/records"
	"github.com/KennethLeeJE8/datadam-sub000/internal/testutil"
	"github.com/KennethLeeJE8/datadam-sub000/internal/webclient"
)

func newStore(t *testing.T, baseURL string, logger *testutil.DummyLogger) *records.HTTPStore {
	t.Helper()
	wc, err := webclient.NewNetHTTPClient(webclient.DefaultConfig(), logger, nil)
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	t.Cleanup(func() { wc.Close() })

	cfg := records.DefaultConfig()
	cfg.BaseURL = baseURL
	store, err := records.NewHTTPStore(cfg, wc, logger)
	if err != nil {
		t.Fatalf("NewHTTPStore: %v", err)
	}
	return store
}

func TestHTTPStore_QueryPostsAndDecodes(t *testing.T) {
	var gotMethod, gotPath, gotContentType string
	var gotQuery model.RecordQuery

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotQuery); err != nil {
			t.Errorf("decode query: %v", err)
		}
		json.NewEncoder(w).Encode(model.RecordQueryResult{Records: []model.Record{
			{ID: "r1", Title: "Work contact", Content: map[string]string{"email": "a@example.com"}},
			{Title: "No id yet", Content: map[string]string{"phone": "+1 555 0100"}},
		}})
	}))
	defer ts.Close()

	store := newStore(t, ts.URL, &testutil.DummyLogger{})

	recs, err := store.Query(context.Background(), model.RecordQuery{
		BackingFields: []string{"email", "phone"},
		SearchTags:    []string{"email", "work email"},
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	if gotMethod != http.MethodPost || gotPath != "/records/query" {
		t.Errorf("unexpected request: %s %s", gotMethod, gotPath)
	}
	if gotContentType != "application/json" {
		t.Errorf("unexpected content type: %q", gotContentType)
	}
	if len(gotQuery.BackingFields) != 2 || len(gotQuery.SearchTags) != 2 {
		t.Errorf("query not carried through: %+v", gotQuery)
	}
	if gotQuery.Limit != records.DefaultConfig().DefaultLimit {
		t.Errorf("expected default limit applied, got %d", gotQuery.Limit)
	}

	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].ID != "r1" {
		t.Errorf("existing id rewritten: %q", recs[0].ID)
	}
	if recs[1].ID == "" {
		t.Error("id-less record not assigned an id")
	}
}

func TestHTTPStore_ExplicitLimitPreserved(t *testing.T) {
	var gotQuery model.RecordQuery
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotQuery)
		w.Write([]byte(`{"records": []}`))
	}))
	defer ts.Close()

	store := newStore(t, ts.URL, &testutil.DummyLogger{})
	if _, err := store.Query(context.Background(), model.RecordQuery{Limit: 7}); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if gotQuery.Limit != 7 {
		t.Errorf("explicit limit overridden: %d", gotQuery.Limit)
	}
}

func TestHTTPStore_ServerErrorIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	store := newStore(t, ts.URL, &testutil.DummyLogger{})
	if _, err := store.Query(context.Background(), model.RecordQuery{}); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestHTTPStore_MalformedPayloadIsEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`this is not json`))
	}))
	defer ts.Close()

	logger := &testutil.DummyLogger{}
	store := newStore(t, ts.URL, logger)

	recs, err := store.Query(context.Background(), model.RecordQuery{})
	if err != nil {
		t.Fatalf("expected degraded empty result, got error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected no records, got %d", len(recs))
	}
	if len(logger.Warns) == 0 {
		t.Error("expected a warning for the malformed payload")
	}
}

func TestHTTPStore_AbsentRecordsArrayIsEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	store := newStore(t, ts.URL, &testutil.DummyLogger{})
	recs, err := store.Query(context.Background(), model.RecordQuery{})
	if err != nil || len(recs) != 0 {
		t.Errorf("expected empty result, got %v / %v", recs, err)
	}
}

func TestHTTPStore_TransportFailure(t *testing.T) {
	wc := &testutil.DummyWebClient{FailURLs: map[string]bool{
		"http://store.invalid/records/query": true,
	}}
	cfg := records.DefaultConfig()
	cfg.BaseURL = "http://store.invalid"
	store, err := records.NewHTTPStore(cfg, wc, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("NewHTTPStore: %v", err)
	}

	if _, err := store.Query(context.Background(), model.RecordQuery{}); err == nil {
		t.Error("expected transport error")
	}
}

func TestNewHTTPStore_Validation(t *testing.T) {
	wc := &testutil.DummyWebClient{}

	if _, err := records.NewHTTPStore(records.Config{}, wc, &testutil.DummyLogger{}); err == nil {
		t.Error("expected error for empty base URL")
	}
	if _, err := records.NewHTTPStore(records.DefaultConfig(), nil, &testutil.DummyLogger{}); err == nil {
		t.Error("expected error for nil webclient")
	}
}
