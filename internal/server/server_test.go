package server_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/KennethLeeJE8/datadam-sub000/internal/app"
	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
	"github.com/KennethLeeJE8/datadam-sub000/internal/server"
	"github.com/KennethLeeJE8/datadam-sub000/internal/testutil"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	appCfg := app.DefaultConfig()
	appCfg.StorageRoot = t.TempDir()
	appCfg.SnapshotOnClose = false

	s, err := server.NewServer(server.Config{
		ListenAddr: ":0",
		AppConfig:  appCfg,
		Logger:     &testutil.DummyLogger{},
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func doJSON(t *testing.T, s http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON response: %v (body: %s)", err, rec.Body.String())
	}
}

// ─── CORS ──────────────────────────────────────────────────────────────

func TestServer_CORS_HeaderPresent(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "GET", "/rules", "")

	if origin := rec.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("expected CORS origin *, got %q", origin)
	}
}

func TestServer_CORS_Preflight(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "OPTIONS", "/rules", "")

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if methods := rec.Header().Get("Access-Control-Allow-Methods"); methods != "GET, POST" {
		t.Errorf("expected allowed methods GET, POST, got %q", methods)
	}
}

// ─── Scanning ──────────────────────────────────────────────────────────

func TestServer_Scan_InlineHTML(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	body := `{"url": "https://example.com/signup", "html": "<form class=\"signup-form\"><input type=\"email\" name=\"email\"><input type=\"tel\" name=\"phone\"></form>"}`
	rec := doJSON(t, s, "POST", "/scan", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res app.ScanResult
	decodeJSON(t, rec, &res)
	if res.ScanID == "" {
		t.Error("missing scan id")
	}
	if len(res.Fields) != 2 {
		t.Errorf("expected 2 detected fields, got %d", len(res.Fields))
	}
	for _, f := range res.Fields {
		if f.InferredType == "" {
			t.Errorf("field %q not classified", f.Locator)
		}
	}
}

func TestServer_Scan_MissingURL(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/scan", `{"html": "<form></form>"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestServer_Scan_InvalidJSON(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/scan", `{invalid}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

// ─── Matching ──────────────────────────────────────────────────────────

func TestServer_Match_StoreUnavailable(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	// The default record-store endpoint is not running; the cycle must still
	// answer 200 with the failure carried inside the report.
	body := `{"fields": [{"locator": "#email", "element_kind": "email", "identifiers": {"name": "email"}}]}`
	rec := doJSON(t, s, "POST", "/match", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report model.MatchReport
	decodeJSON(t, rec, &report)
	if len(report.Errors) != 1 || report.Errors[0].Type != "fetch_error" {
		t.Errorf("expected a fetch_error in the report, got %+v", report.Errors)
	}
}

func TestServer_Suggestions(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	body := `{"match": {"field_type": "email", "confidence": 80, "candidates": [
		{"value": "a@example.com", "record_title": "Work", "score": 90},
		{"value": "b@example.com", "record_title": "Home", "score": 70}
	]}}`
	rec := doJSON(t, s, "POST", "/suggestions", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res server.SuggestionsResponse
	decodeJSON(t, rec, &res)
	if len(res.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(res.Suggestions))
	}
	if res.Suggestions[0].Value != "a@example.com" {
		t.Errorf("expected the stronger candidate first, got %q", res.Suggestions[0].Value)
	}
}

// ─── Rule administration ───────────────────────────────────────────────

const validRule = `{"field_type": "employer", "patterns": ["employer", "company name"], "backing_field_names": ["company"], "priority": 4}`

func TestServer_Rules_List(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "GET", "/rules", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var list []map[string]any
	decodeJSON(t, rec, &list)
	if len(list) == 0 {
		t.Fatal("expected the default rule table to be non-empty")
	}
}

func TestServer_Rules_AddAndConflict(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/rules", validRule)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, "POST", "/rules", validRule)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate, got %d", rec.Code)
	}
}

func TestServer_Rules_AddInvalid(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/rules", `{"field_type": "broken", "patterns": [], "backing_field_names": ["x"], "priority": 1}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid rule, got %d", rec.Code)
	}
}

func TestServer_Rules_UpdateUnknown(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "PUT", "/rules/no_such_type", validRule)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestServer_Rules_UpdateAndDelete(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	if rec := doJSON(t, s, "POST", "/rules", validRule); rec.Code != http.StatusCreated {
		t.Fatalf("seed rule: %d", rec.Code)
	}

	rec := doJSON(t, s, "PUT", "/rules/employer", `{"patterns": ["works at"], "backing_field_names": ["company"], "priority": 6}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated map[string]any
	decodeJSON(t, rec, &updated)
	if updated["field_type"] != "employer" {
		t.Errorf("path field type not applied: %v", updated["field_type"])
	}

	if rec := doJSON(t, s, "DELETE", "/rules/employer", ""); rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if rec := doJSON(t, s, "DELETE", "/rules/employer", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for repeated delete, got %d", rec.Code)
	}
}

// ─── Cache ─────────────────────────────────────────────────────────────

func TestServer_CacheStatsAndClear(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "GET", "/cache/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var stats server.CacheStatsResponse
	decodeJSON(t, rec, &stats)
	if stats.Entries != 0 || stats.MaxEntries == 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	if rec := doJSON(t, s, "DELETE", "/cache", ""); rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestServer_CacheSnapshotRestore(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	if rec := doJSON(t, s, "POST", "/cache/snapshot", ""); rec.Code != http.StatusNoContent {
		t.Errorf("snapshot: expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := doJSON(t, s, "POST", "/cache/restore", ""); rec.Code != http.StatusNoContent {
		t.Errorf("restore: expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
}

// ─── Monitors ──────────────────────────────────────────────────────────

// pageServer serves a signup form whose field names change every request, so
// every poll is a structural change and produces an event.
func pageServer(t *testing.T) *httptest.Server {
	t.Helper()
	var n atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<form class="signup-form"><input type="email" name="email_%d"></form>`, n.Add(1))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestServer_Monitors_Lifecycle(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	page := pageServer(t)

	rec := doJSON(t, s, "POST", "/monitors", fmt.Sprintf(`{"url": %q, "interval_seconds": 1}`, page.URL))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var info app.MonitorInfo
	decodeJSON(t, rec, &info)
	if info.ID == "" {
		t.Fatal("missing monitor id")
	}

	rec = doJSON(t, s, "GET", "/monitors", "")
	var list []app.MonitorInfo
	decodeJSON(t, rec, &list)
	if len(list) != 1 || list[0].ID != info.ID {
		t.Errorf("unexpected monitor list: %+v", list)
	}

	if rec := doJSON(t, s, "DELETE", "/monitors/"+info.ID, ""); rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if rec := doJSON(t, s, "DELETE", "/monitors/"+info.ID, ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for stopped monitor, got %d", rec.Code)
	}
}

func TestServer_Monitors_InvalidURL(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/monitors", `{"url": "   ", "interval_seconds": 1}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestServer_MonitorWS_UnknownMonitor(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := doJSON(t, s, "GET", "/ws/monitors/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestServer_MonitorWS_StreamsEvents(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	page := pageServer(t)

	ts := httptest.NewServer(s)
	defer ts.Close()

	rec := doJSON(t, s, "POST", "/monitors", fmt.Sprintf(`{"url": %q, "interval_seconds": 1}`, page.URL))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create monitor: %d: %s", rec.Code, rec.Body.String())
	}
	var info app.MonitorInfo
	decodeJSON(t, rec, &info)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/monitors/" + info.ID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	var ev app.MonitorEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if ev.MonitorID != info.ID {
		t.Errorf("event for wrong monitor: %q", ev.MonitorID)
	}
	if len(ev.Fields) != 1 {
		t.Errorf("expected 1 field in event, got %d", len(ev.Fields))
	}
}
