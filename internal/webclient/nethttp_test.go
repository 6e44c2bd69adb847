package webclient_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
	"github.com/KennethLeeJE8/datadam-sub000/internal/testutil"
	"github.com/KennethLeeJE8/datadam-sub000/internal/webclient"
)

func newNetHTTP(t *testing.T, hc *http.Client) webclient.WebClient {
	t.Helper()
	client, err := webclient.NewNetHTTPClient(webclient.Config{}, &testutil.DummyLogger{}, hc)
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNetHTTPClient_Do_GET(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Page-Version", "2")
		io.WriteString(w, "<form></form>")
	}))
	defer ts.Close()

	client := newNetHTTP(t, ts.Client())

	resp, err := client.Do(context.Background(), &model.Request{URL: ts.URL + "/signup"})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if string(resp.Body) != "<form></form>" {
		t.Errorf("unexpected body: %q", resp.Body)
	}
	if resp.Headers.Get("X-Page-Version") != "2" {
		t.Errorf("response headers not carried: %v", resp.Headers)
	}
	if resp.FetchedAt.IsZero() {
		t.Error("missing fetch timestamp")
	}
}

func TestNetHTTPClient_Do_POSTBodyAndHeaders(t *testing.T) {
	t.Parallel()
	var gotMethod, gotBody, gotContentType string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	client := newNetHTTP(t, ts.Client())

	resp, err := client.Do(context.Background(), &model.Request{
		Method:  "post",
		URL:     ts.URL + "/records/query",
		Headers: http.Header{"Content-Type": []string{"application/json"}},
		Body:    []byte(`{"limit": 5}`),
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("lowercase method not normalized: %q", gotMethod)
	}
	if gotBody != `{"limit": 5}` || gotContentType != "application/json" {
		t.Errorf("request not carried: body=%q content-type=%q", gotBody, gotContentType)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected 201, got %d", resp.StatusCode)
	}
}

func TestNetHTTPClient_Do_NilRequest(t *testing.T) {
	t.Parallel()
	client := newNetHTTP(t, nil)
	if _, err := client.Do(context.Background(), nil); err == nil {
		t.Error("expected error for nil request")
	}
}

func TestNetHTTPClient_Do_ContextCancel(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer ts.Close()
	defer close(release)

	client := newNetHTTP(t, ts.Client())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := client.Do(ctx, &model.Request{URL: ts.URL}); err == nil {
		t.Error("expected error for canceled context")
	}
}
