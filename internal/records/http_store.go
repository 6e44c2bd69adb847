package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/KennethLeeJE8/datadam-sub000/internal/logging"
	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
	"github.com/KennethLeeJE8/datadam-sub000/internal/webclient"
)

// Config points the HTTP store at its backend.
type Config struct {
	// BaseURL is the record-store endpoint; queries POST to BaseURL +
	// "/records/query".
	BaseURL string

	// DefaultLimit applies when a query carries no limit.
	DefaultLimit int
}

// DefaultConfig returns development defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:      "http://localhost:9090",
		DefaultLimit: 50,
	}
}

// HTTPStore queries a hosted record store over JSON/HTTP through a
// webclient.
type HTTPStore struct {
	cfg    Config
	wc     webclient.WebClient
	logger logging.Logger
}

// NewHTTPStore creates an HTTPStore.
func NewHTTPStore(cfg Config, wc webclient.WebClient, logger logging.Logger) (*HTTPStore, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("records: empty store base URL")
	}
	if wc == nil {
		return nil, errors.New("records: nil webclient")
	}
	return &HTTPStore{
		cfg:    cfg,
		wc:     wc,
		logger: logger.With(logging.Field{Key: "component", Value: "recordstore"}),
	}, nil
}

// Query posts q to the store. An absent or malformed records array decodes as
// an empty result; only transport and server failures are errors.
func (s *HTTPStore) Query(ctx context.Context, q model.RecordQuery) ([]model.Record, error) {
	if q.Limit <= 0 {
		q.Limit = s.cfg.DefaultLimit
	}

	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("records: encode query: %w", err)
	}

	resp, err := s.wc.Do(ctx, &model.Request{
		Method:  http.MethodPost,
		URL:     s.cfg.BaseURL + "/records/query",
		Headers: http.Header{"Content-Type": []string{"application/json"}},
		Body:    body,
	})
	if err != nil {
		return nil, fmt.Errorf("records: query store: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("records: store returned status %d", resp.StatusCode)
	}

	var result model.RecordQueryResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		// Malformed payloads degrade to an empty result, not an error.
		s.logger.Warn("malformed store payload, treating as empty",
			logging.Field{Key: "error", Value: err.Error()})
		return nil, nil
	}

	// Records without an ID cannot be deduplicated downstream; assign one.
	for i := range result.Records {
		if result.Records[i].ID == "" {
			result.Records[i].ID = uuid.New().String()
		}
	}

	s.logger.Debug("store query complete",
		logging.Field{Key: "records", Value: len(result.Records)},
		logging.Field{Key: "backing_fields", Value: len(q.BackingFields)},
		logging.Field{Key: "search_tags", Value: len(q.SearchTags)})

	return result.Records, nil
}
