// Package app wires the scanner, engine, stores and monitors into one
// running application.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KennethLeeJE8/datadam-sub000/internal/cache"
	"github.com/KennethLeeJE8/datadam-sub000/internal/classifier"
	"github.com/KennethLeeJE8/datadam-sub000/internal/engine"
	"github.com/KennethLeeJE8/datadam-sub000/internal/kvstore"
	"github.com/KennethLeeJE8/datadam-sub000/internal/logging"
	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
	"github.com/KennethLeeJE8/datadam-sub000/internal/records"
	"github.com/KennethLeeJE8/datadam-sub000/internal/rules"
	"github.com/KennethLeeJE8/datadam-sub000/internal/scanner"
	"github.com/KennethLeeJE8/datadam-sub000/internal/utils"
	"github.com/KennethLeeJE8/datadam-sub000/internal/webclient"
)

// ScanResult is what a one-shot page scan returns.
type ScanResult struct {
	ScanID string                `json:"scan_id"`
	URL    string                `json:"url"`
	Fields []model.DetectedField `json:"fields"`
}

// Application owns the long-lived components and the set of running page
// monitors.
type Application struct {
	cfg    *Config
	logger logging.Logger

	wc      webclient.WebClient
	scanner *scanner.Scanner
	engine  *engine.Engine
	kv      kvstore.Store

	rootCtx    context.Context
	rootCancel context.CancelFunc

	monitors *monitorSet
}

// NewApplication wires everything from cfg. A nil cfg gets defaults.
func NewApplication(cfg *Config, logger logging.Logger) (*Application, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("datadam")
	}

	storageRoot, err := expandPath(cfg.StorageRoot)
	if err != nil {
		return nil, fmt.Errorf("expanding storage root path: %w", err)
	}
	cfg.StorageRoot = storageRoot
	if err := os.MkdirAll(storageRoot, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage root: %w", err)
	}

	kv, err := kvstore.NewSQLiteStore(filepath.Join(storageRoot, "datadam.db"), logger)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot store: %w", err)
	}

	wc, err := webclient.New(cfg.WebClient, logger)
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("creating webclient: %w", err)
	}

	store, err := records.NewHTTPStore(cfg.RecordStore, wc, logger)
	if err != nil {
		kv.Close()
		wc.Close()
		return nil, fmt.Errorf("creating record store client: %w", err)
	}

	c := cache.New(cfg.Cache, logger)
	eng := engine.New(cfg.Engine, rules.NewAdmin(rules.DefaultTable()), store, c, kv, logger)

	rootCtx, rootCancel := context.WithCancel(context.Background())

	a := &Application{
		cfg:        cfg,
		logger:     logger,
		wc:         wc,
		scanner:    scanner.New(cfg.Scanner, logger),
		engine:     eng,
		kv:         kv,
		rootCtx:    rootCtx,
		rootCancel: rootCancel,
		monitors:   newMonitorSet(logger),
	}

	// A cold cache is fine; a failed restore only costs one extra fetch per type.
	if err := eng.RestoreCache(rootCtx); err != nil {
		logger.Warn("starting with cold cache", logging.Field{Key: "error", Value: err.Error()})
	}

	return a, nil
}

// Engine exposes the matching engine.
func (a *Application) Engine() *engine.Engine {
	return a.engine
}

// ScanPage scans the supplied HTML and classifies the detected fields.
func (a *Application) ScanPage(_ context.Context, pageURL string, body []byte) (*ScanResult, error) {
	if canon, err := utils.Canonicalize(pageURL, a.cfg.URL); err == nil {
		pageURL = canon
	}

	fields, err := a.scanner.Scan(pageURL, body)
	if err != nil {
		return nil, err
	}
	for i := range fields {
		fields[i].InferredType, fields[i].Confidence = classifier.Classify(&fields[i])
	}

	return &ScanResult{
		ScanID: uuid.New().String(),
		URL:    pageURL,
		Fields: fields,
	}, nil
}

// FetchAndScan fetches pageURL through the webclient, then scans it.
func (a *Application) FetchAndScan(ctx context.Context, pageURL string) (*ScanResult, error) {
	resp, err := a.wc.Do(ctx, &model.Request{Method: "GET", URL: pageURL})
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	return a.ScanPage(ctx, pageURL, resp.Body)
}

// Match runs one match cycle.
func (a *Application) Match(ctx context.Context, fields []model.DetectedField) (*model.MatchReport, error) {
	return a.engine.MatchFieldsToStore(ctx, fields)
}

// StartMonitor begins polling url, matching fields on every (re)scan.
func (a *Application) StartMonitor(url string, interval time.Duration) (*MonitorInfo, error) {
	canon, err := utils.Canonicalize(url, a.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("bad monitor url: %w", err)
	}

	mon := scanner.NewMonitor(canon, interval, a.cfg.Scanner, a.scanner, a.wc, a.logger)
	return a.monitors.start(a.rootCtx, mon, a.engine), nil
}

// ListMonitors returns the running monitors.
func (a *Application) ListMonitors() []MonitorInfo {
	return a.monitors.list()
}

// StopMonitor cancels a monitor. ok is false when the id is unknown.
func (a *Application) StopMonitor(id string) bool {
	return a.monitors.stop(id)
}

// Subscribe attaches to a monitor's enriched event stream. The returned
// cancel must be called when the subscriber is done. ok is false when the id
// is unknown.
func (a *Application) Subscribe(monitorID string) (ch <-chan MonitorEvent, cancel func(), ok bool) {
	return a.monitors.subscribe(monitorID)
}

// Close stops monitors, optionally snapshots the cache, and releases
// resources.
func (a *Application) Close() {
	a.rootCancel()

	if a.cfg.SnapshotOnClose {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.engine.SnapshotCache(ctx)
	}

	if err := a.wc.Close(); err != nil {
		a.logger.Warn("closing webclient", logging.Field{Key: "error", Value: err.Error()})
	}
	if err := a.kv.Close(); err != nil {
		a.logger.Warn("closing snapshot store", logging.Field{Key: "error", Value: err.Error()})
	}
}

// expandPath resolves a leading ~ against the user home directory.
func expandPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
	}
	return filepath.Clean(p), nil
}
