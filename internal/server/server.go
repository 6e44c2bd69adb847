package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/KennethLeeJE8/datadam-sub000/docs" // swagger registration
	"github.com/KennethLeeJE8/datadam-sub000/internal/app"
	"github.com/KennethLeeJE8/datadam-sub000/internal/logging"
	"github.com/KennethLeeJE8/datadam-sub000/internal/rules"
)

// Server is the HTTP + WebSocket API surface.
type Server struct {
	cfg      Config
	app      *app.Application
	router   chi.Router
	upgrader websocket.Upgrader
	logger   logging.Logger
}

// NewServer creates a Server with its own Application.
func NewServer(cfg Config) (*Server, error) {
	if cfg.AppConfig == nil {
		cfg.AppConfig = app.DefaultConfig()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	a, err := app.NewApplication(cfg.AppConfig, logger)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		app:    a,
		router: chi.NewRouter(),
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: tighten for production
				return true
			},
		},
	}

	s.routes()
	return s, nil
}

// Application returns the underlying application for advanced use (tests, etc.).
func (s *Server) Application() *app.Application {
	return s.app
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/scan", s.optionsHandler("POST"))
	r.Options("/match", s.optionsHandler("POST"))
	r.Options("/suggestions", s.optionsHandler("POST"))
	r.Options("/rules", s.optionsHandler("GET, POST"))
	r.Options("/rules/{fieldType}", s.optionsHandler("PUT, DELETE"))
	r.Options("/cache", s.optionsHandler("DELETE"))
	r.Options("/cache/stats", s.optionsHandler("GET"))
	r.Options("/cache/snapshot", s.optionsHandler("POST"))
	r.Options("/cache/restore", s.optionsHandler("POST"))
	r.Options("/monitors", s.optionsHandler("GET, POST"))
	r.Options("/monitors/{monitorID}", s.optionsHandler("DELETE"))
	r.Options("/ws/monitors/{monitorID}", s.optionsHandler("GET"))

	// Scanning and matching
	r.Post("/scan", s.handleScan)
	r.Post("/match", s.handleMatch)
	r.Post("/suggestions", s.handleSuggestions)

	// Rule administration
	r.Get("/rules", s.handleListRules)
	r.Post("/rules", s.handleAddRule)
	r.Put("/rules/{fieldType}", s.handleUpdateRule)
	r.Delete("/rules/{fieldType}", s.handleDeleteRule)

	// Cache
	r.Get("/cache/stats", s.handleCacheStats)
	r.Delete("/cache", s.handleClearCache)
	r.Post("/cache/snapshot", s.handleCacheSnapshot)
	r.Post("/cache/restore", s.handleCacheRestore)

	// Monitors
	r.Post("/monitors", s.handleCreateMonitor)
	r.Get("/monitors", s.handleListMonitors)
	r.Delete("/monitors/{monitorID}", s.handleStopMonitor)

	// WebSocket for monitor events
	r.Get("/ws/monitors/{monitorID}", s.handleMonitorWS)

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, logging.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close shuts down the application and its resources.
func (s *Server) Close() {
	if s.app != nil {
		s.app.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// --- HTTP handlers ---

// Scanning and matching

// handleScan scans a page for personal-data form fields.
//
//	@Summary  Scan a page
//	@Accept   json
//	@Produce  json
//	@Param    request body ScanRequest true "page to scan"
//	@Success  200 {object} app.ScanResult
//	@Failure  400 {object} ErrorResponse
//	@Router   /scan [post]
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var body ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.URL == "" {
		writeError(w, http.StatusBadRequest, "missing url")
		return
	}

	var (
		res *app.ScanResult
		err error
	)
	if body.HTML != "" {
		res, err = s.app.ScanPage(r.Context(), body.URL, []byte(body.HTML))
	} else {
		res, err = s.app.FetchAndScan(r.Context(), body.URL)
	}
	if err != nil {
		s.logger.Warn("scanning page", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("scanned page",
		logging.Field{Key: "url", Value: body.URL},
		logging.Field{Key: "field_count", Value: len(res.Fields)})
	writeJSON(w, http.StatusOK, res)
}

// handleMatch runs one match cycle over the supplied fields.
//
//	@Summary  Match fields against stored records
//	@Accept   json
//	@Produce  json
//	@Param    request body MatchRequest true "fields to match"
//	@Success  200 {object} model.MatchReport
//	@Failure  400 {object} ErrorResponse
//	@Router   /match [post]
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var body MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	report, err := s.app.Match(r.Context(), body.Fields)
	if err != nil {
		s.logger.Warn("matching fields", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleSuggestions ranks UI suggestions for one match result.
//
//	@Summary  Build suggestions from a match result
//	@Accept   json
//	@Produce  json
//	@Param    request body SuggestionsRequest true "match result"
//	@Success  200 {object} SuggestionsResponse
//	@Failure  400 {object} ErrorResponse
//	@Router   /suggestions [post]
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	var body SuggestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	sugs := s.app.Engine().GetSuggestions(body.Match)
	writeJSON(w, http.StatusOK, SuggestionsResponse{Suggestions: sugs})
}

// Rule administration

// handleListRules lists the active rule table.
//
//	@Summary  List rules
//	@Produce  json
//	@Success  200 {array} rules.Rule
//	@Router   /rules [get]
func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	table := s.app.Engine().Rules().Table()
	writeJSON(w, http.StatusOK, table.List())
}

// handleAddRule adds a rule for a new field type.
//
//	@Summary  Add a rule
//	@Accept   json
//	@Produce  json
//	@Param    request body rules.Rule true "rule to add"
//	@Success  201 {object} rules.Rule
//	@Failure  400 {object} ErrorResponse
//	@Failure  409 {object} ErrorResponse
//	@Router   /rules [post]
func (s *Server) handleAddRule(w http.ResponseWriter, r *http.Request) {
	var rule rules.Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := s.app.Engine().Rules().AddRule(rule); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, rules.ErrRuleExists) {
			status = http.StatusConflict
		}
		s.logger.Warn("adding rule", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, status, err.Error())
		return
	}
	s.logger.Info("added rule", logging.Field{Key: "field_type", Value: rule.FieldType})
	writeJSON(w, http.StatusCreated, rule)
}

// handleUpdateRule replaces the rule for an existing field type.
//
//	@Summary  Update a rule
//	@Accept   json
//	@Produce  json
//	@Param    fieldType path string true "field type"
//	@Param    request body rules.Rule true "replacement rule"
//	@Success  200 {object} rules.Rule
//	@Failure  400 {object} ErrorResponse
//	@Failure  404 {object} ErrorResponse
//	@Router   /rules/{fieldType} [put]
func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	fieldType := chi.URLParam(r, "fieldType")

	var rule rules.Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	rule.FieldType = fieldType

	if err := s.app.Engine().Rules().UpdateRule(rule); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, rules.ErrRuleNotFound) {
			status = http.StatusNotFound
		}
		s.logger.Warn("updating rule", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, status, err.Error())
		return
	}
	s.logger.Info("updated rule", logging.Field{Key: "field_type", Value: fieldType})
	writeJSON(w, http.StatusOK, rule)
}

// handleDeleteRule removes the rule for a field type.
//
//	@Summary  Delete a rule
//	@Produce  json
//	@Param    fieldType path string true "field type"
//	@Success  204
//	@Failure  404 {object} ErrorResponse
//	@Router   /rules/{fieldType} [delete]
func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	fieldType := chi.URLParam(r, "fieldType")

	if err := s.app.Engine().Rules().DeleteRule(fieldType); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.logger.Info("deleted rule", logging.Field{Key: "field_type", Value: fieldType})
	writeJSON(w, http.StatusNoContent, nil)
}

// Cache

// handleCacheStats reports cache occupancy.
//
//	@Summary  Cache stats
//	@Produce  json
//	@Success  200 {object} CacheStatsResponse
//	@Router   /cache/stats [get]
func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	c := s.app.Engine().Cache()
	writeJSON(w, http.StatusOK, CacheStatsResponse{
		Entries:    c.Len(),
		MaxEntries: c.MaxEntries(),
	})
}

// handleClearCache drops every cached entry.
//
//	@Summary  Clear the cache
//	@Success  204
//	@Router   /cache [delete]
func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	s.app.Engine().Cache().Clear()
	s.logger.Info("cleared cache")
	writeJSON(w, http.StatusNoContent, nil)
}

// handleCacheSnapshot persists the cache to the snapshot store.
//
//	@Summary  Snapshot the cache
//	@Produce  json
//	@Success  204
//	@Failure  500 {object} ErrorResponse
//	@Router   /cache/snapshot [post]
func (s *Server) handleCacheSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Engine().SnapshotCache(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("snapshotted cache")
	writeJSON(w, http.StatusNoContent, nil)
}

// handleCacheRestore loads the persisted cache snapshot.
//
//	@Summary  Restore the cache
//	@Produce  json
//	@Success  204
//	@Failure  500 {object} ErrorResponse
//	@Router   /cache/restore [post]
func (s *Server) handleCacheRestore(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Engine().RestoreCache(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("restored cache")
	writeJSON(w, http.StatusNoContent, nil)
}

// Monitors

// handleCreateMonitor starts a polling page monitor.
//
//	@Summary  Start a monitor
//	@Accept   json
//	@Produce  json
//	@Param    request body CreateMonitorRequest true "page to monitor"
//	@Success  201 {object} app.MonitorInfo
//	@Failure  400 {object} ErrorResponse
//	@Router   /monitors [post]
func (s *Server) handleCreateMonitor(w http.ResponseWriter, r *http.Request) {
	var body CreateMonitorRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.URL == "" {
		writeError(w, http.StatusBadRequest, "missing url")
		return
	}

	info, err := s.app.StartMonitor(body.URL, time.Duration(body.IntervalSeconds)*time.Second)
	if err != nil {
		s.logger.Warn("starting monitor", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Info("started monitor",
		logging.Field{Key: "monitor_id", Value: info.ID},
		logging.Field{Key: "url", Value: info.URL})
	writeJSON(w, http.StatusCreated, info)
}

// handleListMonitors lists running monitors.
//
//	@Summary  List monitors
//	@Produce  json
//	@Success  200 {array} app.MonitorInfo
//	@Router   /monitors [get]
func (s *Server) handleListMonitors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.ListMonitors())
}

// handleStopMonitor cancels a running monitor.
//
//	@Summary  Stop a monitor
//	@Produce  json
//	@Param    monitorID path string true "monitor id"
//	@Success  204
//	@Failure  404 {object} ErrorResponse
//	@Router   /monitors/{monitorID} [delete]
func (s *Server) handleStopMonitor(w http.ResponseWriter, r *http.Request) {
	monitorID := chi.URLParam(r, "monitorID")
	if !s.app.StopMonitor(monitorID) {
		writeError(w, http.StatusNotFound, "monitor not found")
		return
	}
	s.logger.Info("stopped monitor", logging.Field{Key: "monitor_id", Value: monitorID})
	writeJSON(w, http.StatusNoContent, nil)
}

// WebSockets

// handleMonitorWS streams a monitor's enriched field events.
func (s *Server) handleMonitorWS(w http.ResponseWriter, r *http.Request) {
	monitorID := chi.URLParam(r, "monitorID")

	events, cancel, ok := s.app.Subscribe(monitorID)
	if !ok {
		writeError(w, http.StatusNotFound, "monitor not found")
		return
	}
	defer cancel()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	for ev := range events {
		if err := conn.WriteJSON(ev); err != nil {
			// Assume client disconnected.
			return
		}
	}
}
