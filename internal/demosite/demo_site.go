// Package demosite serves a small site whose forms exercise the scanner and
// whose record-query endpoint feeds the engine. Page versions can be switched
// at runtime to change form structure, which is what monitors react to.
package demosite

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
)

// DemoSite is a simple HTTP server backing local development and demos.
type DemoSite struct {
	cfg      Config
	pages    map[string]PageDefinition
	versions map[string]int // path -> current version
	mu       sync.RWMutex
}

// NewDemoSite creates a new demo site instance.
func NewDemoSite(cfg Config) *DemoSite {
	pages := AllPages()
	pageMap := make(map[string]PageDefinition)
	versions := make(map[string]int)

	for _, p := range pages {
		pageMap[p.Path] = p
		versions[p.Path] = cfg.InitialVersion
	}

	return &DemoSite{
		cfg:      cfg,
		pages:    pageMap,
		versions: versions,
	}
}

// Handler builds the site's HTTP handler.
func (s *DemoSite) Handler() http.Handler {
	mux := http.NewServeMux()

	for path := range s.pages {
		p := path // capture for closure
		mux.HandleFunc(p, s.pageHandler(p))
	}

	// Version switching
	mux.HandleFunc("/demo/set-version", s.setVersionHandler)
	mux.HandleFunc("/demo/get-versions", s.getVersionsHandler)
	mux.HandleFunc("/demo/bump-all", s.bumpAllVersionsHandler)
	mux.HandleFunc("/demo/reset", s.resetVersionsHandler)

	// Canned record store for the engine
	mux.HandleFunc("/records/query", s.recordsQueryHandler)

	return mux
}

// Start starts the demo site.
func (s *DemoSite) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	fmt.Printf("Demo site starting on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// pageHandler returns a handler for a specific page path.
func (s *DemoSite) pageHandler(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		pageDef, ok := s.pages[path]
		version := s.versions[path]
		s.mu.RUnlock()

		if !ok {
			http.NotFound(w, r)
			return
		}

		html, ok := pageDef.Versions[version]
		if !ok {
			// Fall back to the closest lower version.
			for v := version; v >= 1; v-- {
				if h, exists := pageDef.Versions[v]; exists {
					html = h
					break
				}
			}
		}

		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(html))
	}
}

// setVersionHandler sets the version for a specific page.
func (s *DemoSite) setVersionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := r.FormValue("path")
	version, err := strconv.Atoi(r.FormValue("version"))
	if err != nil {
		http.Error(w, "Invalid version number", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	if _, ok := s.pages[path]; ok {
		s.versions[path] = version
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"path":    path,
		"version": version,
	})
}

// getVersionsHandler returns the current versions of all pages.
func (s *DemoSite) getVersionsHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type pageInfo struct {
		Path              string `json:"path"`
		Description       string `json:"description"`
		CurrentVersion    int    `json:"current_version"`
		AvailableVersions []int  `json:"available_versions"`
	}

	var pages []pageInfo
	for path, pageDef := range s.pages {
		var versions []int
		for v := range pageDef.Versions {
			versions = append(versions, v)
		}
		pages = append(pages, pageInfo{
			Path:              path,
			Description:       pageDef.Description,
			CurrentVersion:    s.versions[path],
			AvailableVersions: versions,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(pages)
}

// bumpAllVersionsHandler increments the version of all pages, capped at the
// highest version each page defines.
func (s *DemoSite) bumpAllVersionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	for path := range s.versions {
		maxV := 1
		for v := range s.pages[path].Versions {
			if v > maxV {
				maxV = v
			}
		}
		if s.versions[path] < maxV {
			s.versions[path]++
		}
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "All versions bumped",
	})
}

// resetVersionsHandler resets all pages to version 1.
func (s *DemoSite) resetVersionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	for path := range s.versions {
		s.versions[path] = 1
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "All versions reset to 1",
	})
}

// recordsQueryHandler answers record-store queries with canned personal
// records so a locally running engine has something to match against.
func (s *DemoSite) recordsQueryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"records": demoRecords(),
	})
}

func demoRecords() []model.Record {
	created := time.Now().AddDate(0, 0, -7).UTC()
	return []model.Record{
		{
			ID:    "rec-contact-1",
			Title: "Personal contact card",
			Content: map[string]string{
				"email":      "jordan.reyes@example.com",
				"phone":      "+1 555 0100",
				"first_name": "Jordan",
				"last_name":  "Reyes",
				"full_name":  "Jordan Reyes",
			},
			Tags:      []string{"email", "phone", "name", "contact"},
			CreatedAt: created,
		},
		{
			ID:    "rec-address-1",
			Title: "Home address",
			Content: map[string]string{
				"address_line1": "742 Evergreen Terrace",
				"city":          "Springfield",
				"state":         "OR",
				"postal_code":   "97403",
				"country":       "United States",
			},
			Tags:      []string{"address", "shipping", "home"},
			CreatedAt: created,
		},
		{
			ID:    "rec-work-1",
			Title: "Work profile",
			Content: map[string]string{
				"company": "Example Labs",
				"email":   "jordan@examplelabs.test",
				"website": "https://examplelabs.test",
			},
			Tags:      []string{"work", "company", "email", "website"},
			CreatedAt: created.AddDate(0, -2, 0),
		},
		{
			ID:    "rec-account-1",
			Title: "Account details",
			Content: map[string]string{
				"username": "jreyes",
				"birthday": "1990-04-12",
			},
			Tags:      []string{"username", "birthday", "account"},
			CreatedAt: created,
		},
	}
}
