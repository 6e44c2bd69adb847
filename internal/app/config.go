package app

import (
	"github.com/KennethLeeJE8/datadam-sub000/internal/cache"
	"github.com/KennethLeeJE8/datadam-sub000/internal/engine"
	"github.com/KennethLeeJE8/datadam-sub000/internal/records"
	"github.com/KennethLeeJE8/datadam-sub000/internal/scanner"
	"github.com/KennethLeeJE8/datadam-sub000/internal/utils"
	"github.com/KennethLeeJE8/datadam-sub000/internal/webclient"
)

// Config aggregates the per-module configuration required to wire a running
// instance.
type Config struct {
	// ServerAddr is the listen address of the HTTP API.
	ServerAddr string

	// StorageRoot is the base path where the snapshot database lives.
	StorageRoot string

	// SnapshotOnClose persists the cache through the kv store at shutdown.
	SnapshotOnClose bool

	RecordStore records.Config
	WebClient   webclient.Config
	Scanner     scanner.Config
	Cache       cache.Config
	Engine      engine.Config
	URL         utils.CanonicalizeOptions
}

// DefaultConfig returns a Config populated with sensible development defaults.
func DefaultConfig() *Config {
	return &Config{
		ServerAddr:      ":8080",
		StorageRoot:     "~/.config/datadam",
		SnapshotOnClose: true,
		RecordStore:     records.DefaultConfig(),
		WebClient:       webclient.DefaultConfig(),
		Scanner:         scanner.DefaultConfig(),
		Cache:           cache.DefaultConfig(),
		Engine:          engine.DefaultConfig(),
		URL: utils.CanonicalizeOptions{
			DropTrackingParams: true,
			StripTrailingSlash: true,
			DefaultScheme:      "https",
		},
	}
}
