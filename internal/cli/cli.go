package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// CLIArgs are the command-line arguments that control a server run.
// Keep this small for now; add fields as modules need them.
type CLIArgs struct {
	// Addr is the HTTP listen address for the API server.
	Addr string

	// StoreURL overrides the remote record store base URL; empty means "use
	// config default".
	StoreURL string

	// StorageRoot overrides the base path for the snapshot database; empty
	// means "use config default".
	StorageRoot string

	// Backend selects the webclient backend (nethttp or chromedp); empty
	// means "use config default".
	Backend string

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// ParseArgs parses a slice of args and returns CLIArgs. Use in tests by passing
// arbitrary slices. The function is deterministic and does not read os.Args.
func ParseArgs(args []string) (*CLIArgs, error) {
	fs := flag.NewFlagSet("datadam", flag.ContinueOnError)
	var (
		addr        = fs.String("addr", ":8080", "HTTP listen address")
		storeURL    = fs.String("store-url", "", "Record store base URL (empty=use default)")
		storageRoot = fs.String("storage-root", "", "Snapshot database directory (empty=use default)")
		backend     = fs.String("backend", "", "Webclient backend: nethttp|chromedp (empty=use default)")
	)

	// Ensure Parse doesn't write to stdout/stderr in tests
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if strings.TrimSpace(*addr) == "" {
		return nil, fmt.Errorf("missing required -addr argument")
	}

	return &CLIArgs{
		Addr:        *addr,
		StoreURL:    *storeURL,
		StorageRoot: *storageRoot,
		Backend:     *backend,
		RawArgs:     args,
	}, nil
}
