// Command demosite starts the demo site used for local development.
// Usage: go run ./cmd/demosite [port]
// Default port: 9090
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/KennethLeeJE8/datadam-sub000/internal/demosite"
)

func main() {
	cfg := demosite.DefaultConfig()

	// Optional: custom port from command line
	if len(os.Args) > 1 {
		port, err := strconv.Atoi(os.Args[1])
		if err != nil || port < 1 || port > 65535 {
			log.Fatalf("Invalid port: %s", os.Args[1])
		}
		cfg.Port = port
	}

	fmt.Println("Demo site for the datadam scanner and engine.")
	fmt.Println()
	fmt.Println("Pages: /signup /checkout /contact /profile /search")
	fmt.Println("Record store: POST /records/query")
	fmt.Println("Version switching: POST /demo/set-version, /demo/bump-all, /demo/reset")
	fmt.Println()

	site := demosite.NewDemoSite(cfg)
	if err := site.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
