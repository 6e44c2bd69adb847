package server

import (
	"github.com/KennethLeeJE8/datadam-sub000/internal/app"
	"github.com/KennethLeeJE8/datadam-sub000/internal/logging"
)

type Config struct {
	// ListenAddr is the HTTP listen address for the API server.
	ListenAddr string

	// AppConfig configures the application the server wraps. Nil gets
	// defaults.
	AppConfig *app.Config

	// Logger receives request and handler logs. Nil gets a stdout logger.
	Logger logging.Logger
}
