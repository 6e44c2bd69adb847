// Command datadam starts the field-matching API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KennethLeeJE8/datadam-sub000/internal/app"
	"github.com/KennethLeeJE8/datadam-sub000/internal/cli"
	"github.com/KennethLeeJE8/datadam-sub000/internal/logging"
	"github.com/KennethLeeJE8/datadam-sub000/internal/server"
)

func main() {
	logger := logging.NewStdoutLogger("datadam")

	args, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		logger.Error("parsing arguments", logging.Field{Key: "error", Value: err.Error()})
		os.Exit(2)
	}

	appCfg := app.DefaultConfig()
	appCfg.ServerAddr = args.Addr
	if args.StoreURL != "" {
		appCfg.RecordStore.BaseURL = args.StoreURL
	}
	if args.StorageRoot != "" {
		appCfg.StorageRoot = args.StorageRoot
	}
	if args.Backend != "" {
		appCfg.WebClient.Backend = args.Backend
	}

	srv, err := server.NewServer(server.Config{
		ListenAddr: args.Addr,
		AppConfig:  appCfg,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("creating server", logging.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
	defer srv.Close()

	httpSrv := srv.HTTPServer()

	go func() {
		logger.Info("listening", logging.Field{Key: "addr", Value: args.Addr})
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", logging.Field{Key: "error", Value: err.Error()})
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Warn("shutdown", logging.Field{Key: "error", Value: err.Error()})
	}
}
