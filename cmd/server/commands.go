package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/Lixing-Zhang/productos-api/internal/server"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/spf13/cobra"
)

// productos-api serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (default)",
	RunE:  runServe,
}

// productos-api init-db
var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the productos table if it does not exist and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := boot()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := server.InitStorage(ctx, cfg.Database); err != nil {
			return err
		}
		log.Info("storage initialized", "driver", cfg.Database.Driver)
		return nil
	},
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := boot()
	if err != nil {
		return err
	}

	log.Info("starting productos api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"db_driver", cfg.Database.Driver,
		"log_level", cfg.LogLevel,
	)

	app, err := server.NewApp(context.Background(), cfg, log)
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- app.ListenAndServe()
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
		map[string]gfshutdown.Operation{
			"productos-api": func(ctx context.Context) error {
				log.Info("shutting down server...")
				return app.Shutdown(ctx)
			},
		},
	)

	select {
	case err := <-serveErr:
		if err == nil {
			// Shutdown was called; wait for it to finish.
			return shutdownStatus(log, <-wait)
		}
		log.Error("server failed to start", "error", err)
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		if shutdownErr := app.Shutdown(ctx); shutdownErr != nil {
			log.Error("cleanup after failed start", "error", shutdownErr)
		}
		return err
	case code := <-wait:
		return shutdownStatus(log, code)
	}
}

// shutdownStatus logs the graceful shutdown result and turns a non-zero
// code into an error for the root command.
func shutdownStatus(log *slog.Logger, code int) error {
	log.Info("server stopped", "exit_code", code)
	if code != 0 {
		return &exitStatus{code: code}
	}
	return nil
}
