package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Lixing-Zhang/productos-api/internal/config"
	"github.com/Lixing-Zhang/productos-api/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	os.Exit(exitCode(rootCmd.Execute()))
}

// exitStatus carries a non-zero process exit code out of a command.
type exitStatus struct {
	code int
}

func (e *exitStatus) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// exitCode maps the error returned by the root command to a process exit
// code, printing it unless it only carries a status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var status *exitStatus
	if errors.As(err, &status) {
		return status.code
	}
	fmt.Fprintln(os.Stderr, err)
	return 1
}

var rootCmd = &cobra.Command{
	Use:           "productos-api",
	Short:         "Product catalog HTTP API",
	Long:          "productos-api serves create, list, update and delete operations over a product catalog stored in SQL.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initDBCmd)
}

// boot loads configuration from the environment and installs the default
// logger.
func boot() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewWithFormat(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	return cfg, log, nil
}
