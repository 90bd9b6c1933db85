package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/quantmind-br/depkg/internal/cmd"
	"github.com/quantmind-br/depkg/internal/config"
	"github.com/quantmind-br/depkg/internal/core"
	"github.com/quantmind-br/depkg/internal/logging"
	"github.com/quantmind-br/depkg/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return core.ExitGeneral
	}

	ui.InitColors(cfg.Logging.Color)
	log := logging.NewLogger(logging.Config{
		Level:   cfg.Logging.Level,
		LogFile: cfg.Paths.LogFile,
		NoColor: logging.NoColorFor(cfg.Logging.Color),
	})

	rootCmd := cmd.NewRootCmd(cfg, log, version)
	executed, err := rootCmd.ExecuteContextC(ctx)
	if err != nil {
		var op core.Operation
		if executed != nil {
			op = core.Operation(executed.Name())
		}
		code := core.ExitCodeFor(err, op)
		log.Error().Err(err).Int("exit_code", code).Msg("command failed")
		return code
	}
	return core.ExitSuccess
}

// loadConfig reads DEPKG_CONFIG when set, otherwise searches the default locations
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("DEPKG_CONFIG"); path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
