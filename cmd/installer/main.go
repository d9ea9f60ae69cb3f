package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nguyentantai21042004/meeting-recorder/internal/config"
	"github.com/nguyentantai21042004/meeting-recorder/internal/logger"
	"github.com/nguyentantai21042004/meeting-recorder/internal/modelfetch"
)

func main() {
	ctx := context.Background()

	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Meeting Recorder installer")
	log.Info(ctx, "========================================")

	// Cancel the download on Ctrl+C
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	downloaded, err := modelfetch.New(cfg, log).EnsureModel(ctx)
	if err != nil {
		log.Error(ctx, "Model installation failed: %v", err)
		os.Exit(1)
	}

	if downloaded {
		log.Info(ctx, "Model downloaded and unpacked")
	}

	log.Info(ctx, "========================================")
	log.Info(ctx, "Installation complete")
	log.Info(ctx, "Start the server with: ./server %s", configPath)
	log.Info(ctx, "========================================")
}

// ensureDirectories creates the directory layout the server expects.
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Storage.SessionsDir,
		cfg.Model.Dir,
		cfg.Import.Dir,
		cfg.Import.ArchivedDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
