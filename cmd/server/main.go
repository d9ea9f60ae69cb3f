package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nguyentantai21042004/meeting-recorder/internal/config"
	"github.com/nguyentantai21042004/meeting-recorder/internal/importer"
	"github.com/nguyentantai21042004/meeting-recorder/internal/logger"
	"github.com/nguyentantai21042004/meeting-recorder/internal/modelfetch"
	"github.com/nguyentantai21042004/meeting-recorder/internal/processor"
	"github.com/nguyentantai21042004/meeting-recorder/internal/server"
	"github.com/nguyentantai21042004/meeting-recorder/internal/storage"
	"github.com/nguyentantai21042004/meeting-recorder/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-recorder/internal/transcriber"
	"github.com/nguyentantai21042004/meeting-recorder/pkg/executor"
)

const cleanupInterval = time.Hour

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
	log.Info(ctx, "Meeting Recorder")
	log.Info(ctx, "========================================")

	// Precondition: the speech model must be installed before serving.
	if !modelfetch.New(cfg, log).Installed() {
		log.Error(ctx, "Speech model not found at %s", cfg.ModelPath())
		log.Error(ctx, "Run the installer first")
		os.Exit(1)
	}

	// Verify required directories exist
	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	// Initialize dependencies
	exec := executor.New()
	store := storage.New(cfg, log)

	tr, err := transcriber.New(cfg, exec, log)
	if err != nil {
		log.Error(ctx, "Failed to create transcriber: %v", err)
		os.Exit(1)
	}

	sum := summarizer.New(cfg, log)
	proc := processor.New(cfg, store, tr, sum, exec, log)
	srv := server.New(cfg, store, proc, log)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 2)

	// Start server in goroutine
	go func() {
		if err := srv.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	// Start the import watcher when enabled
	var imp importer.Importer
	if cfg.Import.Enabled {
		imp, err = importer.New(cfg, proc.ProcessRecording, log)
		if err != nil {
			log.Error(ctx, "Failed to create import watcher: %v", err)
			os.Exit(1)
		}
		defer imp.Stop()

		go func() {
			if err := imp.Start(ctx); err != nil && err != context.Canceled {
				errChan <- err
			}
		}()
	}

	// Periodic session cleanup
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				store.CleanupExpired(ctx)
			}
		}
	}()

	ip := localIP()
	log.Info(ctx, "========================================")
	log.Info(ctx, "Meeting Recorder is ready!")
	log.Info(ctx, "Server:    http://%s:%d", ip, cfg.Server.Port)
	log.Info(ctx, "WebSocket: ws://%s:%d/ws", ip, cfg.Server.Port)
	log.Info(ctx, "Client:    http://%s:%d/client", ip, cfg.Server.Port)
	log.Info(ctx, "")
	log.Info(ctx, "Model: %s", cfg.ModelPath())
	log.Info(ctx, "Sessions: %s", cfg.Storage.SessionsDir)
	if cfg.Import.Enabled {
		log.Info(ctx, "Import folder: %s", cfg.Import.Dir)
	}
	log.Info(ctx, "")
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Server error: %v", err)
	}

	// Graceful shutdown
	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "Server shutdown: %v", err)
	}

	log.Info(ctx, "Meeting Recorder stopped")
}

// ensureDirectories creates required directories if they don't exist
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

// localIP finds the address other devices on the network can reach us at.
func localIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()

	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}
