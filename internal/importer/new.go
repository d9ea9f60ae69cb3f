package importer

import (
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/meeting-recorder/internal/config"
	"github.com/nguyentantai21042004/meeting-recorder/internal/logger"
)

// New creates an Importer watching the configured import directory.
func New(cfg *config.Config, handler RecordingHandler, log logger.Logger) (Importer, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(cfg.Import.Dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &implImporter{
		cfg:     cfg,
		handler: handler,
		logger:  log,
		watcher: watcher,
	}, nil
}
