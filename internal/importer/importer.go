package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/meeting-recorder/internal/config"
	"github.com/nguyentantai21042004/meeting-recorder/internal/logger"
)

// settleDelay gives the writer time to finish before the file is picked up.
const settleDelay = 500 * time.Millisecond

type implImporter struct {
	cfg     *config.Config
	handler RecordingHandler
	logger  logger.Logger
	watcher *fsnotify.Watcher
	wg      sync.WaitGroup
}

// Start monitors the import directory for new recordings until the context is
// cancelled. Concurrency is bounded by the processor's worker pool.
func (i *implImporter) Start(ctx context.Context) error {
	i.logger.Info(ctx, "Import watcher started. Monitoring: %s", i.cfg.Import.Dir)
	i.logger.Info(ctx, "Supported formats: %s", strings.Join(i.cfg.Audio.Formats, ", "))

	for {
		select {
		case <-ctx.Done():
			i.logger.Info(ctx, "Waiting for ongoing imports to complete...")
			i.wg.Wait()
			i.logger.Info(ctx, "Import watcher stopped")
			return ctx.Err()

		case event, ok := <-i.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !i.isAudioFile(event.Name) {
				i.logger.Debug(ctx, "Ignoring non-audio file: %s", event.Name)
				continue
			}

			i.logger.Info(ctx, "New recording detected: %s", event.Name)
			time.Sleep(settleDelay)

			i.wg.Add(1)
			go func(filePath string) {
				defer i.wg.Done()
				if err := i.handler(ctx, filePath); err != nil {
					i.logger.Error(ctx, "Failed to import %s: %v", filePath, err)
				}
			}(event.Name)

		case err, ok := <-i.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			i.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (i *implImporter) Stop() error {
	return i.watcher.Close()
}

func (i *implImporter) isAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range i.cfg.Audio.Formats {
		if ext == format {
			return true
		}
	}
	return false
}
