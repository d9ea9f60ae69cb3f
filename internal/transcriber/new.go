package transcriber

import (
	"fmt"
	"os"
	"sync"

	"github.com/nguyentantai21042004/meeting-recorder/internal/config"
	"github.com/nguyentantai21042004/meeting-recorder/internal/logger"
	"github.com/nguyentantai21042004/meeting-recorder/pkg/executor"
)

type implTranscriber struct {
	cfg      *config.Config
	executor executor.Executor
	logger   logger.Logger

	mu       sync.Mutex
	partials map[string]string
}

// New creates a Transcriber backed by the configured recognizer binary.
// The model directory must already exist; missing models are fatal at startup.
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) (Transcriber, error) {
	modelPath := cfg.ModelPath()
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("speech model not found at %s, run the installer first: %w", modelPath, err)
	}

	return &implTranscriber{
		cfg:      cfg,
		executor: exec,
		logger:   log,
		partials: make(map[string]string),
	}, nil
}
