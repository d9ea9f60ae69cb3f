package summarizer

import (
	"sync"

	"github.com/nguyentantai21042004/meeting-recorder/internal/config"
	"github.com/nguyentantai21042004/meeting-recorder/internal/logger"
)

type implSummarizer struct {
	cfg     *config.Config
	logger  logger.Logger
	apiKeys []string
	model   string

	// keyMu guards currentKey; Summarize runs from several goroutines.
	keyMu      sync.Mutex
	currentKey int
}

// New creates a Summarizer. The extractive ranker always works locally; when
// Gemini API keys are configured the abstractive backend is preferred, with
// the extractive result as fallback.
func New(cfg *config.Config, log logger.Logger) Summarizer {
	return &implSummarizer{
		cfg:     cfg,
		logger:  log,
		apiKeys: cfg.Summary.GeminiAPIKeys,
		model:   cfg.Summary.GeminiModel,
	}
}
