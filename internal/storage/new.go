package storage

import (
	"sync"
	"time"

	"github.com/nguyentantai21042004/meeting-recorder/internal/config"
	"github.com/nguyentantai21042004/meeting-recorder/internal/logger"
)

type session struct {
	meta        SessionMeta
	transcript  string
	summary     string
	expectedSeq int
	buffered    map[int]string
	lastSummary time.Time
}

type implStorage struct {
	cfg      *config.Config
	logger   logger.Logger
	mu       sync.Mutex
	sessions map[string]*session
}

// New creates a Storage backed by the configured sessions directory.
func New(cfg *config.Config, log logger.Logger) Storage {
	return &implStorage{
		cfg:      cfg,
		logger:   log,
		sessions: make(map[string]*session),
	}
}
