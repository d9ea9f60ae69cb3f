package processor

import (
	"context"
	"sync"

	"github.com/nguyentantai21042004/meeting-recorder/internal/config"
	"github.com/nguyentantai21042004/meeting-recorder/internal/logger"
	"github.com/nguyentantai21042004/meeting-recorder/internal/storage"
	"github.com/nguyentantai21042004/meeting-recorder/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-recorder/internal/transcriber"
	"github.com/nguyentantai21042004/meeting-recorder/pkg/executor"
)

type implProcessor struct {
	cfg         *config.Config
	store       storage.Storage
	transcriber transcriber.Transcriber
	summarizer  summarizer.Summarizer
	executor    executor.Executor
	logger      logger.Logger
	sem         *semaphore

	mu          sync.RWMutex
	broadcaster Broadcaster

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

// New creates a Processor with bounded concurrency.
func New(cfg *config.Config, store storage.Storage, tr transcriber.Transcriber, sum summarizer.Summarizer, exec executor.Executor, log logger.Logger) Processor {
	return &implProcessor{
		cfg:         cfg,
		store:       store,
		transcriber: tr,
		summarizer:  sum,
		executor:    exec,
		logger:      log,
		sem:         newSemaphore(cfg.Workers.MaxConcurrent),
		locks:       make(map[string]*sync.Mutex),
	}
}

// sessionLock returns the mutex serializing one session's pipeline. The
// ordering decision, the processing itself and the buffer drain must not
// interleave across goroutines, or a chunk buffered between another upload's
// advance and drain is never picked up again.
func (p *implProcessor) sessionLock(id string) *sync.Mutex {
	p.lockMu.Lock()
	defer p.lockMu.Unlock()

	l, ok := p.locks[id]
	if !ok {
		l = &sync.Mutex{}
		p.locks[id] = l
	}
	return l
}

// SetBroadcaster wires the WebSocket hub in after construction. The hub and
// the processor reference each other, so one side is attached late.
func (p *implProcessor) SetBroadcaster(b Broadcaster) {
	p.mu.Lock()
	p.broadcaster = b
	p.mu.Unlock()
}

func (p *implProcessor) broadcast(ctx context.Context, event interface{}) {
	p.mu.RLock()
	b := p.broadcaster
	p.mu.RUnlock()

	if b != nil {
		b.Broadcast(ctx, event)
	}
}
