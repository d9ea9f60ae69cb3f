package processor

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ProcessChunk handles one uploaded chunk, respecting sequence order:
// duplicates are dropped, future chunks are buffered, and the expected chunk
// is processed followed by any buffered chunks that became ready.
func (p *implProcessor) ProcessChunk(ctx context.Context, sessionID string, seq int, chunkPath string) error {
	if err := p.sem.acquire(ctx); err != nil {
		return fmt.Errorf("acquire worker slot: %w", err)
	}
	defer p.sem.release()

	lock := p.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	expected := p.store.ExpectedSeq(sessionID)

	if seq < expected {
		p.logger.Debug(ctx, "[%s] Ignoring duplicate chunk %d (expected %d)", sessionID, seq, expected)
		return nil
	}

	if seq > expected {
		p.logger.Debug(ctx, "[%s] Buffering future chunk %d (expected %d)", sessionID, seq, expected)
		p.store.BufferChunk(sessionID, seq, chunkPath)
		return nil
	}

	if err := p.handleChunk(ctx, sessionID, seq, chunkPath); err != nil {
		return err
	}
	p.store.AdvanceSeq(sessionID)

	// Drain buffered chunks that are now in order.
	for {
		next := p.store.ExpectedSeq(sessionID)
		path, ok := p.store.TakeBufferedChunk(sessionID, next)
		if !ok {
			break
		}

		p.logger.Debug(ctx, "[%s] Processing buffered chunk %d", sessionID, next)
		if err := p.handleChunk(ctx, sessionID, next, path); err != nil {
			return err
		}
		p.store.AdvanceSeq(sessionID)
	}

	return nil
}

// handleChunk converts, transcribes and publishes a single in-order chunk.
func (p *implProcessor) handleChunk(ctx context.Context, sessionID string, seq int, chunkPath string) error {
	timeout := time.Duration(p.cfg.Workers.ChunkTimeoutSeconds) * time.Second
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	wavPath, err := p.convertToWAV(cctx, sessionID, seq, chunkPath)
	if err != nil {
		return fmt.Errorf("convert chunk %d: %w", seq, err)
	}

	text, err := p.transcriber.TranscribeChunk(cctx, sessionID, wavPath)
	if err != nil {
		// A failed recognition must not stall the sequence.
		p.logger.Warn(ctx, "[%s] Transcription failed for chunk %d: %v", sessionID, seq, err)
		return nil
	}

	if text == "" {
		return nil
	}

	if err := p.store.AppendTranscript(sessionID, text); err != nil {
		return fmt.Errorf("append transcript: %w", err)
	}

	p.broadcast(ctx, newTranscriptUpdate(sessionID, text, p.store.Transcript(sessionID)))

	if p.store.ShouldSummarize(sessionID) {
		p.generateSummary(ctx, sessionID)
	}

	return nil
}

// generateSummary summarizes the running transcript and broadcasts the result.
// Failures are logged, not propagated: a missing interim summary is harmless.
func (p *implProcessor) generateSummary(ctx context.Context, sessionID string) {
	transcript := p.store.Transcript(sessionID)
	if len(strings.Fields(transcript)) < 30 {
		return
	}

	p.logger.Info(ctx, "[%s] Generating summary...", sessionID)

	summary, err := p.summarizer.Summarize(ctx, transcript)
	if err != nil {
		p.logger.Error(ctx, "[%s] Summary generation failed: %v", sessionID, err)
		return
	}
	if summary == "" {
		return
	}

	if err := p.store.SetSummary(sessionID, summary); err != nil {
		p.logger.Error(ctx, "[%s] Failed to store summary: %v", sessionID, err)
		return
	}

	p.broadcast(ctx, newSummaryEvent(sessionID, summary))
}
