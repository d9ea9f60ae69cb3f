package processor

import (
	"context"
	"fmt"
	"strings"
)

// FinalizeSession flushes pending recognizer output, produces the final
// summary and marks the session ended.
func (p *implProcessor) FinalizeSession(ctx context.Context, sessionID string) error {
	// Let any in-flight chunk for this session finish first.
	lock := p.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	p.logger.Info(ctx, "[%s] Finalizing session...", sessionID)

	finalText, err := p.transcriber.FinalizeSession(ctx, sessionID)
	if err != nil {
		p.logger.Warn(ctx, "[%s] Recognizer flush failed: %v", sessionID, err)
	}
	if finalText != "" {
		if err := p.store.AppendTranscript(sessionID, finalText); err != nil {
			return fmt.Errorf("append final text: %w", err)
		}
	}

	transcript := p.store.Transcript(sessionID)
	if len(strings.Fields(transcript)) >= 10 {
		summary, err := p.summarizer.Summarize(ctx, transcript)
		if err != nil {
			p.logger.Error(ctx, "[%s] Final summary failed: %v", sessionID, err)
		} else if summary != "" {
			if err := p.store.SetSummary(sessionID, summary); err != nil {
				return fmt.Errorf("store final summary: %w", err)
			}
			p.broadcast(ctx, newSummaryEvent(sessionID, summary))
		}
	}

	if err := p.store.MarkEnded(sessionID); err != nil {
		return fmt.Errorf("mark session ended: %w", err)
	}

	p.broadcast(ctx, newSessionEnded(sessionID, p.store.Transcript(sessionID), p.store.Summary(sessionID)))

	return nil
}
