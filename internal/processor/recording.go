package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProcessRecording turns a complete recording dropped into the import folder
// into a finished session: one conversion, one transcription pass, final
// summary, then the source file is archived.
func (p *implProcessor) ProcessRecording(ctx context.Context, filePath string) error {
	if err := p.sem.acquire(ctx); err != nil {
		return fmt.Errorf("acquire worker slot: %w", err)
	}
	defer p.sem.release()

	startTime := time.Now()

	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	sessionID := fmt.Sprintf("import-%s-%s", base, uuid.NewString()[:8])

	p.logger.Info(ctx, "Importing recording %s as session %s", filePath, sessionID)

	if _, err := p.store.CreateSession(sessionID); err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	wavPath, err := p.convertToWAV(ctx, sessionID, 0, filePath)
	if err != nil {
		return fmt.Errorf("convert recording: %w", err)
	}

	text, err := p.transcriber.TranscribeChunk(ctx, sessionID, wavPath)
	if err != nil {
		return fmt.Errorf("transcribe recording: %w", err)
	}

	if text != "" {
		if err := p.store.AppendTranscript(sessionID, text); err != nil {
			return fmt.Errorf("append transcript: %w", err)
		}
		p.broadcast(ctx, newTranscriptUpdate(sessionID, text, text))
	}

	if err := p.FinalizeSession(ctx, sessionID); err != nil {
		return fmt.Errorf("finalize imported session: %w", err)
	}

	if err := p.archiveRecording(ctx, filePath); err != nil {
		p.logger.Warn(ctx, "Failed to archive recording %s: %v", filePath, err)
	}

	p.logger.Info(ctx, "Imported %s in %s", filePath, time.Since(startTime))
	return nil
}

func (p *implProcessor) archiveRecording(ctx context.Context, filePath string) error {
	if err := os.MkdirAll(p.cfg.Import.ArchivedDir, 0755); err != nil {
		return fmt.Errorf("create archived dir: %w", err)
	}

	dest := filepath.Join(p.cfg.Import.ArchivedDir, filepath.Base(filePath))
	p.logger.Debug(ctx, "Archiving recording: %s -> %s", filePath, dest)

	if err := os.Rename(filePath, dest); err != nil {
		return fmt.Errorf("move recording: %w", err)
	}

	return nil
}
