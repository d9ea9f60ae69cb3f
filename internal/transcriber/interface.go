package transcriber

import "context"

// Transcriber converts 16kHz mono WAV chunks into text. Recognition state is
// tracked per session so trailing partial results can be flushed at the end.
type Transcriber interface {
	TranscribeChunk(ctx context.Context, sessionID, wavPath string) (string, error)
	FinalizeSession(ctx context.Context, sessionID string) (string, error)
}
