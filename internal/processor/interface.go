package processor

import "context"

// Processor runs uploaded chunks and imported recordings through the
// convert -> transcribe -> summarize pipeline.
type Processor interface {
	ProcessChunk(ctx context.Context, sessionID string, seq int, chunkPath string) error
	FinalizeSession(ctx context.Context, sessionID string) error
	ProcessRecording(ctx context.Context, filePath string) error
	SetBroadcaster(b Broadcaster)
}

// Broadcaster pushes pipeline events to connected clients.
type Broadcaster interface {
	Broadcast(ctx context.Context, event interface{})
}
