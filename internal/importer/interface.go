package importer

import "context"

// Importer watches the import directory and turns dropped recordings into
// finished sessions.
type Importer interface {
	Start(ctx context.Context) error
	Stop() error
}

// RecordingHandler processes one imported recording file.
type RecordingHandler func(ctx context.Context, filePath string) error
