package executor

import "context"

// Executor runs external commands (ffmpeg, the recognizer) and returns their
// standard output.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
}
