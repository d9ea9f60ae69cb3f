package modelfetch

import "context"

// Installer fetches and unpacks the speech-recognition model archive.
type Installer interface {
	// Installed reports whether the model directory already exists.
	Installed() bool

	// EnsureModel downloads and unpacks the model if it is not installed.
	// Returns true when a download happened, false when the model was
	// already in place.
	EnsureModel(ctx context.Context) (bool, error)
}
