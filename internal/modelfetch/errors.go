package modelfetch

import "errors"

// ErrHashMismatch is returned when the downloaded archive fails SHA-256
// verification.
var ErrHashMismatch = errors.New("archive hash mismatch")
