package pacing

import "errors"

var (
	// ErrConfirmationFailed wraps the error of a confirmation read that ended
	// without a confirmation.
	ErrConfirmationFailed = errors.New("awaiting confirmation failed")
	// ErrReset is returned to a caller waiting for a confirmation when the
	// pacer is reset underneath it.
	ErrReset = errors.New("pacer was reset")
)
