package api

import "errors"

// Error taxonomy for backend calls. Callers branch with errors.Is; the
// wrapped message carries the detail.
var (
	ErrNetwork    = errors.New("network failure")
	ErrAuth       = errors.New("not authenticated")
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrRejected   = errors.New("request rejected")
)
