package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrUnavailable reports that the dataset failed to load; the load error
	// is wrapped alongside.
	ErrUnavailable = errors.New("dataset unavailable")
	// ErrInvalidQuery rejects malformed request parameters.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNotStarted is returned before Start has loaded the dataset.
	ErrNotStarted = errors.New("service not started")
)
