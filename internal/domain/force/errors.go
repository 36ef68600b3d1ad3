package force

import "errors"

var (
	// ErrInvalidInput rejects a malformed point set or configuration before
	// the first tick.
	ErrInvalidInput = errors.New("invalid layout input")
	// ErrCancelled is returned when a run is stopped before converging.
	ErrCancelled = errors.New("layout cancelled")
)
