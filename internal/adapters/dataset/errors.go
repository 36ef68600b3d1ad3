package dataset

import "errors"

// Sentinel kinds for dataset errors.
var (
	// ErrDataLoad is the single terminal failure of a load; the cause is wrapped.
	ErrDataLoad = errors.New("dataset load failed")
	// ErrNoSource reports a path with no readable billionaire files.
	ErrNoSource = errors.New("no dataset source found")
)
