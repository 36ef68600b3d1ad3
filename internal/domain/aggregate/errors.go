package aggregate

import "errors"

// ErrInvalidFilter is returned for unrecognised filter parameters.
var ErrInvalidFilter = errors.New("invalid filter")
