package repository

import "errors"

// Sentinel kinds for rich list errors.
var (
	ErrNotFound     = errors.New("billionaire not found")
	ErrInvalidLimit = errors.New("invalid rich list limit")
)
