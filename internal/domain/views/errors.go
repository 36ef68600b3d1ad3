package views

import "errors"

var (
	ErrUnknownView   = errors.New("unknown view")
	ErrNoLayout      = errors.New("view has no layout")
	ErrEmptyView     = errors.New("view has no points")
	ErrInvalidParams = errors.New("invalid view parameters")
)
