package api

import (
	"errors"
	"net/http"

	"github.com/okian/fortuna/internal/adapters/repository"
	service "github.com/okian/fortuna/internal/app"
	"github.com/okian/fortuna/internal/domain/aggregate"
	"github.com/okian/fortuna/internal/domain/force"
	"github.com/okian/fortuna/internal/domain/views"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrStream     = errors.New("stream failed")
)

// Error ties a failure to the handler operation that saw it.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.Op + ": " + e.Kind.Error()
	case e.Kind == nil:
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewKind reports a failure of kind in op with no further cause.
func NewKind(op string, kind error) error { return &Error{Op: op, Kind: kind} }

// Wrap attributes err to op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// WrapKind attributes err to op and classifies it as kind.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// classify maps an error to an HTTP status and a stable code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrUnavailable), errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, views.ErrUnknownView):
		return http.StatusNotFound, "unknown_view"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, views.ErrNoLayout):
		return http.StatusUnprocessableEntity, "no_layout"
	case errors.Is(err, views.ErrEmptyView):
		return http.StatusUnprocessableEntity, "empty_view"
	case errors.Is(err, repository.ErrInvalidLimit):
		return http.StatusBadRequest, "limit_exceeded"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidQuery),
		errors.Is(err, aggregate.ErrInvalidFilter),
		errors.Is(err, views.ErrInvalidParams),
		errors.Is(err, force.ErrInvalidInput):
		return http.StatusBadRequest, "bad_request"
	}
	return http.StatusInternalServerError, "internal_error"
}
