package scale

import "errors"

// ErrNumericDegeneracy reports a domain that would divide by zero. The
// mapper still works, using a span of 1 in place of the degenerate one.
var ErrNumericDegeneracy = errors.New("numeric degeneracy")
