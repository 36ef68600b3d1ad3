package aggregate

import (
	"fmt"
	"strings"

	"github.com/okian/fortuna/internal/domain/model"
)

// Predicate selects records.
type Predicate func(model.Billionaire) bool

// Filter keeps the records matching every predicate, preserving order.
func Filter(points []model.Billionaire, preds ...Predicate) []model.Billionaire {
	out := make([]model.Billionaire, 0, len(points))
	match := All(preds...)
	for _, p := range points {
		if match(p) {
			out = append(out, p)
		}
	}
	return out
}

// All matches when every predicate matches. No predicates match everything.
func All(preds ...Predicate) Predicate {
	return func(b model.Billionaire) bool {
		for _, p := range preds {
			if p != nil && !p(b) {
				return false
			}
		}
		return true
	}
}

// Any matches when at least one predicate matches.
func Any(preds ...Predicate) Predicate {
	return func(b model.Billionaire) bool {
		for _, p := range preds {
			if p != nil && p(b) {
				return true
			}
		}
		return false
	}
}

// Not inverts p.
func Not(p Predicate) Predicate {
	return func(b model.Billionaire) bool { return !p(b) }
}

func SelfMade(b model.Billionaire) bool  { return b.IsSelfMade }
func Inherited(b model.Billionaire) bool { return !b.IsSelfMade }
func HasAge(b model.Billionaire) bool    { return b.HasAge() }
func HasYear(b model.Billionaire) bool   { return b.HasYear() }

// InYear matches records observed in year y.
func InYear(y int) Predicate {
	return func(b model.Billionaire) bool { return b.Year != nil && *b.Year == y }
}

// WealthType selects records by how the wealth was obtained.
type WealthType string

const (
	WealthAll       WealthType = "all"
	WealthSelfMade  WealthType = "selfmade"
	WealthInherited WealthType = "inherited"
)

// ParseWealthType accepts all, selfmade or inherited. Empty means all.
func ParseWealthType(s string) (WealthType, error) {
	switch WealthType(strings.ToLower(strings.TrimSpace(s))) {
	case "", WealthAll:
		return WealthAll, nil
	case WealthSelfMade, "self-made", "self_made":
		return WealthSelfMade, nil
	case WealthInherited:
		return WealthInherited, nil
	}
	return "", fmt.Errorf("%w: wealth type %q", ErrInvalidFilter, s)
}

// Predicate returns the filter for w.
func (w WealthType) Predicate() Predicate {
	switch w {
	case WealthSelfMade:
		return SelfMade
	case WealthInherited:
		return Inherited
	default:
		return nil
	}
}
