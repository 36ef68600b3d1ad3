// Package views turns a dashboard view selection into layout plans: the
// filtered point sets, force configuration, axes and radius scale each
// chart needs.
package views

import (
	"fmt"
	"strings"
)

// Kind names a dashboard view.
type Kind string

const (
	Scatter    Kind = "scatter"
	Timeline   Kind = "timeline"
	SelfMade   Kind = "selfmade"
	Age        Kind = "age"
	Industry   Kind = "industry"
	Map        Kind = "map"
	Conclusion Kind = "conclusion"
)

// Info describes a view for the catalogue.
type Info struct {
	Kind   Kind   `json:"id"`
	Label  string `json:"label"`
	Layout bool   `json:"layout"`
}

var catalog = []Info{
	{Scatter, "Scatter", true},
	{Timeline, "Timeline", true},
	{SelfMade, "Self-Made vs Inherited", true},
	{Age, "Age Distribution", true},
	{Industry, "Industry", true},
	{Map, "Global Distribution", false},
	{Conclusion, "Conclusion", false},
}

// Catalog lists every view in menu order.
func Catalog() []Info {
	out := make([]Info, len(catalog))
	copy(out, catalog)
	return out
}

// ParseKind resolves a view name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, info := range catalog {
		if info.Kind == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
}

// HasLayout reports whether the view is drawn with a force layout.
func (k Kind) HasLayout() bool {
	for _, info := range catalog {
		if info.Kind == k {
			return info.Layout
		}
	}
	return false
}
