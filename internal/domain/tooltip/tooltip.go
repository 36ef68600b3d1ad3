// Package tooltip answers hover queries: where to put a tooltip and what it
// says. Each query is self-contained; there is no highlight state.
package tooltip

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/okian/fortuna/internal/domain/model"
)

const (
	offset = 10
	inset  = 10
)

// ErrInvalidQuery rejects non-finite or negative geometry.
var ErrInvalidQuery = errors.New("invalid tooltip query")

// Point is a screen coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width and height in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Placement is the top-left corner of the tooltip box.
type Placement struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

// Place positions a tooltip of size box beside anchor. The box sits to the
// right of the anchor, flips to the left when it would overflow the
// viewport, and is kept vertically inside the viewport's inset.
func Place(anchor Point, box, viewport Size) (Placement, error) {
	for _, v := range []float64{anchor.X, anchor.Y, box.Width, box.Height, viewport.Width, viewport.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Placement{}, fmt.Errorf("%w: non-finite coordinate", ErrInvalidQuery)
		}
	}
	if box.Width < 0 || box.Height < 0 || viewport.Width < 0 || viewport.Height < 0 {
		return Placement{}, fmt.Errorf("%w: negative size", ErrInvalidQuery)
	}
	left := anchor.X + offset
	top := anchor.Y - box.Height/2
	if left+box.Width > viewport.Width-inset {
		left = anchor.X - box.Width - offset
	}
	if top < inset {
		top = inset
	} else if top+box.Height > viewport.Height-inset {
		top = viewport.Height - box.Height - inset
	}
	return Placement{Left: left, Top: top}, nil
}

// Row is one labelled line of a tooltip.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Card is the tooltip content.
type Card struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

// Describe renders the tooltip content for b.
func Describe(b model.Billionaire) Card {
	selfMade := "No"
	if b.IsSelfMade {
		selfMade = "Yes"
	}
	rows := []Row{
		{"Net Worth", "$" + strconv.FormatFloat(b.NetWorth, 'f', -1, 64) + "B"},
		{"Industry", b.Industry},
		{"Self-Made", selfMade},
	}
	if b.HasAge() {
		rows = append(rows, Row{"Age", strconv.Itoa(b.AgeValue())})
	}
	rows = append(rows, Row{"Country", b.Citizenship})
	if b.HasYear() {
		rows = append(rows, Row{"Year", strconv.Itoa(b.YearValue())})
	}
	if b.WealthStatus != "" {
		rows = append(rows, Row{"Wealth Status", b.WealthStatus})
	}
	return Card{Title: b.Name, Rows: rows}
}
