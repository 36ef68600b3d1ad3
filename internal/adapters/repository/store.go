// Package repository holds the in-memory rich list ranking store.
package repository

import (
	"context"

	"github.com/okian/fortuna/internal/domain/model"
)

// AllYears selects the tree that spans every observation year.
const AllYears = 0

// Entry represents a rich list row.
type Entry struct {
	Rank        int     `json:"rank"`
	Name        string  `json:"name"`
	Year        int     `json:"year,omitempty"`
	NetWorth    float64 `json:"netWorth"`
	Industry    string  `json:"industry"`
	Citizenship string  `json:"citizenship"`
	IsSelfMade  bool    `json:"isSelfMade"`
}

// Store provides read/write access to the ranking state.
type Store interface {
	// Put inserts or replaces the record for the (name, year) pair.
	Put(ctx context.Context, b model.Billionaire) error

	// Rank returns the dense rank of name within year.
	// Across AllYears the person's best observation is ranked.
	// Returns ErrNotFound if the name is unknown for that year.
	Rank(ctx context.Context, name string, year int) (Entry, error)

	// TopN returns the top-N entries of year ordered by net worth desc.
	TopN(ctx context.Context, year, n int) ([]Entry, error)

	// Count returns the number of entries tracked for year.
	Count(ctx context.Context, year int) int

	// Years lists the observation years present, ascending.
	Years(ctx context.Context) []int
}
