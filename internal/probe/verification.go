package probe

import (
	"fmt"
	"math"
)

// shareTolerance absorbs rounding in per-country percentages.
const shareTolerance = 0.01

// verifyRichList checks that entries are ordered by net worth with dense
// ranks starting at 1.
func verifyRichList(entries []entry) error {
	for i, e := range entries {
		if i == 0 {
			if e.Rank != 1 {
				return fmt.Errorf("%w: rich list starts at rank %d", ErrInconsistent, e.Rank)
			}
			continue
		}
		prev := entries[i-1]
		switch {
		case e.NetWorth > prev.NetWorth:
			return fmt.Errorf("%w: rich list not sorted: entry %d is worth more than entry %d", ErrInconsistent, i, i-1)
		case e.NetWorth == prev.NetWorth && e.Rank != prev.Rank:
			return fmt.Errorf("%w: equal fortunes at %d and %d ranked apart", ErrInconsistent, i-1, i)
		case e.NetWorth < prev.NetWorth && e.Rank != prev.Rank+1:
			return fmt.Errorf("%w: rank gap between %d and %d", ErrInconsistent, prev.Rank, e.Rank)
		}
	}
	return nil
}

// verifyShares checks that country shares partition the total.
func verifyShares(shares []share) error {
	if len(shares) == 0 {
		return nil
	}
	var sum float64
	for _, s := range shares {
		sum += s.Share
	}
	if math.Abs(sum-100) > shareTolerance {
		return fmt.Errorf("%w: country shares sum to %.4f", ErrInconsistent, sum)
	}
	return nil
}

// verifyLayout checks that every bubble has a finite position and radius.
func verifyLayout(l layout) error {
	for i, b := range l.Bubbles {
		for _, v := range []float64{b.X, b.Y, b.R} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: bubble %d is not finite", ErrInconsistent, i)
			}
		}
	}
	if l.State != "converged" {
		return fmt.Errorf("%w: layout ended %s", ErrInconsistent, l.State)
	}
	return nil
}
