package force

import (
	"fmt"
	"strings"
)

// State is the lifecycle position of a simulation.
type State int32

const (
	Idle State = iota
	Running
	Converged
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Converged:
		return "converged"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Terminal reports whether no further ticks will run.
func (s State) Terminal() bool { return s == Converged || s == Cancelled }

// Mode selects how a simulation is driven.
type Mode string

const (
	// Animated runs one tick per frame and exposes every tick.
	Animated Mode = "animated"
	// Batched runs a fixed tick count synchronously and exposes only the result.
	Batched Mode = "batched"
)

// ParseMode accepts animated or batched.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Animated, Batched:
		return m, nil
	}
	return "", fmt.Errorf("%w: mode %q", ErrInvalidInput, s)
}
