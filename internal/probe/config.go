// Package probe checks a running fortuna server end to end: it requests
// every layout concurrently, cross-checks the rich list against rank
// lookups and watches one animated stream.
package probe

import (
	"errors"
	"time"

	"github.com/okian/fortuna/pkg/logger"
)

// Error constants.
var (
	ErrUnhealthy    = errors.New("service unhealthy")
	ErrStatus       = errors.New("unexpected status")
	ErrInconsistent = errors.New("inconsistent results")
)

// Config holds configuration for a probe run.
type Config struct {
	BaseURL string        // Base URL of the service
	TopN    int           // Rich list entries to cross-check
	Workers int           // Number of concurrent workers
	Timeout time.Duration // HTTP request timeout
	Stream  bool          // Also consume one animated stream
	Verbose bool
	Logger  logger.Logger // global logger when nil
}

// Stats holds probe statistics.
type Stats struct {
	ViewsListed    int           `json:"viewsListed"`
	LayoutsOK      int           `json:"layoutsOk"`
	LayoutsSkipped int           `json:"layoutsSkipped"`
	LayoutsFailed  int           `json:"layoutsFailed"`
	RanksChecked   int           `json:"ranksChecked"`
	RankMismatches int           `json:"rankMismatches"`
	StreamFrames   int           `json:"streamFrames"`
	StartTime      time.Time     `json:"startTime"`
	EndTime        time.Time     `json:"endTime"`
	Duration       time.Duration `json:"durationNs"`
}

// viewInfo mirrors an /api/views entry.
type viewInfo struct {
	ID     string `json:"id"`
	Layout bool   `json:"layout"`
}

// entry mirrors a rich list entry.
type entry struct {
	Rank     int     `json:"rank"`
	Name     string  `json:"name"`
	Year     int     `json:"year"`
	NetWorth float64 `json:"netWorth"`
}

type share struct {
	Key   string  `json:"key"`
	Share float64 `json:"share"`
}

type layout struct {
	RunID   string   `json:"runId"`
	State   string   `json:"state"`
	Bubbles []bubble `json:"bubbles"`
}

type bubble struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}
