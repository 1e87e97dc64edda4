// Package burst scores how concentrated in time a path's changes are.
package burst

import (
	"slices"
	"time"

	"github.com/masmgr/staredown-go/internal/aggregation"
)

const defaultWindowDays = 7

// Calculator finds the densest window of changes.
// Burst score = (most changes inside any window) / (total changes)
type Calculator struct {
	window     time.Duration
	windowDays int
}

// NewCalculator creates a calculator; a non-positive windowDays selects
// the default of seven days.
func NewCalculator(windowDays int) *Calculator {
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}
	return &Calculator{
		window:     time.Duration(windowDays) * 24 * time.Hour,
		windowDays: windowDays,
	}
}

// WindowDays returns the sliding window size.
func (c *Calculator) WindowDays() int {
	return c.windowDays
}

// Compute sets BurstScore on each of metrics.
func (c *Calculator) Compute(metrics ...*aggregation.PathMetrics) {
	for _, m := range metrics {
		m.BurstScore = c.CalculateBurstScore(m.CommitTimes)
	}
}

// CalculateBurstScore returns a value in [1/n, 1] for n change times, or 0
// when there are none. The input may be in any order and is not modified.
func (c *Calculator) CalculateBurstScore(changeTimes []time.Time) float64 {
	n := len(changeTimes)
	if n == 0 {
		return 0.0
	}

	times := slices.Clone(changeTimes)
	slices.SortFunc(times, func(a, b time.Time) int {
		return a.Compare(b)
	})

	// Two pointers: times[left..right] always spans at most one window.
	densest := 1
	left := 0
	for right := range times {
		for times[right].Sub(times[left]) > c.window {
			left++
		}
		densest = max(densest, right-left+1)
	}

	return float64(densest) / float64(n)
}
