package burst

import (
	"math"
	"testing"
	"time"

	"github.com/masmgr/staredown-go/internal/aggregation"
	"github.com/masmgr/staredown-go/internal/git"
)

func days(base time.Time, offsets ...int) []time.Time {
	times := make([]time.Time, len(offsets))
	for i, d := range offsets {
		times[i] = base.Add(time.Duration(d) * 24 * time.Hour)
	}
	return times
}

func TestNewCalculator_DefaultWindow(t *testing.T) {
	tests := []struct {
		name       string
		windowDays int
		expected   int
	}{
		{name: "Positive window", windowDays: 14, expected: 14},
		{name: "Zero defaults", windowDays: 0, expected: 7},
		{name: "Negative defaults", windowDays: -5, expected: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := NewCalculator(tt.windowDays)
			if calc.WindowDays() != tt.expected {
				t.Errorf("WindowDays() = %d, expected %d", calc.WindowDays(), tt.expected)
			}
		})
	}
}

func TestCalculateBurstScore(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		times    []time.Time
		expected float64
	}{
		{name: "Empty", times: nil, expected: 0.0},
		{name: "Single change", times: days(base, 0), expected: 1.0},
		{name: "All in one window", times: days(base, 0, 1, 2, 3, 4), expected: 1.0},
		{name: "Spread out", times: days(base, 0, 30, 60, 90, 120, 150, 180, 210, 240, 270), expected: 0.1},
		{name: "Two clusters", times: days(base, 0, 1, 2, 100, 101), expected: 0.6},
		{name: "Newest first", times: days(base, 101, 100, 2, 1, 0), expected: 0.6},
		{name: "Unsorted", times: days(base, 100, 0, 2, 101, 1), expected: 0.6},
	}

	calc := NewCalculator(7)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := calc.CalculateBurstScore(tt.times)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("CalculateBurstScore() = %f, expected %f", result, tt.expected)
			}
		})
	}
}

func TestCalculateBurstScore_DoesNotMutateInput(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	times := days(base, 9, 0, 4)
	original := append([]time.Time(nil), times...)

	NewCalculator(7).CalculateBurstScore(times)

	for i := range times {
		if !times[i].Equal(original[i]) {
			t.Fatalf("input mutated at %d: %v, expected %v", i, times[i], original[i])
		}
	}
}

func TestCompute_SetsPathBurst(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	hot := aggregation.NewPathMetrics("hot.go")
	cold := aggregation.NewPathMetrics("cold.go")
	for _, when := range days(base, 0, 1, 2) {
		hot.AddCommit(git.Commit{When: when})
	}
	for _, when := range days(base, 0, 60) {
		cold.AddCommit(git.Commit{When: when})
	}

	NewCalculator(7).Compute(hot, cold)

	if hot.BurstScore != 1.0 {
		t.Errorf("hot.BurstScore = %f, expected 1.0", hot.BurstScore)
	}
	if math.Abs(cold.BurstScore-0.5) > 0.001 {
		t.Errorf("cold.BurstScore = %f, expected 0.5", cold.BurstScore)
	}
}
