package entropy

import (
	"math"

	"github.com/masmgr/staredown-go/internal/aggregation"
)

// Calculator measures how evenly the changes of a path are spread across
// its contributors.
type Calculator struct{}

// NewCalculator creates a new entropy calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Normalized returns the Shannon entropy of counts divided by its maximum,
// log2(n) for n non-zero buckets. The result is in [0, 1]:
//   - 0 = every change comes from one contributor
//   - 1 = changes are split evenly
func (c *Calculator) Normalized(counts map[string]int) float64 {
	total := 0
	buckets := 0
	for _, n := range counts {
		if n > 0 {
			total += n
			buckets++
		}
	}
	if buckets < 2 {
		return 0.0
	}

	entropy := 0.0
	for _, n := range counts {
		if n > 0 {
			p := float64(n) / float64(total)
			entropy -= p * math.Log2(p)
		}
	}

	normalized := entropy / math.Log2(float64(buckets))
	if normalized < 0 {
		return 0.0
	}
	if normalized > 1 {
		return 1.0
	}
	return normalized
}

// Compute sets ContributorEntropy on each of metrics.
func (c *Calculator) Compute(metrics ...*aggregation.PathMetrics) {
	for _, m := range metrics {
		m.ContributorEntropy = c.Normalized(m.ContributorCommitCounts)
	}
}
