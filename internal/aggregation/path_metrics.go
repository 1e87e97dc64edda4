package aggregation

import (
	"time"

	"github.com/masmgr/staredown-go/internal/git"
)

// PathMetrics summarizes the change history of one tracked path.
type PathMetrics struct {
	Path                    string
	ChangeCount             int
	FirstChangedAt          time.Time
	LastChangedAt           time.Time
	IntroducedByRoot        bool // a parentless commit holds the path
	Contributors            map[string]struct{}
	ContributorCommitCounts map[string]int
	CommitTimes             []time.Time
	FixCount                int
	BurstScore              float64
	ContributorEntropy      float64
}

// NewPathMetrics creates an empty PathMetrics for path.
func NewPathMetrics(path string) *PathMetrics {
	return &PathMetrics{
		Path:                    path,
		Contributors:            make(map[string]struct{}),
		ContributorCommitCounts: make(map[string]int),
		CommitTimes:             make([]time.Time, 0),
	}
}

// ContributorCount returns number of unique contributors.
func (m *PathMetrics) ContributorCount() int {
	return len(m.Contributors)
}

// OwnershipRatio returns proportion of changes by the top contributor.
func (m *PathMetrics) OwnershipRatio() float64 {
	if m.ChangeCount == 0 || len(m.ContributorCommitCounts) == 0 {
		return 1.0
	}

	maxCommits := 0
	for _, count := range m.ContributorCommitCounts {
		if count > maxCommits {
			maxCommits = count
		}
	}

	return float64(maxCommits) / float64(m.ChangeCount)
}

// AddCommit records one changing commit.
func (m *PathMetrics) AddCommit(c git.Commit) {
	m.ChangeCount++

	if m.LastChangedAt.IsZero() || c.When.After(m.LastChangedAt) {
		m.LastChangedAt = c.When
	}
	if m.FirstChangedAt.IsZero() || c.When.Before(m.FirstChangedAt) {
		m.FirstChangedAt = c.When
	}
	if c.IsRoot() {
		m.IntroducedByRoot = true
	}

	key := c.Author.ContributorKey()
	m.Contributors[key] = struct{}{}
	m.ContributorCommitCounts[key]++

	m.CommitTimes = append(m.CommitTimes, c.When)
}

// SummarizePath builds metrics from the commits that changed path.
func SummarizePath(path string, commits []git.Commit) *PathMetrics {
	m := NewPathMetrics(path)
	for _, c := range commits {
		m.AddCommit(c)
	}
	return m
}
