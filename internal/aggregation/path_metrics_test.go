package aggregation

import (
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/masmgr/staredown-go/internal/git"
)

func TestSummarizePath(t *testing.T) {
	parent := plumbing.NewHash("1111111111111111111111111111111111111111")
	commits := []git.Commit{
		{When: base.Add(48 * time.Hour), Author: git.AuthorInfo{Email: "Alice@Example.com"}, Parents: []plumbing.Hash{parent}},
		{When: base.Add(24 * time.Hour), Author: git.AuthorInfo{Email: "bob@example.com"}, Parents: []plumbing.Hash{parent}},
		{When: base, Author: git.AuthorInfo{Email: "alice@example.com"}},
	}

	m := SummarizePath("src/main.go", commits)

	if m.Path != "src/main.go" {
		t.Errorf("Path = %q", m.Path)
	}
	if m.ChangeCount != 3 {
		t.Errorf("ChangeCount = %d, expected 3", m.ChangeCount)
	}
	if !m.FirstChangedAt.Equal(base) {
		t.Errorf("FirstChangedAt = %v, expected %v", m.FirstChangedAt, base)
	}
	if !m.LastChangedAt.Equal(base.Add(48 * time.Hour)) {
		t.Errorf("LastChangedAt = %v", m.LastChangedAt)
	}
	if !m.IntroducedByRoot {
		t.Error("IntroducedByRoot = false, expected true")
	}
	if m.ContributorCount() != 2 {
		t.Errorf("ContributorCount() = %d, expected 2", m.ContributorCount())
	}
	if got := m.OwnershipRatio(); got < 0.666 || got > 0.667 {
		t.Errorf("OwnershipRatio() = %f, expected 2/3", got)
	}
	if len(m.CommitTimes) != 3 {
		t.Errorf("len(CommitTimes) = %d, expected 3", len(m.CommitTimes))
	}
}

func TestPathMetrics_Empty(t *testing.T) {
	m := SummarizePath("missing.txt", nil)

	if m.ChangeCount != 0 || m.ContributorCount() != 0 {
		t.Errorf("expected empty metrics, got %+v", m)
	}
	if m.OwnershipRatio() != 1.0 {
		t.Errorf("OwnershipRatio() = %f, expected 1.0", m.OwnershipRatio())
	}
	if !m.FirstChangedAt.IsZero() || m.IntroducedByRoot {
		t.Errorf("unexpected metrics: %+v", m)
	}
}
