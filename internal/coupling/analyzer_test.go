package coupling

import (
	"fmt"
	"math"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/masmgr/staredown-go/config"
	"github.com/masmgr/staredown-go/internal/aggregation"
)

func commitID(n int) plumbing.Hash {
	return plumbing.NewHash(fmt.Sprintf("%040x", n))
}

func ids(ns ...int) aggregation.IDSet {
	set := make(aggregation.IDSet, len(ns))
	for _, n := range ns {
		set[commitID(n)] = struct{}{}
	}
	return set
}

func defaultCouplingConfig() config.CouplingConfig {
	return config.CouplingConfig{
		MinCoCommits:        1,
		MinJaccardThreshold: 0.0,
		TopPairs:            50,
	}
}

func TestNewPathPair_ConsistentOrdering(t *testing.T) {
	tests := []struct {
		a, b         string
		wantA, wantB string
	}{
		{"a.go", "b.go", "a.go", "b.go"},
		{"b.go", "a.go", "a.go", "b.go"},
		{"src/z.go", "README.md", "README.md", "src/z.go"},
		{"same.go", "same.go", "same.go", "same.go"},
	}

	for _, tt := range tests {
		pair := NewPathPair(tt.a, tt.b)
		if pair.PathA != tt.wantA || pair.PathB != tt.wantB {
			t.Errorf("NewPathPair(%q, %q) = %+v, expected (%q, %q)", tt.a, tt.b, pair, tt.wantA, tt.wantB)
		}
		if pair != NewPathPair(tt.b, tt.a) {
			t.Errorf("NewPathPair is not symmetric for %q, %q", tt.a, tt.b)
		}
	}
}

func TestAnalyzer_Analyze_Empty(t *testing.T) {
	result := NewAnalyzer(defaultCouplingConfig()).Analyze(nil)

	if result.TotalCommits != 0 || len(result.Couplings) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestAnalyzer_Analyze_SinglePath(t *testing.T) {
	result := NewAnalyzer(defaultCouplingConfig()).Analyze(map[string]aggregation.IDSet{
		"a.go": ids(1, 2, 3),
	})

	if len(result.Couplings) != 0 {
		t.Errorf("Couplings count = %d, expected 0", len(result.Couplings))
	}
	if result.TotalCommits != 3 || result.TotalPaths != 1 {
		t.Errorf("totals = %+v", result)
	}
}

func TestAnalyzer_Analyze_PerfectCoupling(t *testing.T) {
	result := NewAnalyzer(defaultCouplingConfig()).Analyze(map[string]aggregation.IDSet{
		"b.go": ids(1, 2, 3, 4, 5),
		"a.go": ids(1, 2, 3, 4, 5),
	})

	if len(result.Couplings) != 1 {
		t.Fatalf("expected 1 coupling, got %d", len(result.Couplings))
	}
	c := result.Couplings[0]
	if c.PathA != "a.go" || c.PathB != "b.go" {
		t.Errorf("pair = (%q, %q)", c.PathA, c.PathB)
	}
	if c.CoCommitCount != 5 {
		t.Errorf("CoCommitCount = %d, expected 5", c.CoCommitCount)
	}
	if math.Abs(c.JaccardCoefficient-1.0) > 0.001 || math.Abs(c.Confidence-1.0) > 0.001 {
		t.Errorf("Jaccard = %f, Confidence = %f, expected 1.0", c.JaccardCoefficient, c.Confidence)
	}
	if math.Abs(c.Lift-1.0) > 0.001 {
		t.Errorf("Lift = %f, expected 1.0", c.Lift)
	}
}

func TestAnalyzer_Analyze_PartialCoupling(t *testing.T) {
	// a: 1..4, b: 3..6, c: 9 (disjoint)
	result := NewAnalyzer(defaultCouplingConfig()).Analyze(map[string]aggregation.IDSet{
		"a.go": ids(1, 2, 3, 4),
		"b.go": ids(3, 4, 5, 6),
		"c.go": ids(9),
	})

	if result.TotalCommits != 7 {
		t.Errorf("TotalCommits = %d, expected 7", result.TotalCommits)
	}
	if result.TotalPairs != 1 {
		t.Errorf("TotalPairs = %d, expected 1", result.TotalPairs)
	}
	if len(result.Couplings) != 1 {
		t.Fatalf("expected 1 coupling, got %d", len(result.Couplings))
	}

	c := result.Couplings[0]
	if c.CoCommitCount != 2 {
		t.Errorf("CoCommitCount = %d, expected 2", c.CoCommitCount)
	}
	// 2 / (4 + 4 - 2)
	if math.Abs(c.JaccardCoefficient-1.0/3.0) > 0.001 {
		t.Errorf("JaccardCoefficient = %f, expected 0.333", c.JaccardCoefficient)
	}
	if math.Abs(c.Confidence-0.5) > 0.001 {
		t.Errorf("Confidence = %f, expected 0.5", c.Confidence)
	}
	// (2/7) / ((4/7) * (4/7))
	if math.Abs(c.Lift-0.875) > 0.001 {
		t.Errorf("Lift = %f, expected 0.875", c.Lift)
	}
}

func TestAnalyzer_Analyze_Filters(t *testing.T) {
	changes := map[string]aggregation.IDSet{
		"a.go": ids(1, 2, 3, 4, 5, 6, 7, 8, 9, 10),
		"b.go": ids(1),
		"c.go": ids(1, 2, 3),
	}

	cfg := defaultCouplingConfig()
	cfg.MinCoCommits = 2
	result := NewAnalyzer(cfg).Analyze(changes)
	if len(result.Couplings) != 1 || result.Couplings[0].PathB != "c.go" {
		t.Errorf("MinCoCommits filter: got %+v", result.Couplings)
	}

	cfg = defaultCouplingConfig()
	cfg.MinJaccardThreshold = 0.2
	result = NewAnalyzer(cfg).Analyze(changes)
	for _, c := range result.Couplings {
		if c.JaccardCoefficient < 0.2 {
			t.Errorf("pair %s/%s below threshold: %f", c.PathA, c.PathB, c.JaccardCoefficient)
		}
	}
	if result.TotalPairs != 3 {
		t.Errorf("TotalPairs = %d, expected 3 before filtering", result.TotalPairs)
	}
}

func TestAnalyzer_Analyze_SortedAndLimited(t *testing.T) {
	changes := map[string]aggregation.IDSet{
		"a.go": ids(1, 2, 3, 4),
		"b.go": ids(1, 2, 3, 4),
		"c.go": ids(1, 2),
		"d.go": ids(1),
	}

	cfg := defaultCouplingConfig()
	cfg.TopPairs = 2
	result := NewAnalyzer(cfg).Analyze(changes)

	if len(result.Couplings) != 2 {
		t.Fatalf("expected 2 couplings, got %d", len(result.Couplings))
	}
	if result.Couplings[0].PathA != "a.go" || result.Couplings[0].PathB != "b.go" {
		t.Errorf("top pair = %s/%s, expected a.go/b.go", result.Couplings[0].PathA, result.Couplings[0].PathB)
	}
	if result.Couplings[0].JaccardCoefficient < result.Couplings[1].JaccardCoefficient {
		t.Error("couplings not sorted by Jaccard descending")
	}
}
