// Package coupling measures how often tracked paths change in the same
// commits.
package coupling

import (
	"sort"

	"github.com/masmgr/staredown-go/config"
	"github.com/masmgr/staredown-go/internal/aggregation"
)

// PathPair is an unordered pair of tracked paths.
type PathPair struct {
	PathA string
	PathB string
}

// NewPathPair creates a pair with the lexically smaller path first.
func NewPathPair(a, b string) PathPair {
	if a > b {
		a, b = b, a
	}
	return PathPair{PathA: a, PathB: b}
}

// ChangeCoupling holds the co-change metrics of two paths.
type ChangeCoupling struct {
	PathA              string
	PathB              string
	CoCommitCount      int     // commits that changed both paths
	PathACommitCount   int     // commits that changed PathA
	PathBCommitCount   int     // commits that changed PathB
	JaccardCoefficient float64 // |A ∩ B| / |A ∪ B|
	Confidence         float64 // P(B|A) = CoCommitCount / PathACommitCount
	Lift               float64 // P(A,B) / (P(A) × P(B))
}

// CouplingAnalysisResult holds the results of coupling analysis.
type CouplingAnalysisResult struct {
	Couplings    []ChangeCoupling
	TotalCommits int // distinct commits across all paths
	TotalPaths   int
	TotalPairs   int // pairs sharing at least one commit
}

// Analyzer computes change coupling from per-path change sets.
type Analyzer struct {
	options config.CouplingConfig
}

// NewAnalyzer creates a new coupling analyzer.
func NewAnalyzer(options config.CouplingConfig) *Analyzer {
	return &Analyzer{options: options}
}

// Analyze compares every pair of paths in changes, which maps a path to
// the ids of the commits that changed it.
func (a *Analyzer) Analyze(changes map[string]aggregation.IDSet) CouplingAnalysisResult {
	paths := make([]string, 0, len(changes))
	all := make(aggregation.IDSet)
	for p, ids := range changes {
		paths = append(paths, p)
		all.Add(ids)
	}
	sort.Strings(paths)

	result := CouplingAnalysisResult{
		TotalCommits: len(all),
		TotalPaths:   len(paths),
	}
	if len(all) == 0 {
		return result
	}
	total := float64(len(all))

	for i := 0; i < len(paths)-1; i++ {
		for j := i + 1; j < len(paths); j++ {
			setA, setB := changes[paths[i]], changes[paths[j]]

			co := 0
			for id := range setA {
				if setB.Contains(id) {
					co++
				}
			}
			if co == 0 {
				continue
			}
			result.TotalPairs++

			if co < a.options.MinCoCommits {
				continue
			}

			union := len(setA) + len(setB) - co
			jaccard := float64(co) / float64(union)
			if jaccard < a.options.MinJaccardThreshold {
				continue
			}

			supportA := float64(len(setA)) / total
			supportB := float64(len(setB)) / total
			supportAB := float64(co) / total

			pair := NewPathPair(paths[i], paths[j])
			result.Couplings = append(result.Couplings, ChangeCoupling{
				PathA:              pair.PathA,
				PathB:              pair.PathB,
				CoCommitCount:      co,
				PathACommitCount:   len(changes[pair.PathA]),
				PathBCommitCount:   len(changes[pair.PathB]),
				JaccardCoefficient: jaccard,
				Confidence:         float64(co) / float64(len(changes[pair.PathA])),
				Lift:               supportAB / (supportA * supportB),
			})
		}
	}

	// Pairs are generated in path order, so a stable sort keeps ties ordered.
	sort.SliceStable(result.Couplings, func(i, j int) bool {
		return result.Couplings[i].JaccardCoefficient > result.Couplings[j].JaccardCoefficient
	})

	if a.options.TopPairs > 0 && len(result.Couplings) > a.options.TopPairs {
		result.Couplings = result.Couplings[:a.options.TopPairs]
	}

	return result
}
