package output

import (
	"time"

	"github.com/masmgr/staredown-go/internal/coupling"
	"github.com/masmgr/staredown-go/internal/git"
)

// JSONHistoryWriter writes history reports as JSON.
type JSONHistoryWriter struct{}

// JSONHistoryReport is the JSON output structure for a history run.
type JSONHistoryReport struct {
	RepoPath     string              `json:"repo"`
	Ref          string              `json:"ref"`
	Root         string              `json:"root"`
	GeneratedAt  string              `json:"generatedAt"`
	TotalPaths   int                 `json:"totalPaths"`
	TotalChanges int                 `json:"totalChanges"`
	Paths        []JSONPathHistory   `json:"paths"`
	Coupling     *JSONCouplingReport `json:"coupling,omitempty"`
}

// JSONPathHistory is the JSON output structure for one tracked path.
type JSONPathHistory struct {
	Path    string          `json:"path"`
	Metrics JSONPathMetrics `json:"metrics"`
	Commits []JSONCommit    `json:"commits"`
}

// JSONPathMetrics holds the summary of a path in JSON format.
type JSONPathMetrics struct {
	ChangeCount        int     `json:"changeCount"`
	FirstChanged       *string `json:"firstChanged,omitempty"`
	LastChanged        *string `json:"lastChanged,omitempty"`
	IntroducedByRoot   bool    `json:"introducedByRoot"`
	Contributors       int     `json:"contributors"`
	OwnershipRatio     float64 `json:"ownershipRatio"`
	BurstScore         float64 `json:"burstScore"`
	ContributorEntropy float64 `json:"contributorEntropy"`
	BugfixCount        int     `json:"bugfixCount"`
}

// JSONCommit is the JSON output structure for a changing commit.
type JSONCommit struct {
	ID      string   `json:"id"`
	When    string   `json:"when"`
	Author  string   `json:"author"`
	Email   string   `json:"email"`
	Message string   `json:"message"`
	Parents []string `json:"parents"`
	Bugfix  bool     `json:"bugfix"`
}

// JSONCouplingReport holds co-change pairs in JSON format.
type JSONCouplingReport struct {
	TotalCommits int                `json:"totalCommits"`
	TotalPaths   int                `json:"totalPaths"`
	TotalPairs   int                `json:"totalPairs"`
	Items        []JSONCouplingItem `json:"items"`
}

// JSONCouplingItem is the JSON output structure for a single coupling pair.
type JSONCouplingItem struct {
	PathA              string  `json:"pathA"`
	PathB              string  `json:"pathB"`
	CoCommitCount      int     `json:"coCommitCount"`
	PathACommitCount   int     `json:"pathACommitCount"`
	PathBCommitCount   int     `json:"pathBCommitCount"`
	JaccardCoefficient float64 `json:"jaccardCoefficient"`
	Confidence         float64 `json:"confidence"`
	Lift               float64 `json:"lift"`
}

// Write outputs the history report as JSON.
func (w *JSONHistoryWriter) Write(report *HistoryReport, options OutputOptions) error {
	paths := make([]JSONPathHistory, len(report.Paths))
	for i, ph := range report.Paths {
		m := ph.summary()
		commits := limitTop(ph.Commits, options.Top)

		item := JSONPathHistory{
			Path: ph.Path,
			Metrics: JSONPathMetrics{
				ChangeCount:        m.ChangeCount,
				FirstChanged:       formatOptionalTime(m.FirstChangedAt),
				LastChanged:        formatOptionalTime(m.LastChangedAt),
				IntroducedByRoot:   m.IntroducedByRoot,
				Contributors:       m.ContributorCount(),
				OwnershipRatio:     m.OwnershipRatio(),
				BurstScore:         m.BurstScore,
				ContributorEntropy: m.ContributorEntropy,
				BugfixCount:        m.FixCount,
			},
			Commits: make([]JSONCommit, len(commits)),
		}
		for j, c := range commits {
			item.Commits[j] = newJSONCommit(c, ph.IsFix(c))
		}
		paths[i] = item
	}

	jsonReport := JSONHistoryReport{
		RepoPath:     report.RepoPath,
		Ref:          refLabel(report.Ref),
		Root:         report.Root.String(),
		GeneratedAt:  report.GeneratedAt.Format(time.RFC3339),
		TotalPaths:   len(report.Paths),
		TotalChanges: report.TotalChanges(),
		Paths:        paths,
	}
	if report.Coupling != nil {
		jsonReport.Coupling = newJSONCouplingReport(report.Coupling)
	}

	return writeJSON(jsonReport, options.OutputPath)
}

func newJSONCommit(c git.Commit, fix bool) JSONCommit {
	parents := make([]string, len(c.Parents))
	for i, p := range c.Parents {
		parents[i] = p.String()
	}
	return JSONCommit{
		ID:      c.ID.String(),
		When:    c.When.Format(time.RFC3339),
		Author:  c.Author.Name,
		Email:   c.Author.Email,
		Message: c.Message,
		Parents: parents,
		Bugfix:  fix,
	}
}

func newJSONCouplingReport(result *coupling.CouplingAnalysisResult) *JSONCouplingReport {
	items := make([]JSONCouplingItem, len(result.Couplings))
	for i, c := range result.Couplings {
		items[i] = JSONCouplingItem{
			PathA:              c.PathA,
			PathB:              c.PathB,
			CoCommitCount:      c.CoCommitCount,
			PathACommitCount:   c.PathACommitCount,
			PathBCommitCount:   c.PathBCommitCount,
			JaccardCoefficient: c.JaccardCoefficient,
			Confidence:         c.Confidence,
			Lift:               c.Lift,
		}
	}
	return &JSONCouplingReport{
		TotalCommits: result.TotalCommits,
		TotalPaths:   result.TotalPaths,
		TotalPairs:   result.TotalPairs,
		Items:        items,
	}
}

func formatOptionalTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}

// JSONIDsWriter writes an id set as JSON.
type JSONIDsWriter struct{}

// JSONIDsReport is the JSON output structure for the id set.
type JSONIDsReport struct {
	RepoPath    string   `json:"repo"`
	Ref         string   `json:"ref"`
	Root        string   `json:"root"`
	GeneratedAt string   `json:"generatedAt"`
	Paths       []string `json:"paths"`
	Total       int      `json:"total"`
	IDs         []string `json:"ids"`
}

// Write outputs the id set as JSON.
func (w *JSONIDsWriter) Write(report *IDsReport, options OutputOptions) error {
	ids := make([]string, len(report.IDs))
	for i, id := range report.IDs {
		ids[i] = id.String()
	}

	return writeJSON(JSONIDsReport{
		RepoPath:    report.RepoPath,
		Ref:         refLabel(report.Ref),
		Root:        report.Root.String(),
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		Paths:       report.Paths,
		Total:       len(ids),
		IDs:         ids,
	}, options.OutputPath)
}
