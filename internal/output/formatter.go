package output

import (
	"time"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/masmgr/staredown-go/internal/aggregation"
	"github.com/masmgr/staredown-go/internal/coupling"
	"github.com/masmgr/staredown-go/internal/git"
)

// Compile-time interface conformance checks.
var (
	_ HistoryReportWriter = (*ConsoleHistoryWriter)(nil)
	_ HistoryReportWriter = (*JSONHistoryWriter)(nil)
	_ HistoryReportWriter = (*CSVHistoryWriter)(nil)
	_ HistoryReportWriter = (*MarkdownHistoryWriter)(nil)
	_ HistoryReportWriter = (*CIHistoryWriter)(nil)

	_ IDsReportWriter = (*ConsoleIDsWriter)(nil)
	_ IDsReportWriter = (*JSONIDsWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatCI       OutputFormat = "ci"
)

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	Top        int // commits shown per path, 0 for all
	OutputPath string
}

// PathHistory is the change history of one tracked path.
type PathHistory struct {
	Path    string
	Commits []git.Commit // newest first
	Fixes   map[plumbing.Hash]struct{}
	Metrics *aggregation.PathMetrics
}

// IsFix reports whether c was classified as a bugfix.
func (h PathHistory) IsFix(c git.Commit) bool {
	_, ok := h.Fixes[c.ID]
	return ok
}

func (h PathHistory) summary() *aggregation.PathMetrics {
	if h.Metrics != nil {
		return h.Metrics
	}
	return aggregation.SummarizePath(h.Path, h.Commits)
}

// HistoryReport holds the per-path change histories of one run.
type HistoryReport struct {
	RepoPath    string
	Ref         string
	Root        plumbing.Hash
	GeneratedAt time.Time
	Paths       []PathHistory
	// Coupling is set when more than one path was tracked.
	Coupling *coupling.CouplingAnalysisResult
}

// TotalChanges returns the number of changing commits over all paths.
func (r *HistoryReport) TotalChanges() int {
	total := 0
	for _, p := range r.Paths {
		total += len(p.Commits)
	}
	return total
}

// IDsReport holds the union of changing commit ids over a set of paths.
type IDsReport struct {
	RepoPath    string
	Ref         string
	Root        plumbing.Hash
	GeneratedAt time.Time
	Paths       []string
	IDs         []plumbing.Hash // sorted
}

// HistoryReportWriter writes history reports.
type HistoryReportWriter interface {
	Write(report *HistoryReport, options OutputOptions) error
}

// IDsReportWriter writes commit id sets.
type IDsReportWriter interface {
	Write(report *IDsReport, options OutputOptions) error
}

// NewHistoryReportWriter creates a report writer for the specified format.
func NewHistoryReportWriter(format OutputFormat) HistoryReportWriter {
	switch format {
	case FormatJSON:
		return &JSONHistoryWriter{}
	case FormatCSV:
		return &CSVHistoryWriter{}
	case FormatMarkdown:
		return &MarkdownHistoryWriter{}
	case FormatCI:
		return &CIHistoryWriter{}
	default:
		return &ConsoleHistoryWriter{}
	}
}

// NewIDsReportWriter creates an id set writer. Only JSON has a structured
// form; every other format prints one id per line.
func NewIDsReportWriter(format OutputFormat) IDsReportWriter {
	if format == FormatJSON {
		return &JSONIDsWriter{}
	}
	return &ConsoleIDsWriter{}
}
