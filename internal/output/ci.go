package output

import (
	"time"
)

// CIHistoryWriter writes history reports as NDJSON (one JSON object per line) for CI pipelines.
type CIHistoryWriter struct{}

// CISummary is the first line of CI output, containing aggregate statistics.
type CISummary struct {
	Type          string  `json:"type"`
	Root          string  `json:"root"`
	TotalPaths    int     `json:"totalPaths"`
	TotalChanges  int     `json:"totalChanges"`
	MaxChanges    int     `json:"maxChanges"`
	MaxBurstScore float64 `json:"maxBurstScore"`
}

// CIPathEntry summarizes one tracked path.
type CIPathEntry struct {
	Type        string  `json:"type"`
	Path        string  `json:"path"`
	Changes     int     `json:"changes"`
	LastChanged string  `json:"lastChanged,omitempty"`
	BurstScore  float64 `json:"burstScore"`
	BugfixCount int     `json:"bugfixCount"`
}

// CIChangeEntry is one changing commit of a path.
type CIChangeEntry struct {
	Type   string `json:"type"`
	Path   string `json:"path"`
	Commit string `json:"commit"`
	When   string `json:"when"`
}

// Write outputs the history report as NDJSON.
func (w *CIHistoryWriter) Write(report *HistoryReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	summary := CISummary{
		Type:         "summary",
		Root:         report.Root.String(),
		TotalPaths:   len(report.Paths),
		TotalChanges: report.TotalChanges(),
	}
	for _, ph := range report.Paths {
		m := ph.summary()
		if m.ChangeCount > summary.MaxChanges {
			summary.MaxChanges = m.ChangeCount
		}
		if m.BurstScore > summary.MaxBurstScore {
			summary.MaxBurstScore = m.BurstScore
		}
	}
	if err := writeNDJSONLine(out, summary); err != nil {
		return err
	}

	for _, ph := range report.Paths {
		m := ph.summary()
		entry := CIPathEntry{
			Type:        "path",
			Path:        ph.Path,
			Changes:     m.ChangeCount,
			BurstScore:  m.BurstScore,
			BugfixCount: m.FixCount,
		}
		if !m.LastChangedAt.IsZero() {
			entry.LastChanged = m.LastChangedAt.Format(time.RFC3339)
		}
		if err := writeNDJSONLine(out, entry); err != nil {
			return err
		}

		for _, c := range limitTop(ph.Commits, options.Top) {
			change := CIChangeEntry{
				Type:   "change",
				Path:   ph.Path,
				Commit: c.ID.String(),
				When:   c.When.Format(time.RFC3339),
			}
			if err := writeNDJSONLine(out, change); err != nil {
				return err
			}
		}
	}

	return nil
}
