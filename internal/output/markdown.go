package output

import (
	"fmt"
)

// MarkdownHistoryWriter writes history reports as Markdown.
type MarkdownHistoryWriter struct{}

// Write outputs the history report as Markdown.
func (w *MarkdownHistoryWriter) Write(report *HistoryReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, "# Change History")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Repository:** %s\n\n", report.RepoPath)
	fmt.Fprintf(out, "**Ref:** %s (`%s`)\n\n", escapeMarkdown(refLabel(report.Ref)), shortHash(report.Root))
	fmt.Fprintf(out, "**Paths Tracked:** %d\n\n", len(report.Paths))

	for _, ph := range report.Paths {
		m := ph.summary()
		fmt.Fprintf(out, "## `%s`\n\n", ph.Path)

		if len(ph.Commits) == 0 {
			fmt.Fprintln(out, "No changes found.")
			fmt.Fprintln(out)
			continue
		}

		fmt.Fprintf(out, "- **Changes:** %d\n", m.ChangeCount)
		fmt.Fprintf(out, "- **Contributors:** %d (ownership %.2f, entropy %.2f)\n",
			m.ContributorCount(), m.OwnershipRatio(), m.ContributorEntropy)
		fmt.Fprintf(out, "- **Burst:** %.2f\n", m.BurstScore)
		fmt.Fprintf(out, "- **Bugfixes:** %d\n", m.FixCount)
		fmt.Fprintf(out, "- **Period:** %s to %s\n\n",
			m.FirstChangedAt.Format(reportDateLayout), m.LastChangedAt.Format(reportDateLayout))

		fmt.Fprintln(out, "| # | Commit | Date | Author | Fix | Message |")
		fmt.Fprintln(out, "|---|--------|------|--------|-----|---------|")
		for i, c := range limitTop(ph.Commits, options.Top) {
			fix := ""
			if ph.IsFix(c) {
				fix = "yes"
			}
			fmt.Fprintf(out, "| %d | `%s` | %s | %s | %s | %s |\n",
				i+1, c.ShortID(), c.When.Format(reportDateLayout),
				escapeMarkdown(c.Author.Name), fix, escapeMarkdown(truncateMessage(c.Message, 60)))
		}
		fmt.Fprintln(out)
	}

	if report.Coupling != nil && len(report.Coupling.Couplings) > 0 {
		fmt.Fprintln(out, "## Co-change Between Tracked Paths")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "| # | Path A | Path B | Co-Commits | Jaccard | Confidence | Lift |")
		fmt.Fprintln(out, "|---|--------|--------|------------|---------|------------|------|")
		for i, c := range report.Coupling.Couplings {
			fmt.Fprintf(out, "| %d | `%s` | `%s` | %d | %.3f | %.3f | %.2f |\n",
				i+1, c.PathA, c.PathB, c.CoCommitCount,
				c.JaccardCoefficient, c.Confidence, c.Lift)
		}
	}

	return nil
}
