package output

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
)

// ConsoleHistoryWriter writes history reports as aligned text tables.
type ConsoleHistoryWriter struct{}

// Write outputs the history report to the console.
func (w *ConsoleHistoryWriter) Write(report *HistoryReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	title := color.New(color.FgGreen)
	heading := color.New(color.FgCyan, color.Bold)

	title.Fprintln(out, "Change History")
	fmt.Fprintf(out, "Repository: %s\n", report.RepoPath)
	fmt.Fprintf(out, "Ref: %s (%s)\n", refLabel(report.Ref), shortHash(report.Root))
	fmt.Fprintf(out, "Paths tracked: %d, changing commits: %d\n", len(report.Paths), report.TotalChanges())

	for _, ph := range report.Paths {
		m := ph.summary()
		fmt.Fprintln(out)
		heading.Fprintln(out, ph.Path)

		if len(ph.Commits) == 0 {
			fmt.Fprintln(out, "No changes found.")
			continue
		}

		fmt.Fprintf(out, "Changes: %d, Contributors: %d, Ownership: %.2f, Burst: %.2f, Entropy: %.2f, Fixes: %d\n",
			m.ChangeCount, m.ContributorCount(), m.OwnershipRatio(), m.BurstScore, m.ContributorEntropy, m.FixCount)
		fmt.Fprintf(out, "First: %s, Last: %s\n",
			m.FirstChangedAt.Format(reportDateLayout), m.LastChangedAt.Format(reportDateLayout))

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tCommit\tDate\tAuthor\tFix\tMessage")
		for i, c := range limitTop(ph.Commits, options.Top) {
			fix := ""
			if ph.IsFix(c) {
				fix = color.RedString("fix")
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
				i+1,
				c.ShortID(),
				c.When.Format(reportDateLayout),
				c.Author.Name,
				fix,
				truncateMessage(c.Message, 50),
			)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if hidden := len(ph.Commits) - len(limitTop(ph.Commits, options.Top)); hidden > 0 {
			fmt.Fprintf(out, "... %d older changes not shown\n", hidden)
		}
	}

	if report.Coupling != nil {
		result := report.Coupling
		fmt.Fprintln(out)
		heading.Fprintln(out, "Co-change between tracked paths")
		fmt.Fprintf(out, "Total commits: %d, Total paths: %d, Total pairs: %d\n",
			result.TotalCommits, result.TotalPaths, result.TotalPairs)

		if len(result.Couplings) == 0 {
			fmt.Fprintln(out, "No paths changed together.")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tPath A\tPath B\tCo-Commits\tJaccard\tConfidence\tLift")
		for i, c := range result.Couplings {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%.3f\t%.3f\t%.2f\n",
				i+1, c.PathA, c.PathB, c.CoCommitCount, c.JaccardCoefficient, c.Confidence, c.Lift)
		}
		return tw.Flush()
	}

	return nil
}

// ConsoleIDsWriter prints one commit id per line.
type ConsoleIDsWriter struct{}

// Write outputs the id set.
func (w *ConsoleIDsWriter) Write(report *IDsReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	for _, id := range report.IDs {
		if _, err := fmt.Fprintln(out, id.String()); err != nil {
			return err
		}
	}
	return nil
}
