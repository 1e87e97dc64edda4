package output

import (
	"encoding/csv"
	"fmt"
)

// CSVHistoryWriter writes one row per changing commit and path.
type CSVHistoryWriter struct{}

// Write outputs the history report as CSV.
func (w *CSVHistoryWriter) Write(report *HistoryReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	writer := csv.NewWriter(out)

	headers := []string{"Path", "Commit", "When", "Author", "Email", "Parents", "Bugfix", "Message"}
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, ph := range report.Paths {
		for _, c := range limitTop(ph.Commits, options.Top) {
			row := []string{
				ph.Path,
				c.ID.String(),
				c.When.UTC().Format(reportDateTimeLayout),
				c.Author.Name,
				c.Author.Email,
				fmt.Sprintf("%d", len(c.Parents)),
				fmt.Sprintf("%t", ph.IsFix(c)),
				c.Message,
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
