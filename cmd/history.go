package cmd

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/staredown-go/internal/aggregation"
	"github.com/masmgr/staredown-go/internal/bugfix"
	"github.com/masmgr/staredown-go/internal/burst"
	"github.com/masmgr/staredown-go/internal/coupling"
	"github.com/masmgr/staredown-go/internal/entropy"
	"github.com/masmgr/staredown-go/internal/output"
)

// historyFlags are the flags only the history listing understands.
func historyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"n"},
			Usage:   "Number of most recent changes to show per path (0 for all)",
		},
		&cli.IntFlag{
			Name:  "window-days",
			Usage: "Window size in days for burst detection",
		},
	}
}

// HistoryCmd returns the history command.
func HistoryCmd() *cli.Command {
	return &cli.Command{
		Name:      "history",
		Aliases:   []string{"hist"},
		Usage:     "List the commits that changed each path, newest first",
		ArgsUsage: "<path|pattern>...",
		Flags:     append(commonFlags(), historyFlags()...),
		Action:    historyAction,
	}
}

func historyAction(c *cli.Context) error {
	cmdCtx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Config

	detector, err := bugfix.NewDetector(cfg.Bugfix.Patterns)
	if err != nil {
		return err
	}
	burstCalc := burst.NewCalculator(cfg.Burst.WindowDays)
	entropyCalc := entropy.NewCalculator()

	report := &output.HistoryReport{
		RepoPath:    cmdCtx.RepoPath,
		Ref:         cfg.History.DefaultRef,
		Root:        cmdCtx.Root.ID,
		GeneratedAt: time.Now(),
	}
	changes := make(map[string]aggregation.IDSet, len(cmdCtx.Paths))

	for _, path := range cmdCtx.Paths {
		commits, err := aggregation.CommitsWhereChanged(c.Context, cmdCtx.Store, cmdCtx.Root, path, cmdCtx.TrackerOptions()...)
		if err != nil {
			return err
		}

		fixes := detector.Detect(commits)
		metrics := aggregation.SummarizePath(path, commits)
		metrics.FixCount = len(fixes)
		burstCalc.Compute(metrics)
		entropyCalc.Compute(metrics)

		ids := make(aggregation.IDSet, len(commits))
		for _, commit := range commits {
			ids[commit.ID] = struct{}{}
		}
		changes[path] = ids

		report.Paths = append(report.Paths, output.PathHistory{
			Path:    path,
			Commits: commits,
			Fixes:   fixes,
			Metrics: metrics,
		})
		cmdCtx.Logger.Debug("path done", "path", path, "changes", len(commits))
	}

	if len(cmdCtx.Paths) > 1 {
		result := coupling.NewAnalyzer(cfg.Coupling).Analyze(changes)
		report.Coupling = &result
	}

	opts := cmdCtx.OutputOptions(c)
	return output.NewHistoryReportWriter(opts.Format).Write(report, opts)
}
