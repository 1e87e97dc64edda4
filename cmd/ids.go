package cmd

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/staredown-go/internal/aggregation"
	"github.com/masmgr/staredown-go/internal/output"
)

// IdsCmd returns the ids command.
func IdsCmd() *cli.Command {
	return &cli.Command{
		Name:      "ids",
		Usage:     "Print the ids of every commit that changed any of the paths",
		ArgsUsage: "<path|pattern>...",
		Flags:     commonFlags(),
		Action:    idsAction,
	}
}

func idsAction(c *cli.Context) error {
	cmdCtx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	all := make(aggregation.IDSet)
	for _, path := range cmdCtx.Paths {
		ids, err := aggregation.CommitIDsWhereChanged(c.Context, cmdCtx.Store, cmdCtx.Root, path, cmdCtx.TrackerOptions()...)
		if err != nil {
			return err
		}
		all.Add(ids)
	}

	report := &output.IDsReport{
		RepoPath:    cmdCtx.RepoPath,
		Ref:         cmdCtx.Config.History.DefaultRef,
		Root:        cmdCtx.Root.ID,
		GeneratedAt: time.Now(),
		Paths:       cmdCtx.Paths,
		IDs:         all.Sorted(),
	}

	opts := cmdCtx.OutputOptions(c)
	return output.NewIDsReportWriter(opts.Format).Write(report, opts)
}
