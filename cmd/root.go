package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/staredown-go/config"
	"github.com/masmgr/staredown-go/internal/output"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:      "staredown",
		Usage:     "Find the commits that changed a path in a Git repository",
		Version:   "1.0.0",
		ArgsUsage: "<path>...",
		Commands: []*cli.Command{
			HistoryCmd(),
			IdsCmd(),
		},
		Flags:  appFlags(),
		Action: legacyAction,
	}
}

// appFlags are the top level flags. Besides --config they carry the history
// flags so the bare path form accepts them too.
func appFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
		},
	}
	for _, f := range append(commonFlags(), historyFlags()...) {
		if bf, ok := f.(*cli.BoolFlag); ok && bf.Name == "verbose" {
			// -v is the version flag at the top level
			bf.Aliases = nil
		}
		flags = append(flags, f)
	}
	return flags
}

// Common flags shared across commands
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path to Git repository",
			Value:   ".",
		},
		&cli.StringFlag{
			Name:  "ref",
			Usage: "Revision to start from (default: history.defaultRef, HEAD)",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "Object store backend (gogit, gitcli)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob patterns to exclude (can be specified multiple times)",
		},
		&cli.BoolFlag{
			Name:  "guard",
			Usage: "Skip commits whose content a newer change already introduced",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv, markdown, ci)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Log traversal details to stderr",
		},
	}
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) output.OutputFormat {
	switch s {
	case "json":
		return output.FormatJSON
	case "csv":
		return output.FormatCSV
	case "markdown", "md":
		return output.FormatMarkdown
	case "ci", "ndjson":
		return output.FormatCI
	default:
		return output.FormatConsole
	}
}

// loadConfig loads configuration from file or defaults and applies CLI
// overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Filters.Exclude = excludes
	}
	if ref := c.String("ref"); ref != "" {
		cfg.History.DefaultRef = ref
	}
	if backend := c.String("backend"); backend != "" {
		cfg.History.Backend = backend
	}
	if c.Bool("guard") {
		cfg.History.ContentGuard = true
	}
	if format := c.String("format"); format != "" {
		cfg.Output.Format = format
	}
	if c.IsSet("top") {
		cfg.Output.Top = c.Int("top")
	}
	if windowDays := c.Int("window-days"); windowDays > 0 {
		cfg.Burst.WindowDays = windowDays
	}

	return cfg, nil
}

// legacyAction handles the default command behavior.
// Bare path arguments run the history command.
func legacyAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.ShowAppHelp(c)
	}
	return historyAction(c)
}

// Run executes the CLI application.
func Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := App().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
