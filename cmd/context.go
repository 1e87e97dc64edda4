package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/staredown-go/config"
	"github.com/masmgr/staredown-go/internal/git"
	"github.com/masmgr/staredown-go/internal/output"
	"github.com/masmgr/staredown-go/internal/tracker"
)

// CommandContext holds common state for command execution.
// It encapsulates the shared setup logic of the history and ids commands.
type CommandContext struct {
	Config   *config.Config
	RepoPath string
	Store    git.Store
	Root     git.Commit
	Paths    []string
	Logger   *slog.Logger
}

// NewCommandContext creates a context from CLI flags.
// It loads configuration, opens the repository, resolves the root commit
// and expands the path arguments against the root snapshot.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	if c.NArg() == 0 {
		return nil, fmt.Errorf("at least one path is required")
	}

	backend, err := git.ParseBackend(cfg.History.Backend)
	if err != nil {
		return nil, err
	}

	repoPath := c.String("repo")
	if repoPath == "" {
		repoPath = "."
	}

	logger := newLogger(os.Stderr, c.Bool("verbose"))

	store, err := git.OpenStore(git.StoreOptions{
		RepoPath: repoPath,
		Ref:      cfg.History.DefaultRef,
		Backend:  backend,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	// Every tracked path walks the same commits; share one cache across them.
	store = git.NewCachedStore(store)

	ctx := c.Context
	rootID, err := store.CurrentRoot(ctx)
	if err != nil {
		return nil, err
	}
	root, err := store.Commit(ctx, rootID)
	if err != nil {
		return nil, fmt.Errorf("failed to read root commit: %w", err)
	}
	snapshot, err := store.Snapshot(ctx, root.SnapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to read root snapshot: %w", err)
	}

	paths, err := git.ExpandPatterns(ctx, snapshot, c.Args().Slice(), cfg.Filters.Exclude)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths left to track after exclusions")
	}

	logger.Debug("resolved root", "ref", cfg.History.DefaultRef, "commit", root.ID.String(), "backend", string(backend), "paths", len(paths))

	return &CommandContext{
		Config:   cfg,
		RepoPath: repoPath,
		Store:    store,
		Root:     root,
		Paths:    paths,
		Logger:   logger,
	}, nil
}

// TrackerOptions returns the tracker options selected by configuration.
func (ctx *CommandContext) TrackerOptions() []tracker.Option {
	opts := []tracker.Option{tracker.WithLogger(ctx.Logger)}
	if ctx.Config.History.ContentGuard {
		opts = append(opts, tracker.WithContentGuard())
	}
	return opts
}

// OutputOptions creates OutputOptions from configuration and CLI flags.
func (ctx *CommandContext) OutputOptions(c *cli.Context) output.OutputOptions {
	return output.OutputOptions{
		Format:     getOutputFormat(ctx.Config.Output.Format),
		Top:        ctx.Config.Output.Top,
		OutputPath: c.String("output"),
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
