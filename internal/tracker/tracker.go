// Package tracker finds the commits that changed a single path.
//
// A ChangeTracker walks backward from a root commit and yields, one per
// call to Next, every commit whose content at the tracked path differs from
// at least one of its parents. Output order is discovery order (depth first
// through a stack), not chronological; see the aggregation package for the
// sorted and set forms.
package tracker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/masmgr/staredown-go/internal/git"
)

// ChangeTracker is a pull-based traversal over a commit graph.
// It is not safe for concurrent use. A caller that stops calling Next early
// can simply drop the tracker.
type ChangeTracker struct {
	store git.Store
	path  string

	frontier []git.Commit
	visited  map[plumbing.Hash]struct{}
	claimed  map[plumbing.Hash]struct{}

	guard    bool
	logger   *slog.Logger
	examined int
	err      error
}

// Option configures a ChangeTracker.
type Option func(*ChangeTracker)

// WithContentGuard makes every emitted commit claim its content id. Older
// commits holding a claimed content id are skipped together with their
// ancestry. This hides commits that reintroduce earlier content (reverts)
// and the commit that first added the path when its content came back
// later, so it is off by default.
func WithContentGuard() Option {
	return func(t *ChangeTracker) {
		t.guard = true
	}
}

// WithLogger sends a debug trace of the traversal to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *ChangeTracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// New creates a tracker for path starting at root. path must already be
// normalized (see git.NormalizePath).
func New(store git.Store, root git.Commit, path string, opts ...Option) *ChangeTracker {
	t := &ChangeTracker{
		store:    store,
		path:     path,
		frontier: []git.Commit{root},
		visited:  map[plumbing.Hash]struct{}{root.ID: {}},
		claimed:  make(map[plumbing.Hash]struct{}),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Path returns the tracked path.
func (t *ChangeTracker) Path() string {
	return t.path
}

// Examined returns how many commits have been popped from the frontier.
func (t *ChangeTracker) Examined() int {
	return t.examined
}

// Visited returns how many distinct commits have been discovered.
func (t *ChangeTracker) Visited() int {
	return len(t.visited)
}

// Next returns the next commit that changed the tracked path.
// ok is false once the traversal is exhausted. A non-nil error means the
// store could not produce an object the graph refers to; the tracker
// keeps returning that error afterwards.
func (t *ChangeTracker) Next(ctx context.Context) (commit git.Commit, ok bool, err error) {
	if t.err != nil {
		return git.Commit{}, false, t.err
	}

	for len(t.frontier) > 0 {
		c := t.frontier[len(t.frontier)-1]
		t.frontier = t.frontier[:len(t.frontier)-1]
		t.examined++

		changed, err := t.examine(ctx, c)
		if err != nil {
			t.err = fmt.Errorf("track %s at %s: %w", t.path, c.ID, err)
			t.frontier = nil
			return git.Commit{}, false, t.err
		}
		if changed {
			t.logger.Debug("emit", "path", t.path, "commit", c.ID.String())
			return c, true, nil
		}
	}

	return git.Commit{}, false, nil
}

// examine decides whether c is emitted and pushes its unvisited parents
// when the path exists in c.
func (t *ChangeTracker) examine(ctx context.Context, c git.Commit) (bool, error) {
	content, ok, err := t.lookup(ctx, c)
	if err != nil {
		return false, err
	}
	if !ok {
		t.logger.Debug("prune: path absent", "path", t.path, "commit", c.ID.String())
		return false, nil
	}

	if _, seen := t.claimed[content]; seen {
		t.logger.Debug("skip: content already attributed", "path", t.path, "commit", c.ID.String())
		return false, nil
	}

	if c.IsRoot() {
		t.claim(content)
		return true, nil
	}

	changed := false
	for _, parentID := range c.Parents {
		parent, err := t.store.Commit(ctx, parentID)
		if err != nil {
			return false, err
		}

		if _, seen := t.visited[parentID]; !seen {
			t.visited[parentID] = struct{}{}
			t.frontier = append(t.frontier, parent)
		}

		parentContent, parentHas, err := t.lookup(ctx, parent)
		if err != nil {
			return false, err
		}
		if !parentHas || parentContent != content {
			changed = true
		}
	}

	if changed {
		t.claim(content)
	}
	return changed, nil
}

func (t *ChangeTracker) lookup(ctx context.Context, c git.Commit) (plumbing.Hash, bool, error) {
	snap, err := t.store.Snapshot(ctx, c.SnapshotID)
	if err != nil {
		return plumbing.ZeroHash, false, err
	}
	return snap.Lookup(ctx, t.path)
}

func (t *ChangeTracker) claim(content plumbing.Hash) {
	if t.guard {
		t.claimed[content] = struct{}{}
	}
}
