package aggregation

import (
	"context"
	"sort"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/masmgr/staredown-go/internal/git"
	"github.com/masmgr/staredown-go/internal/tracker"
)

// IDSet is a set of commit ids.
type IDSet map[plumbing.Hash]struct{}

// Contains reports whether id is in the set.
func (s IDSet) Contains(id plumbing.Hash) bool {
	_, ok := s[id]
	return ok
}

// Add inserts every id of other into s.
func (s IDSet) Add(other IDSet) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// Sorted returns the ids in lexical order of their hex form.
func (s IDSet) Sorted() []plumbing.Hash {
	ids := make([]plumbing.Hash, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}

// CommitsWhereChanged drains a tracker for path and returns the commits
// newest first. Commits with equal timestamps keep their discovery order.
func CommitsWhereChanged(ctx context.Context, store git.Store, root git.Commit, path string, opts ...tracker.Option) ([]git.Commit, error) {
	t := tracker.New(store, root, path, opts...)

	var commits []git.Commit
	for {
		c, ok, err := t.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		commits = append(commits, c)
	}

	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].When.After(commits[j].When)
	})
	return commits, nil
}

// CommitIDsWhereChanged drains a tracker for path into a set of ids.
func CommitIDsWhereChanged(ctx context.Context, store git.Store, root git.Commit, path string, opts ...tracker.Option) (IDSet, error) {
	t := tracker.New(store, root, path, opts...)

	ids := make(IDSet)
	for {
		c, ok, err := t.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return ids, nil
		}
		ids[c.ID] = struct{}{}
	}
}
