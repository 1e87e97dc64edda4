package git

import (
	"context"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/patrickmn/go-cache"
)

// CachedStore memoizes commits, snapshots and path lookups of another
// Store. Objects are immutable, so entries never expire. Errors are not
// cached.
type CachedStore struct {
	store   Store
	commits *cache.Cache
	trees   *cache.Cache
}

// NewCachedStore wraps store.
func NewCachedStore(store Store) *CachedStore {
	return &CachedStore{
		store:   store,
		commits: cache.New(cache.NoExpiration, 0),
		trees:   cache.New(cache.NoExpiration, 0),
	}
}

// CurrentRoot is not cached; the reference may move between calls.
func (s *CachedStore) CurrentRoot(ctx context.Context) (plumbing.Hash, error) {
	return s.store.CurrentRoot(ctx)
}

func (s *CachedStore) Commit(ctx context.Context, id plumbing.Hash) (Commit, error) {
	key := id.String()
	if v, ok := s.commits.Get(key); ok {
		c := v.(Commit)
		c.Parents = append([]plumbing.Hash(nil), c.Parents...)
		return c, nil
	}

	c, err := s.store.Commit(ctx, id)
	if err != nil {
		return Commit{}, err
	}
	stored := c
	stored.Parents = append([]plumbing.Hash(nil), c.Parents...)
	s.commits.Set(key, stored, cache.NoExpiration)
	return c, nil
}

func (s *CachedStore) Snapshot(ctx context.Context, id plumbing.Hash) (Snapshot, error) {
	key := id.String()
	if v, ok := s.trees.Get(key); ok {
		return v.(*cachedSnapshot), nil
	}

	snap, err := s.store.Snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	cs := &cachedSnapshot{Snapshot: snap, lookups: cache.New(cache.NoExpiration, 0)}
	s.trees.Set(key, cs, cache.NoExpiration)
	return cs, nil
}

type cachedSnapshot struct {
	Snapshot
	lookups *cache.Cache
}

type lookupResult struct {
	id plumbing.Hash
	ok bool
}

func (s *cachedSnapshot) Lookup(ctx context.Context, path string) (plumbing.Hash, bool, error) {
	if v, ok := s.lookups.Get(path); ok {
		r := v.(lookupResult)
		return r.id, r.ok, nil
	}

	id, ok, err := s.Snapshot.Lookup(ctx, path)
	if err != nil {
		return plumbing.ZeroHash, false, err
	}
	s.lookups.Set(path, lookupResult{id: id, ok: ok}, cache.NoExpiration)
	return id, ok, nil
}
