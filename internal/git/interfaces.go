package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
)

// Store gives read-only access to an immutable commit graph.
// Implementations must return an error wrapping ErrObjectNotFound when an id
// cannot be resolved; callers treat that as a broken repository, never as an
// absent path.
type Store interface {
	// CurrentRoot resolves the configured reference to a commit id.
	CurrentRoot(ctx context.Context) (plumbing.Hash, error)
	// Commit fetches a commit by id.
	Commit(ctx context.Context, id plumbing.Hash) (Commit, error)
	// Snapshot fetches a tree by id.
	Snapshot(ctx context.Context, id plumbing.Hash) (Snapshot, error)
}

// Snapshot is an immutable path -> content id mapping.
type Snapshot interface {
	ID() plumbing.Hash
	// Lookup returns the content id at path. ok is false when the path does
	// not exist in the snapshot; err is reserved for unreadable objects.
	Lookup(ctx context.Context, path string) (id plumbing.Hash, ok bool, err error)
	// Paths lists every file path in the snapshot.
	Paths(ctx context.Context) ([]string, error)
}

// ErrObjectNotFound reports a referenced object missing from the store.
var ErrObjectNotFound = errors.New("object not found")

// ObjectKind names the kind of object an ObjectError refers to.
type ObjectKind string

const (
	ObjectCommit ObjectKind = "commit"
	ObjectTree   ObjectKind = "tree"
)

// ObjectError describes a failure to read an object from the store.
type ObjectError struct {
	Kind ObjectKind
	ID   plumbing.Hash
	Err  error
}

func (e *ObjectError) Error() string {
	return fmt.Sprintf("read %s %s: %v", e.Kind, e.ID, e.Err)
}

func (e *ObjectError) Unwrap() error {
	return e.Err
}

func missingObject(kind ObjectKind, id plumbing.Hash) error {
	return &ObjectError{Kind: kind, ID: id, Err: ErrObjectNotFound}
}

// OpenStore opens the repository at opts.RepoPath with the selected backend.
func OpenStore(opts StoreOptions) (Store, error) {
	switch opts.Backend {
	case "", BackendGoGit:
		return NewGoGitStore(opts)
	case BackendGitCLI:
		return NewCLIStore(opts)
	default:
		return nil, fmt.Errorf("unknown backend %q", opts.Backend)
	}
}

// Compile-time interface conformance checks.
var (
	_ Store = (*GoGitStore)(nil)
	_ Store = (*CLIStore)(nil)
	_ Store = (*MemoryStore)(nil)
	_ Store = (*CachedStore)(nil)
)
