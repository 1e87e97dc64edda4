package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// CLIStore reads the commit graph by shelling out to the git executable.
// Raw objects are decoded with go-git so both backends produce identical
// Commit values.
type CLIStore struct {
	repoPath string
	ref      string
}

// NewCLIStore checks that opts.RepoPath is inside a git repository.
func NewCLIStore(opts StoreOptions) (*CLIStore, error) {
	s := &CLIStore{repoPath: opts.RepoPath, ref: opts.Ref}
	if s.repoPath == "" {
		s.repoPath = "."
	}
	if _, err := s.run(context.Background(), "rev-parse", "--git-dir"); err != nil {
		return nil, err
	}
	return s, nil
}

// CurrentRoot resolves the configured ref (HEAD by default).
func (s *CLIStore) CurrentRoot(ctx context.Context) (plumbing.Hash, error) {
	rev := strings.TrimSpace(s.ref)
	if rev == "" {
		rev = "HEAD"
	}
	if strings.HasPrefix(rev, "-") {
		return plumbing.ZeroHash, fmt.Errorf("invalid ref %q", rev)
	}

	out, err := s.run(ctx, "rev-parse", "--verify", "--quiet", rev+"^{commit}")
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve %s: %w", rev, err)
	}

	hex := strings.TrimSpace(string(out))
	if !plumbing.IsHash(hex) {
		return plumbing.ZeroHash, fmt.Errorf("resolve %s: unexpected rev-parse output %q", rev, hex)
	}
	return plumbing.NewHash(hex), nil
}

// Commit fetches a commit by id.
func (s *CLIStore) Commit(ctx context.Context, id plumbing.Hash) (Commit, error) {
	raw, err := s.catFile(ctx, plumbing.CommitObject, id)
	if err != nil {
		return Commit{}, s.objectError(ObjectCommit, id, err)
	}

	c := &object.Commit{}
	if err := c.Decode(raw); err != nil {
		return Commit{}, &ObjectError{Kind: ObjectCommit, ID: id, Err: err}
	}

	return Commit{
		ID:         id,
		SnapshotID: c.TreeHash,
		Parents:    c.ParentHashes,
		When:       c.Committer.When,
		Author:     AuthorInfo{Name: c.Author.Name, Email: c.Author.Email},
		Message:    firstLine(c.Message),
	}, nil
}

// Snapshot checks that id names a tree and returns a handle to it.
func (s *CLIStore) Snapshot(ctx context.Context, id plumbing.Hash) (Snapshot, error) {
	out, err := s.run(ctx, "cat-file", "-t", id.String())
	if err != nil {
		return nil, s.objectError(ObjectTree, id, err)
	}
	if kind := strings.TrimSpace(string(out)); kind != "tree" {
		return nil, &ObjectError{Kind: ObjectTree, ID: id, Err: fmt.Errorf("%w: object is a %s", ErrObjectNotFound, kind)}
	}
	return &cliSnapshot{store: s, id: id}, nil
}

func (s *CLIStore) catFile(ctx context.Context, kind plumbing.ObjectType, id plumbing.Hash) (plumbing.EncodedObject, error) {
	out, err := s.run(ctx, "cat-file", kind.String(), id.String())
	if err != nil {
		return nil, err
	}

	obj := &plumbing.MemoryObject{}
	obj.SetType(kind)
	if _, err := obj.Write(out); err != nil {
		return nil, err
	}
	return obj, nil
}

// objectError maps a failed git invocation to an ObjectError. A non-zero
// exit from git means the object could not be resolved; anything else
// (missing executable, cancelled context) is passed through.
func (s *CLIStore) objectError(kind ObjectKind, id plumbing.Hash, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ObjectError{Kind: kind, ID: id, Err: fmt.Errorf("%w: %v", ErrObjectNotFound, err)}
	}
	return &ObjectError{Kind: kind, ID: id, Err: err}
}

func (s *CLIStore) run(ctx context.Context, args ...string) ([]byte, error) {
	full := append([]string{"-C", s.repoPath}, args...)
	out, err := exec.CommandContext(ctx, "git", full...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &gitCommandError{args: args, stderr: strings.TrimSpace(string(exitErr.Stderr)), err: err}
		}
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	return out, nil
}

type gitCommandError struct {
	args   []string
	stderr string
	err    error
}

func (e *gitCommandError) Error() string {
	if e.stderr == "" {
		return fmt.Sprintf("git %s failed: %v", e.args[0], e.err)
	}
	return fmt.Sprintf("git %s failed: %v: %s", e.args[0], e.err, e.stderr)
}

func (e *gitCommandError) Unwrap() error {
	return e.err
}

type cliSnapshot struct {
	store *CLIStore
	id    plumbing.Hash
}

func (s *cliSnapshot) ID() plumbing.Hash {
	return s.id
}

// Lookup asks ls-tree for the single entry at path. ls-tree treats its
// arguments as patterns, so only an exact path match counts.
func (s *cliSnapshot) Lookup(ctx context.Context, path string) (plumbing.Hash, bool, error) {
	out, err := s.store.run(ctx, "ls-tree", "-z", "--full-tree", s.id.String(), "--", path)
	if err != nil {
		return plumbing.ZeroHash, false, s.store.objectError(ObjectTree, s.id, err)
	}

	entries, err := parseLsTree(out)
	if err != nil {
		return plumbing.ZeroHash, false, &ObjectError{Kind: ObjectTree, ID: s.id, Err: err}
	}

	for _, e := range entries {
		if e.path == path {
			return e.hash, true, nil
		}
	}
	return plumbing.ZeroHash, false, nil
}

func (s *cliSnapshot) Paths(ctx context.Context) ([]string, error) {
	out, err := s.store.run(ctx, "ls-tree", "-r", "-z", "--full-tree", s.id.String())
	if err != nil {
		return nil, s.store.objectError(ObjectTree, s.id, err)
	}

	entries, err := parseLsTree(out)
	if err != nil {
		return nil, &ObjectError{Kind: ObjectTree, ID: s.id, Err: err}
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		// Submodule entries have no blob behind them.
		if e.kind == "blob" {
			paths = append(paths, e.path)
		}
	}
	return paths, nil
}
