package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GoGitStore reads the commit graph through go-git.
type GoGitStore struct {
	repo *git.Repository
	ref  string
}

// NewGoGitStore opens the repository at opts.RepoPath.
// The path may point anywhere inside a work tree.
func NewGoGitStore(opts StoreOptions) (*GoGitStore, error) {
	repo, err := git.PlainOpenWithOptions(opts.RepoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	return NewGoGitStoreFromRepository(repo, opts.Ref), nil
}

// NewGoGitStoreFromRepository wraps an already opened repository.
func NewGoGitStoreFromRepository(repo *git.Repository, ref string) *GoGitStore {
	return &GoGitStore{repo: repo, ref: ref}
}

// CurrentRoot resolves the configured ref (HEAD by default).
func (s *GoGitStore) CurrentRoot(_ context.Context) (plumbing.Hash, error) {
	rev := strings.TrimSpace(s.ref)
	if rev == "" {
		rev = "HEAD"
	}
	hash, err := s.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve %s: %w", rev, err)
	}
	return *hash, nil
}

// Commit fetches a commit by id.
func (s *GoGitStore) Commit(_ context.Context, id plumbing.Hash) (Commit, error) {
	c, err := s.repo.CommitObject(id)
	if err != nil {
		return Commit{}, objectError(ObjectCommit, id, err)
	}

	parents := make([]plumbing.Hash, len(c.ParentHashes))
	copy(parents, c.ParentHashes)

	return Commit{
		ID:         c.Hash,
		SnapshotID: c.TreeHash,
		Parents:    parents,
		When:       c.Committer.When,
		Author:     AuthorInfo{Name: c.Author.Name, Email: c.Author.Email},
		Message:    firstLine(c.Message),
	}, nil
}

// Snapshot fetches a tree by id.
func (s *GoGitStore) Snapshot(_ context.Context, id plumbing.Hash) (Snapshot, error) {
	tree, err := s.repo.TreeObject(id)
	if err != nil {
		return nil, objectError(ObjectTree, id, err)
	}
	return &goGitSnapshot{repo: s.repo, tree: tree}, nil
}

func objectError(kind ObjectKind, id plumbing.Hash, err error) error {
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return missingObject(kind, id)
	}
	return &ObjectError{Kind: kind, ID: id, Err: err}
}

type goGitSnapshot struct {
	repo *git.Repository
	tree *object.Tree
}

func (s *goGitSnapshot) ID() plumbing.Hash {
	return s.tree.Hash
}

// Lookup walks the tree one path component at a time. A file where a
// directory is expected means the path does not exist.
func (s *goGitSnapshot) Lookup(_ context.Context, path string) (plumbing.Hash, bool, error) {
	names := strings.Split(path, "/")
	cur := s.tree

	for i, name := range names {
		entry := findEntry(cur.Entries, name)
		if entry == nil {
			return plumbing.ZeroHash, false, nil
		}
		if i == len(names)-1 {
			return entry.Hash, true, nil
		}
		if entry.Mode != filemode.Dir {
			return plumbing.ZeroHash, false, nil
		}

		next, err := s.repo.TreeObject(entry.Hash)
		if err != nil {
			return plumbing.ZeroHash, false, objectError(ObjectTree, entry.Hash, err)
		}
		cur = next
	}

	return plumbing.ZeroHash, false, nil
}

func (s *goGitSnapshot) Paths(_ context.Context) ([]string, error) {
	var paths []string
	err := s.tree.Files().ForEach(func(f *object.File) error {
		paths = append(paths, f.Name)
		return nil
	})
	if err != nil {
		return nil, objectError(ObjectTree, s.tree.Hash, err)
	}
	return paths, nil
}

func findEntry(entries []object.TreeEntry, name string) *object.TreeEntry {
	for i := range entries {
		if entries[i].Name == name {
			return &entries[i]
		}
	}
	return nil
}
