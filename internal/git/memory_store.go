package git

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
)

// MemoryStore is an in-memory Store for tests and examples.
// It builds a commit graph without a repository on disk and counts how
// often each object is read, so traversals can be checked for pruning.
type MemoryStore struct {
	commits map[plumbing.Hash]Commit
	trees   map[plumbing.Hash]map[string]plumbing.Hash
	head    plumbing.Hash

	commitReads   map[plumbing.Hash]int
	snapshotReads map[plumbing.Hash]int
}

// MemoryCommit describes a commit to add to a MemoryStore.
// Files maps slash-separated paths to file contents.
type MemoryCommit struct {
	Message string
	When    time.Time
	Author  AuthorInfo
	Parents []plumbing.Hash
	Files   map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		commits:       make(map[plumbing.Hash]Commit),
		trees:         make(map[plumbing.Hash]map[string]plumbing.Hash),
		commitReads:   make(map[plumbing.Hash]int),
		snapshotReads: make(map[plumbing.Hash]int),
	}
}

// AddCommit stores a commit and its snapshot and moves the head to it.
func (m *MemoryStore) AddCommit(c MemoryCommit) plumbing.Hash {
	entries := make(map[string]plumbing.Hash, len(c.Files))
	for path, content := range c.Files {
		entries[path] = BlobID(content)
	}
	treeID := hashEntries(entries)
	m.trees[treeID] = entries

	var buf strings.Builder
	fmt.Fprintf(&buf, "tree %s\n", treeID)
	for _, p := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", p)
	}
	fmt.Fprintf(&buf, "author %s <%s> %d\n\n%s", c.Author.Name, c.Author.Email, c.When.Unix(), c.Message)
	id := plumbing.ComputeHash(plumbing.CommitObject, []byte(buf.String()))

	parents := make([]plumbing.Hash, len(c.Parents))
	copy(parents, c.Parents)

	m.commits[id] = Commit{
		ID:         id,
		SnapshotID: treeID,
		Parents:    parents,
		When:       c.When,
		Author:     c.Author,
		Message:    firstLine(c.Message),
	}
	m.head = id
	return id
}

// SetHead points CurrentRoot at id.
func (m *MemoryStore) SetHead(id plumbing.Hash) {
	m.head = id
}

// RemoveCommit deletes a commit, simulating a corrupt repository.
func (m *MemoryStore) RemoveCommit(id plumbing.Hash) {
	delete(m.commits, id)
}

// RemoveSnapshot deletes a tree, simulating a corrupt repository.
func (m *MemoryStore) RemoveSnapshot(id plumbing.Hash) {
	delete(m.trees, id)
}

// CommitReads returns how many times Commit was called for id.
func (m *MemoryStore) CommitReads(id plumbing.Hash) int {
	return m.commitReads[id]
}

// SnapshotReads returns how many times Snapshot was called for id.
func (m *MemoryStore) SnapshotReads(id plumbing.Hash) int {
	return m.snapshotReads[id]
}

// CurrentRoot returns the head set by AddCommit or SetHead.
func (m *MemoryStore) CurrentRoot(_ context.Context) (plumbing.Hash, error) {
	if m.head.IsZero() {
		return plumbing.ZeroHash, fmt.Errorf("resolve HEAD: %w", plumbing.ErrReferenceNotFound)
	}
	return m.head, nil
}

// Commit returns a copy of the stored commit.
func (m *MemoryStore) Commit(_ context.Context, id plumbing.Hash) (Commit, error) {
	m.commitReads[id]++
	c, ok := m.commits[id]
	if !ok {
		return Commit{}, missingObject(ObjectCommit, id)
	}
	c.Parents = append([]plumbing.Hash(nil), c.Parents...)
	return c, nil
}

// Snapshot returns the stored tree.
func (m *MemoryStore) Snapshot(_ context.Context, id plumbing.Hash) (Snapshot, error) {
	m.snapshotReads[id]++
	entries, ok := m.trees[id]
	if !ok {
		return nil, missingObject(ObjectTree, id)
	}
	return &memorySnapshot{id: id, entries: entries}, nil
}

// BlobID returns the content id a MemoryStore assigns to content.
// It matches the blob hash git computes for the same bytes.
func BlobID(content string) plumbing.Hash {
	return plumbing.ComputeHash(plumbing.BlobObject, []byte(content))
}

func hashEntries(entries map[string]plumbing.Hash) plumbing.Hash {
	paths := make([]string, 0, len(entries))
	for p := range entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var buf strings.Builder
	for _, p := range paths {
		buf.WriteString(p)
		buf.WriteByte(0)
		buf.WriteString(entries[p].String())
		buf.WriteByte('\n')
	}
	return plumbing.ComputeHash(plumbing.TreeObject, []byte(buf.String()))
}

type memorySnapshot struct {
	id      plumbing.Hash
	entries map[string]plumbing.Hash
}

func (s *memorySnapshot) ID() plumbing.Hash {
	return s.id
}

// Lookup resolves a file path directly; a directory path resolves to a
// hash over the entries below it, so it changes whenever any of them does.
func (s *memorySnapshot) Lookup(_ context.Context, path string) (plumbing.Hash, bool, error) {
	if id, ok := s.entries[path]; ok {
		return id, true, nil
	}

	prefix := path + "/"
	sub := make(map[string]plumbing.Hash)
	for p, id := range s.entries {
		if strings.HasPrefix(p, prefix) {
			sub[strings.TrimPrefix(p, prefix)] = id
		}
	}
	if len(sub) == 0 {
		return plumbing.ZeroHash, false, nil
	}
	return hashEntries(sub), true, nil
}

func (s *memorySnapshot) Paths(_ context.Context) ([]string, error) {
	paths := make([]string, 0, len(s.entries))
	for p := range s.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}
