package git

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
)

// Commit is a read-only copy of the commit fields the tracker needs.
// Values are copied out of the store eagerly so they stay valid after the
// underlying repository objects are released.
type Commit struct {
	ID         plumbing.Hash
	SnapshotID plumbing.Hash
	Parents    []plumbing.Hash
	When       time.Time // committer time
	Author     AuthorInfo
	Message    string // first line only
}

// IsRoot reports whether the commit has no parents.
func (c Commit) IsRoot() bool {
	return len(c.Parents) == 0
}

// ShortID returns the abbreviated commit hash.
func (c Commit) ShortID() string {
	s := c.ID.String()
	if len(s) > shortIDLength {
		return s[:shortIDLength]
	}
	return s
}

const shortIDLength = 7

// AuthorInfo represents commit author information.
type AuthorInfo struct {
	Name  string
	Email string
}

// ContributorKey returns a normalized identifier for grouping contributors.
func (a AuthorInfo) ContributorKey() string {
	return strings.ToLower(a.Email)
}

// Backend selects the store implementation used to read a repository.
type Backend string

const (
	BackendGoGit  Backend = "gogit"
	BackendGitCLI Backend = "gitcli"
)

// ParseBackend converts a flag or config value to a Backend.
// An empty value selects the go-git backend.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "gogit", "go-git":
		return BackendGoGit, nil
	case "gitcli", "git-cli", "git", "cli":
		return BackendGitCLI, nil
	default:
		return "", fmt.Errorf("unknown backend %q (expected gogit or gitcli)", s)
	}
}

// StoreOptions configures how a repository is opened.
type StoreOptions struct {
	RepoPath string
	Ref      string // revision resolved by CurrentRoot; empty means HEAD
	Backend  Backend
}

func firstLine(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx != -1 {
		return message[:idx]
	}
	return message
}
