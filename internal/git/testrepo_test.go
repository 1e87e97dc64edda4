package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// fixtureRepo is a small repository with a diverging branch merged back:
//
//	c1 (a.txt=x, b.txt=b) -- c2 (a.txt=y, dir/new.txt=n) -- merge (a.txt=y)
//	  \                                                    /
//	   c3 (a.txt=z) ---------------------------------------
type fixtureRepo struct {
	dir   string
	repo  *gogit.Repository
	c1    plumbing.Hash
	c2    plumbing.Hash
	c3    plumbing.Hash
	merge plumbing.Hash
}

func createFixtureRepo(t *testing.T) *fixtureRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}

	write := func(rel, content string) {
		t.Helper()
		full := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if _, err := wt.Add(rel); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	commit := func(msg string, offset time.Duration, parents ...plumbing.Hash) plumbing.Hash {
		t.Helper()
		sig := &object.Signature{Name: "Test", Email: "test@example.com", When: base.Add(offset)}
		h, err := wt.Commit(msg, &gogit.CommitOptions{
			Author:            sig,
			Committer:         sig,
			Parents:           parents,
			AllowEmptyCommits: len(parents) > 1,
		})
		if err != nil {
			t.Fatalf("Commit(%s): %v", msg, err)
		}
		return h
	}

	f := &fixtureRepo{dir: dir, repo: repo}

	write("a.txt", "x\n")
	write("b.txt", "b\n")
	f.c1 = commit("initial", 0)

	head, err := repo.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	mainBranch := head.Name()

	write("a.txt", "y\n")
	write("dir/new.txt", "n\n")
	f.c2 = commit("change a on main", time.Hour)

	if err := wt.Checkout(&gogit.CheckoutOptions{
		Hash:   f.c1,
		Branch: plumbing.NewBranchReferenceName("feature"),
		Create: true,
	}); err != nil {
		t.Fatalf("Checkout(feature): %v", err)
	}
	write("a.txt", "z\n")
	f.c3 = commit("change a on feature", 2*time.Hour)

	if err := wt.Checkout(&gogit.CheckoutOptions{Branch: mainBranch}); err != nil {
		t.Fatalf("Checkout(%s): %v", mainBranch, err)
	}
	f.merge = commit("merge feature, keep main", 3*time.Hour, f.c2, f.c3)

	return f
}
