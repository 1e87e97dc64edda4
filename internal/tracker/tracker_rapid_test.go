package tracker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"pgregory.net/rapid"

	"github.com/masmgr/staredown-go/internal/git"
)

// randomGraph is a DAG where commit i only has parents with smaller indexes.
type randomGraph struct {
	store *git.MemoryStore
	ids   []plumbing.Hash
	// content of the tracked path per commit, "" when absent
	content []string
	parents [][]int
}

func genGraph(t *rapid.T) *randomGraph {
	n := rapid.IntRange(1, 25).Draw(t, "commits")
	g := &randomGraph{store: git.NewMemoryStore()}

	for i := 0; i < n; i++ {
		var parents []int
		if i > 0 {
			count := rapid.IntRange(0, min(i, 3)).Draw(t, fmt.Sprintf("parents%d", i))
			seen := map[int]bool{}
			for range count {
				p := rapid.IntRange(0, i-1).Draw(t, fmt.Sprintf("parent%d", i))
				if !seen[p] {
					seen[p] = true
					parents = append(parents, p)
				}
			}
		}

		content := rapid.SampledFrom([]string{"", "a", "b", "c"}).Draw(t, fmt.Sprintf("content%d", i))
		files := map[string]string{"noise.txt": fmt.Sprintf("%d", i)}
		if content != "" {
			files["f.txt"] = content
		}

		parentIDs := make([]plumbing.Hash, len(parents))
		for j, p := range parents {
			parentIDs[j] = g.ids[p]
		}
		id := g.store.AddCommit(git.MemoryCommit{
			Message: fmt.Sprintf("commit %d", i),
			When:    baseTime.Add(time.Duration(rapid.IntRange(0, 10).Draw(t, fmt.Sprintf("when%d", i))) * time.Hour),
			Parents: parentIDs,
			Files:   files,
		})

		g.ids = append(g.ids, id)
		g.content = append(g.content, content)
		g.parents = append(g.parents, parents)
	}
	return g
}

// expected computes the changed set by brute force: expand only through
// commits holding the path and apply the any-parent-differs rule.
func (g *randomGraph) expected(root int) map[plumbing.Hash]bool {
	want := map[plumbing.Hash]bool{}
	seen := map[int]bool{root: true}
	queue := []int{root}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		if g.content[i] == "" {
			continue
		}
		if len(g.parents[i]) == 0 {
			want[g.ids[i]] = true
		}
		for _, p := range g.parents[i] {
			if g.content[p] != g.content[i] {
				want[g.ids[i]] = true
			}
			if !seen[p] {
				seen[p] = true
				queue = append(queue, p)
			}
		}
	}
	return want
}

func runTracker(t *rapid.T, g *randomGraph, root int) ([]plumbing.Hash, *ChangeTracker) {
	return runTrackerOn(t, g.store, g.ids[root])
}

func runTrackerOn(t *rapid.T, store git.Store, root plumbing.Hash) ([]plumbing.Hash, *ChangeTracker) {
	ctx := context.Background()
	start, err := store.Commit(ctx, root)
	if err != nil {
		t.Fatalf("load root: %v", err)
	}

	tr := New(store, start, "f.txt")
	var got []plumbing.Hash
	for {
		c, ok, err := tr.Next(ctx)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			return got, tr
		}
		got = append(got, c.ID)
	}
}

func TestRapidTracker_MatchesReference(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := genGraph(t)
		root := len(g.ids) - 1

		got, tr := runTracker(t, g, root)
		want := g.expected(root)

		emitted := map[plumbing.Hash]bool{}
		for _, id := range got {
			if emitted[id] {
				t.Fatalf("commit %s emitted twice", id)
			}
			emitted[id] = true
			if !want[id] {
				t.Fatalf("commit %s emitted but did not change f.txt", id)
			}
		}
		if len(emitted) != len(want) {
			t.Fatalf("emitted %d commits, expected %d", len(emitted), len(want))
		}
		if tr.Visited() > len(g.ids) || tr.Examined() != tr.Visited() {
			t.Fatalf("visited %d examined %d over %d commits", tr.Visited(), tr.Examined(), len(g.ids))
		}
	})
}

func TestRapidTracker_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := genGraph(t)
		root := rapid.IntRange(0, len(g.ids)-1).Draw(t, "root")

		first, _ := runTracker(t, g, root)
		// a cached store must not change what is emitted or in which order
		second, _ := runTrackerOn(t, git.NewCachedStore(g.store), g.ids[root])

		if len(first) != len(second) {
			t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i] != second[i] {
				t.Fatalf("runs differ at %d: %s vs %s", i, first[i], second[i])
			}
		}
	})
}

func TestRapidTracker_GuardEmitsSubset(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := genGraph(t)
		root := len(g.ids) - 1
		want := g.expected(root)

		start, err := g.store.Commit(context.Background(), g.ids[root])
		if err != nil {
			t.Fatalf("load root: %v", err)
		}
		tr := New(g.store, start, "f.txt", WithContentGuard())
		for {
			c, ok, err := tr.Next(context.Background())
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			if !ok {
				break
			}
			if !want[c.ID] {
				t.Fatalf("guarded run emitted %s outside the unguarded set", c.ID)
			}
		}
	})
}
