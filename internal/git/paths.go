package git

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// NormalizePath converts a user supplied path to the slash-separated,
// repository-relative form used for snapshot lookups.
func NormalizePath(p string) (string, error) {
	raw := p
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if p == "" {
		return "", fmt.Errorf("empty path")
	}
	if strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("path %q must be relative to the repository root", raw)
	}

	p = path.Clean(p)
	if p == "." {
		return "", fmt.Errorf("path %q names the repository root", raw)
	}
	if p == ".." || strings.HasPrefix(p, "../") {
		return "", fmt.Errorf("path %q escapes the repository", raw)
	}
	return p, nil
}

// HasGlobMeta reports whether p contains doublestar pattern syntax.
func HasGlobMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

// ExpandPatterns turns path arguments into the list of paths to track.
// Plain paths are kept even when missing from snapshot; patterns are
// matched against snapshot's files. An argument with pattern syntax that
// names a file of snapshot exactly is taken literally. Paths matching any
// exclude pattern are dropped. The result is sorted and free of duplicates.
func ExpandPatterns(ctx context.Context, snapshot Snapshot, args []string, exclude []string) ([]string, error) {
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	seen := make(map[string]struct{})
	var (
		files   []string
		fileSet map[string]struct{}
	)
	loadFiles := func() error {
		if files != nil {
			return nil
		}
		var err error
		files, err = snapshot.Paths(ctx)
		if err != nil {
			return err
		}
		fileSet = make(map[string]struct{}, len(files))
		for _, f := range files {
			fileSet[f] = struct{}{}
		}
		return nil
	}

	for _, arg := range args {
		if !HasGlobMeta(arg) {
			p, err := NormalizePath(arg)
			if err != nil {
				return nil, err
			}
			seen[p] = struct{}{}
			continue
		}

		if err := loadFiles(); err != nil {
			return nil, err
		}
		if p, err := NormalizePath(arg); err == nil {
			if _, ok := fileSet[p]; ok {
				seen[p] = struct{}{}
				continue
			}
		}

		pattern := strings.ReplaceAll(strings.TrimSpace(arg), "\\", "/")
		pattern = strings.TrimPrefix(pattern, "./")
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", arg)
		}

		matched := 0
		for _, f := range files {
			if doublestar.MatchUnvalidated(pattern, f) {
				seen[f] = struct{}{}
				matched++
			}
		}
		if matched == 0 {
			return nil, fmt.Errorf("pattern %q matched no files", arg)
		}
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		if isExcluded(p, exclude) {
			continue
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

func isExcluded(p string, exclude []string) bool {
	for _, pattern := range exclude {
		if doublestar.MatchUnvalidated(pattern, p) {
			return true
		}
	}
	return false
}
