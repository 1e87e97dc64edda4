package git

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
)

// lsTreeEntry is one record of `git ls-tree -z` output.
type lsTreeEntry struct {
	mode filemode.FileMode
	kind string // "blob", "tree" or "commit"
	hash plumbing.Hash
	path string
}

// parseGitFileMode parses an octal file mode string (e.g. "100644", "040000").
func parseGitFileMode(s string) (filemode.FileMode, error) {
	if s == "" {
		return filemode.Empty, nil
	}
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return filemode.Empty, fmt.Errorf("parse file mode %q: %w", s, err)
	}
	return filemode.FileMode(v), nil
}

// parseLsTree parses NUL-terminated `git ls-tree -z` records.
// Format: MODE SP TYPE SP OBJECT TAB PATH NUL
func parseLsTree(data []byte) ([]lsTreeEntry, error) {
	entries := make([]lsTreeEntry, 0, 4)
	i := 0

	for i < len(data) {
		rec, ok := readUntilNUL(data, &i)
		if !ok {
			return nil, fmt.Errorf("unexpected git ls-tree format (missing NUL)")
		}
		if len(rec) == 0 {
			continue
		}

		tab := bytes.IndexByte(rec, '\t')
		if tab == -1 {
			return nil, fmt.Errorf("unexpected git ls-tree record: %q", string(rec))
		}

		meta := bytes.Fields(rec[:tab])
		if len(meta) != 3 {
			return nil, fmt.Errorf("unexpected git ls-tree meta: %q", string(rec[:tab]))
		}

		mode, err := parseGitFileMode(string(meta[0]))
		if err != nil {
			return nil, err
		}

		hex := string(meta[2])
		if !plumbing.IsHash(hex) {
			return nil, fmt.Errorf("unexpected git ls-tree object id %q", hex)
		}

		entries = append(entries, lsTreeEntry{
			mode: mode,
			kind: string(meta[1]),
			hash: plumbing.NewHash(hex),
			path: string(rec[tab+1:]),
		})
	}

	return entries, nil
}

func readUntilNUL(b []byte, i *int) ([]byte, bool) {
	if *i >= len(b) {
		return nil, false
	}
	j := bytes.IndexByte(b[*i:], 0)
	if j == -1 {
		return nil, false
	}
	start := *i
	end := *i + j
	*i = end + 1
	return b[start:end], true
}
