// Package bugfix classifies commits as fixes by their message.
package bugfix

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/masmgr/staredown-go/internal/git"
)

// Detector matches commit messages against case-insensitive patterns.
type Detector struct {
	patterns []*regexp.Regexp
}

// NewDetector compiles patterns. Blank patterns are ignored.
func NewDetector(patterns []string) (*Detector, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "(?i)") {
			p = "(?i)" + p
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("bugfix pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &Detector{patterns: compiled}, nil
}

// Enabled reports whether any pattern is configured.
func (d *Detector) Enabled() bool {
	return d != nil && len(d.patterns) > 0
}

// IsBugfix returns true if message matches any pattern.
func (d *Detector) IsBugfix(message string) bool {
	if d == nil {
		return false
	}
	for _, re := range d.patterns {
		if re.MatchString(message) {
			return true
		}
	}
	return false
}

// Detect returns the ids of the fix commits among commits.
func (d *Detector) Detect(commits []git.Commit) map[plumbing.Hash]struct{} {
	fixes := make(map[plumbing.Hash]struct{})
	if !d.Enabled() {
		return fixes
	}
	for _, c := range commits {
		if d.IsBugfix(c.Message) {
			fixes[c.ID] = struct{}{}
		}
	}
	return fixes
}
