package url

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultDenyPatterns are URL globs that are never suspended or saved.
var DefaultDenyPatterns = []string{
	"chrome://*",
	"chrome-extension://*",
	"edge://*",
	"about:*",
	"omni://*",
}

// DenyList matches URLs against a set of glob patterns.
type DenyList struct {
	patterns []string
	globs    []glob.Glob
}

// NewDenyList compiles the patterns. Matching is case-insensitive.
func NewDenyList(patterns []string) (*DenyList, error) {
	d := &DenyList{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			return nil, fmt.Errorf("compile deny pattern %q: %w", p, err)
		}
		d.patterns = append(d.patterns, p)
		d.globs = append(d.globs, g)
	}
	return d, nil
}

// Denied reports whether the URL must not be suspended. Blank URLs are always denied.
func (d *DenyList) Denied(rawURL string) bool {
	u := strings.ToLower(strings.TrimSpace(rawURL))
	if u == "" {
		return true
	}
	if d == nil {
		return false
	}
	for _, g := range d.globs {
		if g.Match(u) {
			return true
		}
	}
	return false
}

// Patterns returns the source patterns.
func (d *DenyList) Patterns() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.patterns...)
}
