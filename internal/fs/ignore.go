package fs

import (
	"path/filepath"
	"strings"
)

// IgnoreMatcher checks document names against glob patterns.
// Matching is done on the base name and is case-insensitive, since the
// lock files word processors create keep the document's own casing.
type IgnoreMatcher struct {
	patterns []string
}

// NewIgnoreMatcher creates an IgnoreMatcher from raw pattern strings.
// Blank lines and lines starting with '#' are skipped.
func NewIgnoreMatcher(rawPatterns []string) *IgnoreMatcher {
	var patterns []string
	for _, raw := range rawPatterns {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		patterns = append(patterns, strings.ToLower(raw))
	}
	return &IgnoreMatcher{patterns: patterns}
}

// Match reports whether the file at path should be ignored.
func (m *IgnoreMatcher) Match(path string) bool {
	if len(m.patterns) == 0 {
		return false
	}
	name := strings.ToLower(filepath.Base(path))
	for _, p := range m.patterns {
		matched, err := filepath.Match(p, name)
		if err != nil {
			// Skip bad patterns.
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
