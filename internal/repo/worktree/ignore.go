package worktree

import (
	"bufio"
	"bytes"
	"path"
	"path/filepath"
	"strings"

	"github.com/keshon/lvc/internal/config"
	"github.com/keshon/lvc/internal/fs"
)

// Ignore decides which working-tree paths are invisible to tracking.
type Ignore struct {
	static  map[string]bool
	pattern []string
}

// NewIgnore combines the built-in ignores, the given patterns and the lines of
// ignoreFile (if present; blank lines and # comments skipped).
func NewIgnore(fsys fs.FS, ignoreFile string, patterns []string) *Ignore {
	m := &Ignore{static: make(map[string]bool)}

	for _, s := range config.IgnoredFiles {
		m.static[path.Clean(s)] = true
	}
	for _, p := range patterns {
		m.add(p)
	}

	if ignoreFile == "" || fsys == nil {
		return m
	}
	data, err := fsys.ReadFile(ignoreFile)
	if err != nil {
		return m
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		m.add(sc.Text())
	}
	return m
}

func (m *Ignore) add(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	m.pattern = append(m.pattern, filepath.ToSlash(line))
}

// Match returns true if the slash-separated relative path should be ignored.
func (m *Ignore) Match(name string) bool {
	clean := path.Clean(filepath.ToSlash(name))

	if m.static[clean] {
		return true
	}

	base := path.Base(clean)
	for _, pat := range m.pattern {
		// a pattern without a separator applies at any depth
		if !strings.Contains(strings.TrimSuffix(pat, "/"), "/") && matchPattern(strings.TrimSuffix(pat, "/"), base) {
			return true
		}
		if matchPattern(pat, clean) {
			return true
		}
	}
	return false
}

// matchPattern handles *, ? and ** like Git
func matchPattern(pattern, name string) bool {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(name, "/"))
}

func matchSegments(pats, parts []string) bool {
	for len(pats) > 0 {
		p := pats[0]
		pats = pats[1:]

		if p == "**" {
			if len(pats) == 0 {
				return true // trailing ** matches anything
			}
			for i := 0; i <= len(parts); i++ {
				if matchSegments(pats, parts[i:]) {
					return true
				}
			}
			return false
		}

		if len(parts) == 0 {
			// "dir/" leaves one empty segment behind
			return p == "" && len(pats) == 0
		}

		ok, _ := path.Match(p, parts[0])
		if !ok {
			return false
		}
		parts = parts[1:]
	}
	return len(parts) == 0
}
