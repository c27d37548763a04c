// Package worktree gives the repository its view of the working directory:
// tracked-file candidates are regular files addressed by slash-separated
// paths relative to the root.
package worktree

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/keshon/lvc/internal/fs"
)

// Tree is the working directory rooted at Root.
type Tree struct {
	Root   string
	FS     fs.FS
	Ignore *Ignore
}

func New(root string, fsys fs.FS, ignore *Ignore) *Tree {
	if ignore == nil {
		ignore = NewIgnore(nil, "", nil)
	}
	return &Tree{Root: root, FS: fsys, Ignore: ignore}
}

// Normalize cleans a user-supplied relative name. It rejects names that are
// empty, absolute or escape the tree.
func Normalize(name string) (string, bool) {
	name = filepath.ToSlash(strings.TrimSpace(name))
	if name == "" || path.IsAbs(name) {
		return "", false
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}
	return clean, true
}

// Path maps a tree-relative name to a filesystem path.
func (t *Tree) Path(name string) string {
	return filepath.Join(t.Root, filepath.FromSlash(name))
}

// Exists reports whether name is a regular file in the tree.
func (t *Tree) Exists(name string) bool {
	p := t.Path(name)
	return t.FS.Exists(p) && !t.FS.IsDir(p)
}

func (t *Tree) Read(name string) ([]byte, error) {
	data, err := t.FS.ReadFile(t.Path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", name, err)
	}
	return data, nil
}

// Write creates or overwrites name, creating parent directories.
func (t *Tree) Write(name string, content []byte) error {
	p := t.Path(name)
	if err := t.FS.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %q: %w", name, err)
	}
	if err := t.FS.WriteFile(p, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", name, err)
	}
	return nil
}

// Remove deletes name if present and prunes directories it leaves empty.
func (t *Tree) Remove(name string) error {
	p := t.Path(name)
	if !t.FS.Exists(p) {
		return nil
	}
	if err := t.FS.Remove(p); err != nil && !t.FS.IsNotExist(err) {
		return fmt.Errorf("failed to remove %q: %w", name, err)
	}

	root := filepath.Clean(t.Root)
	for dir := filepath.Dir(p); dir != root && strings.HasPrefix(dir, root); dir = filepath.Dir(dir) {
		entries, err := t.FS.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			break
		}
		if err := t.FS.Remove(dir); err != nil {
			break
		}
	}
	return nil
}

// List returns every non-ignored regular file, sorted.
func (t *Tree) List() ([]string, error) {
	var names []string
	if err := t.walk("", &names); err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (t *Tree) walk(rel string, out *[]string) error {
	dir := t.Root
	if rel != "" {
		dir = t.Path(rel)
	}
	entries, err := t.FS.ReadDir(dir)
	if err != nil {
		if rel == "" && t.FS.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read directory %q: %w", dir, err)
	}

	for _, e := range entries {
		name := e.Name()
		if rel != "" {
			name = rel + "/" + name
		}
		if t.Ignore.Match(name) {
			continue
		}
		if e.IsDir() {
			if err := t.walk(name, out); err != nil {
				return err
			}
			continue
		}
		if !e.Type().IsRegular() {
			continue
		}
		*out = append(*out, name)
	}
	return nil
}
