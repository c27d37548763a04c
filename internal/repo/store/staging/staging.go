// Package staging keeps the pending changes of the next commit: file contents
// staged for addition and markers for files staged for removal. A name is in
// at most one of the two sets.
package staging

import (
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/keshon/lvc/internal/fs"
	"github.com/keshon/lvc/internal/logging"
	"github.com/keshon/lvc/internal/repo/errs"
	"github.com/keshon/lvc/internal/util"
)

const indexVersion = 1

// Snapshots is the slice of the snapshot store the staging area needs.
type Snapshots interface {
	HashOf(name string, content []byte) (string, error)
	Put(name string, content []byte) (string, error)
}

// Tracker answers which snapshot a commit tracks under a name.
type Tracker interface {
	SnapshotOf(name string) (string, bool)
}

// Remover deletes files from the working directory.
type Remover interface {
	Remove(name string) error
}

type index struct {
	Version   int               `json:"v"`
	Additions map[string][]byte `json:"additions"`
	Removals  []string          `json:"removals"`
}

// Area is the staging area persisted at Path.
type Area struct {
	Path      string
	FS        fs.FS
	Snapshots Snapshots
	Tree      Remover
	Log       *zap.Logger

	additions map[string][]byte
	removals  map[string]struct{}
}

// Load reads the index at path; a missing index is an empty staging area.
func Load(path string, fsys fs.FS, snapshots Snapshots, tree Remover, log *zap.Logger) (*Area, error) {
	a := &Area{
		Path:      path,
		FS:        fsys,
		Snapshots: snapshots,
		Tree:      tree,
		Log:       logging.OrNop(log),
		additions: map[string][]byte{},
		removals:  map[string]struct{}{},
	}
	if !fsys.Exists(path) {
		return a, nil
	}

	var idx index
	if err := util.ReadJSON(fsys, path, &idx); err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	for name, content := range idx.Additions {
		if content == nil {
			content = []byte{}
		}
		a.additions[name] = content
	}
	for _, name := range idx.Removals {
		if _, staged := a.additions[name]; !staged {
			a.removals[name] = struct{}{}
		}
	}
	return a, nil
}

func (a *Area) save() error {
	idx := index{
		Version:   indexVersion,
		Additions: a.additions,
		Removals:  util.SortedKeys(a.removals),
	}
	if err := util.WriteJSON(a.FS, a.Path, idx); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}

// StageAdd stages content under name. Content identical to what head tracks
// cancels any pending change instead.
func (a *Area) StageAdd(name string, content []byte, head Tracker) error {
	hash, err := a.Snapshots.HashOf(name, content)
	if err != nil {
		return err
	}
	delete(a.removals, name)

	if tracked, ok := head.SnapshotOf(name); ok && tracked == hash {
		delete(a.additions, name)
		a.Log.Debug("staged content matches head", zap.String("name", name))
	} else {
		a.additions[name] = append([]byte{}, content...)
		a.Log.Debug("staged for addition", zap.String("name", name), zap.Int("size", len(content)))
	}
	return a.save()
}

// StageRemove unstages name and, when head tracks it, marks it for removal
// and deletes it from the working directory.
func (a *Area) StageRemove(name string, head Tracker) error {
	_, staged := a.additions[name]
	_, tracked := head.SnapshotOf(name)
	if !staged && !tracked {
		return errs.New(errs.ErrInvalidOperation, "No reason to remove the file.")
	}

	delete(a.additions, name)
	if tracked {
		a.removals[name] = struct{}{}
		if err := a.Tree.Remove(name); err != nil {
			return err
		}
		a.Log.Debug("staged for removal", zap.String("name", name))
	}
	return a.save()
}

func (a *Area) HasPendingChanges() bool {
	return len(a.additions) > 0 || len(a.removals) > 0
}

func (a *Area) IsStaged(name string) bool {
	return a.IsStagedForAddition(name) || a.IsStagedForRemoval(name)
}

func (a *Area) IsStagedForAddition(name string) bool {
	_, ok := a.additions[name]
	return ok
}

func (a *Area) IsStagedForRemoval(name string) bool {
	_, ok := a.removals[name]
	return ok
}

// Addition returns the pending content of name.
func (a *Area) Addition(name string) ([]byte, bool) {
	c, ok := a.additions[name]
	return c, ok
}

// Additions returns the names staged for addition, sorted.
func (a *Area) Additions() []string { return util.SortedKeys(a.additions) }

// Removals returns the names staged for removal, sorted.
func (a *Area) Removals() []string { return util.SortedKeys(a.removals) }

// Flush derives the next commit's mapping from parent: every addition is
// stored and overrides its key, every removal drops its key. The staging area
// is empty afterwards.
func (a *Area) Flush(parent map[string]string) (map[string]string, error) {
	mapping := maps.Clone(parent)
	if mapping == nil {
		mapping = map[string]string{}
	}

	for _, name := range a.Additions() {
		hash, err := a.Snapshots.Put(name, a.additions[name])
		if err != nil {
			return nil, fmt.Errorf("failed to store %q: %w", name, err)
		}
		mapping[name] = hash
	}
	for name := range a.removals {
		delete(mapping, name)
	}

	a.Log.Debug("staging flushed",
		zap.Strings("added", a.Additions()),
		zap.Strings("removed", a.Removals()))
	if err := a.Clear(); err != nil {
		return nil, err
	}
	return mapping, nil
}

// Clear drops every pending change.
func (a *Area) Clear() error {
	a.additions = map[string][]byte{}
	a.removals = map[string]struct{}{}
	return a.save()
}
