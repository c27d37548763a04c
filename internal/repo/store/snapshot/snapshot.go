// Package snapshot is the content-addressed store of file contents. A
// snapshot is identified by the digest of its name and content; once written
// it is never modified or removed.
package snapshot

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/keshon/lvc/internal/fs"
	"github.com/keshon/lvc/internal/logging"
	"github.com/keshon/lvc/internal/repo/errs"
	"github.com/keshon/lvc/internal/repo/store/digest"
	"github.com/keshon/lvc/internal/util"
)

const recordVersion = 1

// Snapshot is one stored file version.
type Snapshot struct {
	Version int    `json:"v"`
	Name    string `json:"name"`
	Hash    string `json:"hash"`
	Content []byte `json:"content"`
}

// SnapshotContext stores snapshot records as JSON files under Root.
type SnapshotContext struct {
	Root   string
	FS     fs.FS
	Digest digest.Hasher
	Log    *zap.Logger
}

// NewSnapshotContext creates a store rooted at root.
func NewSnapshotContext(root string, fsys fs.FS, d digest.Hasher, log *zap.Logger) *SnapshotContext {
	return &SnapshotContext{Root: root, FS: fsys, Digest: d, Log: logging.OrNop(log)}
}

func (sc *SnapshotContext) path(hash string) string {
	return filepath.Join(sc.Root, hash+".json")
}

// HashOf returns the hash Put would assign, without storing anything.
func (sc *SnapshotContext) HashOf(name string, content []byte) (string, error) {
	return sc.Digest.Sum([]byte(name), content)
}

// Put stores (name, content) and returns its hash. Storing an existing
// snapshot again is a no-op.
func (sc *SnapshotContext) Put(name string, content []byte) (string, error) {
	hash, err := sc.HashOf(name, content)
	if err != nil {
		return "", err
	}
	if sc.Has(hash) {
		return hash, nil
	}

	if err := sc.FS.MkdirAll(sc.Root, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshots dir: %w", err)
	}
	rec := Snapshot{Version: recordVersion, Name: name, Hash: hash, Content: content}
	if rec.Content == nil {
		rec.Content = []byte{}
	}
	if err := util.WriteJSON(sc.FS, sc.path(hash), rec); err != nil {
		return "", fmt.Errorf("failed to write snapshot %q: %w", hash, err)
	}
	sc.Log.Debug("snapshot stored", zap.String("name", name), zap.String("hash", hash), zap.Int("size", len(content)))
	return hash, nil
}

// Has reports whether a record for hash exists.
func (sc *SnapshotContext) Has(hash string) bool {
	return hash != "" && sc.FS.Exists(sc.path(hash))
}

// Get loads the snapshot stored under hash.
func (sc *SnapshotContext) Get(hash string) (*Snapshot, error) {
	if !sc.Has(hash) {
		return nil, errs.New(errs.ErrNotFound, fmt.Sprintf("Snapshot %s does not exist.", hash))
	}
	var s Snapshot
	if err := util.ReadJSON(sc.FS, sc.path(hash), &s); err != nil {
		return nil, fmt.Errorf("failed to read snapshot %q: %w", hash, err)
	}
	if s.Content == nil {
		s.Content = []byte{}
	}
	return &s, nil
}

// Content returns the file content stored under hash.
func (sc *SnapshotContext) Content(hash string) ([]byte, error) {
	s, err := sc.Get(hash)
	if err != nil {
		return nil, err
	}
	return s.Content, nil
}
