package meta

import (
	"fmt"
	"iter"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/keshon/lvc/internal/repo/errs"
	"github.com/keshon/lvc/internal/util"
)

const commitVersion = 1

// ShortLen is the length of the abbreviated ids shown in merge log lines.
const ShortLen = 7

// Commit is an immutable snapshot of the tracked tree.
type Commit struct {
	Version      int               `json:"v"`
	Hash         string            `json:"hash"`
	Message      string            `json:"message"`
	Timestamp    time.Time         `json:"timestamp"`
	Parent       string            `json:"parent,omitempty"`
	MergedParent string            `json:"merged_parent,omitempty"`
	Snapshots    map[string]string `json:"snapshots"`
}

// SnapshotOf returns the snapshot hash tracked under name.
func (c *Commit) SnapshotOf(name string) (string, bool) {
	h, ok := c.Snapshots[name]
	return h, ok
}

func (c *Commit) Tracks(name string) bool {
	_, ok := c.Snapshots[name]
	return ok
}

func (c *Commit) IsRoot() bool  { return c.Parent == "" }
func (c *Commit) IsMerge() bool { return c.MergedParent != "" }

func short(id string) string {
	if len(id) > ShortLen {
		return id[:ShortLen]
	}
	return id
}

// ShortParents returns the abbreviated parent and merged-parent ids.
func (c *Commit) ShortParents() (string, string) {
	return short(c.Parent), short(c.MergedParent)
}

// isHexID reports whether s is made of lowercase hex digits only.
func isHexID(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func (mc *MetaContext) commitPath(id string) string {
	return filepath.Join(mc.Config.CommitsDir(), id+".json")
}

// CreateCommit allocates a hash for a new commit stamped with the current
// time and persists it.
func (mc *MetaContext) CreateCommit(message string, snapshots map[string]string, parent, mergedParent string) (*Commit, error) {
	return mc.CreateCommitAt(message, snapshots, parent, mergedParent, mc.Now())
}

// CreateCommitAt is CreateCommit with an explicit timestamp.
func (mc *MetaContext) CreateCommitAt(message string, snapshots map[string]string, parent, mergedParent string, ts time.Time) (*Commit, error) {
	mapping := make(map[string]string, len(snapshots))
	for k, v := range snapshots {
		mapping[k] = v
	}

	c := &Commit{
		Version:      commitVersion,
		Message:      message,
		Timestamp:    ts.UTC(),
		Parent:       parent,
		MergedParent: mergedParent,
		Snapshots:    mapping,
	}
	hash, err := mc.commitHash(c)
	if err != nil {
		return nil, err
	}
	c.Hash = hash

	if err := util.WriteJSON(mc.FS, mc.commitPath(hash), c); err != nil {
		return nil, fmt.Errorf("failed to write commit %q: %w", hash, err)
	}
	mc.Log.Debug("commit created",
		zap.String("hash", hash),
		zap.String("parent", parent),
		zap.String("merged_parent", mergedParent),
		zap.Int("files", len(mapping)))
	return c, nil
}

// commitHash digests every field that defines a commit.
func (mc *MetaContext) commitHash(c *Commit) (string, error) {
	parts := [][]byte{
		[]byte("commit"),
		[]byte(c.Parent),
		[]byte(c.MergedParent),
		[]byte(c.Message),
		[]byte(c.Timestamp.Format(time.RFC3339Nano)),
	}
	for _, name := range util.SortedKeys(c.Snapshots) {
		parts = append(parts, []byte(name), []byte(c.Snapshots[name]))
	}
	hash, err := mc.Digest.Sum(parts...)
	if err != nil {
		return "", fmt.Errorf("failed to hash commit: %w", err)
	}
	return hash, nil
}

// GetCommit reads a commit by its full id.
func (mc *MetaContext) GetCommit(id string) (*Commit, error) {
	path := mc.commitPath(id)
	if id == "" || !mc.FS.Exists(path) {
		return nil, errs.New(errs.ErrNotFound, errs.MsgNoSuchCommit)
	}
	var c Commit
	if err := util.ReadJSON(mc.FS, path, &c); err != nil {
		return nil, fmt.Errorf("failed to read commit %q: %w", id, err)
	}
	if c.Snapshots == nil {
		c.Snapshots = map[string]string{}
	}
	return &c, nil
}

// CommitIDs lists every commit id, sorted.
func (mc *MetaContext) CommitIDs() ([]string, error) {
	entries, err := mc.FS.ReadDir(mc.Config.CommitsDir())
	if err != nil {
		if mc.FS.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read commits directory: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		// skips temp files left by an interrupted write
		id := strings.TrimSuffix(name, ".json")
		if len(id) != mc.Digest.HexLen() || !isHexID(id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ResolveCommit expands an abbreviated id. A full-length id must exist; a
// shorter one must match exactly one commit. Anything that is not hex, or is
// longer than a full id, matches nothing.
func (mc *MetaContext) ResolveCommit(ref string) (string, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if !isHexID(ref) || len(ref) > mc.Digest.HexLen() {
		return "", errs.New(errs.ErrNotFound, errs.MsgNoSuchCommit)
	}
	if len(ref) == mc.Digest.HexLen() {
		if !mc.FS.Exists(mc.commitPath(ref)) {
			return "", errs.New(errs.ErrNotFound, errs.MsgNoSuchCommit)
		}
		return ref, nil
	}

	ids, err := mc.CommitIDs()
	if err != nil {
		return "", err
	}
	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, ref) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", errs.New(errs.ErrNotFound, errs.MsgNoSuchCommit)
	case 1:
		return matches[0], nil
	}
	return "", errs.New(errs.ErrAmbiguous, fmt.Sprintf("Commit id %s is ambiguous (%d matches).", ref, len(matches)))
}

// Ancestors walks first parents from c (inclusive) to the root.
func (mc *MetaContext) Ancestors(c *Commit) iter.Seq2[*Commit, error] {
	return func(yield func(*Commit, error) bool) {
		seen := map[string]bool{}
		for cur := c; cur != nil && !seen[cur.Hash]; {
			seen[cur.Hash] = true
			if !yield(cur, nil) || cur.IsRoot() {
				return
			}
			next, err := mc.GetCommit(cur.Parent)
			if err != nil {
				yield(nil, fmt.Errorf("failed to read parent of %s: %v", cur.Hash, err))
				return
			}
			cur = next
		}
	}
}

// AllCommits returns every commit, ordered by id.
func (mc *MetaContext) AllCommits() ([]*Commit, error) {
	ids, err := mc.CommitIDs()
	if err != nil {
		return nil, err
	}
	out := make([]*Commit, 0, len(ids))
	for _, id := range ids {
		c, err := mc.GetCommit(id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// FindByMessage returns the ids of commits whose message equals message.
func (mc *MetaContext) FindByMessage(message string) ([]string, error) {
	all, err := mc.AllCommits()
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, c := range all {
		if c.Message == message {
			ids = append(ids, c.Hash)
		}
	}
	return ids, nil
}
