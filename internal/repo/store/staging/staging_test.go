package staging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/lvc/internal/fs"
	"github.com/keshon/lvc/internal/repo/errs"
	"github.com/keshon/lvc/internal/repo/store/digest"
	"github.com/keshon/lvc/internal/repo/store/snapshot"
	"github.com/keshon/lvc/internal/repo/store/staging"
	"github.com/keshon/lvc/internal/repo/worktree"
)

type commit map[string]string

func (c commit) SnapshotOf(name string) (string, bool) {
	h, ok := c[name]
	return h, ok
}

type fixture struct {
	fs    *fs.MemoryFS
	snaps *snapshot.SnapshotContext
	tree  *worktree.Tree
	area  *staging.Area
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	m := fs.NewMemoryFS()
	require.NoError(t, m.MkdirAll("/w/.lvc/snapshots", 0o755))
	d, err := digest.New(digest.XXH3)
	require.NoError(t, err)

	f := &fixture{
		fs:    m,
		snaps: snapshot.NewSnapshotContext("/w/.lvc/snapshots", m, d, nil),
		tree:  worktree.New("/w", m, nil),
	}
	f.area, err = staging.Load("/w/.lvc/index.json", m, f.snaps, f.tree, nil)
	require.NoError(t, err)
	return f
}

func (f *fixture) headWith(t *testing.T, files map[string]string) commit {
	t.Helper()
	c := commit{}
	for name, content := range files {
		h, err := f.snaps.Put(name, []byte(content))
		require.NoError(t, err)
		c[name] = h
	}
	return c
}

func TestStageAdd(t *testing.T) {
	f := newFixture(t)
	head := f.headWith(t, map[string]string{"a.txt": "v1"})

	require.NoError(t, f.area.StageAdd("a.txt", []byte("v2"), head))
	assert.True(t, f.area.IsStagedForAddition("a.txt"))
	assert.True(t, f.area.HasPendingChanges())

	// reverting to the head version cancels the pending addition
	require.NoError(t, f.area.StageAdd("a.txt", []byte("v1"), head))
	assert.False(t, f.area.IsStaged("a.txt"))
	assert.False(t, f.area.HasPendingChanges())

	require.NoError(t, f.area.StageAdd("new.txt", []byte("n"), head))
	content, ok := f.area.Addition("new.txt")
	require.True(t, ok)
	assert.Equal(t, "n", string(content))
	assert.Equal(t, []string{"new.txt"}, f.area.Additions())
}

func TestStageRemove(t *testing.T) {
	f := newFixture(t)
	head := f.headWith(t, map[string]string{"tracked.txt": "t"})
	require.NoError(t, f.tree.Write("tracked.txt", []byte("t")))

	err := f.area.StageRemove("stranger.txt", head)
	assert.ErrorIs(t, err, errs.ErrInvalidOperation)
	assert.EqualError(t, err, "No reason to remove the file.")

	require.NoError(t, f.area.StageRemove("tracked.txt", head))
	assert.True(t, f.area.IsStagedForRemoval("tracked.txt"))
	assert.False(t, f.tree.Exists("tracked.txt"))

	// staged-only file: unstaged, working copy kept
	require.NoError(t, f.tree.Write("draft.txt", []byte("d")))
	require.NoError(t, f.area.StageAdd("draft.txt", []byte("d"), head))
	require.NoError(t, f.area.StageRemove("draft.txt", head))
	assert.False(t, f.area.IsStaged("draft.txt"))
	assert.True(t, f.tree.Exists("draft.txt"))

	// re-adding a removed file clears the marker
	require.NoError(t, f.area.StageAdd("tracked.txt", []byte("t"), head))
	assert.False(t, f.area.IsStagedForRemoval("tracked.txt"))
	assert.False(t, f.area.HasPendingChanges())
}

func TestSetsStayDisjoint(t *testing.T) {
	f := newFixture(t)
	head := f.headWith(t, map[string]string{"a": "1"})

	require.NoError(t, f.area.StageAdd("a", []byte("2"), head))
	require.NoError(t, f.area.StageRemove("a", head))
	assert.Empty(t, f.area.Additions())
	assert.Equal(t, []string{"a"}, f.area.Removals())

	require.NoError(t, f.area.StageAdd("a", []byte("3"), head))
	assert.Equal(t, []string{"a"}, f.area.Additions())
	assert.Empty(t, f.area.Removals())
}

func TestFlush(t *testing.T) {
	f := newFixture(t)
	head := f.headWith(t, map[string]string{"keep": "k", "gone": "g", "edit": "e1"})
	require.NoError(t, f.tree.Write("gone", []byte("g")))

	require.NoError(t, f.area.StageAdd("edit", []byte("e2"), head))
	require.NoError(t, f.area.StageAdd("new", []byte("n"), head))
	require.NoError(t, f.area.StageRemove("gone", head))

	mapping, err := f.area.Flush(head)
	require.NoError(t, err)

	assert.Equal(t, head["keep"], mapping["keep"])
	assert.NotContains(t, mapping, "gone")
	editHash, _ := f.snaps.HashOf("edit", []byte("e2"))
	assert.Equal(t, editHash, mapping["edit"])
	content, err := f.snaps.Content(mapping["new"])
	require.NoError(t, err)
	assert.Equal(t, "n", string(content))

	assert.False(t, f.area.HasPendingChanges())
	assert.Len(t, head, 3, "the parent mapping is not modified")
}

func TestIndexPersistence(t *testing.T) {
	f := newFixture(t)
	head := f.headWith(t, map[string]string{"r": "r"})
	require.NoError(t, f.tree.Write("r", []byte("r")))

	require.NoError(t, f.area.StageAdd("a", []byte("A"), head))
	require.NoError(t, f.area.StageRemove("r", head))

	reloaded, err := staging.Load("/w/.lvc/index.json", f.fs, f.snaps, f.tree, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, reloaded.Additions())
	assert.Equal(t, []string{"r"}, reloaded.Removals())
	content, _ := reloaded.Addition("a")
	assert.Equal(t, "A", string(content))

	require.NoError(t, reloaded.Clear())
	again, err := staging.Load("/w/.lvc/index.json", f.fs, f.snaps, f.tree, nil)
	require.NoError(t, err)
	assert.False(t, again.HasPendingChanges())
}
