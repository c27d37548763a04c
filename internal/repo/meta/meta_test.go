package meta_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/lvc/internal/config"
	"github.com/keshon/lvc/internal/fs"
	"github.com/keshon/lvc/internal/repo/errs"
	"github.com/keshon/lvc/internal/repo/meta"
	"github.com/keshon/lvc/internal/repo/store/digest"
)

func newMeta(t *testing.T) *meta.MetaContext {
	t.Helper()
	m := fs.NewMemoryFS()
	d, err := digest.New(digest.XXH3)
	require.NoError(t, err)

	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	mc, err := meta.NewMeta(config.NewRepoConfig("/w", m), m, d, clock, nil)
	require.NoError(t, err)
	require.NoError(t, mc.CreateLayout())
	return mc
}

func TestCreateAndGetCommit(t *testing.T) {
	mc := newMeta(t)

	root, err := mc.CreateCommitAt(config.InitialCommitMessage, nil, "", "", time.Unix(0, 0))
	require.NoError(t, err)
	assert.True(t, root.IsRoot())
	assert.Empty(t, root.Snapshots)
	assert.Len(t, root.Hash, 32)

	c, err := mc.CreateCommit("add a", map[string]string{"a.txt": "h1"}, root.Hash, "")
	require.NoError(t, err)

	got, err := mc.GetCommit(c.Hash)
	require.NoError(t, err)
	assert.Equal(t, "add a", got.Message)
	assert.Equal(t, root.Hash, got.Parent)
	assert.Equal(t, map[string]string{"a.txt": "h1"}, got.Snapshots)
	assert.True(t, got.Timestamp.Equal(c.Timestamp))
	assert.False(t, got.IsMerge())

	_, err = mc.GetCommit("deadbeef")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCommitIdentity(t *testing.T) {
	mc := newMeta(t)
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	a, err := mc.CreateCommitAt("m", map[string]string{"x": "1"}, "", "", ts)
	require.NoError(t, err)
	b, err := mc.CreateCommitAt("m", map[string]string{"x": "1"}, "", "", ts)
	require.NoError(t, err)
	assert.Equal(t, a.Hash, b.Hash, "identical fields give identical ids")

	c, err := mc.CreateCommitAt("m", map[string]string{"x": "2"}, "", "", ts)
	require.NoError(t, err)
	assert.NotEqual(t, a.Hash, c.Hash)

	d, err := mc.CreateCommitAt("m", map[string]string{"x": "1"}, "", "", ts.Add(time.Nanosecond))
	require.NoError(t, err)
	assert.NotEqual(t, a.Hash, d.Hash)
}

func TestCommitMappingIsCopied(t *testing.T) {
	mc := newMeta(t)
	mapping := map[string]string{"a": "1"}
	c, err := mc.CreateCommit("m", mapping, "", "")
	require.NoError(t, err)
	mapping["b"] = "2"
	assert.Len(t, c.Snapshots, 1)
}

func TestResolveCommit(t *testing.T) {
	mc := newMeta(t)

	var ids []string
	for i := 0; i < 40; i++ {
		c, err := mc.CreateCommit("m", nil, "", "")
		require.NoError(t, err)
		ids = append(ids, c.Hash)
	}

	full, err := mc.ResolveCommit(ids[0])
	require.NoError(t, err)
	assert.Equal(t, ids[0], full)

	unique, err := mc.ResolveCommit(ids[0][:12])
	require.NoError(t, err)
	assert.Equal(t, ids[0], unique)

	upper, err := mc.ResolveCommit(" " + strings.ToUpper(ids[1][:12]) + " ")
	require.NoError(t, err)
	assert.Equal(t, ids[1], upper)

	// 40 ids over 16 leading hex digits guarantee a shared one-char prefix
	counts := map[byte]int{}
	for _, id := range ids {
		counts[id[0]]++
	}
	var shared string
	for b, n := range counts {
		if n > 1 {
			shared = string(b)
			break
		}
	}
	require.NotEmpty(t, shared)
	_, err = mc.ResolveCommit(shared)
	assert.ErrorIs(t, err, errs.ErrAmbiguous)

	_, err = mc.ResolveCommit("zzzz")
	assert.ErrorIs(t, err, errs.ErrNotFound)
	_, err = mc.ResolveCommit("")
	assert.ErrorIs(t, err, errs.ErrNotFound)
	_, err = mc.ResolveCommit("0123456789abcdef0123456789abcdef")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestResolveCommitRejectsNonIDs(t *testing.T) {
	mc := newMeta(t)
	c, err := mc.CreateCommit("m", nil, "", "")
	require.NoError(t, err)

	// a record of the right length sitting outside the commits directory
	stray := strings.Repeat("d", len(c.Hash))
	require.NoError(t, mc.FS.MkdirAll(mc.Config.SnapshotsDir(), 0o755))
	require.NoError(t, mc.FS.WriteFile(mc.Config.SnapshotsDir()+"/"+stray+".json", []byte(`{"v":1}`), 0o644))

	for _, ref := range []string{
		"../snapshots/" + stray,
		"../" + c.Hash[:10],
		c.Hash + "0",
		c.Hash[:8] + "/",
		"g" + c.Hash[1:],
	} {
		_, err := mc.ResolveCommit(ref)
		assert.ErrorIs(t, err, errs.ErrNotFound, ref)
	}
}

func TestCommitIDsSkipTempFiles(t *testing.T) {
	mc := newMeta(t)
	c, err := mc.CreateCommit("m", nil, "", "")
	require.NoError(t, err)
	require.NoError(t, mc.FS.WriteFile(mc.Config.CommitsDir()+"/tmp-123.json", []byte("{"), 0o644))
	require.NoError(t, mc.FS.WriteFile(mc.Config.CommitsDir()+"/"+c.Hash[:8]+".json", []byte("{}"), 0o644))

	ids, err := mc.CommitIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{c.Hash}, ids)

	all, err := mc.AllCommits()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAncestorsFollowFirstParent(t *testing.T) {
	mc := newMeta(t)

	root, err := mc.CreateCommitAt("root", nil, "", "", time.Unix(0, 0))
	require.NoError(t, err)
	a, err := mc.CreateCommit("a", nil, root.Hash, "")
	require.NoError(t, err)
	side, err := mc.CreateCommit("side", nil, root.Hash, "")
	require.NoError(t, err)
	m, err := mc.CreateCommit("merge", nil, a.Hash, side.Hash)
	require.NoError(t, err)

	var msgs []string
	for c, err := range mc.Ancestors(m) {
		require.NoError(t, err)
		msgs = append(msgs, c.Message)
	}
	assert.Equal(t, []string{"merge", "a", "root"}, msgs, "merge-only ancestors are not surfaced")

	// early stop
	n := 0
	for range mc.Ancestors(m) {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestAncestorsReportsMissingParent(t *testing.T) {
	mc := newMeta(t)
	orphan, err := mc.CreateCommit("orphan", nil, "0000000000000000000000000000beef", "")
	require.NoError(t, err)

	var gotErr error
	for _, err := range mc.Ancestors(orphan) {
		if err != nil {
			gotErr = err
		}
	}
	require.Error(t, gotErr)
	_, isDomain := errs.IsDomain(gotErr)
	assert.False(t, isDomain, "a broken chain is a storage fault")
}

func TestAllCommitsAndFind(t *testing.T) {
	mc := newMeta(t)
	a, err := mc.CreateCommit("same", nil, "", "")
	require.NoError(t, err)
	_, err = mc.CreateCommit("other", nil, "", "")
	require.NoError(t, err)
	b, err := mc.CreateCommit("same", nil, a.Hash, "")
	require.NoError(t, err)

	all, err := mc.AllCommits()
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Hash, all[i].Hash)
	}

	found, err := mc.FindByMessage("same")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.Hash, b.Hash}, found)

	none, err := mc.FindByMessage("absent")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBranches(t *testing.T) {
	mc := newMeta(t)
	_, err := mc.SetHeadRef(config.DefaultBranch)
	require.NoError(t, err)

	_, err = mc.CreateBranch(config.DefaultBranch, "c1")
	require.NoError(t, err)
	_, err = mc.CreateBranch("feature", "c1")
	require.NoError(t, err)

	_, err = mc.CreateBranch("feature", "c2")
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)
	assert.EqualError(t, err, "A branch with that name already exists.")

	_, err = mc.CreateBranch("a/b", "c1")
	assert.ErrorIs(t, err, errs.ErrUsage)

	require.NoError(t, mc.MoveBranch("feature", "c2"))
	b, err := mc.GetBranch("feature")
	require.NoError(t, err)
	assert.Equal(t, "c2", b.Front)

	names, err := mc.ListBranches()
	require.NoError(t, err)
	assert.Equal(t, []string{"feature", "main"}, names)

	err = mc.DeleteBranch("main")
	assert.ErrorIs(t, err, errs.ErrInvalidOperation)
	assert.EqualError(t, err, "Cannot remove the current branch.")

	require.NoError(t, mc.DeleteBranch("feature"))
	err = mc.DeleteBranch("feature")
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.EqualError(t, err, "A branch with that name does not exist.")

	_, err = mc.GetBranch("feature")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestHeadRecords(t *testing.T) {
	mc := newMeta(t)

	ref, err := mc.SetHeadRef("feature")
	require.NoError(t, err)
	assert.Equal(t, "branches/feature", ref.String())

	data, err := mc.FS.ReadFile(mc.Config.HeadFile())
	require.NoError(t, err)
	assert.Equal(t, "ref: branches/feature", string(data))

	cur, err := mc.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "feature", cur)

	c, err := mc.CreateCommit("m", nil, "", "")
	require.NoError(t, err)
	require.NoError(t, mc.SetHeadCommit(c.Hash))

	head, err := mc.HeadCommit()
	require.NoError(t, err)
	assert.Equal(t, c.Hash, head.Hash)

	require.NoError(t, mc.FS.WriteFile(mc.Config.HeadFile(), []byte("garbage"), 0o644))
	_, err = mc.CurrentBranch()
	require.Error(t, err)
}
