package checkout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/lvc/internal/repo/errs"
	"github.com/keshon/lvc/internal/repo/repotest"
)

func TestReconcileDeletesOnlyHeadTrackedFiles(t *testing.T) {
	r := repotest.New(t)
	bare, err := r.HeadCommit()
	require.NoError(t, err)
	full := repotest.Commit(t, r, "full", map[string]string{"x": "tracked", "keep": "k"})

	co := r.Checkout
	require.NoError(t, co.Reconcile(bare, full))
	assert.False(t, r.Tree.Exists("x"), "x was tracked by head and is absent from target")
	assert.False(t, r.Tree.Exists("keep"))

	head, err := r.Meta.HeadCommitID()
	require.NoError(t, err)
	assert.Equal(t, bare.Hash, head)

	require.NoError(t, co.Reconcile(full, bare))
	assert.Equal(t, "tracked", repotest.Read(t, r, "x"))
}

func TestReconcileGuardIsHeadRelative(t *testing.T) {
	r := repotest.New(t)
	bare, err := r.HeadCommit()
	require.NoError(t, err)
	full := repotest.Commit(t, r, "full", map[string]string{"x": "1"})

	repotest.Write(t, r, "intruder", "!")
	err = r.Checkout.Reconcile(bare, full)
	assert.ErrorIs(t, err, errs.ErrUntrackedConflict)
	assert.True(t, r.Tree.Exists("x"), "nothing is touched when the guard fires")

	untracked, err := r.Checkout.Untracked(full)
	require.NoError(t, err)
	assert.Equal(t, []string{"intruder"}, untracked)

	// staging the file clears the guard; reconcile then drops it
	require.NoError(t, r.Add("intruder"))
	require.NoError(t, r.Checkout.Reconcile(bare, full))
	assert.False(t, r.Tree.Exists("intruder"))
	assert.False(t, r.Staging.HasPendingChanges())
}

func TestReconcileLeavesTreeOnMissingSnapshot(t *testing.T) {
	r := repotest.New(t)
	c1 := repotest.Commit(t, r, "c1", map[string]string{"a": "1", "b": "1"})
	c2 := repotest.Commit(t, r, "c2", map[string]string{"a": "2"})

	require.NoError(t, r.FS.Remove(r.Config.SnapshotsDir()+"/"+c1.Snapshots["b"]+".json"))
	// b's snapshot is shared by c1 and c2, so target c1 cannot be loaded fully
	err := r.Checkout.Reconcile(c1, c2)
	require.Error(t, err)
	assert.Equal(t, "2", repotest.Read(t, r, "a"))

	head, err := r.Meta.HeadCommitID()
	require.NoError(t, err)
	assert.Equal(t, c2.Hash, head)
}

func TestCheckoutFileLeavesStaging(t *testing.T) {
	r := repotest.New(t)
	c1 := repotest.Commit(t, r, "c1", map[string]string{"a": "1"})

	repotest.Write(t, r, "a", "dirty")
	require.NoError(t, r.Add("a"))
	require.NoError(t, r.Checkout.CheckoutFile("a", c1))
	assert.Equal(t, "1", repotest.Read(t, r, "a"))
	assert.True(t, r.Staging.IsStagedForAddition("a"))

	err := r.Checkout.CheckoutFile("nope", c1)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
