// Package checkout brings the working directory in line with a commit.
package checkout

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/keshon/lvc/internal/logging"
	"github.com/keshon/lvc/internal/repo/errs"
	"github.com/keshon/lvc/internal/repo/meta"
	"github.com/keshon/lvc/internal/repo/store/snapshot"
	"github.com/keshon/lvc/internal/repo/store/staging"
	"github.com/keshon/lvc/internal/repo/worktree"
	"github.com/keshon/lvc/internal/util"
)

// CheckoutContext restores files and whole commits into the working tree.
type CheckoutContext struct {
	Meta      *meta.MetaContext
	Snapshots *snapshot.SnapshotContext
	Tree      *worktree.Tree
	Staging   *staging.Area
	Log       *zap.Logger
}

func NewCheckoutContext(mc *meta.MetaContext, sc *snapshot.SnapshotContext, tree *worktree.Tree, area *staging.Area, log *zap.Logger) *CheckoutContext {
	return &CheckoutContext{Meta: mc, Snapshots: sc, Tree: tree, Staging: area, Log: logging.OrNop(log)}
}

// CheckoutFile overwrites name with the version source tracks. Staging is
// left alone.
func (cc *CheckoutContext) CheckoutFile(name string, source *meta.Commit) error {
	hash, ok := source.SnapshotOf(name)
	if !ok {
		return errs.New(errs.ErrNotFound, "File does not exist in that commit.")
	}
	content, err := cc.Snapshots.Content(hash)
	if err != nil {
		return fmt.Errorf("failed to load %q from %s: %w", name, source.Hash, err)
	}
	if err := cc.Tree.Write(name, content); err != nil {
		return err
	}
	cc.Log.Debug("file checked out", zap.String("name", name), zap.String("commit", source.Hash))
	return nil
}

// CheckoutFileAt is CheckoutFile with an abbreviated commit id.
func (cc *CheckoutContext) CheckoutFileAt(name, ref string) error {
	id, err := cc.Meta.ResolveCommit(ref)
	if err != nil {
		return err
	}
	c, err := cc.Meta.GetCommit(id)
	if err != nil {
		return err
	}
	return cc.CheckoutFile(name, c)
}

// Untracked lists working files that head does not track and that are not
// staged in either direction.
func (cc *CheckoutContext) Untracked(head *meta.Commit) ([]string, error) {
	names, err := cc.Tree.List()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, name := range names {
		if !head.Tracks(name) && !cc.Staging.IsStaged(name) {
			out = append(out, name)
		}
	}
	return out, nil
}

// Reconcile replaces the working tree content of head with target's and
// records target as the head commit. Branch pointers are left to the caller.
func (cc *CheckoutContext) Reconcile(target, head *meta.Commit) error {
	untracked, err := cc.Untracked(head)
	if err != nil {
		return err
	}
	if len(untracked) > 0 {
		cc.Log.Debug("untracked files block checkout", zap.Strings("files", untracked))
		return errs.New(errs.ErrUntrackedConflict, errs.MsgUntrackedInTheWay)
	}

	// read everything before touching the tree
	contents := make(map[string][]byte, len(target.Snapshots))
	for name, hash := range target.Snapshots {
		content, err := cc.Snapshots.Content(hash)
		if err != nil {
			return fmt.Errorf("failed to load %q from %s: %w", name, target.Hash, err)
		}
		contents[name] = content
	}

	var deleted []string
	for _, name := range util.SortedKeys(head.Snapshots) {
		if target.Tracks(name) {
			continue
		}
		if err := cc.Tree.Remove(name); err != nil {
			return err
		}
		deleted = append(deleted, name)
	}

	for _, name := range cc.Staging.Additions() {
		if err := cc.Tree.Remove(name); err != nil {
			return err
		}
	}
	if err := cc.Staging.Clear(); err != nil {
		return err
	}

	for _, name := range util.SortedKeys(contents) {
		if err := cc.Tree.Write(name, contents[name]); err != nil {
			return err
		}
	}

	if err := cc.Meta.SetHeadCommit(target.Hash); err != nil {
		return err
	}
	cc.Log.Debug("working tree reconciled",
		zap.String("from", head.Hash),
		zap.String("to", target.Hash),
		zap.Int("written", len(contents)),
		zap.Strings("deleted", deleted))
	return nil
}
