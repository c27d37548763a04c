// Package merge joins another branch into the current one with a three-way
// comparison against their split point.
package merge

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"

	"github.com/keshon/lvc/internal/logging"
	"github.com/keshon/lvc/internal/repo/checkout"
	"github.com/keshon/lvc/internal/repo/errs"
	"github.com/keshon/lvc/internal/repo/meta"
	"github.com/keshon/lvc/internal/repo/store/snapshot"
	"github.com/keshon/lvc/internal/repo/store/staging"
	"github.com/keshon/lvc/internal/repo/worktree"
	"github.com/keshon/lvc/internal/util"
)

// MergeContext carries everything a merge reads and writes.
type MergeContext struct {
	Meta      *meta.MetaContext
	Snapshots *snapshot.SnapshotContext
	Tree      *worktree.Tree
	Staging   *staging.Area
	Checkout  *checkout.CheckoutContext
	Strategy  Strategy
	Log       *zap.Logger
}

func NewMergeContext(mc *meta.MetaContext, sc *snapshot.SnapshotContext, tree *worktree.Tree, area *staging.Area, co *checkout.CheckoutContext, strategy Strategy, log *zap.Logger) *MergeContext {
	return &MergeContext{
		Meta:      mc,
		Snapshots: sc,
		Tree:      tree,
		Staging:   area,
		Checkout:  co,
		Strategy:  strategy,
		Log:       logging.OrNop(log),
	}
}

// Result describes a finished merge.
type Result struct {
	// FastForward is set when the current branch simply moved to the other tip.
	FastForward bool
	Split       *meta.Commit
	// Commit is the merge commit; nil after a fast-forward.
	Commit    *meta.Commit
	Conflicts []string
}

// Conflict reports whether any file got conflict markers.
func (r *Result) Conflict() bool { return len(r.Conflicts) > 0 }

type actionKind int

const (
	takeOther actionKind = iota
	remove
	conflict
)

type action struct {
	kind    actionKind
	name    string
	content []byte
}

// ConflictBlock renders the merged content of a conflicting file; a side
// that does not track the file contributes nothing.
func ConflictBlock(head, other []byte) []byte {
	var b bytes.Buffer
	b.WriteString("<<<<<<< HEAD\n")
	b.Write(head)
	b.WriteString("=======\n")
	b.Write(other)
	b.WriteString(">>>>>>>\n")
	return b.Bytes()
}

// Merge merges branch other into branch current, whose front is head.
func (mc *MergeContext) Merge(current, other string) (*Result, error) {
	head, err := mc.Meta.HeadCommit()
	if err != nil {
		return nil, err
	}

	// validate in order; nothing is touched until every check passes
	untracked, err := mc.Checkout.Untracked(head)
	if err != nil {
		return nil, err
	}
	if len(untracked) > 0 {
		return nil, errs.New(errs.ErrUntrackedConflict, errs.MsgUntrackedInTheWay)
	}
	if mc.Staging.HasPendingChanges() {
		return nil, errs.New(errs.ErrInvalidOperation, "You have uncommitted changes.")
	}
	branch, err := mc.Meta.GetBranch(other)
	if err != nil {
		return nil, err
	}
	if other == current {
		return nil, errs.New(errs.ErrInvalidOperation, "Cannot merge a branch with itself.")
	}
	tip, err := mc.Meta.GetCommit(branch.Front)
	if err != nil {
		return nil, fmt.Errorf("failed to load front of %s: %v", other, err)
	}

	split, err := mc.SplitPoint(head, tip)
	if err != nil {
		return nil, err
	}
	mc.Log.Debug("split point resolved",
		zap.String("strategy", string(mc.Strategy)),
		zap.String("split", split.Hash),
		zap.String("head", head.Hash),
		zap.String("other", tip.Hash))

	if split.Hash == tip.Hash {
		return nil, errs.New(errs.ErrInvalidOperation, "Given branch is an ancestor of the current branch.")
	}
	if split.Hash == head.Hash {
		if err := mc.Checkout.Reconcile(tip, head); err != nil {
			return nil, err
		}
		if err := mc.Meta.MoveBranch(current, tip.Hash); err != nil {
			return nil, err
		}
		return &Result{FastForward: true, Split: split}, nil
	}

	plan, conflicts, err := mc.classify(split, head, tip)
	if err != nil {
		return nil, err
	}
	if err := mc.apply(plan, head); err != nil {
		return nil, err
	}

	mapping, err := mc.Staging.Flush(head.Snapshots)
	if err != nil {
		return nil, err
	}
	c, err := mc.Meta.CreateCommit(fmt.Sprintf("Merged %s into %s.", other, current), mapping, head.Hash, tip.Hash)
	if err != nil {
		return nil, err
	}
	if err := mc.Meta.MoveBranch(current, c.Hash); err != nil {
		return nil, err
	}
	if err := mc.Meta.SetHeadCommit(c.Hash); err != nil {
		return nil, err
	}
	return &Result{Split: split, Commit: c, Conflicts: conflicts}, nil
}

// same reports whether two commits agree on name, absence included.
func same(a, b *meta.Commit, name string) bool {
	ha, inA := a.SnapshotOf(name)
	hb, inB := b.SnapshotOf(name)
	return inA == inB && ha == hb
}

// classify computes every working-tree change of the merge, loading the
// blobs it needs.
func (mc *MergeContext) classify(split, head, other *meta.Commit) ([]action, []string, error) {
	var plan []action
	var conflicts []string

	for _, name := range util.SortedKeys(split.Snapshots) {
		switch {
		case same(split, head, name) && !other.Tracks(name):
			plan = append(plan, action{kind: remove, name: name})
		case same(split, head, name):
			if same(head, other, name) {
				continue
			}
			content, err := mc.contentOf(other, name)
			if err != nil {
				return nil, nil, err
			}
			plan = append(plan, action{kind: takeOther, name: name, content: content})
		case same(split, other, name), same(head, other, name):
			// changed only in head, or identically in both
		default:
			block, err := mc.conflictOf(head, other, name)
			if err != nil {
				return nil, nil, err
			}
			plan = append(plan, action{kind: conflict, name: name, content: block})
			conflicts = append(conflicts, name)
		}
	}

	for _, name := range util.SortedKeys(other.Snapshots) {
		if split.Tracks(name) || head.Tracks(name) {
			continue
		}
		content, err := mc.contentOf(other, name)
		if err != nil {
			return nil, nil, err
		}
		plan = append(plan, action{kind: takeOther, name: name, content: content})
	}

	mc.Log.Debug("merge classified", zap.Int("actions", len(plan)), zap.Strings("conflicts", conflicts))
	return plan, conflicts, nil
}

func (mc *MergeContext) contentOf(c *meta.Commit, name string) ([]byte, error) {
	hash, ok := c.SnapshotOf(name)
	if !ok {
		return nil, nil
	}
	content, err := mc.Snapshots.Content(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to load %q from %s: %w", name, c.Hash, err)
	}
	return content, nil
}

func (mc *MergeContext) conflictOf(head, other *meta.Commit, name string) ([]byte, error) {
	ours, err := mc.contentOf(head, name)
	if err != nil {
		return nil, err
	}
	theirs, err := mc.contentOf(other, name)
	if err != nil {
		return nil, err
	}
	return ConflictBlock(ours, theirs), nil
}

func (mc *MergeContext) apply(plan []action, head *meta.Commit) error {
	for _, a := range plan {
		switch a.kind {
		case remove:
			if err := mc.Staging.StageRemove(a.name, head); err != nil {
				return err
			}
		case takeOther, conflict:
			if err := mc.Tree.Write(a.name, a.content); err != nil {
				return err
			}
			if err := mc.Staging.StageAdd(a.name, a.content, head); err != nil {
				return err
			}
		}
	}
	return nil
}
