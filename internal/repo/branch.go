package repo

import (
	"go.uber.org/zap"

	"github.com/keshon/lvc/internal/repo/errs"
	"github.com/keshon/lvc/internal/repo/merge"
	"github.com/keshon/lvc/internal/repo/meta"
)

// Branches lists branch names and reports the current one.
func (r *Repository) Branches() ([]string, string, error) {
	names, err := r.Meta.ListBranches()
	if err != nil {
		return nil, "", err
	}
	cur, err := r.CurrentBranch()
	if err != nil {
		return nil, "", err
	}
	return names, cur, nil
}

// CreateBranch creates name at the head commit without switching to it.
func (r *Repository) CreateBranch(name string) (*meta.Branch, error) {
	id, err := r.Meta.HeadCommitID()
	if err != nil {
		return nil, err
	}
	return r.Meta.CreateBranch(name, id)
}

// RemoveBranch deletes the branch pointer; its commits stay.
func (r *Repository) RemoveBranch(name string) error {
	return r.Meta.DeleteBranch(name)
}

// CheckoutBranch switches the working tree and HEAD to branch name.
func (r *Repository) CheckoutBranch(name string) error {
	if !r.Meta.BranchExists(name) {
		return errs.New(errs.ErrNotFound, "No such branch exists.")
	}
	cur, err := r.CurrentBranch()
	if err != nil {
		return err
	}
	if cur == name {
		return errs.New(errs.ErrInvalidOperation, "No need to checkout the current branch.")
	}

	b, err := r.Meta.GetBranch(name)
	if err != nil {
		return err
	}
	target, err := r.Meta.GetCommit(b.Front)
	if err != nil {
		return err
	}
	head, err := r.HeadCommit()
	if err != nil {
		return err
	}
	if err := r.Checkout.Reconcile(target, head); err != nil {
		return err
	}
	if _, err := r.Meta.SetHeadRef(name); err != nil {
		return err
	}
	r.Log.Debug("switched branch", zap.String("from", cur), zap.String("to", name))
	return nil
}

// Reset moves the current branch to the commit ref abbreviates and
// reconciles the working tree to it.
func (r *Repository) Reset(ref string) (*meta.Commit, error) {
	id, err := r.Meta.ResolveCommit(ref)
	if err != nil {
		return nil, err
	}
	target, err := r.Meta.GetCommit(id)
	if err != nil {
		return nil, err
	}
	head, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	branch, err := r.CurrentBranch()
	if err != nil {
		return nil, err
	}
	if err := r.Checkout.Reconcile(target, head); err != nil {
		return nil, err
	}
	if err := r.Meta.MoveBranch(branch, target.Hash); err != nil {
		return nil, err
	}
	return target, nil
}

// Merge merges branch other into the current branch.
func (r *Repository) Merge(other string) (*merge.Result, error) {
	cur, err := r.CurrentBranch()
	if err != nil {
		return nil, err
	}
	return r.Merger.Merge(cur, other)
}
