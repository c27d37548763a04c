package repo

import (
	"github.com/keshon/lvc/internal/repo/errs"
	"github.com/keshon/lvc/internal/repo/worktree"
)

func normalize(name string, missing string) (string, error) {
	clean, ok := worktree.Normalize(name)
	if !ok {
		return "", errs.New(errs.ErrNotFound, missing)
	}
	return clean, nil
}

// Add stages the working copy of name.
func (r *Repository) Add(name string) error {
	name, err := normalize(name, "File does not exist.")
	if err != nil {
		return err
	}
	if !r.Tree.Exists(name) || r.Tree.Ignore.Match(name) {
		return errs.New(errs.ErrNotFound, "File does not exist.")
	}
	content, err := r.Tree.Read(name)
	if err != nil {
		return err
	}
	head, err := r.HeadCommit()
	if err != nil {
		return err
	}
	return r.Staging.StageAdd(name, content, head)
}

// Remove unstages name and, if the head commit tracks it, stages its removal.
func (r *Repository) Remove(name string) error {
	name, err := normalize(name, "No reason to remove the file.")
	if err != nil {
		return err
	}
	head, err := r.HeadCommit()
	if err != nil {
		return err
	}
	return r.Staging.StageRemove(name, head)
}

// CheckoutFile restores name as of the head commit.
func (r *Repository) CheckoutFile(name string) error {
	name, err := normalize(name, "File does not exist in that commit.")
	if err != nil {
		return err
	}
	head, err := r.HeadCommit()
	if err != nil {
		return err
	}
	return r.Checkout.CheckoutFile(name, head)
}

// CheckoutFileAt restores name as of the commit ref abbreviates.
func (r *Repository) CheckoutFileAt(ref, name string) error {
	name, err := normalize(name, "File does not exist in that commit.")
	if err != nil {
		return err
	}
	return r.Checkout.CheckoutFileAt(name, ref)
}
