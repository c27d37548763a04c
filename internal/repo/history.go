package repo

import (
	"iter"
	"strings"

	"go.uber.org/zap"

	"github.com/keshon/lvc/internal/repo/errs"
	"github.com/keshon/lvc/internal/repo/meta"
)

// Commit records the staged changes as a new commit on the current branch.
func (r *Repository) Commit(message string) (*meta.Commit, error) {
	if !r.Staging.HasPendingChanges() {
		return nil, errs.New(errs.ErrInvalidOperation, "No changes added to the commit.")
	}
	if strings.TrimSpace(message) == "" {
		return nil, errs.New(errs.ErrUsage, "Please enter a commit message.")
	}

	head, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	branch, err := r.CurrentBranch()
	if err != nil {
		return nil, err
	}

	mapping, err := r.Staging.Flush(head.Snapshots)
	if err != nil {
		return nil, err
	}
	c, err := r.Meta.CreateCommit(message, mapping, head.Hash, "")
	if err != nil {
		return nil, err
	}
	if err := r.Meta.MoveBranch(branch, c.Hash); err != nil {
		return nil, err
	}
	if err := r.Meta.SetHeadCommit(c.Hash); err != nil {
		return nil, err
	}
	r.Log.Debug("committed", zap.String("branch", branch), zap.String("hash", c.Hash))
	return c, nil
}

// History walks the first-parent history from the head commit.
func (r *Repository) History() (iter.Seq2[*meta.Commit, error], error) {
	head, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	return r.Meta.Ancestors(head), nil
}

// GlobalLog returns every commit ever made.
func (r *Repository) GlobalLog() ([]*meta.Commit, error) {
	return r.Meta.AllCommits()
}

// Find returns the ids of every commit with exactly this message.
func (r *Repository) Find(message string) ([]string, error) {
	ids, err := r.Meta.FindByMessage(message)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, errs.New(errs.ErrNotFound, "Found no commit with that message.")
	}
	return ids, nil
}
