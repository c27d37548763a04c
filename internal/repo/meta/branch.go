package meta

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/keshon/lvc/internal/repo/errs"
)

// Branch is a named pointer to a commit.
type Branch struct {
	Name  string
	Front string
}

// ValidBranchName rejects names that cannot be stored as a single file.
func ValidBranchName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && strings.TrimSpace(name) == name
}

func (mc *MetaContext) branchPath(name string) string {
	return filepath.Join(mc.Config.BranchesDir(), name)
}

// BranchExists checks for branch existence (fast).
func (mc *MetaContext) BranchExists(name string) bool {
	if !ValidBranchName(name) {
		return false
	}
	p := mc.branchPath(name)
	return mc.FS.Exists(p) && !mc.FS.IsDir(p)
}

// GetBranch returns a Branch if it exists.
func (mc *MetaContext) GetBranch(name string) (*Branch, error) {
	if !mc.BranchExists(name) {
		return nil, errs.New(errs.ErrNotFound, errs.MsgNoSuchBranch)
	}
	data, err := mc.FS.ReadFile(mc.branchPath(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read branch %q: %w", name, err)
	}
	return &Branch{Name: name, Front: strings.TrimSpace(string(data))}, nil
}

// CreateBranch creates a new branch pointing at front.
func (mc *MetaContext) CreateBranch(name, front string) (*Branch, error) {
	if !ValidBranchName(name) {
		return nil, errs.New(errs.ErrUsage, errs.MsgIncorrectOperands)
	}
	if mc.BranchExists(name) {
		return nil, errs.New(errs.ErrAlreadyExists, "A branch with that name already exists.")
	}
	if err := mc.writeBranch(name, front); err != nil {
		return nil, err
	}
	mc.Log.Debug("branch created", zap.String("branch", name), zap.String("front", front))
	return &Branch{Name: name, Front: front}, nil
}

// MoveBranch points name at hash unconditionally.
func (mc *MetaContext) MoveBranch(name, hash string) error {
	if !ValidBranchName(name) {
		return fmt.Errorf("invalid branch name %q", name)
	}
	if err := mc.writeBranch(name, hash); err != nil {
		return err
	}
	mc.Log.Debug("branch moved", zap.String("branch", name), zap.String("front", hash))
	return nil
}

func (mc *MetaContext) writeBranch(name, hash string) error {
	if err := mc.FS.WriteFile(mc.branchPath(name), []byte(hash), 0o644); err != nil {
		return fmt.Errorf("failed to write branch file %q: %w", name, err)
	}
	return nil
}

// DeleteBranch removes the pointer only; commits stay.
func (mc *MetaContext) DeleteBranch(name string) error {
	if !mc.BranchExists(name) {
		return errs.New(errs.ErrNotFound, errs.MsgNoSuchBranch)
	}
	cur, err := mc.CurrentBranch()
	if err != nil {
		return err
	}
	if cur == name {
		return errs.New(errs.ErrInvalidOperation, "Cannot remove the current branch.")
	}
	if err := mc.FS.Remove(mc.branchPath(name)); err != nil {
		return fmt.Errorf("failed to remove branch %q: %w", name, err)
	}
	mc.Log.Debug("branch removed", zap.String("branch", name))
	return nil
}

// ListBranches returns all branch names sorted.
func (mc *MetaContext) ListBranches() ([]string, error) {
	entries, err := mc.FS.ReadDir(mc.Config.BranchesDir())
	if err != nil {
		return nil, fmt.Errorf("failed to read branches directory %q: %w", mc.Config.BranchesDir(), err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
