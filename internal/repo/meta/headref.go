package meta

import (
	"fmt"
	"path"
	"strings"

	"github.com/keshon/lvc/internal/config"
)

const refPrefix = "ref: "

type HeadRef string

func (h HeadRef) String() string { return string(h) }

// BranchName returns the branch the ref points at.
func (h HeadRef) BranchName() string { return path.Base(string(h)) }

// GetHeadRef reads HEAD for this repository.
func (mc *MetaContext) GetHeadRef() (HeadRef, error) {
	data, err := mc.FS.ReadFile(mc.Config.HeadFile())
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD %q: %w", mc.Config.HeadFile(), err)
	}
	content := strings.TrimSpace(string(data))
	if !strings.HasPrefix(content, refPrefix) {
		return "", fmt.Errorf("invalid HEAD content: %q", content)
	}
	return HeadRef(strings.TrimPrefix(content, refPrefix)), nil
}

// SetHeadRef points HEAD at the named branch.
func (mc *MetaContext) SetHeadRef(branch string) (HeadRef, error) {
	ref := HeadRef(path.Join(config.BranchesDir, branch))
	if err := mc.FS.WriteFile(mc.Config.HeadFile(), []byte(refPrefix+ref.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write HEAD %q: %w", mc.Config.HeadFile(), err)
	}
	return ref, nil
}

// CurrentBranch returns the name of the checked-out branch.
func (mc *MetaContext) CurrentBranch() (string, error) {
	ref, err := mc.GetHeadRef()
	if err != nil {
		return "", err
	}
	name := ref.BranchName()
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("HEAD ref is empty or invalid")
	}
	return name, nil
}

// HeadCommitID returns the id of the checked-out commit.
func (mc *MetaContext) HeadCommitID() (string, error) {
	data, err := mc.FS.ReadFile(mc.Config.HeadCommitFile())
	if err != nil {
		return "", fmt.Errorf("failed to read head commit: %w", err)
	}
	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", fmt.Errorf("head commit record is empty")
	}
	return id, nil
}

// SetHeadCommit records hash as the checked-out commit.
func (mc *MetaContext) SetHeadCommit(hash string) error {
	if err := mc.FS.WriteFile(mc.Config.HeadCommitFile(), []byte(hash), 0o644); err != nil {
		return fmt.Errorf("failed to write head commit: %w", err)
	}
	return nil
}

// HeadCommit loads the checked-out commit.
func (mc *MetaContext) HeadCommit() (*Commit, error) {
	id, err := mc.HeadCommitID()
	if err != nil {
		return nil, err
	}
	c, err := mc.GetCommit(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load head commit %s: %v", id, err)
	}
	return c, nil
}
