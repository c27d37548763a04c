package config

import (
	"path/filepath"
	"strings"

	"github.com/keshon/lvc/internal/fs"
)

const (
	RepoDir        = ".lvc"
	CommitsDir     = "commits"
	SnapshotsDir   = "snapshots"
	BranchesDir    = "branches"
	HeadFile       = "HEAD"
	HeadCommitFile = "HEAD_COMMIT"
	IndexFile      = "index.json"
	SettingsFile   = "config.yaml"

	// RepoPointerFile redirects the repository directory elsewhere; it holds
	// an absolute path or one relative to the working tree.
	RepoPointerFile = ".lvc-pointer"
	IgnoreFile      = ".lvcignore"
)

const (
	DefaultBranch        = "main"
	InitialCommitMessage = "initial commit"
)

// IgnoredFiles never take part in tracking.
var IgnoredFiles = []string{RepoDir, RepoPointerFile}

// RepoConfig holds the on-disk locations of one repository.
type RepoConfig struct {
	WorkingTreeDir string
	RepoRoot       string
}

// NewRepoConfig builds the layout for the working tree at workTree, respecting
// a pointer file when fsys has one.
func NewRepoConfig(workTree string, fsys fs.FS) *RepoConfig {
	return &RepoConfig{
		WorkingTreeDir: workTree,
		RepoRoot:       ResolveRepoRoot(workTree, fsys),
	}
}

func (c *RepoConfig) CommitsDir() string     { return filepath.Join(c.RepoRoot, CommitsDir) }
func (c *RepoConfig) SnapshotsDir() string   { return filepath.Join(c.RepoRoot, SnapshotsDir) }
func (c *RepoConfig) BranchesDir() string    { return filepath.Join(c.RepoRoot, BranchesDir) }
func (c *RepoConfig) HeadFile() string       { return filepath.Join(c.RepoRoot, HeadFile) }
func (c *RepoConfig) HeadCommitFile() string { return filepath.Join(c.RepoRoot, HeadCommitFile) }
func (c *RepoConfig) IndexFile() string      { return filepath.Join(c.RepoRoot, IndexFile) }
func (c *RepoConfig) SettingsFile() string   { return filepath.Join(c.RepoRoot, SettingsFile) }
func (c *RepoConfig) IgnoreFile() string     { return filepath.Join(c.WorkingTreeDir, IgnoreFile) }

// ResolveRepoRoot determines the repository directory of a working tree.
func ResolveRepoRoot(workTree string, fsys fs.FS) string {
	root := filepath.Join(workTree, RepoDir)

	ptr := filepath.Join(workTree, RepoPointerFile)
	if fsys == nil || !fsys.Exists(ptr) || fsys.IsDir(ptr) {
		return root
	}
	data, err := fsys.ReadFile(ptr)
	if err != nil {
		return root
	}
	target := strings.TrimSpace(string(data))
	if target == "" {
		return root
	}
	target = filepath.Clean(target)
	if filepath.IsAbs(target) {
		return target
	}
	return filepath.Join(workTree, target)
}
