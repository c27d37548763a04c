package config

import (
	"path/filepath"

	"github.com/keshon/lvc/internal/fs"
)

// ResolveWorkingTreeRoot determines the working tree root by walking up from
// start until it finds a repository directory or a pointer file.
func ResolveWorkingTreeRoot(start string, fsys fs.FS) (string, bool) {
	cwd, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for {
		if fsys.IsDir(filepath.Join(cwd, RepoDir)) || fsys.Exists(filepath.Join(cwd, RepoPointerFile)) {
			return cwd, true
		}
		parent := filepath.Dir(cwd)
		if parent == cwd {
			return "", false // reached filesystem root
		}
		cwd = parent
	}
}
