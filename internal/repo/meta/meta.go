// Package meta holds the commit graph and the branch registry: commit
// records, branch front pointers and the head records.
package meta

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/keshon/lvc/internal/config"
	"github.com/keshon/lvc/internal/fs"
	"github.com/keshon/lvc/internal/logging"
	"github.com/keshon/lvc/internal/repo/store/digest"
)

// MetaContext reads and writes the repository's metadata records.
type MetaContext struct {
	Config *config.RepoConfig
	FS     fs.FS
	Digest digest.Hasher
	Now    func() time.Time
	Log    *zap.Logger
}

// NewMeta wires a MetaContext. A nil clock means time.Now.
func NewMeta(cfg *config.RepoConfig, fsys fs.FS, d digest.Hasher, now func() time.Time, log *zap.Logger) (*MetaContext, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil RepoConfig provided")
	}
	if now == nil {
		now = time.Now
	}
	return &MetaContext{Config: cfg, FS: fsys, Digest: d, Now: now, Log: logging.OrNop(log)}, nil
}

// CreateLayout builds an empty metadata layout.
func (mc *MetaContext) CreateLayout() error {
	dirs := []string{
		mc.Config.RepoRoot,
		mc.Config.CommitsDir(),
		mc.Config.SnapshotsDir(),
		mc.Config.BranchesDir(),
	}
	for _, d := range dirs {
		if err := mc.FS.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("failed to create dir %q: %w", d, err)
		}
	}
	return nil
}

// IsMetaExists checks if the config points to an existing repository.
func IsMetaExists(cfg *config.RepoConfig, fsys fs.FS) bool {
	fi, err := fsys.Stat(cfg.HeadFile())
	return err == nil && fi.Mode().IsRegular()
}
