// Package repo wires the storage, staging, checkout and merge components of
// one working tree into a Repository and implements the user-level operations
// on top of them.
package repo

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/keshon/lvc/internal/config"
	"github.com/keshon/lvc/internal/fs"
	"github.com/keshon/lvc/internal/logging"
	"github.com/keshon/lvc/internal/repo/checkout"
	"github.com/keshon/lvc/internal/repo/errs"
	"github.com/keshon/lvc/internal/repo/merge"
	"github.com/keshon/lvc/internal/repo/meta"
	"github.com/keshon/lvc/internal/repo/store/digest"
	"github.com/keshon/lvc/internal/repo/store/snapshot"
	"github.com/keshon/lvc/internal/repo/store/staging"
	"github.com/keshon/lvc/internal/repo/worktree"
)

// Repository represents an initialized repository.
type Repository struct {
	Config    *config.RepoConfig
	Settings  config.Settings
	FS        fs.FS
	Meta      *meta.MetaContext
	Snapshots *snapshot.SnapshotContext
	Tree      *worktree.Tree
	Staging   *staging.Area
	Checkout  *checkout.CheckoutContext
	Merger    *merge.MergeContext
	Log       *zap.Logger
}

// Options customizes how a Repository is opened.
type Options struct {
	// FS defaults to the operating system.
	FS fs.FS
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *zap.Logger
}

func (o *Options) withDefaults() Options {
	var out Options
	if o != nil {
		out = *o
	}
	if out.FS == nil {
		out.FS = fs.NewOSFS()
	}
	if out.Now == nil {
		out.Now = time.Now
	}
	out.Logger = logging.OrNop(out.Logger)
	return out
}

// Init creates a repository in workTree: the metadata layout, the settings
// file, the initial commit and the default branch.
func Init(workTree string, settings config.Settings, opts *Options) (*Repository, error) {
	o := opts.withDefaults()
	cfg := config.NewRepoConfig(workTree, o.FS)
	if meta.IsMetaExists(cfg, o.FS) {
		return nil, errs.New(errs.ErrAlreadyExists, "A version-control system already exists in the current directory.")
	}
	if _, err := digest.New(settings.Hash); err != nil {
		return nil, err
	}

	r, err := open(cfg, settings, o)
	if err != nil {
		return nil, err
	}
	if err := r.Meta.CreateLayout(); err != nil {
		return nil, err
	}
	rs := config.RepoSettings{Hash: r.Settings.Hash, Compress: r.Settings.Compress}
	if err := config.SaveRepoSettings(o.FS, cfg.SettingsFile(), rs); err != nil {
		return nil, err
	}

	root, err := r.Meta.CreateCommitAt(config.InitialCommitMessage, nil, "", "", time.Unix(0, 0))
	if err != nil {
		return nil, err
	}
	if _, err := r.Meta.CreateBranch(config.DefaultBranch, root.Hash); err != nil {
		return nil, err
	}
	if _, err := r.Meta.SetHeadRef(config.DefaultBranch); err != nil {
		return nil, err
	}
	if err := r.Meta.SetHeadCommit(root.Hash); err != nil {
		return nil, err
	}
	r.Log.Debug("repository initialized",
		zap.String("root", cfg.RepoRoot),
		zap.String("hash", r.Settings.Hash),
		zap.Bool("compress", r.Settings.Compress))
	return r, nil
}

// Open opens the repository of workTree. The hash algorithm and compression
// recorded at init time take precedence over settings.
func Open(workTree string, settings config.Settings, opts *Options) (*Repository, error) {
	o := opts.withDefaults()
	cfg := config.NewRepoConfig(workTree, o.FS)
	if !meta.IsMetaExists(cfg, o.FS) {
		return nil, errs.New(errs.ErrNotFound, errs.MsgNotInitialized)
	}

	rs, err := config.LoadRepoSettings(o.FS, cfg.SettingsFile())
	if err != nil {
		return nil, err
	}
	settings.Hash = rs.Hash
	settings.Compress = rs.Compress
	return open(cfg, settings, o)
}

func open(cfg *config.RepoConfig, settings config.Settings, o Options) (*Repository, error) {
	d, err := digest.New(settings.Hash)
	if err != nil {
		return nil, err
	}
	settings.Hash = d.Name()

	strategy, err := merge.ParseStrategy(settings.Merge.SplitStrategy)
	if err != nil {
		return nil, err
	}

	mc, err := meta.NewMeta(cfg, o.FS, d, o.Now, o.Logger.Named("meta"))
	if err != nil {
		return nil, err
	}

	blobFS := o.FS
	if settings.Compress {
		blobFS = fs.NewCompressedFS(o.FS)
	}
	sc := snapshot.NewSnapshotContext(cfg.SnapshotsDir(), blobFS, d, o.Logger.Named("snapshot"))

	ignore := worktree.NewIgnore(o.FS, cfg.IgnoreFile(), settings.Ignore)
	tree := worktree.New(cfg.WorkingTreeDir, o.FS, ignore)

	area, err := staging.Load(cfg.IndexFile(), o.FS, sc, tree, o.Logger.Named("staging"))
	if err != nil {
		return nil, fmt.Errorf("failed to load staging area: %w", err)
	}

	co := checkout.NewCheckoutContext(mc, sc, tree, area, o.Logger.Named("checkout"))
	mg := merge.NewMergeContext(mc, sc, tree, area, co, strategy, o.Logger.Named("merge"))

	return &Repository{
		Config:    cfg,
		Settings:  settings,
		FS:        o.FS,
		Meta:      mc,
		Snapshots: sc,
		Tree:      tree,
		Staging:   area,
		Checkout:  co,
		Merger:    mg,
		Log:       o.Logger,
	}, nil
}

// HeadCommit loads the checked-out commit.
func (r *Repository) HeadCommit() (*meta.Commit, error) {
	return r.Meta.HeadCommit()
}

// CurrentBranch returns the checked-out branch name.
func (r *Repository) CurrentBranch() (string, error) {
	return r.Meta.CurrentBranch()
}
