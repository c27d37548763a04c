package initialize

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/keshon/lvc/internal/command"
	"github.com/keshon/lvc/internal/config"
	"github.com/keshon/lvc/internal/middleware"
	"github.com/keshon/lvc/internal/repo"
	"github.com/keshon/lvc/internal/repo/errs"
)

type Command struct {
	hash        string
	compress    bool
	separateDir string
	quiet       bool
}

func (c *Command) Name() string      { return "init" }
func (c *Command) Aliases() []string { return nil }
func (c *Command) Usage() string     { return "init [options]" }
func (c *Command) Brief() string     { return "Create a repository in the current directory" }
func (c *Command) Help() string {
	return `Create an empty repository in the current directory, with one
commit ("initial commit") and the branch main.

The hash algorithm and compression are fixed for the lifetime of the
repository and recorded in .lvc/config.yaml.

Options:
      --hash <algo>          Snapshot and commit digest: xxh3, sha1 or sha256.
      --compress             Store snapshot records gzip-compressed.
      --separate-dir <dir>   Keep repository data in <dir> and leave a
                             .lvc-pointer file in the working tree.
  -q, --quiet                Print nothing on success.

Examples:
  lvc init
  lvc init --hash sha256 --compress
  lvc init --separate-dir ../project.lvc`
}
func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *pflag.FlagSet) {
	fs.StringVar(&c.hash, "hash", "", "digest algorithm")
	fs.BoolVar(&c.compress, "compress", false, "compress snapshot records")
	fs.StringVar(&c.separateDir, "separate-dir", "", "repository data directory")
	fs.BoolVarP(&c.quiet, "quiet", "q", false, "print nothing on success")
}

func (c *Command) Run(ctx *command.Context) error {
	if err := ctx.ExpectArgs(0); err != nil {
		return err
	}

	settings := ctx.Settings
	if ctx.Flags.Changed("hash") {
		settings.Hash = c.hash
	}
	if ctx.Flags.Changed("compress") {
		settings.Compress = c.compress
	}
	if err := settings.Validate(); err != nil {
		return errs.New(errs.ErrUsage, err.Error())
	}

	if c.separateDir != "" {
		if err := c.writePointer(ctx); err != nil {
			return err
		}
	}

	r, err := repo.Init(ctx.WorkDir, settings, &repo.Options{FS: ctx.FS, Logger: ctx.Logger})
	if err != nil {
		return err
	}
	if !c.quiet {
		fmt.Fprintf(ctx.Out, "Initialized empty repository in %s (%s)\n", r.Config.RepoRoot, r.Settings.Hash)
	}
	return nil
}

func (c *Command) writePointer(ctx *command.Context) error {
	ptr := filepath.Join(ctx.WorkDir, config.RepoPointerFile)
	if ctx.FS.Exists(ptr) || ctx.FS.IsDir(filepath.Join(ctx.WorkDir, config.RepoDir)) {
		return errs.New(errs.ErrAlreadyExists, "A version-control system already exists in the current directory.")
	}
	target := c.separateDir
	if !filepath.IsAbs(target) {
		target = filepath.Join(ctx.WorkDir, target)
	}
	if err := ctx.FS.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	if err := ctx.FS.WriteFile(ptr, []byte(target+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ptr, err)
	}
	return nil
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.WithDebugArgsPrint(),
		),
	)
}
