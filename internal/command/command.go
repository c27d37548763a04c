package command

import (
	"io"
	"path/filepath"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/keshon/lvc/internal/config"
	"github.com/keshon/lvc/internal/fs"
	"github.com/keshon/lvc/internal/repo"
	"github.com/keshon/lvc/internal/repo/errs"
)

// Command represents a cli command
type Command interface {
	Name() string
	Aliases() []string
	Usage() string
	Brief() string
	Help() string
	Subcommands() []Command
	Flags(fs *pflag.FlagSet)
	Run(ctx *Context) error
}

// Context represents a cli context
type Context struct {
	// Args holds the positional arguments, "--" removed.
	Args []string
	// Dash is the number of Args before "--", or -1 when there was none.
	Dash  int
	Flags *pflag.FlagSet
	Out   io.Writer
	Err   io.Writer
	FS    fs.FS

	// WorkDir is the absolute directory the command runs in.
	WorkDir string
	// TreeRoot is the enclosing working tree, empty outside a repository.
	TreeRoot string
	Settings config.Settings
	Logger   *zap.Logger

	// Repo is set by middleware.WithRepository.
	Repo *repo.Repository
}

// ExpectArgs fails with the operand error unless exactly n args were given.
func (c *Context) ExpectArgs(n int) error {
	if len(c.Args) != n {
		return errs.New(errs.ErrUsage, errs.MsgIncorrectOperands)
	}
	return nil
}

// TreeName maps a file argument given relative to WorkDir onto a name
// relative to the working tree root.
func (c *Context) TreeName(arg string) string {
	if c.TreeRoot == "" {
		return arg
	}
	p := arg
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.WorkDir, p)
	}
	rel, err := filepath.Rel(c.TreeRoot, p)
	if err != nil {
		return arg
	}
	return filepath.ToSlash(rel)
}
