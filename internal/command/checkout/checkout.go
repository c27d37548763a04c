package checkout

import (
	"github.com/spf13/pflag"

	"github.com/keshon/lvc/internal/command"
	"github.com/keshon/lvc/internal/middleware"
	"github.com/keshon/lvc/internal/repo/errs"
)

type Command struct{}

func (c *Command) Name() string      { return "checkout" }
func (c *Command) Aliases() []string { return []string{"co"} }
func (c *Command) Usage() string     { return "checkout [<commit>] -- <file> | checkout <branch>" }
func (c *Command) Brief() string     { return "Restore a file or switch branches" }
func (c *Command) Help() string {
	return `Restore a file, or switch the working tree to another branch.

Usage:
  lvc checkout -- <file>            restore <file> from the head commit
  lvc checkout <commit> -- <file>   restore <file> from <commit> (id or unique prefix)
  lvc checkout <branch>             switch to <branch>

Restoring a file leaves the staging area alone. Switching branches
replaces the files of the head commit with those of the branch's front
commit and clears the staging area; it refuses to overwrite untracked
files.`
}
func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *pflag.FlagSet)        {}

func (c *Command) Run(ctx *command.Context) error {
	switch {
	case ctx.Dash == 0 && len(ctx.Args) == 1:
		return ctx.Repo.CheckoutFile(ctx.TreeName(ctx.Args[0]))
	case ctx.Dash == 1 && len(ctx.Args) == 2:
		return ctx.Repo.CheckoutFileAt(ctx.Args[0], ctx.TreeName(ctx.Args[1]))
	case ctx.Dash < 0 && len(ctx.Args) == 1:
		return ctx.Repo.CheckoutBranch(ctx.Args[0])
	}
	return errs.New(errs.ErrUsage, errs.MsgIncorrectOperands)
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.WithIntegrityCheck(),
			middleware.WithRepository(),
			middleware.WithDebugArgsPrint(),
		),
	)
}
