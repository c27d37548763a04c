package reset

import (
	"github.com/spf13/pflag"

	"github.com/keshon/lvc/internal/command"
	"github.com/keshon/lvc/internal/middleware"
)

type Command struct{}

func (c *Command) Name() string      { return "reset" }
func (c *Command) Aliases() []string { return nil }
func (c *Command) Usage() string     { return "reset <commit>" }
func (c *Command) Brief() string     { return "Move the current branch to a commit" }
func (c *Command) Help() string {
	return `Check out every file of <commit>, delete tracked files it does not
contain, clear the staging area and move the current branch to it.
<commit> may be any unique prefix of a commit id.

Usage:
  lvc reset <commit>`
}
func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *pflag.FlagSet)        {}

func (c *Command) Run(ctx *command.Context) error {
	if err := ctx.ExpectArgs(1); err != nil {
		return err
	}
	_, err := ctx.Repo.Reset(ctx.Args[0])
	return err
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
