package branch

import (
	"github.com/spf13/pflag"

	"github.com/keshon/lvc/internal/command"
	"github.com/keshon/lvc/internal/middleware"
)

type Command struct{}

func (c *Command) Name() string      { return "branch" }
func (c *Command) Aliases() []string { return nil }
func (c *Command) Usage() string     { return "branch <name>" }
func (c *Command) Brief() string     { return "Create a branch at the head commit" }
func (c *Command) Help() string {
	return `Create a branch pointing at the head commit. The current branch does not
change; use checkout to switch.

Usage:
  lvc branch <name>`
}
func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *pflag.FlagSet)        {}

func (c *Command) Run(ctx *command.Context) error {
	if err := ctx.ExpectArgs(1); err != nil {
		return err
	}
	_, err := ctx.Repo.CreateBranch(ctx.Args[0])
	return err
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.WithRepository(),
			middleware.WithDebugArgsPrint(),
		),
	)
}
