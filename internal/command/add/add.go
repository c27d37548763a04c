package add

import (
	"github.com/spf13/pflag"

	"github.com/keshon/lvc/internal/command"
	"github.com/keshon/lvc/internal/middleware"
)

type Command struct{}

func (c *Command) Name() string      { return "add" }
func (c *Command) Aliases() []string { return nil }
func (c *Command) Usage() string     { return "add <file>" }
func (c *Command) Brief() string     { return "Stage a file for the next commit" }
func (c *Command) Help() string {
	return `Stage the current content of a file.

Adding a file whose content equals the head commit's version unstages it
instead, and adding a file staged for removal cancels the removal.

Usage:
  lvc add <file>`
}
func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *pflag.FlagSet)        {}

func (c *Command) Run(ctx *command.Context) error {
	if err := ctx.ExpectArgs(1); err != nil {
		return err
	}
	return ctx.Repo.Add(ctx.TreeName(ctx.Args[0]))
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
