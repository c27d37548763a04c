package rm

import (
	"github.com/spf13/pflag"

	"github.com/keshon/lvc/internal/command"
	"github.com/keshon/lvc/internal/middleware"
)

type Command struct{}

func (c *Command) Name() string      { return "rm" }
func (c *Command) Aliases() []string { return nil }
func (c *Command) Usage() string     { return "rm <file>" }
func (c *Command) Brief() string     { return "Unstage a file, or stage its removal" }
func (c *Command) Help() string {
	return `Unstage a file staged for addition. If the head commit tracks the file,
also stage it for removal and delete it from the working directory.

Usage:
  lvc rm <file>`
}
func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *pflag.FlagSet)        {}

func (c *Command) Run(ctx *command.Context) error {
	if err := ctx.ExpectArgs(1); err != nil {
		return err
	}
	return ctx.Repo.Remove(ctx.TreeName(ctx.Args[0]))
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
