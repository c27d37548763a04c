package rmbranch

import (
	"github.com/spf13/pflag"

	"github.com/keshon/lvc/internal/command"
	"github.com/keshon/lvc/internal/middleware"
)

type Command struct{}

func (c *Command) Name() string      { return "rm-branch" }
func (c *Command) Aliases() []string { return nil }
func (c *Command) Usage() string     { return "rm-branch <name>" }
func (c *Command) Brief() string     { return "Delete a branch pointer" }
func (c *Command) Help() string {
	return `Delete the branch <name>. Only the pointer goes away; its commits stay.

Usage:
  lvc rm-branch <name>`
}
func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *pflag.FlagSet)        {}

func (c *Command) Run(ctx *command.Context) error {
	if err := ctx.ExpectArgs(1); err != nil {
		return err
	}
	return ctx.Repo.RemoveBranch(ctx.Args[0])
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
