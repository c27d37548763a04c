package find

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/keshon/lvc/internal/command"
	"github.com/keshon/lvc/internal/middleware"
)

type Command struct{}

func (c *Command) Name() string      { return "find" }
func (c *Command) Aliases() []string { return nil }
func (c *Command) Usage() string     { return "find <message>" }
func (c *Command) Brief() string     { return "Print the ids of commits with a message" }
func (c *Command) Help() string {
	return `Print the id of every commit whose message is exactly <message>, one
per line.

Usage:
  lvc find "<message>"`
}
func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *pflag.FlagSet)        {}

func (c *Command) Run(ctx *command.Context) error {
	if err := ctx.ExpectArgs(1); err != nil {
		return err
	}
	ids, err := ctx.Repo.Find(ctx.Args[0])
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(ctx.Out, id)
	}
	return nil
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
