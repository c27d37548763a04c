package log

import (
	"github.com/spf13/pflag"

	"github.com/keshon/lvc/internal/command"
	"github.com/keshon/lvc/internal/middleware"
)

type Command struct {
	limit int
}

func (c *Command) Name() string      { return "log" }
func (c *Command) Aliases() []string { return nil }
func (c *Command) Usage() string     { return "log [-n <count>]" }
func (c *Command) Brief() string     { return "Show the history of the current branch" }
func (c *Command) Help() string {
	return `Show commits from the head commit back to the initial commit, following
first parents only.

Options:
  -n <count>   Stop after <count> commits.

Usage:
  lvc log
  lvc log -n 5`
}
func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *pflag.FlagSet) {
	fs.IntVarP(&c.limit, "max-count", "n", 0, "limit number of commits")
}

func (c *Command) Run(ctx *command.Context) error {
	if err := ctx.ExpectArgs(0); err != nil {
		return err
	}

	history, err := ctx.Repo.History()
	if err != nil {
		return err
	}
	shown := 0
	for cm, err := range history {
		if err != nil {
			return err
		}
		if err := WriteEntry(ctx.Out, cm); err != nil {
			return err
		}
		shown++
		if c.limit > 0 && shown >= c.limit {
			break
		}
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
