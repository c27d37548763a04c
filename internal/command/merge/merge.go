package merge

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/keshon/lvc/internal/command"
	"github.com/keshon/lvc/internal/middleware"
)

type Command struct{}

func (c *Command) Name() string      { return "merge" }
func (c *Command) Aliases() []string { return nil }
func (c *Command) Usage() string     { return "merge <branch>" }
func (c *Command) Brief() string     { return "Merge a branch into the current branch" }
func (c *Command) Help() string {
	return `Merge <branch> into the current branch, comparing both against their
split point. Files changed on both sides differently are written with
conflict markers and committed as they are.

The split point follows first parents by default; set
merge.split_strategy to "nearest" to use the closest common ancestor
over all parent edges.

Usage:
  lvc merge <branch>`
}
func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *pflag.FlagSet)        {}

func (c *Command) Run(ctx *command.Context) error {
	if err := ctx.ExpectArgs(1); err != nil {
		return err
	}
	res, err := ctx.Repo.Merge(ctx.Args[0])
	if err != nil {
		return err
	}
	switch {
	case res.FastForward:
		fmt.Fprintln(ctx.Out, "Current branch fast-forwarded.")
	case res.Conflict():
		fmt.Fprintln(ctx.Out, "Encountered a merge conflict.")
	}
	return nil
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
