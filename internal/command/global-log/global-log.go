package globallog

import (
	"github.com/spf13/pflag"

	"github.com/keshon/lvc/internal/command"
	logcmd "github.com/keshon/lvc/internal/command/log"
	"github.com/keshon/lvc/internal/middleware"
)

type Command struct{}

func (c *Command) Name() string      { return "global-log" }
func (c *Command) Aliases() []string { return nil }
func (c *Command) Usage() string     { return "global-log" }
func (c *Command) Brief() string     { return "Show every commit ever made" }
func (c *Command) Help() string {
	return `Show every commit in the repository, in no particular order, in the
same format as log.

Usage:
  lvc global-log`
}
func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *pflag.FlagSet)        {}

func (c *Command) Run(ctx *command.Context) error {
	if err := ctx.ExpectArgs(0); err != nil {
		return err
	}
	commits, err := ctx.Repo.GlobalLog()
	if err != nil {
		return err
	}
	for _, cm := range commits {
		if err := logcmd.WriteEntry(ctx.Out, cm); err != nil {
			return err
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
