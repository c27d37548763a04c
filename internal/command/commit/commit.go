package commit

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/keshon/lvc/internal/command"
	"github.com/keshon/lvc/internal/middleware"
	"github.com/keshon/lvc/internal/repo/errs"
)

type Command struct {
	message string
}

func (c *Command) Name() string      { return "commit" }
func (c *Command) Aliases() []string { return []string{"ci"} }
func (c *Command) Usage() string     { return `commit <message> | commit -m <message>` }
func (c *Command) Brief() string     { return "Record staged changes on the current branch" }
func (c *Command) Help() string {
	return `Create a new commit from the head commit and the staged changes.

Usage:
  commit "<message>"
  commit -m "<message>"`
}
func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.message, "message", "m", "", "commit message")
}

func (c *Command) Run(ctx *command.Context) error {
	message := c.message
	switch {
	case ctx.Flags.Changed("message") && len(ctx.Args) == 0:
	case !ctx.Flags.Changed("message") && len(ctx.Args) == 1:
		message = ctx.Args[0]
	default:
		return errs.New(errs.ErrUsage, errs.MsgIncorrectOperands)
	}

	cm, err := ctx.Repo.Commit(message)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "[%s] %s\n", cm.Hash[:7], cm.Message)
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
