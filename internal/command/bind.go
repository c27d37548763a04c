package command

import (
	"github.com/spf13/cobra"
)

// Bind turns cmd into a cobra command. newContext supplies the per-run
// context once flags are parsed; Bind fills in the arguments.
func Bind(cmd Command, newContext func(*cobra.Command) *Context) *cobra.Command {
	c := &cobra.Command{
		Use:     cmd.Usage(),
		Aliases: cmd.Aliases(),
		Short:   cmd.Brief(),
		Long:    cmd.Help(),
		Args:    cobra.ArbitraryArgs,
		RunE: func(cc *cobra.Command, args []string) error {
			ctx := newContext(cc)
			ctx.Args = args
			ctx.Dash = cc.ArgsLenAtDash()
			ctx.Flags = cc.Flags()
			return cmd.Run(ctx)
		},
	}
	cmd.Flags(c.Flags())
	for _, sub := range cmd.Subcommands() {
		c.AddCommand(Bind(sub, newContext))
	}
	return c
}
