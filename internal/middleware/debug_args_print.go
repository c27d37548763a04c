package middleware

import (
	"go.uber.org/zap"

	"github.com/keshon/lvc/internal/command"
	"github.com/keshon/lvc/internal/logging"
)

// WithDebugArgsPrint logs the command name and its arguments at debug level
func WithDebugArgsPrint() command.Middleware {
	return func(cmd command.Command) command.Command {
		return &command.WrappedCommand{
			Command: cmd,
			Wrap: func(ctx *command.Context) error {
				logging.OrNop(ctx.Logger).Debug("running command",
					zap.String("command", cmd.Name()),
					zap.Strings("args", ctx.Args),
					zap.Int("dash", ctx.Dash),
					zap.String("dir", ctx.WorkDir))
				return cmd.Run(ctx)
			},
		}
	}
}
