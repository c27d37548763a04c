package middleware

import (
	"github.com/keshon/lvc/internal/command"
	"github.com/keshon/lvc/internal/repo"
	"github.com/keshon/lvc/internal/repo/errs"
)

// WithRepository opens the repository enclosing the working directory and
// stores it in the context.
func WithRepository() command.Middleware {
	return func(cmd command.Command) command.Command {
		return &command.WrappedCommand{
			Command: cmd,
			Wrap: func(ctx *command.Context) error {
				if ctx.TreeRoot == "" {
					return errs.New(errs.ErrNotFound, errs.MsgNotInitialized)
				}
				r, err := repo.Open(ctx.TreeRoot, ctx.Settings, &repo.Options{FS: ctx.FS, Logger: ctx.Logger})
				if err != nil {
					return err
				}
				ctx.Repo = r
				return cmd.Run(ctx)
			},
		}
	}
}
