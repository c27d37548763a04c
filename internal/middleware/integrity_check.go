package middleware

import (
	"fmt"
	"strings"

	"github.com/keshon/lvc/internal/command"
)

// WithIntegrityCheck refuses to run cmd while a snapshot of the head commit
// is missing or damaged. It expects WithRepository to run first.
func WithIntegrityCheck() command.Middleware {
	return func(cmd command.Command) command.Command {
		return &command.WrappedCommand{
			Command: cmd,
			Wrap: func(ctx *command.Context) error {
				if ctx.Repo == nil {
					return fmt.Errorf("integrity check for %s: repository not opened", cmd.Name())
				}
				report, err := ctx.Repo.Verify(false)
				if err != nil {
					return fmt.Errorf("repository verification failed: %w", err)
				}
				if !report.OK() {
					var bad []string
					for _, p := range report.Problems {
						bad = append(bad, fmt.Sprintf("%s (%s)", strings.Join(p.Files, ", "), p.Status))
					}
					return fmt.Errorf(
						"repository verification failed: %s\nPlease run `lvc verify --all` before continuing",
						strings.Join(bad, "; "),
					)
				}
				return cmd.Run(ctx)
			},
		}
	}
}
