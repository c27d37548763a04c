package verify

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/keshon/lvc/internal/command"
	"github.com/keshon/lvc/internal/middleware"
	"github.com/keshon/lvc/internal/progress"
)

type Command struct {
	all      bool
	progress bool
}

func (c *Command) Name() string      { return "verify" }
func (c *Command) Aliases() []string { return []string{"fsck"} }
func (c *Command) Usage() string     { return "verify [--all]" }
func (c *Command) Brief() string     { return "Check that stored snapshots are intact" }
func (c *Command) Help() string {
	return `Re-read and re-hash the snapshots of the head commit, or of every commit
with --all, and report any that are missing or damaged.

Options:
  -a, --all        Check the whole history.
      --progress   Draw a progress line on stderr.

Usage:
  lvc verify
  lvc verify --all`
}
func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.all, "all", "a", false, "check every commit")
	fs.BoolVar(&c.progress, "progress", false, "draw a progress line")
}

func (c *Command) Run(ctx *command.Context) error {
	if err := ctx.ExpectArgs(0); err != nil {
		return err
	}
	var onCheck func(done, total int)
	if c.progress {
		var tracker *progress.ProgressTracker
		onCheck = func(done, total int) {
			if tracker == nil {
				tracker = progress.NewProgress(ctx.Err, total, "verifying snapshots")
			}
			tracker.SetCurrent(done)
		}
		defer func() {
			if tracker != nil {
				tracker.Finish()
			}
		}()
	}

	report, err := ctx.Repo.VerifyWithProgress(c.all, onCheck)
	if err != nil {
		return err
	}
	for _, p := range report.Problems {
		fmt.Fprintf(ctx.Out, "%s %s %s\n", p.Status, p.Hash, strings.Join(p.Files, " "))
	}
	fmt.Fprintf(ctx.Out, "Checked %d snapshots in %d commits.\n", report.Checked, report.Commits)
	if !report.OK() {
		return fmt.Errorf("%d damaged or missing snapshots", len(report.Problems))
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
