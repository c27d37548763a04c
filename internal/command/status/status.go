package status

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/keshon/lvc/internal/command"
	"github.com/keshon/lvc/internal/middleware"
	"github.com/keshon/lvc/internal/repo"
)

type Command struct{}

func (c *Command) Name() string      { return "status" }
func (c *Command) Aliases() []string { return []string{"st"} }
func (c *Command) Usage() string     { return "status" }
func (c *Command) Brief() string     { return "Show branches, staged changes and the working tree" }
func (c *Command) Help() string {
	return `Show the branches (the current one marked with *), the files staged for
addition and removal, tracked files changed but not staged, and untracked
files.

Usage:
  lvc status`
}
func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *pflag.FlagSet)        {}

func (c *Command) Run(ctx *command.Context) error {
	if err := ctx.ExpectArgs(0); err != nil {
		return err
	}
	st, err := ctx.Repo.Status()
	if err != nil {
		return err
	}
	Write(ctx.Out, st)
	return nil
}

// Write prints st section by section.
func Write(w io.Writer, st *repo.Status) {
	branches := make([]string, len(st.Branches))
	for i, b := range st.Branches {
		if b == st.CurrentBranch {
			b = "*" + b
		}
		branches[i] = b
	}
	mods := make([]string, len(st.Modifications))
	for i, m := range st.Modifications {
		mods[i] = fmt.Sprintf("%s (%s)", m.Name, m.Kind)
	}

	section(w, "Branches", branches)
	section(w, "Staged Files", st.Staged)
	section(w, "Removed Files", st.Removed)
	section(w, "Modifications Not Staged For Commit", mods)
	section(w, "Untracked Files", st.Untracked)
}

func section(w io.Writer, title string, lines []string) {
	fmt.Fprintf(w, "=== %s ===\n", title)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	fmt.Fprintln(w)
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
