package command_test

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/lvc/internal/command"
	"github.com/keshon/lvc/internal/repo/errs"
)

type fakeCommand struct {
	name    string
	verbose bool
	got     *command.Context
	subs    []command.Command
}

func (f *fakeCommand) Name() string                   { return f.name }
func (f *fakeCommand) Aliases() []string              { return []string{f.name[:1]} }
func (f *fakeCommand) Usage() string                  { return f.name + " <arg>" }
func (f *fakeCommand) Brief() string                  { return "brief" }
func (f *fakeCommand) Help() string                   { return "help" }
func (f *fakeCommand) Subcommands() []command.Command { return f.subs }
func (f *fakeCommand) Flags(fs *pflag.FlagSet)        { fs.BoolVarP(&f.verbose, "verbose", "v", false, "") }
func (f *fakeCommand) Run(ctx *command.Context) error {
	f.got = ctx
	return nil
}

func TestTree(t *testing.T) {
	tree := command.NewTree()
	tree.Register(&fakeCommand{name: "zeta"})
	tree.Register(&fakeCommand{name: "alpha"})

	cmd, ok := tree.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", cmd.Name())

	cmd, ok = tree.Get("z")
	require.True(t, ok, "aliases resolve")
	assert.Equal(t, "zeta", cmd.Name())

	_, ok = tree.Get("missing")
	assert.False(t, ok)

	all := tree.All()
	require.Len(t, all, 2)
	assert.Equal(t, "alpha", all[0].Name())

	assert.Panics(t, func() { tree.Register(&fakeCommand{name: "alpha"}) })
}

func TestMiddlewareOrder(t *testing.T) {
	var trace []string
	mw := func(tag string) command.Middleware {
		return func(cmd command.Command) command.Command {
			return &command.WrappedCommand{Command: cmd, Wrap: func(ctx *command.Context) error {
				trace = append(trace, tag)
				return cmd.Run(ctx)
			}}
		}
	}
	inner := &fakeCommand{name: "x"}
	wrapped := command.ApplyMiddlewares(inner, mw("inner"), mw("outer"))

	require.NoError(t, wrapped.Run(&command.Context{}))
	assert.Equal(t, []string{"outer", "inner"}, trace)
	assert.NotNil(t, inner.got)
	assert.Equal(t, "x", wrapped.Name(), "wrappers keep the metadata")
}

func TestBind(t *testing.T) {
	for _, tc := range []struct {
		name     string
		args     []string
		wantArgs []string
		wantDash int
		verbose  bool
	}{
		{name: "plain", args: []string{"a", "b"}, wantArgs: []string{"a", "b"}, wantDash: -1},
		{name: "dash first", args: []string{"--", "f"}, wantArgs: []string{"f"}, wantDash: 0},
		{name: "dash middle", args: []string{"id", "--", "f"}, wantArgs: []string{"id", "f"}, wantDash: 1},
		{name: "flag", args: []string{"-v", "a"}, wantArgs: []string{"a"}, wantDash: -1, verbose: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			fc := &fakeCommand{name: "run"}
			var out bytes.Buffer
			c := command.Bind(fc, func(cc *cobra.Command) *command.Context {
				return &command.Context{Out: &out}
			})
			c.SetArgs(tc.args)
			require.NoError(t, c.Execute())

			require.NotNil(t, fc.got)
			assert.Equal(t, tc.wantArgs, fc.got.Args)
			assert.Equal(t, tc.wantDash, fc.got.Dash)
			assert.Equal(t, tc.verbose, fc.verbose)
			assert.Same(t, &out, fc.got.Out)
		})
	}
}

func TestBindSubcommands(t *testing.T) {
	child := &fakeCommand{name: "child"}
	parent := &fakeCommand{name: "parent", subs: []command.Command{child}}
	c := command.Bind(parent, func(*cobra.Command) *command.Context { return &command.Context{} })

	c.SetArgs([]string{"child", "x"})
	require.NoError(t, c.Execute())
	require.NotNil(t, child.got)
	assert.Nil(t, parent.got)
	assert.Equal(t, []string{"x"}, child.got.Args)
}

func TestExpectArgs(t *testing.T) {
	ctx := &command.Context{Args: []string{"a"}}
	assert.NoError(t, ctx.ExpectArgs(1))

	err := ctx.ExpectArgs(2)
	assert.ErrorIs(t, err, errs.ErrUsage)
	assert.EqualError(t, err, errs.MsgIncorrectOperands)
}

func TestTreeName(t *testing.T) {
	for _, tc := range []struct {
		name, workDir, root, arg, want string
	}{
		{name: "at root", workDir: "/w", root: "/w", arg: "f.txt", want: "f.txt"},
		{name: "subdir", workDir: "/w/docs", root: "/w", arg: "a.md", want: "docs/a.md"},
		{name: "parent ref", workDir: "/w/docs", root: "/w", arg: "../top", want: "top"},
		{name: "absolute", workDir: "/elsewhere", root: "/w", arg: "/w/x/y", want: "x/y"},
		{name: "outside", workDir: "/w", root: "/w", arg: "../out", want: "../out"},
		{name: "no tree", workDir: "/w", root: "", arg: "f", want: "f"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := &command.Context{WorkDir: tc.workDir, TreeRoot: tc.root}
			assert.Equal(t, tc.want, ctx.TreeName(tc.arg))
		})
	}
}
