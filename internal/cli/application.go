// Package cli wires the registered commands into a cobra root command with
// configuration loading and structured logging.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/keshon/lvc/internal/command"
	"github.com/keshon/lvc/internal/config"
	"github.com/keshon/lvc/internal/fs"
	"github.com/keshon/lvc/internal/logging"
	"github.com/keshon/lvc/internal/repo/errs"
)

const (
	applicationName             = "lvc"
	applicationShortDescription = "A small local version-control system"
	applicationLongDescription  = "lvc tracks snapshots of the files in one directory: commits, branches, checkout, reset and three-way merge."

	directoryFlagName   = "directory"
	configFileFlagName  = "config"
	logLevelFlagName    = "log-level"
	logFormatFlagName   = "log-format"
	msgPleaseEnter      = "Please enter a command."
	msgNoSuchCommand    = "No command with that name exists."
	configLoadErrorTmpl = "unable to load configuration: %w"
	loggerErrorTmpl     = "unable to create logger: %w"
	loggerSyncErrorTmpl = "unable to flush logger: %w"
)

// Application wires the cobra root command, the configuration loader and
// the logger.
type Application struct {
	rootCommand   *cobra.Command
	loader        *config.Loader
	loggerFactory *logging.Factory
	logger        *zap.Logger
	fsys          fs.FS

	settings config.Settings
	workDir  string
	treeRoot string

	directoryFlag  string
	configFileFlag string
	logLevelFlag   string
	logFormatFlag  string
}

// NewApplication assembles the CLI with every registered command.
func NewApplication() *Application {
	app := &Application{
		loader:        config.NewLoader(config.EnvPrefix),
		loggerFactory: logging.NewFactory(),
		logger:        zap.NewNop(),
		fsys:          fs.NewOSFS(),
	}

	root := &cobra.Command{
		Use:           applicationName,
		Short:         applicationShortDescription,
		Long:          applicationLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.initialize(cmd)
		},
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errs.New(errs.ErrUsage, msgPleaseEnter)
			}
			return errs.New(errs.ErrUsage, msgNoSuchCommand)
		},
	}
	root.SetContext(context.Background())
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		app.logger.Debug("flag error", zap.Error(err))
		return errs.New(errs.ErrUsage, errs.MsgIncorrectOperands)
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&app.directoryFlag, directoryFlagName, "C", "", "Run as if started in this directory.")
	pf.StringVar(&app.configFileFlag, configFileFlagName, "", "Optional path to a configuration file (YAML).")
	pf.StringVar(&app.logLevelFlag, logLevelFlagName, "", "Override the configured log level (debug, info, warn, error).")
	pf.StringVar(&app.logFormatFlag, logFormatFlagName, "", "Override the configured log format (structured or console).")

	for _, cmd := range command.AllCommands() {
		root.AddCommand(command.Bind(cmd, app.newContext))
	}

	app.rootCommand = root
	return app
}

// SetArgs replaces os.Args[1:] as the command line.
func (app *Application) SetArgs(args []string) { app.rootCommand.SetArgs(args) }

// SetOutput redirects command output and cobra's own messages.
func (app *Application) SetOutput(w io.Writer) {
	app.rootCommand.SetOut(w)
	app.rootCommand.SetErr(w)
}

// SetFS replaces the operating-system filesystem.
func (app *Application) SetFS(fsys fs.FS) { app.fsys = fsys }

// Root exposes the cobra command tree.
func (app *Application) Root() *cobra.Command { return app.rootCommand }

// Execute runs the command line. Domain errors are printed as messages and
// are not returned; anything else is.
func (app *Application) Execute() error {
	err := app.rootCommand.Execute()
	if de, ok := errs.IsDomain(err); ok {
		app.logger.Debug("command refused", zap.Error(de.Kind), zap.String("message", de.Message))
		fmt.Fprintln(app.rootCommand.OutOrStdout(), de.Message)
		err = nil
	}
	if syncErr := app.syncLogger(); syncErr != nil && err == nil {
		return fmt.Errorf(loggerSyncErrorTmpl, syncErr)
	}
	return err
}

// Execute builds a fresh application and runs os.Args.
func Execute() error {
	return NewApplication().Execute()
}

func (app *Application) initialize(cmd *cobra.Command) error {
	dir := app.directoryFlag
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", app.directoryFlag, err)
	}
	app.workDir = dir

	repoSettings := ""
	if root, ok := config.ResolveWorkingTreeRoot(dir, app.fsys); ok {
		app.treeRoot = root
		repoSettings = config.NewRepoConfig(root, app.fsys).SettingsFile()
	}

	settings, err := app.loader.Load(repoSettings, app.configFileFlag)
	if err != nil {
		return fmt.Errorf(configLoadErrorTmpl, err)
	}
	if flagChanged(cmd, logLevelFlagName) {
		settings.Log.Level = app.logLevelFlag
	}
	if flagChanged(cmd, logFormatFlagName) {
		settings.Log.Format = app.logFormatFlag
	}

	logger, err := app.loggerFactory.Create(logging.Level(settings.Log.Level), logging.Format(settings.Log.Format))
	if err != nil {
		return fmt.Errorf(loggerErrorTmpl, err)
	}
	app.logger = logger
	app.settings = settings

	app.logger.Debug("configuration initialized",
		zap.String("command", cmd.Name()),
		zap.String("work_dir", app.workDir),
		zap.String("tree_root", app.treeRoot),
		zap.String("hash", settings.Hash),
		zap.String("split_strategy", settings.Merge.SplitStrategy),
		zap.String("config_file", app.configFileFlag))
	return nil
}

func (app *Application) newContext(cmd *cobra.Command) *command.Context {
	return &command.Context{
		Dash:     -1,
		Out:      cmd.OutOrStdout(),
		Err:      cmd.ErrOrStderr(),
		FS:       app.fsys,
		WorkDir:  app.workDir,
		TreeRoot: app.treeRoot,
		Settings: app.settings,
		Logger:   app.logger.Named(cmd.Name()),
	}
}

func (app *Application) syncLogger() error {
	if app.logger == nil {
		return nil
	}
	err := app.logger.Sync()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, syscall.ENOTSUP), errors.Is(err, syscall.EINVAL), errors.Is(err, syscall.ENOTTY), errors.Is(err, syscall.EBADF):
		// stderr cannot be synced on every platform
		return nil
	default:
		return err
	}
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	sets := []*pflag.FlagSet{cmd.PersistentFlags(), cmd.InheritedFlags()}
	if root := cmd.Root(); root != nil {
		sets = append(sets, root.PersistentFlags())
	}
	for _, set := range sets {
		if set != nil && set.Changed(name) {
			return true
		}
	}
	return false
}
