// Package cli provides the cobra commands of the beamspring binary.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dshills/beamspring/internal/config"
	"github.com/dshills/beamspring/internal/logging"
)

// BuildInfo is set from main via ldflags.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
}

// App is the state shared by the commands of one invocation.
type App struct {
	Build BuildInfo

	// ConfigPath is the --config flag.
	ConfigPath string

	cfg    *config.Config
	logger zerolog.Logger
}

// Config returns the configuration loaded before the command ran.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Logger returns the logger built from the configuration.
func (a *App) Logger() zerolog.Logger {
	return a.logger
}

// Source returns the configuration source for cmd, so it can be loaded
// again on reload with the same flags.
func (a *App) Source(cmd *cobra.Command) config.Source {
	return config.Source{Path: a.ConfigPath, Flags: cmd.Flags()}
}

// load reads the configuration and builds the logger.
func (a *App) load(cmd *cobra.Command) error {
	cfg, err := a.Source(cmd).Load()
	if err != nil {
		return err
	}
	lc, err := cfg.Log.Build()
	if err != nil {
		return err
	}
	lc.Output = cmd.ErrOrStderr()

	a.cfg = cfg
	a.logger = logging.New(lc)
	cmd.SetContext(logging.WithContext(cmd.Context(), a.logger))
	return nil
}

// NewRootCmd builds the command tree.
func NewRootCmd(info BuildInfo) *cobra.Command {
	app := &App{Build: info, logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "beamspring",
		Short: "Keymap event processor for a beamspring keyboard",
		Long: `beamspring runs the keymap of a beamspring keyboard as a host process.

It reads key transitions from an input device (or a replay script), resolves
them through a two-layer keymap, and applies SOCD cleaning, dynamic macros and
accelerating auto-repeat before emitting keyboard reports.

Settings come from, in increasing priority: defaults, the --config file
(TOML or YAML), BEAMSPRING_* environment variables and command flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need a config
			switch cmd.Name() {
			case "help", "completion", "version":
				return nil
			}
			return app.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&app.ConfigPath, "config", "c", "", "config file (.toml, .yaml)")
	pf.String("log.level", "", "log level (trace, debug, info, warn, error, disabled)")
	pf.String("log.format", "", "log format (console, json)")

	root.AddCommand(
		newRunCmd(app),
		newReplayCmd(app),
		newKeymapCmd(app),
		newConfigCmd(app),
		newVersionCmd(app),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, info BuildInfo, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(info)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

// Main is Execute over the process arguments and standard streams.
func Main(ctx context.Context, info BuildInfo) int {
	return Execute(ctx, info, os.Args[1:], os.Stdout, os.Stderr)
}
