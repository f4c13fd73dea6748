package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"tasklist-cli/internal/config"
	"tasklist-cli/internal/format"
	"tasklist-cli/internal/logging"
	"tasklist-cli/internal/store"
	"tasklist-cli/internal/tui"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type App struct {
	ConfigPath string
	DBPath     string
	LogFile    string
	LogLevel   string
	PrettyJSON bool
	Format     string

	cfg       *config.Config
	log       *log.Logger
	logCloser io.Closer
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "tasklist",
		Short:        "Local-first to-do list (TUI + CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  tasklist

  # Scriptable commands
  tasklist add Buy milk
  tasklist list --pretty
  tasklist rm Buy milk
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := app.setup(cmd); err != nil {
			return writeErr(cmd, err)
		}
		return nil
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.close()
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("TASKLIST_CONFIG", ""), "Path to config.toml (default: <config dir>/config.toml when present)")
	cmd.PersistentFlags().StringVar(&app.DBPath, "db", "", "Path to the task database (overrides db_path)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", "", "Diagnostic log file ('-' for stderr, '' to discard)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TASKLIST_FORMAT", "json"), "Output format (json|edn)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newRmCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// setup resolves configuration (defaults, file, env, then flags) and opens
// the diagnostic logger.
func (app *App) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = app.DBPath
	}
	if flags.Changed("log-file") {
		cfg.Log.File = app.LogFile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = app.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer, err := logging.Open(cfg.Log.File, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	app.cfg = cfg
	app.log = logger
	app.logCloser = closer
	app.log.Debug("config resolved", "db", cfg.DBPath, "command", cmd.CommandPath())
	return nil
}

func (app *App) close() error {
	if app.logCloser == nil {
		return nil
	}
	err := app.logCloser.Close()
	app.logCloser = nil
	return err
}

func runTUI(app *App) error {
	gw := store.New(app.cfg.DBPath)
	defer gw.Close()

	app.log.Info("starting tui", "db", app.cfg.DBPath)
	err := tui.Run(gw, tui.Options{
		Logger: app.log,
		Theme:  app.cfg.TUI.Theme,
		Glyphs: app.cfg.TUI.Glyphs,
	})
	if err != nil {
		app.log.Error("tui exited", "err", err)
	}
	return err
}

// openStore opens the configured task store. The caller closes it.
func openStore(cmd *cobra.Command, app *App) (*store.Gateway, error) {
	if app.cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	gw := store.New(app.cfg.DBPath)
	if err := gw.Open(cmd.Context()); err != nil {
		app.log.Error("could not open task store", "db", app.cfg.DBPath, "err", err)
		return nil, err
	}
	return gw, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), format.Envelope{Data: v}, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
