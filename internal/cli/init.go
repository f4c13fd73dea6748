package cli

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"tasklist-cli/internal/config"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file and create the task database",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(app.ConfigPath)
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return writeErr(cmd, err)
				}
				path = p
			}

			// An existing config file is left alone.
			created := false
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				def, err := config.Default()
				if err != nil {
					return writeErr(cmd, err)
				}
				if err := config.Save(def, path); err != nil {
					return writeErr(cmd, err)
				}
				created = true
				app.log.Info("config written", "path", path)
			} else if err != nil {
				return writeErr(cmd, err)
			}

			gw, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer gw.Close()

			return writeOut(cmd, app, map[string]any{
				"configPath":    path,
				"configCreated": created,
				"dbPath":        app.cfg.DBPath,
				"logFile":       app.cfg.Log.File,
			})
		},
	}
	return cmd
}
