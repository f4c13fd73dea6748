package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return writeErr(cmd, errEmptyTask)
			}

			gw, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer gw.Close()

			task, err := gw.Add(cmd.Context(), text)
			if err != nil {
				app.log.Error("could not save task", "text", text, "err", err)
				return writeErr(cmd, err)
			}
			app.log.Info("task saved", "id", task.ID)
			return writeOut(cmd, app, task)
		},
	}
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer gw.Close()

			tasks, err := gw.List(cmd.Context())
			if err != nil {
				app.log.Error("could not load tasks", "err", err)
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, tasks)
		},
	}
	return cmd
}

func newRmCmd(app *App) *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "rm <text...> | --id <id>",
		Short: "Delete a task",
		Long: strings.TrimSpace(`
Delete a task by its text or by id.

By text, only the oldest task with exactly that text is deleted; other tasks
with the same text are kept.
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			byID := cmd.Flags().Changed("id")
			text := strings.TrimSpace(strings.Join(args, " "))
			switch {
			case byID && text != "":
				return writeErr(cmd, errRmArgs)
			case !byID && text == "":
				return writeErr(cmd, errEmptyTask)
			}

			gw, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer gw.Close()

			var (
				deleted bool
				key     string
			)
			if byID {
				key = strconv.FormatInt(id, 10)
				deleted, err = gw.DeleteByID(cmd.Context(), id)
			} else {
				key = text
				deleted, err = gw.DeleteByText(cmd.Context(), text)
			}
			if err != nil {
				app.log.Error("could not delete task", "task", key, "err", err)
				return writeErr(cmd, err)
			}
			if !deleted {
				app.log.Warn("task already gone", "task", key)
				return writeErr(cmd, errNotFound("task", key))
			}
			app.log.Info("task deleted", "task", key)

			out := map[string]any{"deleted": true}
			if byID {
				out["id"] = id
			} else {
				out["text"] = text
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Delete the task with this id")
	return cmd
}
