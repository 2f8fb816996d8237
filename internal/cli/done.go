package cli

import (
	"fmt"

	"cadence-cli/internal/model"

	"github.com/spf13/cobra"
)

func newDoneCmd(app *App) *cobra.Command {
	var cancel bool

	cmd := &cobra.Command{
		Use:   "done <task>...",
		Short: "Complete (or cancel) tasks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, ws, err := openWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()

			status := model.StatusDone
			if cancel {
				status = model.StatusCanceled
			}
			var lines []string
			for _, ref := range args {
				t, ok := ws.db.FindTask(ref)
				if !ok {
					return writeErr(cmd, errNotFound("task", ref))
				}
				if err := ws.writer.UpdateItem(ctx, t.ID, map[string]any{"status": string(status)}); err != nil {
					return writeErr(cmd, err)
				}
				lines = append(lines, fmt.Sprintf("%s  %s → %s", t.ID, t.Title, status))
			}
			return writeOut(cmd, app, lines)
		},
	}

	cmd.Flags().BoolVar(&cancel, "cancel", false, "Cancel instead of complete")
	return cmd
}
