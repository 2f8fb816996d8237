package cli

import (
	"cadence-cli/internal/config"
	"cadence-cli/internal/tui"

	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the interactive board",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(app)
		},
	}
}

func runBoard(app *App) error {
	_, ws, err := openWorkspace(app)
	if err != nil {
		return err
	}
	defer ws.Close()

	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}
	return tui.Run(cfg, ws.db, ws.writer)
}
