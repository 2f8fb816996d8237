package cli

import (
	"path/filepath"

	"cadence-cli/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a workspace in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := app.Dir
			if dir == "" {
				cwd, err := filepath.Abs(".")
				if err != nil {
					return writeErr(cmd, err)
				}
				dir = filepath.Join(cwd, ".cadence")
			}
			s := store.Store{Dir: dir}
			sq, err := s.Open(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sq.Close()
			return writeOut(cmd, app, "initialized "+dir)
		},
	}
}
