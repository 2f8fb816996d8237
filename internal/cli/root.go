package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"cadence-cli/internal/config"
	"cadence-cli/internal/store"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Format     string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "cadence",
		Short:        "Personal task board (CLI + TUI)",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive board.
			if len(args) == 0 {
				return runBoard(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("CADENCE_DIR", ""), "Path to workspace dir (default: discover upward from cwd)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("CADENCE_FORMAT", "text"), "Output format (text|json)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newDoneCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newAreasCmd(app))
	cmd.AddCommand(newHeadingsCmd(app))
	cmd.AddCommand(newCheckCmd(app))
	cmd.AddCommand(newRulesCmd(app))
	cmd.AddCommand(newBoardCmd(app))

	return cmd
}

// workspace bundles everything a command needs against one open workspace.
type workspace struct {
	store  store.Store
	sq     *sql.DB
	db     *store.DB
	writer store.Writer
}

func (w *workspace) Close() { _ = w.sq.Close() }

func openWorkspace(app *App) (context.Context, *workspace, error) {
	ctx := context.Background()
	dir := app.Dir
	if dir == "" {
		if cfg, err := config.Load(); err == nil && cfg.Workspace != "" {
			dir = cfg.Workspace
		}
	}
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return ctx, nil, err
		}
		dir = d
	}
	app.Dir = dir

	s := store.Store{Dir: dir}
	sq, err := s.Open(ctx)
	if err != nil {
		return ctx, nil, err
	}
	db, err := store.Load(ctx, sq)
	if err != nil {
		_ = sq.Close()
		return ctx, nil, err
	}
	return ctx, &workspace{store: s, sq: sq, db: db, writer: store.Writer{SQ: sq}}, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
