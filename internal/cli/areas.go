package cli

import (
	"fmt"
	"strings"
	"time"

	"cadence-cli/internal/model"
	"cadence-cli/internal/store"

	"github.com/gosimple/slug"
	"github.com/spf13/cobra"
)

func newAreasCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "areas",
		Short: "List and manage areas",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ws, err := openWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()
			if strings.EqualFold(app.Format, "json") {
				return writeOut(cmd, app, ws.db.Areas)
			}
			var lines []string
			for _, a := range ws.db.Areas {
				n := 0
				for _, p := range ws.db.Projects {
					if p.AreaID != nil && *p.AreaID == a.ID && !p.Archived {
						n++
					}
				}
				lines = append(lines, fmt.Sprintf("%s  %s  (%d projects)", a.ID, a.Name, n))
			}
			if len(lines) == 0 {
				lines = []string{"(no areas)"}
			}
			return writeOut(cmd, app, lines)
		},
	}

	cmd.AddCommand(newAreasAddCmd(app))
	return cmd
}

// areaByRef resolves an area by id, exact name, or name slug.
func areaByRef(db *store.DB, ref string) (*model.Area, bool) {
	for i := range db.Areas {
		a := &db.Areas[i]
		if a.ID == ref || a.Name == ref || slug.Make(a.Name) == ref {
			return a, true
		}
	}
	return nil, false
}

func newAreasAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create an area",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, ws, err := openWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()

			id, err := store.GenerateID(store.PrefixArea)
			if err != nil {
				return writeErr(cmd, err)
			}
			a := model.Area{
				ID:        id,
				Name:      strings.TrimSpace(strings.Join(args, " ")),
				CreatedAt: time.Now().UTC(),
			}
			for _, q := range ws.db.Areas {
				if q.Position >= a.Position {
					a.Position = q.Position + 1
				}
			}
			if err := ws.writer.InsertArea(ctx, a); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, a.ID+"  "+a.Name)
		},
	}
}
