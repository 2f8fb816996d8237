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

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List and manage projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ws, err := openWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()
			if strings.EqualFold(app.Format, "json") {
				return writeOut(cmd, app, ws.db.Projects)
			}
			var lines []string
			for _, p := range ws.db.Projects {
				if p.Archived {
					continue
				}
				n := 0
				for _, t := range ws.db.Tasks {
					if t.ProjectID != nil && *t.ProjectID == p.ID && model.OpenStatus(t.Status) {
						n++
					}
				}
				lines = append(lines, fmt.Sprintf("%s  %-24s %s  (%d open)", p.ID, slug.Make(p.Name), p.Name, n))
			}
			if len(lines) == 0 {
				lines = []string{"(no projects)"}
			}
			return writeOut(cmd, app, lines)
		},
	}

	cmd.AddCommand(newProjectsAddCmd(app))
	return cmd
}

func newProjectsAddCmd(app *App) *cobra.Command {
	var areaRef string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, ws, err := openWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()

			name := strings.TrimSpace(strings.Join(args, " "))
			id, err := store.GenerateID(store.PrefixProject)
			if err != nil {
				return writeErr(cmd, err)
			}
			p := model.Project{ID: id, Name: name, CreatedAt: time.Now().UTC()}
			for _, q := range ws.db.Projects {
				if q.Position >= p.Position {
					p.Position = q.Position + 1
				}
			}
			if areaRef != "" {
				a, ok := areaByRef(ws.db, areaRef)
				if !ok {
					return writeErr(cmd, errNotFound("area", areaRef))
				}
				p.AreaID = &a.ID
			}
			if err := ws.writer.InsertProject(ctx, p); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, p.ID+"  "+slug.Make(p.Name))
		},
	}

	cmd.Flags().StringVar(&areaRef, "area", "", "Area id or name")
	return cmd
}

// projectByRef resolves id, exact name, or slug. Slugs are what the projects
// listing prints, so they are the refs people actually type.
func projectByRef(db *store.DB, ref string) (*model.Project, bool) {
	if p, ok := db.ProjectByRef(ref); ok {
		return p, true
	}
	for i := range db.Projects {
		if slug.Make(db.Projects[i].Name) == strings.ToLower(strings.TrimSpace(ref)) {
			return &db.Projects[i], true
		}
	}
	return nil, false
}
