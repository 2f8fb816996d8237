package cli

import (
	"fmt"
	"strings"
	"time"

	"cadence-cli/internal/model"
	"cadence-cli/internal/store"

	"github.com/spf13/cobra"
)

func newHeadingsCmd(app *App) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   "headings",
		Short: "List a project's headings",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ws, err := openWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()
			if projectRef == "" {
				return writeErr(cmd, fmt.Errorf("--project is required"))
			}
			p, ok := projectByRef(ws.db, projectRef)
			if !ok {
				return writeErr(cmd, errNotFound("project", projectRef))
			}
			var heads []model.Heading
			for _, h := range ws.db.Headings {
				if h.ProjectID == p.ID && !h.Archived {
					heads = append(heads, h)
				}
			}
			if strings.EqualFold(app.Format, "json") {
				return writeOut(cmd, app, heads)
			}
			var lines []string
			for _, h := range heads {
				lines = append(lines, fmt.Sprintf("%s  %s", h.ID, h.Title))
			}
			if len(lines) == 0 {
				lines = []string{"(no headings)"}
			}
			return writeOut(cmd, app, lines)
		},
	}

	cmd.PersistentFlags().StringVar(&projectRef, "project", "", "Project id, name or slug")
	cmd.AddCommand(newHeadingsAddCmd(app, &projectRef))
	return cmd
}

func newHeadingsAddCmd(app *App, projectRef *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title>",
		Short: "Add a heading to a project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, ws, err := openWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()
			if *projectRef == "" {
				return writeErr(cmd, fmt.Errorf("--project is required"))
			}
			p, ok := projectByRef(ws.db, *projectRef)
			if !ok {
				return writeErr(cmd, errNotFound("project", *projectRef))
			}
			id, err := store.GenerateID(store.PrefixHeading)
			if err != nil {
				return writeErr(cmd, err)
			}
			h := model.Heading{
				ID:        id,
				ProjectID: p.ID,
				Title:     strings.TrimSpace(strings.Join(args, " ")),
				CreatedAt: time.Now().UTC(),
			}
			for _, q := range ws.db.Headings {
				if q.ProjectID == p.ID && q.Position >= h.Position {
					h.Position = q.Position + 1
				}
			}
			if err := ws.writer.InsertHeading(ctx, h); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, h.ID+"  "+h.Title)
		},
	}
}
