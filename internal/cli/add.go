package cli

import (
	"errors"
	"strings"
	"time"

	"cadence-cli/internal/board"
	"cadence-cli/internal/model"
	"cadence-cli/internal/store"

	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	var projectRef, headingRef, areaRef, when, notes string
	var evening bool
	var tags, checklist []string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, ws, err := openWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()

			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return writeErr(cmd, errors.New("empty title"))
			}

			now := time.Now().UTC()
			id, err := store.GenerateID(store.PrefixTask)
			if err != nil {
				return writeErr(cmd, err)
			}
			t := model.Task{
				ID:        id,
				Title:     title,
				Notes:     notes,
				Status:    model.StatusInbox,
				Evening:   evening,
				Tags:      tags,
				CreatedAt: now,
				UpdatedAt: now,
			}

			if projectRef != "" {
				p, ok := projectByRef(ws.db, projectRef)
				if !ok {
					return writeErr(cmd, errNotFound("project", projectRef))
				}
				t.ProjectID = &p.ID
				t.Status = model.StatusAnytime
			}
			if headingRef != "" {
				h, ok := ws.db.FindHeading(headingRef)
				if !ok {
					return writeErr(cmd, errNotFound("heading", headingRef))
				}
				t.HeadingID = &h.ID
				t.ProjectID = &h.ProjectID
				t.Status = model.StatusAnytime
			}
			if areaRef != "" {
				a, ok := areaByRef(ws.db, areaRef)
				if !ok {
					return writeErr(cmd, errNotFound("area", areaRef))
				}
				t.AreaID = &a.ID
				if t.Status == model.StatusInbox {
					t.Status = model.StatusAnytime
				}
			}
			switch strings.ToLower(strings.TrimSpace(when)) {
			case "":
			case "anytime":
				t.Status = model.StatusAnytime
			case "someday":
				t.Status = model.StatusSomeday
			case "today":
				d := time.Now().Format("2006-01-02")
				t.ScheduledDate = &d
				t.Status = model.StatusScheduled
			default:
				if _, err := time.Parse("2006-01-02", when); err != nil {
					return writeErr(cmd, errors.New("--when must be today, anytime, someday or YYYY-MM-DD"))
				}
				d := when
				t.ScheduledDate = &d
				t.Status = model.StatusScheduled
			}

			// Append at the end of the task's own group.
			t.Position = nextPosition(ws.db.Tasks, board.RawSignature(t))

			if err := ws.writer.InsertTask(ctx, t); err != nil {
				return writeErr(cmd, err)
			}
			for i, line := range checklist {
				cid, err := store.GenerateID(store.PrefixChecklist)
				if err != nil {
					return writeErr(cmd, err)
				}
				row := model.ChecklistItem{ID: cid, TaskID: t.ID, Title: line, Position: i + 1}
				if err := ws.writer.InsertChecklistItem(ctx, row); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, t.ID+"  "+t.Title)
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project id or name")
	cmd.Flags().StringVar(&headingRef, "heading", "", "Heading id")
	cmd.Flags().StringVar(&areaRef, "area", "", "Area id or name")
	cmd.Flags().StringVar(&when, "when", "", "today | anytime | someday | YYYY-MM-DD")
	cmd.Flags().BoolVar(&evening, "evening", false, "Schedule into the evening slot")
	cmd.Flags().StringVar(&notes, "notes", "", "Markdown notes")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().StringArrayVar(&checklist, "checklist", nil, "Checklist row (repeatable)")
	return cmd
}

// nextPosition appends after the highest position among tasks sharing the
// raw signature.
func nextPosition(tasks []model.Task, sig board.Signature) int {
	maxPos := 0
	for _, t := range tasks {
		if !model.OpenStatus(t.Status) {
			continue
		}
		if board.RawSignature(t).Equal(sig) && t.Position > maxPos {
			maxPos = t.Position
		}
	}
	return maxPos + 1
}
