package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"cadence-cli/internal/board"
	"cadence-cli/internal/model"
	"cadence-cli/internal/store"

	"github.com/spf13/cobra"
)

func newListCmd(app *App) *cobra.Command {
	var projectRef, areaRef, onDate string

	cmd := &cobra.Command{
		Use:   "list [today|upcoming|anytime|someday|inbox|logbook]",
		Short: "List tasks by view",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ws, err := openWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()

			view := "inbox"
			if len(args) == 1 {
				view = strings.ToLower(args[0])
			}
			today := time.Now().Format("2006-01-02")

			if projectRef != "" {
				p, ok := projectByRef(ws.db, projectRef)
				if !ok {
					return writeErr(cmd, errNotFound("project", projectRef))
				}
				f := board.ViewFilter{
					Kind:      board.ViewProject,
					Today:     today,
					ProjectID: p.ID,
					Headings:  ws.db.Headings,
					Projects:  ws.db.Projects,
				}
				return printGroups(cmd, app, ws.db, board.ComputeGroups(ws.db.Tasks, f))
			}
			if areaRef != "" {
				a, ok := areaByRef(ws.db, areaRef)
				if !ok {
					return writeErr(cmd, errNotFound("area", areaRef))
				}
				inArea := map[string]bool{}
				for _, p := range ws.db.Projects {
					if p.AreaID != nil && *p.AreaID == a.ID {
						inArea[p.ID] = true
					}
				}
				return printFlat(cmd, app, ws.db, func(t model.Task) bool {
					if t.Status == model.StatusDone || t.Status == model.StatusCanceled {
						return false
					}
					if t.AreaID != nil && *t.AreaID == a.ID {
						return true
					}
					return t.ProjectID != nil && inArea[*t.ProjectID]
				})
			}
			if onDate != "" {
				if _, err := time.Parse("2006-01-02", onDate); err != nil {
					return writeErr(cmd, fmt.Errorf("bad date %q: want YYYY-MM-DD", onDate))
				}
				return printFlat(cmd, app, ws.db, func(t model.Task) bool {
					return t.ScheduledDate != nil && *t.ScheduledDate == onDate &&
						t.Status != model.StatusDone && t.Status != model.StatusCanceled
				})
			}

			switch view {
			case "today", "upcoming", "anytime", "someday":
				f := board.ViewFilter{Today: today, Projects: ws.db.Projects, Headings: ws.db.Headings}
				switch view {
				case "today":
					f.Kind = board.ViewToday
				case "upcoming":
					f.Kind = board.ViewUpcoming
				case "anytime":
					f.Kind = board.ViewAnytime
				case "someday":
					f.Kind = board.ViewSomeday
				}
				return printGroups(cmd, app, ws.db, board.ComputeGroups(ws.db.Tasks, f))
			case "inbox":
				return printFlat(cmd, app, ws.db, func(t model.Task) bool {
					return t.Status == model.StatusInbox
				})
			case "logbook":
				return printFlat(cmd, app, ws.db, func(t model.Task) bool {
					return t.Status == model.StatusDone || t.Status == model.StatusCanceled
				})
			default:
				return writeErr(cmd, fmt.Errorf("unknown view %q", view))
			}
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "List one project's board")
	cmd.Flags().StringVar(&areaRef, "area", "", "List open tasks in an area")
	cmd.Flags().StringVar(&onDate, "date", "", "List tasks scheduled on a date (YYYY-MM-DD)")
	return cmd
}

func printGroups(cmd *cobra.Command, app *App, db *store.DB, groups []*board.Group) error {
	if strings.EqualFold(app.Format, "json") {
		return writeOut(cmd, app, groups)
	}
	var lines []string
	for _, g := range groups {
		if len(g.ItemIDs) == 0 {
			continue
		}
		label := g.Label
		if label == "" {
			label = "(no heading)"
		}
		lines = append(lines, label)
		for _, id := range g.ItemIDs {
			if t, ok := db.FindTask(id); ok {
				lines = append(lines, "  "+taskLine(*t))
			}
		}
	}
	if len(lines) == 0 {
		lines = []string{"(empty)"}
	}
	return writeOut(cmd, app, lines)
}

func printFlat(cmd *cobra.Command, app *App, db *store.DB, keep func(model.Task) bool) error {
	var tasks []model.Task
	for _, t := range db.Tasks {
		if keep(t) {
			tasks = append(tasks, t)
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	if strings.EqualFold(app.Format, "json") {
		return writeOut(cmd, app, tasks)
	}
	var lines []string
	for _, t := range tasks {
		lines = append(lines, taskLine(t))
	}
	if len(lines) == 0 {
		lines = []string{"(empty)"}
	}
	return writeOut(cmd, app, lines)
}

func taskLine(t model.Task) string {
	mark := "○"
	switch t.Status {
	case model.StatusDone:
		mark = "✓"
	case model.StatusCanceled:
		mark = "✗"
	}
	s := fmt.Sprintf("%s %s  %s", mark, t.ID, t.Title)
	if t.ScheduledDate != nil {
		s += "  @" + *t.ScheduledDate
		if t.Evening {
			s += " (evening)"
		}
	}
	if len(t.Tags) > 0 {
		s += "  #" + strings.Join(t.Tags, " #")
	}
	return s
}
