package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"cadence-cli/internal/board"
	"cadence-cli/internal/model"
	"cadence-cli/internal/store"

	"github.com/spf13/cobra"
)

func newCheckCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Work with a task's checklist",
	}
	cmd.AddCommand(newCheckListCmd(app))
	cmd.AddCommand(newCheckAddCmd(app))
	cmd.AddCommand(newCheckToggleCmd(app))
	cmd.AddCommand(newCheckMoveCmd(app))
	return cmd
}

func newCheckListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <task>",
		Short: "Print a task's checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ws, err := openWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()
			if _, ok := ws.db.FindTask(args[0]); !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			rows := checklistRows(ws.db, args[0])
			if strings.EqualFold(app.Format, "json") {
				return writeOut(cmd, app, rows)
			}
			var lines []string
			for _, r := range rows {
				mark := "☐"
				if r.Done {
					mark = "☑"
				}
				lines = append(lines, fmt.Sprintf("%s %s  %s", mark, r.ID, r.Title))
			}
			if len(lines) == 0 {
				lines = []string{"(empty)"}
			}
			return writeOut(cmd, app, lines)
		},
	}
}

func newCheckAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <task> <title>",
		Short: "Append a checklist row",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, ws, err := openWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()
			t, ok := ws.db.FindTask(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			id, err := store.GenerateID(store.PrefixChecklist)
			if err != nil {
				return writeErr(cmd, err)
			}
			pos := 0
			for _, r := range ws.db.Checklist {
				if r.TaskID == t.ID && r.Position > pos {
					pos = r.Position
				}
			}
			row := model.ChecklistItem{
				ID:       id,
				TaskID:   t.ID,
				Title:    strings.TrimSpace(strings.Join(args[1:], " ")),
				Position: pos + 1,
			}
			if err := ws.writer.InsertChecklistItem(ctx, row); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, row.ID+"  "+row.Title)
		},
	}
}

func newCheckToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <row>",
		Short: "Toggle a checklist row done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, ws, err := openWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()
			row, ok := findRow(ws.db, args[0])
			if !ok {
				return writeErr(cmd, errNotFound("checklist row", args[0]))
			}
			if err := ws.writer.UpdateItem(ctx, row.ID, map[string]any{"done": !row.Done}); err != nil {
				return writeErr(cmd, err)
			}
			mark := "☐"
			if !row.Done {
				mark = "☑"
			}
			return writeOut(cmd, app, mark+" "+row.Title)
		},
	}
}

func newCheckMoveCmd(app *App) *cobra.Command {
	var before, after string

	cmd := &cobra.Command{
		Use:   "move <row>",
		Short: "Reorder a checklist row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, ws, err := openWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()
			row, ok := findRow(ws.db, args[0])
			if !ok {
				return writeErr(cmd, errNotFound("checklist row", args[0]))
			}
			if (before == "") == (after == "") {
				return writeErr(cmd, errors.New("exactly one of --before, --after is required"))
			}
			targetID, edge := before, board.EdgeTop
			if after != "" {
				targetID, edge = after, board.EdgeBottom
			}
			target, ok := findRow(ws.db, targetID)
			if !ok {
				return writeErr(cmd, errNotFound("checklist row", targetID))
			}
			if target.TaskID != row.TaskID {
				return writeErr(cmd, errors.New("rows belong to different checklists"))
			}

			grp := checklistGroup(ws.db, row.TaskID)
			snap := board.DragSnapshot{ItemID: row.ID, EditorID: row.TaskID}
			sig := board.HoverSignal{TargetItemID: target.ID, Edge: edge}
			mv := board.Resolve([]*board.Group{grp}, snap, sig)
			st := store.BoardState(ws.db)
			plan := board.PlanChecklist(st, row.TaskID, mv)
			plan.Apply(st)
			if errs := (board.Bridge{P: ws.writer}).Persist(ctx, st, plan); len(errs) > 0 {
				return writeErr(cmd, errs[0])
			}
			return writeOut(cmd, app, describeMove(mv, len(plan.Writes)))
		},
	}

	cmd.Flags().StringVar(&before, "before", "", "Place directly above this row")
	cmd.Flags().StringVar(&after, "after", "", "Place directly below this row")
	return cmd
}

func checklistRows(db *store.DB, taskID string) []model.ChecklistItem {
	var rows []model.ChecklistItem
	for _, r := range db.Checklist {
		if r.TaskID == taskID {
			rows = append(rows, r)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Position != rows[j].Position {
			return rows[i].Position < rows[j].Position
		}
		return rows[i].ID < rows[j].ID
	})
	return rows
}

func checklistGroup(db *store.DB, taskID string) *board.Group {
	g := &board.Group{ID: "chk:" + taskID}
	for _, r := range checklistRows(db, taskID) {
		g.ItemIDs = append(g.ItemIDs, r.ID)
	}
	return g
}

func findRow(db *store.DB, id string) (*model.ChecklistItem, bool) {
	for i := range db.Checklist {
		if db.Checklist[i].ID == id {
			return &db.Checklist[i], true
		}
	}
	return nil, false
}
