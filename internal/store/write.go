package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"cadence-cli/internal/model"
)

// Writer is the persistence collaborator the board engine talks to. Every
// call is an independent partial update; there is no batching and no
// transaction spanning a move.
type Writer struct {
	SQ *sql.DB
}

// taskColumns whitelists the fields UpdateItem may touch on a task and maps
// them to columns.
var taskColumns = map[string]string{
	"title":         "title",
	"notes":         "notes",
	"status":        "status",
	"projectId":     "project_id",
	"headingId":     "heading_id",
	"areaId":        "area_id",
	"scheduledDate": "scheduled_date",
	"evening":       "evening",
	"position":      "position",
	"tags":          "tags",
	"ruleId":        "rule_id",
}

var checklistColumns = map[string]string{
	"title":    "title",
	"done":     "done",
	"position": "position",
}

// UpdateItem applies a partial field update to one record, dispatching on the
// id prefix: checklist rows live in their own table, everything else is a
// task. Unknown fields are rejected rather than silently dropped.
func (w Writer) UpdateItem(ctx context.Context, id string, fields map[string]any) error {
	id = strings.TrimSpace(id)
	if id == "" || len(fields) == 0 {
		return nil
	}
	table := "tasks"
	cols := taskColumns
	if strings.HasPrefix(id, PrefixChecklist+"-") {
		table = "checklist_items"
		cols = checklistColumns
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sets []string
	var args []any
	for _, k := range keys {
		col, ok := cols[k]
		if !ok {
			return fmt.Errorf("update %s: unknown field %q", id, k)
		}
		sets = append(sets, col+" = ?")
		args = append(args, toSQL(fields[k]))
	}
	if table == "tasks" {
		sets = append(sets, "updated_at = ?")
		args = append(args, time.Now().UTC().Format(time.RFC3339Nano))
	}
	args = append(args, id)

	res, err := w.SQ.ExecContext(ctx,
		"UPDATE "+table+" SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	return nil
}

func toSQL(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case *string:
		if x == nil {
			return nil
		}
		return *x
	case bool:
		if x {
			return 1
		}
		return 0
	case []string:
		return strings.Join(x, ",")
	default:
		return v
	}
}

func (w Writer) InsertTask(ctx context.Context, t model.Task) error {
	_, err := w.SQ.ExecContext(ctx, `
		INSERT INTO tasks (id, title, notes, status, project_id, heading_id,
			area_id, scheduled_date, evening, position, tags, rule_id,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Notes, string(t.Status),
		toSQL(t.ProjectID), toSQL(t.HeadingID), toSQL(t.AreaID),
		toSQL(t.ScheduledDate), toSQL(t.Evening), t.Position,
		strings.Join(t.Tags, ","), toSQL(t.RuleID),
		t.CreatedAt.UTC().Format(time.RFC3339Nano),
		t.UpdatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (w Writer) InsertProject(ctx context.Context, p model.Project) error {
	_, err := w.SQ.ExecContext(ctx, `
		INSERT INTO projects (id, name, area_id, position, archived, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, toSQL(p.AreaID), p.Position, toSQL(p.Archived),
		p.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (w Writer) InsertArea(ctx context.Context, a model.Area) error {
	_, err := w.SQ.ExecContext(ctx, `
		INSERT INTO areas (id, name, position, created_at)
		VALUES (?, ?, ?, ?)`,
		a.ID, a.Name, a.Position, a.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (w Writer) InsertHeading(ctx context.Context, h model.Heading) error {
	_, err := w.SQ.ExecContext(ctx, `
		INSERT INTO headings (id, project_id, title, position, archived, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		h.ID, h.ProjectID, h.Title, h.Position, toSQL(h.Archived),
		h.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (w Writer) InsertChecklistItem(ctx context.Context, c model.ChecklistItem) error {
	_, err := w.SQ.ExecContext(ctx, `
		INSERT INTO checklist_items (id, task_id, title, done, position)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.TaskID, c.Title, toSQL(c.Done), c.Position)
	return err
}

func (w Writer) InsertRule(ctx context.Context, r model.RepeatRule) error {
	_, err := w.SQ.ExecContext(ctx, `
		INSERT INTO repeat_rules (id, frequency, interval, next_date, template, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, string(r.Frequency), r.Interval, r.NextDate, r.Template,
		r.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

// AdvanceRule moves a rule's next due date forward after it materializes.
func (w Writer) AdvanceRule(ctx context.Context, id, nextDate string) error {
	res, err := w.SQ.ExecContext(ctx,
		`UPDATE repeat_rules SET next_date = ? WHERE id = ?`, nextDate, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("rule %s: %w", id, ErrNotFound)
	}
	return nil
}

func (w Writer) DeleteChecklistItem(ctx context.Context, id string) error {
	_, err := w.SQ.ExecContext(ctx, `DELETE FROM checklist_items WHERE id = ?`, id)
	return err
}

func (w Writer) DeleteTask(ctx context.Context, id string) error {
	if _, err := w.SQ.ExecContext(ctx, `DELETE FROM checklist_items WHERE task_id = ?`, id); err != nil {
		return err
	}
	_, err := w.SQ.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	return err
}
