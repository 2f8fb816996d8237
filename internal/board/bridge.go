package board

import (
	"context"
	"sort"

	"cadence-cli/internal/model"
)

// Persister is the external persistence collaborator: a partial field update
// for one record, dispatched on id prefix (task vs checklist row). Calls are
// independent and best-effort; there is no batching or transaction.
type Persister interface {
	UpdateItem(ctx context.Context, id string, fields map[string]any) error
}

// PlanTask turns a classified move into a command against the task state.
// groups must be the projection the move was resolved against. Planning is
// side-effect free: priors are captured here, nothing is applied. A NoOp (or
// a move that turns out to change nothing) plans zero writes.
func PlanTask(st *State, groups []*Group, mv Move) *Command {
	cmd := &Command{Move: mv}
	switch m := mv.(type) {
	case NoOp:
		return cmd

	case Reorder:
		var grp *Group
		for _, g := range groups {
			if g.ID == m.GroupID {
				grp = g
				break
			}
		}
		if grp == nil {
			return cmd
		}
		// Recompute indices from current state; hover-time indices are
		// treated as stale.
		from := grp.IndexOf(m.ItemID)
		var order []string
		if m.Append {
			order = append(Remove(grp.ItemIDs, m.ItemID), m.ItemID)
		} else {
			to := grp.IndexOf(dropTargetID(grp, m))
			if from < 0 || to < 0 {
				return cmd
			}
			order = ReorderByEdge(grp.ItemIDs, from, to, m.Edge)
		}
		cmd.Writes = renumberWrites(st, order, nil)
		return cmd

	case CrossGroupMove:
		c := planTaskRehome(st, groups, m.ItemID, m.To, m.Fields, m.InsertAt)
		c.Move = mv
		return c

	case AppendToEmpty:
		c := planTaskRehome(st, groups, m.ItemID, m.To, m.Fields, -1)
		c.Move = mv
		return c

	default:
		return cmd
	}
}

func dropTargetID(grp *Group, m Reorder) string {
	if m.ToIndex >= 0 && m.ToIndex < len(grp.ItemIDs) {
		return grp.ItemIDs[m.ToIndex]
	}
	return ""
}

func planTaskRehome(st *State, groups []*Group, itemID string, to Signature, fields []Field, insertAt int) *Command {
	cmd := &Command{}
	t, ok := st.Task(itemID)
	if !ok {
		return cmd
	}
	ctxFields := contextFieldChanges(to, fields)

	// Project the destination order with the moved item inserted, then
	// renumber the destination to 1..N. The source group keeps its gaps.
	destOrder := []string{itemID}
	if dest, ok := FindGroup(groups, to); ok {
		trimmed := Remove(dest.ItemIDs, itemID)
		if insertAt < 0 {
			insertAt = len(trimmed)
		}
		destOrder = InsertAt(trimmed, itemID, insertAt)
	}
	cmd.Writes = renumberWrites(st, destOrder, map[string]map[string]any{itemID: ctxFields})

	// The moved item gets a write even when its numeric position happens to
	// be unchanged, because its context fields did change.
	if !hasWrite(cmd.Writes, itemID) {
		merged := map[string]any{}
		for k, v := range ctxFields {
			merged[k] = v
		}
		cmd.Writes = append(cmd.Writes, Write{
			ItemID: itemID,
			Fields: merged,
			Prior:  captureTaskFields(t, merged),
		})
	}
	return cmd
}

// contextFieldChanges maps the highest-precedence changed signature tag to the
// persisted task fields a cross-group write must set. Project membership is
// more specific than scheduling: re-projecting clears any stale heading,
// re-heading also aligns the project, re-dating adjusts status, and the
// evening flag rides along whenever the destination slot declares it.
func contextFieldChanges(to Signature, fields []Field) map[string]any {
	out := map[string]any{}
	if len(fields) == 0 {
		return out
	}
	switch fields[0] {
	case FieldProject:
		out["projectId"] = copyOpt(to.ProjectID)
		out["headingId"] = copyOpt(to.HeadingID)
	case FieldHeading:
		out["headingId"] = copyOpt(to.HeadingID)
		if to.ProjectID != nil {
			out["projectId"] = copyOpt(to.ProjectID)
		}
	case FieldArea:
		out["areaId"] = copyOpt(to.AreaID)
	case FieldDate:
		if to.GroupDate != nil {
			out["scheduledDate"] = copyOpt(to.GroupDate)
			out["status"] = string(model.StatusScheduled)
		} else {
			out["scheduledDate"] = nil
			out["status"] = string(model.StatusAnytime)
		}
		if to.Evening != nil {
			out["evening"] = *to.Evening
		}
	case FieldEvening:
		if to.Evening != nil {
			out["evening"] = *to.Evening
		}
	}
	// A status tag change always persists, whichever dimension won above;
	// the destination's own status is authoritative over FieldDate's default.
	for _, f := range fields {
		if f == FieldStatus && to.Status != nil {
			out["status"] = *to.Status
		}
	}
	return out
}

// renumberWrites plans position writes that make ordered authoritative
// (1..N), skipping items whose persisted position already matches. extra
// merges additional field changes into a specific item's write.
func renumberWrites(st *State, ordered []string, extra map[string]map[string]any) []Write {
	current := map[string]int{}
	for _, id := range ordered {
		if t, ok := st.Task(id); ok {
			current[id] = t.Position
		} else if r, ok := st.Row(id); ok {
			current[id] = r.Position
		}
	}
	var out []Write
	for _, u := range RenumberPositions(ordered, current) {
		fields := map[string]any{"position": u.Position}
		for k, v := range extra[u.ID] {
			fields[k] = v
		}
		out = append(out, writeFor(st, u.ID, fields))
	}
	return out
}

func writeFor(st *State, id string, fields map[string]any) Write {
	w := Write{ItemID: id, Fields: fields}
	if t, ok := st.Task(id); ok {
		w.Prior = captureTaskFields(t, fields)
		return w
	}
	if r, ok := st.Row(id); ok {
		prior := map[string]any{}
		for k := range fields {
			switch k {
			case "position":
				prior[k] = r.Position
			case "title":
				prior[k] = r.Title
			case "done":
				prior[k] = r.Done
			}
		}
		w.Prior = prior
	}
	return w
}

func hasWrite(ws []Write, id string) bool {
	for _, w := range ws {
		if w.ItemID == id {
			return true
		}
	}
	return false
}

// PlanChecklist turns a classified move into a command against one task's
// checklist rows. Checklist drags never cross editors (the accept predicate
// rejects foreign rows), so only the reorder variants can reach here.
func PlanChecklist(st *State, taskID string, mv Move) *Command {
	cmd := &Command{Move: mv}
	m, ok := mv.(Reorder)
	if !ok {
		return cmd
	}
	rows := st.Rows(taskID)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Position != rows[j].Position {
			return rows[i].Position < rows[j].Position
		}
		return rows[i].ID < rows[j].ID
	})
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	from := -1
	for i, id := range ids {
		if id == m.ItemID {
			from = i
			break
		}
	}
	if from < 0 {
		return cmd
	}
	var order []string
	if m.Append {
		order = append(Remove(ids, m.ItemID), m.ItemID)
	} else {
		if m.ToIndex < 0 || m.ToIndex >= len(ids) {
			return cmd
		}
		order = ReorderByEdge(ids, from, m.ToIndex, m.Edge)
	}
	cmd.Writes = renumberWrites(st, order, nil)
	return cmd
}

// Bridge issues a command's writes to the persistence collaborator. Each call
// is independent; a failure rolls back only that write's optimistic change.
// The TUI issues writes as messages instead and calls RollbackWrite itself;
// this sequential path serves the CLI and tests.
type Bridge struct {
	P Persister
}

func (b Bridge) Persist(ctx context.Context, st *State, cmd *Command) []error {
	var errs []error
	for _, w := range cmd.Writes {
		if err := b.P.UpdateItem(ctx, w.ItemID, w.Fields); err != nil {
			cmd.RollbackWrite(st, w)
			errs = append(errs, err)
		}
	}
	return errs
}
