package board

import (
	"strings"

	"cadence-cli/internal/model"
)

// State is the in-memory collection a view renders from and the only ordering
// state the engine mutates. It is touched exclusively by main-loop handlers.
type State struct {
	Tasks     []*model.Task
	Checklist []*model.ChecklistItem
}

func (s *State) Task(id string) (*model.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

func (s *State) Row(id string) (*model.ChecklistItem, bool) {
	for _, r := range s.Checklist {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// TaskValues returns copies of the task records for projection.
func (s *State) TaskValues() []model.Task {
	out := make([]model.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		out = append(out, *t)
	}
	return out
}

// RemoveRow drops one checklist row from the state. The editor uses it to
// revert an optimistic insert whose persistence failed.
func (s *State) RemoveRow(id string) {
	kept := s.Checklist[:0]
	for _, r := range s.Checklist {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.Checklist = kept
}

// Rows returns the checklist rows of one task, unordered.
func (s *State) Rows(taskID string) []model.ChecklistItem {
	var out []model.ChecklistItem
	for _, r := range s.Checklist {
		if r.TaskID == taskID {
			out = append(out, *r)
		}
	}
	return out
}

// Write is one independent persistence call: a partial field update plus the
// prior values it overwrites. Each write carries its own rollback context, so
// a late failure reverts only its own change.
type Write struct {
	ItemID string
	Fields map[string]any
	Prior  map[string]any
}

// Command pairs a classified move with the writes that realize it. Plan
// captures priors from current state; Apply mutates the state optimistically;
// RollbackWrite undoes a single failed write. Group order re-derives from item
// fields on the next projection pass, so rollback never edits a group list.
type Command struct {
	Move   Move
	Writes []Write
}

// Apply mutates the in-memory state to reflect every planned write. It is
// synchronous; the UI shows the new order before persistence confirms.
func (c *Command) Apply(st *State) {
	for _, w := range c.Writes {
		applyFields(st, w.ItemID, w.Fields)
	}
}

// RollbackWrite reverts the optimistic change of one failed write. Other
// writes of the same command are unaffected.
func (c *Command) RollbackWrite(st *State, w Write) {
	applyFields(st, w.ItemID, w.Prior)
}

func applyFields(st *State, id string, fields map[string]any) {
	if strings.HasPrefix(id, "chk-") {
		if r, ok := st.Row(id); ok {
			applyRowFields(r, fields)
		}
		return
	}
	if t, ok := st.Task(id); ok {
		applyTaskFields(t, fields)
	}
}

func applyTaskFields(t *model.Task, fields map[string]any) {
	for k, v := range fields {
		switch k {
		case "position":
			if n, ok := v.(int); ok {
				t.Position = n
			}
		case "projectId":
			t.ProjectID = optString(v)
		case "headingId":
			t.HeadingID = optString(v)
		case "areaId":
			t.AreaID = optString(v)
		case "scheduledDate":
			t.ScheduledDate = optString(v)
		case "evening":
			if b, ok := v.(bool); ok {
				t.Evening = b
			}
		case "status":
			if s, ok := v.(string); ok {
				t.Status = model.TaskStatus(s)
			}
		}
	}
}

func applyRowFields(r *model.ChecklistItem, fields map[string]any) {
	for k, v := range fields {
		switch k {
		case "position":
			if n, ok := v.(int); ok {
				r.Position = n
			}
		case "title":
			if s, ok := v.(string); ok {
				r.Title = s
			}
		case "done":
			if b, ok := v.(bool); ok {
				r.Done = b
			}
		}
	}
}

// optString normalizes the two ways callers express an optional string field:
// a nil clear or a concrete value.
func optString(v any) *string {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return &x
	case *string:
		if x == nil {
			return nil
		}
		s := *x
		return &s
	default:
		return nil
	}
}

func captureTaskFields(t *model.Task, keys map[string]any) map[string]any {
	prior := make(map[string]any, len(keys))
	for k := range keys {
		switch k {
		case "position":
			prior[k] = t.Position
		case "projectId":
			prior[k] = copyOpt(t.ProjectID)
		case "headingId":
			prior[k] = copyOpt(t.HeadingID)
		case "areaId":
			prior[k] = copyOpt(t.AreaID)
		case "scheduledDate":
			prior[k] = copyOpt(t.ScheduledDate)
		case "evening":
			prior[k] = t.Evening
		case "status":
			prior[k] = string(t.Status)
		}
	}
	return prior
}

func copyOpt(p *string) any {
	if p == nil {
		return nil
	}
	s := *p
	return &s
}
