package tui

import (
	"context"
	"sort"
	"strings"

	"cadence-cli/internal/board"
	"cadence-cli/internal/drag"
	"cadence-cli/internal/model"
	"cadence-cli/internal/store"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

// Editor-scoped state lives here; the board model swaps the editor in and out
// wholesale, so closing it tears down its registry with it.

// checklistEditor is the task detail panel: notes plus the checklist, with
// row drag-and-drop scoped to this one editor instance. Rows from another
// task's checklist can never interact with it: the accept predicate rejects
// payloads carrying a different editor id.
type checklistEditor struct {
	taskID string
	st     *board.State
	db     *store.DB
	writer board.Persister

	reg  *drag.Registry
	mach *drag.Machine

	width  int
	height int
	cursor int

	input   textinput.Model
	editing bool

	// rowLines maps rendered row index to screen line, rebuilt each frame.
	rowLines []int
	rowTop   int
}

func newChecklistEditor(taskID string, st *board.State, db *store.DB, writer board.Persister) *checklistEditor {
	reg := &drag.Registry{}
	in := textinput.New()
	in.Prompt = "› "
	in.CharLimit = 300
	return &checklistEditor{
		taskID: taskID,
		st:     st,
		db:     db,
		writer: writer,
		reg:    reg,
		mach:   &drag.Machine{Reg: reg},
		input:  in,
	}
}

func (e *checklistEditor) resize(w, h int) {
	e.width = w
	e.height = h
	e.input.Width = w - 4
}

// orderedRows returns this editor's rows sorted by position (created order as
// tie-break via id).
func (e *checklistEditor) orderedRows() []model.ChecklistItem {
	rows := e.st.Rows(e.taskID)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Position != rows[j].Position {
			return rows[i].Position < rows[j].Position
		}
		return rows[i].ID < rows[j].ID
	})
	return rows
}

func (e *checklistEditor) rowIDs() []string {
	rows := e.orderedRows()
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids
}

// group projects the checklist as a single board group so the same resolver
// classifies row drops.
func (e *checklistEditor) group() *board.Group {
	return &board.Group{ID: "chk:" + e.taskID, ItemIDs: e.rowIDs()}
}

func (e *checklistEditor) handleKey(msg tea.KeyMsg) (done bool, cmd tea.Cmd) {
	if e.editing {
		switch msg.String() {
		case "esc":
			e.editing = false
			e.input.Blur()
			return false, nil
		case "enter":
			return false, e.commitEdit()
		default:
			var c tea.Cmd
			e.input, c = e.input.Update(msg)
			return false, c
		}
	}

	rows := e.orderedRows()
	switch msg.String() {
	case "esc", "q":
		if e.mach.Dragging() {
			e.mach.Cancel()
			return false, nil
		}
		return true, nil
	case "j", "down":
		if e.cursor < len(rows)-1 {
			e.cursor++
		}
	case "k", "up":
		if e.cursor > 0 {
			e.cursor--
		}
	case "J", "shift+down":
		return false, e.nudge(board.EdgeBottom)
	case "K", "shift+up":
		return false, e.nudge(board.EdgeTop)
	case " ":
		return false, e.toggleDone()
	case "e", "enter":
		if e.cursor < len(rows) {
			e.editing = true
			e.input.SetValue(rows[e.cursor].Title)
			e.input.CursorEnd()
			e.input.Focus()
		}
	case "a":
		e.editing = true
		e.cursor = len(rows)
		e.input.SetValue("")
		e.input.Focus()
	case "d":
		return false, e.deleteRow()
	}
	return false, nil
}

// commitEdit applies the edit buffer. A cursor in the middle of the title
// splits the row: the current row keeps the left half and a new row carrying
// the right half is inserted immediately after, mirroring how an Enter-key
// split behaves in the original editor.
func (e *checklistEditor) commitEdit() tea.Cmd {
	text := e.input.Value()
	cursorAt := e.input.Position()
	e.editing = false
	e.input.Blur()

	rows := e.orderedRows()
	if e.cursor >= len(rows) {
		// New row appended at the end.
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return e.insertRow(text, len(rows))
	}

	row := rows[e.cursor]
	left := text
	right := ""
	if cursorAt > 0 && cursorAt < len(text) {
		left = text[:cursorAt]
		right = text[cursorAt:]
	}

	cmds := []tea.Cmd{e.updateRow(row.ID, map[string]any{"title": strings.TrimSpace(left)})}
	if right != "" {
		cmds = append(cmds, e.insertRow(strings.TrimSpace(right), e.cursor+1))
	}
	return tea.Batch(cmds...)
}

// insertRow creates a net-new row at index, renumbering the checklist. This
// is the same optimistic-then-persist pattern a move uses: the sibling
// position updates are planned as a command so each write carries its prior,
// and the insert itself reports back as a rowPersistMsg whose failure removes
// the optimistic row again.
func (e *checklistEditor) insertRow(title string, index int) tea.Cmd {
	id, err := store.GenerateID(store.PrefixChecklist)
	if err != nil {
		return nil
	}
	row := &model.ChecklistItem{ID: id, TaskID: e.taskID, Title: title}
	e.st.Checklist = append(e.st.Checklist, row)

	ids := board.InsertAt(board.Remove(e.rowIDs(), id), id, index)
	cmd := &board.Command{}
	for i, rid := range ids {
		p := i + 1
		if rid == id {
			row.Position = p
			continue
		}
		if r, ok := e.st.Row(rid); ok && r.Position != p {
			cmd.Writes = append(cmd.Writes, writeForRow(e.st, rid, map[string]any{"position": p}))
		}
	}
	cmd.Apply(e.st)
	e.cursor = index

	writer := e.writer
	rowCopy := *row
	insert := func() tea.Msg {
		w, ok := writer.(interface {
			InsertChecklistItem(context.Context, model.ChecklistItem) error
		})
		if !ok {
			return nil
		}
		err := w.InsertChecklistItem(context.Background(), rowCopy)
		return rowPersistMsg{inserted: true, row: rowCopy, err: err}
	}
	return tea.Batch(insert, persistCmds(writer, cmd))
}

func (e *checklistEditor) updateRow(id string, fields map[string]any) tea.Cmd {
	cmd := &board.Command{Writes: []board.Write{writeForRow(e.st, id, fields)}}
	cmd.Apply(e.st)
	return persistCmds(e.writer, cmd)
}

func (e *checklistEditor) toggleDone() tea.Cmd {
	rows := e.orderedRows()
	if e.cursor >= len(rows) {
		return nil
	}
	return e.updateRow(rows[e.cursor].ID, map[string]any{"done": !rows[e.cursor].Done})
}

func (e *checklistEditor) deleteRow() tea.Cmd {
	rows := e.orderedRows()
	if e.cursor >= len(rows) {
		return nil
	}
	removed := rows[e.cursor]
	e.st.RemoveRow(removed.ID)
	if e.cursor >= len(rows)-1 && e.cursor > 0 {
		e.cursor--
	}
	writer := e.writer
	return func() tea.Msg {
		w, ok := writer.(interface {
			DeleteChecklistItem(context.Context, string) error
		})
		if !ok {
			return nil
		}
		err := w.DeleteChecklistItem(context.Background(), removed.ID)
		return rowPersistMsg{row: removed, err: err}
	}
}

func (e *checklistEditor) nudge(edge board.Edge) tea.Cmd {
	ids := e.rowIDs()
	if e.cursor < 0 || e.cursor >= len(ids) {
		return nil
	}
	target := e.cursor + 1
	if edge == board.EdgeTop {
		target = e.cursor - 1
	}
	if target < 0 || target >= len(ids) {
		return nil
	}
	snap := board.DragSnapshot{ItemID: ids[e.cursor], EditorID: e.taskID}
	sig := board.HoverSignal{TargetItemID: ids[target], Edge: edge}
	cmd := e.classifyAndPersist(snap, sig)
	e.cursor = target
	return cmd
}

func (e *checklistEditor) classifyAndPersist(snap board.DragSnapshot, sig board.HoverSignal) tea.Cmd {
	mv := board.Resolve([]*board.Group{e.group()}, snap, sig)
	cmd := board.PlanChecklist(e.st, e.taskID, mv)
	cmd.Apply(e.st)
	return persistCmds(e.writer, cmd)
}

func (e *checklistEditor) mousePress(x, y int) tea.Cmd {
	for i, line := range e.rowLines {
		if y != line {
			continue
		}
		ids := e.rowIDs()
		if i >= len(ids) {
			return nil
		}
		box := drag.Rect{X: 0, Y: line, W: e.width, H: 1}
		e.mach.Lift(drag.Payload{
			Kind: drag.KindChecklistDrag,
			Snapshot: board.DragSnapshot{
				ItemID:   ids[i],
				EditorID: e.taskID,
			},
			Origin:   box,
			EditorID: e.taskID,
		})
		e.mach.PointerMove(x, y)
		return nil
	}
	return nil
}

func (e *checklistEditor) mouseMotion(x, y int) {
	if e.mach.Dragging() {
		e.mach.PointerMove(x, y)
	}
}

func (e *checklistEditor) mouseRelease(x, y int) tea.Cmd {
	if !e.mach.Dragging() {
		return nil
	}
	e.mach.PointerMove(x, y)
	snap, sig, ok := e.mach.Drop()
	if !ok {
		return nil
	}
	return e.classifyAndPersist(snap, sig)
}

func (e *checklistEditor) View() string {
	t, ok := e.st.Task(e.taskID)
	if !ok {
		return "task not found"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(t.Title))
	b.WriteString("\n")
	if notes := renderMarkdown(t.Notes, e.width-2); notes != "" {
		b.WriteString(notes)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(groupHeaderStyle.Render("Checklist"))
	b.WriteString("\n")

	e.rowTop = strings.Count(b.String(), "\n")
	e.rowLines = e.rowLines[:0]
	e.reg.Reset()

	hover, hoverState, edge, hovering := e.mach.Hover()
	draggedID := ""
	if e.mach.Dragging() {
		draggedID = e.mach.Dragged().Snapshot.ItemID
	}

	rows := e.orderedRows()
	for i, r := range rows {
		y := e.rowTop + i
		e.rowLines = append(e.rowLines, y)
		e.reg.Register(drag.Target{
			ID: "row:" + r.ID,
			Payload: drag.Payload{
				Kind:         drag.KindRowTarget,
				TargetItemID: r.ID,
				EditorID:     e.taskID,
			},
			Box: drag.Rect{X: 0, Y: y, W: e.width, H: 1},
		})

		mark := "☐"
		style := rowStyle
		if r.Done {
			mark = "☑"
			style = rowDone
		}
		prefix := "  "
		if hovering && drag.IsItemTarget(hover.Payload) && hover.Payload.TargetItemID == r.ID {
			if hoverState == drag.HoverSelf {
				style = rowDim
			} else if edge == board.EdgeTop {
				prefix = dropMarkStyle.Render("▲ ")
			} else {
				prefix = dropMarkStyle.Render("▼ ")
			}
		} else if r.ID == draggedID {
			style = rowDim
		} else if i == e.cursor && !e.editing && !e.mach.Dragging() {
			style = rowFocus
		}

		if e.editing && i == e.cursor {
			b.WriteString("  " + e.input.View())
		} else {
			b.WriteString(style.Render(xansi.Truncate(prefix+mark+" "+r.Title, e.width, "…")))
		}
		b.WriteString("\n")
	}
	// The container itself accepts row drops (append semantics).
	e.reg.Register(drag.Target{
		ID:      "chk:" + e.taskID,
		Payload: drag.Payload{Kind: drag.KindGroupTarget, EditorID: e.taskID},
		Box:     drag.Rect{X: 0, Y: e.rowTop, W: e.width, H: len(rows) + 1},
	})

	if e.editing && e.cursor >= len(rows) {
		b.WriteString("  " + e.input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(statusStyle.Render("space toggle · e edit · a add · d delete · J/K reorder · esc back"))
	return b.String()
}

func writeForRow(st *board.State, id string, fields map[string]any) board.Write {
	w := board.Write{ItemID: id, Fields: fields, Prior: map[string]any{}}
	if r, ok := st.Row(id); ok {
		for k := range fields {
			switch k {
			case "position":
				w.Prior[k] = r.Position
			case "title":
				w.Prior[k] = r.Title
			case "done":
				w.Prior[k] = r.Done
			}
		}
	}
	return w
}
