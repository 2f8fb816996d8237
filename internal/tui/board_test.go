package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"cadence-cli/internal/board"
	"cadence-cli/internal/config"
	"cadence-cli/internal/model"
	"cadence-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// recordingPersister accepts every write and remembers it; tests flip the
// fail flags to exercise the rollback paths.
type recordingPersister struct {
	calls      []string
	fail       bool
	failInsert bool
	failDelete bool
}

func (p *recordingPersister) UpdateItem(_ context.Context, id string, _ map[string]any) error {
	p.calls = append(p.calls, id)
	if p.fail {
		return fmt.Errorf("update %s: disk full", id)
	}
	return nil
}

func (p *recordingPersister) InsertChecklistItem(_ context.Context, r model.ChecklistItem) error {
	p.calls = append(p.calls, "insert:"+r.ID)
	if p.failInsert {
		return fmt.Errorf("insert %s: disk full", r.ID)
	}
	return nil
}

func (p *recordingPersister) DeleteChecklistItem(_ context.Context, id string) error {
	p.calls = append(p.calls, "delete:"+id)
	if p.failDelete {
		return fmt.Errorf("delete %s: disk full", id)
	}
	return nil
}

// drain executes a command tree synchronously and routes every message it
// produces back through the model, the way the program loop would.
func drain(t *testing.T, m *appModel, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			drain(t, m, c)
		}
	case nil:
	default:
		m.Update(msg)
	}
}

func pinProfile(t *testing.T) {
	t.Helper()
	old := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(old) })
}

func testDB() *store.DB {
	base := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	day := "2026-08-29"
	return &store.DB{
		Tasks: []model.Task{
			{ID: "task-one", Title: "review budget", Status: model.StatusScheduled,
				ScheduledDate: &day, Position: 1, CreatedAt: base, UpdatedAt: base},
			{ID: "task-two", Title: "call plumber", Status: model.StatusScheduled,
				ScheduledDate: &day, Position: 2, CreatedAt: base, UpdatedAt: base},
			{ID: "task-eve", Title: "water garden", Status: model.StatusScheduled,
				ScheduledDate: &day, Evening: true, Position: 1, CreatedAt: base, UpdatedAt: base},
		},
	}
}

func testModel(t *testing.T, db *store.DB, p board.Persister) *appModel {
	t.Helper()
	pinProfile(t)
	m := newAppModel(config.Default(), db, p, "2026-08-29")
	m.width, m.height = 80, 24
	return m
}

func TestView_RendersTodayWithEveningSlot(t *testing.T) {
	m := testModel(t, testDB(), &recordingPersister{})
	out := m.View()
	for _, want := range []string{"Today", "This Evening", "review budget", "call plumber", "water garden"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}

func TestView_RegistersTargetsForVisibleRows(t *testing.T) {
	m := testModel(t, testDB(), &recordingPersister{})
	m.View()
	// Three task targets plus two group spans.
	if m.reg.Len() != 5 {
		t.Fatalf("want 5 targets; got %d", m.reg.Len())
	}
}

func TestMouseDrag_ReordersWithinGroup(t *testing.T) {
	p := &recordingPersister{}
	m := testModel(t, testDB(), p)
	m.View()

	var fromY, toY int
	for _, r := range m.rows {
		switch r.taskID {
		case "task-two":
			fromY = r.line
		case "task-one":
			toY = r.line
		}
	}

	m.Update(tea.MouseMsg{X: 4, Y: fromY, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !m.mach.Dragging() {
		t.Fatalf("press on row did not lift")
	}
	m.Update(tea.MouseMsg{X: 4, Y: toY, Action: tea.MouseActionMotion})
	_, cmd := m.Update(tea.MouseMsg{X: 4, Y: toY, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if cmd == nil {
		t.Fatalf("drop planned no writes")
	}

	// Optimistic state already shows the new order.
	one, _ := m.st.Task("task-one")
	two, _ := m.st.Task("task-two")
	if two.Position != 1 || one.Position != 2 {
		t.Fatalf("want two=1 one=2; got two=%d one=%d", two.Position, one.Position)
	}
}

func TestMouseRelease_OutsideTargetsIsCancel(t *testing.T) {
	m := testModel(t, testDB(), &recordingPersister{})
	m.View()
	m.Update(tea.MouseMsg{X: 4, Y: m.rows[0].line, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	before, _ := m.st.Task("task-one")
	posBefore := before.Position
	_, cmd := m.Update(tea.MouseMsg{X: 4, Y: m.height + 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if cmd != nil {
		t.Fatalf("cancelled drop produced a command")
	}
	after, _ := m.st.Task("task-one")
	if after.Position != posBefore {
		t.Fatalf("cancel changed state: %d -> %d", posBefore, after.Position)
	}
	if m.mach.Dragging() {
		t.Fatalf("machine still dragging")
	}
}

func TestNudge_RunsDropPipeline(t *testing.T) {
	m := testModel(t, testDB(), &recordingPersister{})
	m.View()
	m.cursor = 0 // task-one
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'J'}})

	one, _ := m.st.Task("task-one")
	two, _ := m.st.Task("task-two")
	if two.Position != 1 || one.Position != 2 {
		t.Fatalf("nudge did not swap: one=%d two=%d", one.Position, two.Position)
	}
}

func TestWriteFailure_RollsBackOnlyThatWrite(t *testing.T) {
	m := testModel(t, testDB(), &recordingPersister{})
	m.View()
	m.cursor = 0
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'J'}})

	one, _ := m.st.Task("task-one")
	cmd := &board.Command{Writes: []board.Write{{
		ItemID: "task-one",
		Fields: map[string]any{"position": one.Position},
		Prior:  map[string]any{"position": 1},
	}}}
	m.Update(writeDoneMsg{cmd: cmd, write: cmd.Writes[0], err: fmt.Errorf("disk full")})

	one, _ = m.st.Task("task-one")
	if one.Position != 1 {
		t.Fatalf("failed write not reverted: %d", one.Position)
	}
	two, _ := m.st.Task("task-two")
	if two.Position != 1 {
		t.Fatalf("sibling write disturbed: %d", two.Position)
	}
	if !m.statusErr || !strings.Contains(m.statusMsg, "reverted") {
		t.Fatalf("no error status: %q", m.statusMsg)
	}
}

func TestDragPreview_InFooterWhileDragging(t *testing.T) {
	m := testModel(t, testDB(), &recordingPersister{})
	m.View()
	m.Update(tea.MouseMsg{X: 4, Y: m.rows[0].line, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	out := m.View()
	if !strings.Contains(out, "↕ review budget") {
		t.Fatalf("no drag preview in footer:\n%s", out)
	}
}

func TestSwitchView_CancelsActiveDrag(t *testing.T) {
	m := testModel(t, testDB(), &recordingPersister{})
	m.View()
	m.Update(tea.MouseMsg{X: 4, Y: m.rows[0].line, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	if m.mach.Dragging() {
		t.Fatalf("view switch left a drag in flight")
	}
}
