package drag

import (
	"testing"

	"cadence-cli/internal/board"
)

func taskDrag(itemID string, origin Rect) Payload {
	return Payload{
		Kind:     KindTaskDrag,
		Snapshot: board.DragSnapshot{ItemID: itemID},
		Origin:   origin,
	}
}

func TestCanAccept_TaskTargetRejectsChecklistRows(t *testing.T) {
	row := Payload{Kind: KindChecklistDrag, EditorID: "task-1"}
	target := Payload{Kind: KindTaskTarget, TargetItemID: "task-2"}
	if CanAccept(row, target) {
		t.Fatalf("task target accepted a checklist row")
	}
	if !CanAccept(taskDrag("task-3", Rect{}), target) {
		t.Fatalf("task target rejected a task drag")
	}
}

func TestCanAccept_RowTargetScopedToEditor(t *testing.T) {
	ownRow := Payload{Kind: KindChecklistDrag, EditorID: "task-1"}
	foreignRow := Payload{Kind: KindChecklistDrag, EditorID: "task-2"}
	target := Payload{Kind: KindRowTarget, TargetItemID: "chk-9", EditorID: "task-1"}
	if !CanAccept(ownRow, target) {
		t.Fatalf("row target rejected its own editor's row")
	}
	if CanAccept(foreignRow, target) {
		t.Fatalf("row target accepted a foreign editor's row")
	}
}

func TestCanAccept_ScopedGroupTarget(t *testing.T) {
	container := Payload{Kind: KindGroupTarget, EditorID: "task-1"}
	if CanAccept(taskDrag("task-2", Rect{}), container) {
		t.Fatalf("checklist container accepted a task drag")
	}
	if !CanAccept(Payload{Kind: KindChecklistDrag, EditorID: "task-1"}, container) {
		t.Fatalf("checklist container rejected its own row")
	}
}

func TestRegistry_HitTestReturnsInnermost(t *testing.T) {
	reg := &Registry{}
	reg.Register(Target{
		ID:      "group",
		Payload: Payload{Kind: KindGroupTarget},
		Box:     Rect{X: 0, Y: 0, W: 40, H: 10},
	})
	reg.Register(Target{
		ID:      "row",
		Payload: Payload{Kind: KindTaskTarget, TargetItemID: "task-2"},
		Box:     Rect{X: 0, Y: 3, W: 40, H: 1},
	})

	hit, ok := reg.HitTest(taskDrag("task-1", Rect{}), 5, 3)
	if !ok || hit.ID != "row" {
		t.Fatalf("want the nested row; got %+v ok=%v", hit, ok)
	}
	hit, ok = reg.HitTest(taskDrag("task-1", Rect{}), 5, 7)
	if !ok || hit.ID != "group" {
		t.Fatalf("want the container; got %+v ok=%v", hit, ok)
	}
}

func TestRegistry_ReleaseRemovesTarget(t *testing.T) {
	reg := &Registry{}
	release := reg.Register(Target{
		ID:      "row",
		Payload: Payload{Kind: KindTaskTarget, TargetItemID: "task-2"},
		Box:     Rect{X: 0, Y: 0, W: 10, H: 1},
	})
	release()
	if _, ok := reg.HitTest(taskDrag("task-1", Rect{}), 1, 0); ok {
		t.Fatalf("released target still hit-testable")
	}
	if reg.Len() != 0 {
		t.Fatalf("want empty registry; got %d", reg.Len())
	}
}

func TestMachine_LiftRequiresDragPayload(t *testing.T) {
	m := &Machine{Reg: &Registry{}}
	if m.Lift(Payload{Kind: KindTaskTarget}) {
		t.Fatalf("lifted a target payload")
	}
	if !m.Lift(taskDrag("task-1", Rect{Y: 2, W: 10, H: 1})) {
		t.Fatalf("refused a task drag")
	}
	if m.Lift(taskDrag("task-2", Rect{})) {
		t.Fatalf("second lift accepted mid-gesture")
	}
}

func TestMachine_HoverSelfOnOriginRow(t *testing.T) {
	reg := &Registry{}
	reg.Register(Target{
		ID:      "self",
		Payload: Payload{Kind: KindTaskTarget, TargetItemID: "task-1"},
		Box:     Rect{X: 0, Y: 2, W: 10, H: 1},
	})
	m := &Machine{Reg: reg}
	m.Lift(taskDrag("task-1", Rect{Y: 2, W: 10, H: 1}))
	m.PointerMove(3, 2)
	_, state, _, ok := m.Hover()
	if !ok || state != HoverSelf {
		t.Fatalf("want HoverSelf; got state=%v ok=%v", state, ok)
	}
}

func TestMachine_OneLineRowEdgeFromDirection(t *testing.T) {
	reg := &Registry{}
	reg.Register(Target{
		ID:      "above",
		Payload: Payload{Kind: KindTaskTarget, TargetItemID: "task-above"},
		Box:     Rect{X: 0, Y: 1, W: 10, H: 1},
	})
	reg.Register(Target{
		ID:      "below",
		Payload: Payload{Kind: KindTaskTarget, TargetItemID: "task-below"},
		Box:     Rect{X: 0, Y: 8, W: 10, H: 1},
	})
	m := &Machine{Reg: reg}
	m.Lift(taskDrag("task-1", Rect{Y: 4, W: 10, H: 1}))

	m.PointerMove(2, 1)
	if _, _, edge, _ := m.Hover(); edge != board.EdgeTop {
		t.Fatalf("dragging up: want top edge; got %s", edge)
	}
	m.PointerMove(2, 8)
	if _, _, edge, _ := m.Hover(); edge != board.EdgeBottom {
		t.Fatalf("dragging down: want bottom edge; got %s", edge)
	}
}

func TestMachine_DropOutsideTargetsCancels(t *testing.T) {
	m := &Machine{Reg: &Registry{}}
	m.Lift(taskDrag("task-1", Rect{Y: 2, W: 10, H: 1}))
	m.PointerMove(50, 50)
	if _, _, ok := m.Drop(); ok {
		t.Fatalf("drop with no hover reported success")
	}
	if m.Dragging() {
		t.Fatalf("machine still dragging after cancel")
	}
}

func TestMachine_DropEmitsClassifierInputs(t *testing.T) {
	reg := &Registry{}
	sig := board.Signature{}
	reg.Register(Target{
		ID:      "row",
		Payload: Payload{Kind: KindTaskTarget, TargetItemID: "task-2", Group: sig},
		Box:     Rect{X: 0, Y: 5, W: 10, H: 1},
	})
	m := &Machine{Reg: reg}
	m.Lift(taskDrag("task-1", Rect{Y: 2, W: 10, H: 1}))
	m.PointerMove(3, 5)
	snap, hover, ok := m.Drop()
	if !ok {
		t.Fatalf("valid drop reported cancel")
	}
	if snap.ItemID != "task-1" || hover.TargetItemID != "task-2" {
		t.Fatalf("wrong classifier inputs: %+v %+v", snap, hover)
	}
	if hover.Edge != board.EdgeBottom {
		t.Fatalf("dragging down onto one-line row: want bottom; got %s", hover.Edge)
	}
	if m.Dragging() {
		t.Fatalf("machine not idle after drop")
	}
}

func TestClosestEdge_SplitsAtMidpoint(t *testing.T) {
	box := Rect{X: 0, Y: 10, W: 20, H: 4}
	if ClosestEdge(box, 10) != board.EdgeTop || ClosestEdge(box, 11) != board.EdgeTop {
		t.Fatalf("upper half should be top")
	}
	if ClosestEdge(box, 12) != board.EdgeBottom || ClosestEdge(box, 13) != board.EdgeBottom {
		t.Fatalf("lower half should be bottom")
	}
}

func TestAutoScroll_DeltaNearEdges(t *testing.T) {
	s := AutoScroll{Margin: 2, Rate: 1}
	box := Rect{X: 0, Y: 0, W: 40, H: 20}
	if d := s.Delta(box, 1); d != -1 {
		t.Fatalf("near top: want -1; got %d", d)
	}
	if d := s.Delta(box, 19); d != 1 {
		t.Fatalf("near bottom: want 1; got %d", d)
	}
	if d := s.Delta(box, 10); d != 0 {
		t.Fatalf("middle: want 0; got %d", d)
	}
}
