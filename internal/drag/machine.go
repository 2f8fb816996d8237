package drag

import "cadence-cli/internal/board"

// Phase is the lifecycle of the lifted item. Dropped and cancelled are
// terminal for a gesture; the machine returns to idle immediately after
// reporting either.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
)

// HoverState is the per-target side of the machine. HoverSelf is the pointer
// re-entering the lifted item's own origin row: the origin suppresses its
// shadow instead of showing a drop indicator on itself.
type HoverState int

const (
	HoverNone HoverState = iota
	HoverForeign
	HoverSelf
)

// Machine runs the gesture state machine. Every transition is synchronous
// with the caller's event loop: each handler runs to completion before the
// next event is processed, and no step blocks.
type Machine struct {
	Reg *Registry

	phase    Phase
	dragged  Payload
	pointerX int
	pointerY int

	hover      Target
	hoverOK    bool
	hoverState HoverState
	edge       board.Edge
}

// Lift starts a gesture. The payload must be a drag payload carrying the
// snapshot and the origin rect; the preview is sized from that rect once and
// never re-measured. Lift is ignored while a gesture is in flight.
func (m *Machine) Lift(p Payload) bool {
	if m.phase != PhaseIdle {
		return false
	}
	if !IsTaskDrag(p) && !IsChecklistDrag(p) {
		return false
	}
	m.phase = PhaseDragging
	m.dragged = p
	m.hoverOK = false
	m.hoverState = HoverNone
	return true
}

// PointerMove feeds a pointer position. It performs enter/move-within/leave
// against the registry: the innermost accepting target under the pointer
// becomes the hover, with a closest-edge indicator for item-level targets.
func (m *Machine) PointerMove(x, y int) {
	if m.phase != PhaseDragging {
		return
	}
	m.pointerX, m.pointerY = x, y
	t, ok := m.Reg.HitTest(m.dragged, x, y)
	if !ok {
		m.hoverOK = false
		m.hoverState = HoverNone
		return
	}
	m.hover = t
	m.hoverOK = true
	if IsItemTarget(t.Payload) && t.Payload.TargetItemID == m.dragged.Snapshot.ItemID {
		m.hoverState = HoverSelf
	} else {
		m.hoverState = HoverForeign
	}
	m.edge = m.edgeFor(t, y)
}

// edgeFor picks the closest edge for an item-level hover. Boxes two or more
// cells tall split at the vertical midpoint; one-line rows have no sub-cell
// resolution, so the edge comes from the drag direction relative to the
// origin row.
func (m *Machine) edgeFor(t Target, y int) board.Edge {
	if !IsItemTarget(t.Payload) {
		return board.EdgeTop
	}
	if t.Box.H > 1 {
		return ClosestEdge(t.Box, y)
	}
	if t.Box.Y < m.dragged.Origin.Y {
		return board.EdgeTop
	}
	return board.EdgeBottom
}

// Drop ends the gesture. ok is true only when the pointer is over a valid
// accepting target; the returned snapshot and signal are exactly the
// classifier's inputs. A release anywhere else is a cancel, which must
// resolve to no change: nothing optimistic has been applied yet.
func (m *Machine) Drop() (board.DragSnapshot, board.HoverSignal, bool) {
	if m.phase != PhaseDragging || !m.hoverOK {
		m.Cancel()
		return board.DragSnapshot{}, board.HoverSignal{}, false
	}
	snap := m.dragged.Snapshot
	var sig board.HoverSignal
	if IsItemTarget(m.hover.Payload) {
		sig = board.HoverSignal{
			TargetItemID: m.hover.Payload.TargetItemID,
			Edge:         m.edge,
			Group:        m.hover.Payload.Group,
		}
	} else {
		sig = board.HoverSignal{Group: m.hover.Payload.Group, GroupLevel: true}
	}
	m.reset()
	return snap, sig, true
}

// Cancel aborts the gesture. Local state already equals pre-drag state, so
// there is nothing to roll back.
func (m *Machine) Cancel() { m.reset() }

func (m *Machine) reset() {
	m.phase = PhaseIdle
	m.dragged = Payload{}
	m.hoverOK = false
	m.hoverState = HoverNone
}

func (m *Machine) Dragging() bool { return m.phase == PhaseDragging }

// Dragged returns the active drag payload (zero when idle).
func (m *Machine) Dragged() Payload { return m.dragged }

// Hover reports the current hover target, its state, and the edge indicator.
func (m *Machine) Hover() (Target, HoverState, board.Edge, bool) {
	if m.phase != PhaseDragging || !m.hoverOK {
		return Target{}, HoverNone, board.EdgeTop, false
	}
	return m.hover, m.hoverState, m.edge, true
}

// Pointer returns the last observed pointer position.
func (m *Machine) Pointer() (int, int) { return m.pointerX, m.pointerY }
