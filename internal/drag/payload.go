// Package drag carries the drag-and-drop protocol: the data a lifted item and
// a candidate target exchange, and the gesture state machine that turns
// pointer events into a drop the board resolver can classify.
package drag

import "cadence-cli/internal/board"

// PayloadKind discriminates the closed set of payload variants. Compatibility
// is decided by predicate functions over the tag, never by type assertions on
// concrete UI types.
type PayloadKind string

const (
	KindTaskDrag      PayloadKind = "task-drag"
	KindChecklistDrag PayloadKind = "checklist-drag"
	KindTaskTarget    PayloadKind = "task-target"
	KindGroupTarget   PayloadKind = "group-target"
	KindRowTarget     PayloadKind = "row-target"
)

// Rect is a bounding box in cell coordinates, captured at lift time for the
// drag preview and used for closest-edge hit testing.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// ClosestEdge reports which half of the box the pointer sits in vertically:
// upper half is top, lower half is bottom. A one-cell-high box has no lower
// half, so callers with single-line rows derive the edge from drag direction
// instead.
func ClosestEdge(r Rect, y int) board.Edge {
	if r.H <= 1 {
		return board.EdgeTop
	}
	if y < r.Y+(r.H+1)/2 {
		return board.EdgeTop
	}
	return board.EdgeBottom
}

// Payload is a plain tagged record. Exactly the fields its kind implies are
// set; everything else stays zero.
type Payload struct {
	Kind PayloadKind

	// Drag payloads.
	Snapshot board.DragSnapshot
	Origin   Rect

	// Item-level targets.
	TargetItemID string

	// Group-level targets.
	Group board.Signature

	// EditorID scopes checklist payloads to one checklist instance so rows
	// from different tasks' checklists never interact.
	EditorID string
}

func IsTaskDrag(p Payload) bool      { return p.Kind == KindTaskDrag }
func IsChecklistDrag(p Payload) bool { return p.Kind == KindChecklistDrag }
func IsItemTarget(p Payload) bool    { return p.Kind == KindTaskTarget || p.Kind == KindRowTarget }
func IsGroupTarget(p Payload) bool   { return p.Kind == KindGroupTarget }

// ForEditor reports whether a checklist payload belongs to the given editor.
func ForEditor(p Payload, editorID string) bool {
	return IsChecklistDrag(p) && p.EditorID == editorID
}

// CanAccept is the compatibility predicate between a drag and a target. Task
// targets take task drags only; row and checklist-scoped group targets take
// rows of the same editor only.
func CanAccept(dragged, target Payload) bool {
	switch target.Kind {
	case KindTaskTarget:
		return IsTaskDrag(dragged)
	case KindRowTarget:
		return ForEditor(dragged, target.EditorID)
	case KindGroupTarget:
		if target.EditorID != "" {
			return ForEditor(dragged, target.EditorID)
		}
		return IsTaskDrag(dragged)
	default:
		return false
	}
}
