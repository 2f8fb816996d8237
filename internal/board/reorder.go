package board

// Edge is the half of a target's bounding box a dragged item was released in.
type Edge string

const (
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
)

// ReorderByEdge removes the item at fromIndex and re-inserts it immediately
// before toIndex when edge is top, immediately after when edge is bottom,
// accounting for the index shift when fromIndex < toIndex. It always returns
// a new slice and never mutates list, so a caller can retain both the prior
// and the reordered sequence for rollback.
//
// Out-of-range indices return the input order (as a copy). fromIndex ==
// toIndex is a no-op.
func ReorderByEdge(list []string, fromIndex, toIndex int, edge Edge) []string {
	out := append([]string{}, list...)
	if fromIndex < 0 || fromIndex >= len(out) || toIndex < 0 || toIndex >= len(out) {
		return out
	}
	if fromIndex == toIndex {
		return out
	}
	moved := out[fromIndex]
	rest := append(out[:fromIndex:fromIndex], out[fromIndex+1:]...)

	at := toIndex
	if fromIndex < toIndex {
		at--
	}
	if edge == EdgeBottom {
		at++
	}
	if at < 0 {
		at = 0
	}
	if at > len(rest) {
		at = len(rest)
	}
	final := make([]string, 0, len(out))
	final = append(final, rest[:at]...)
	final = append(final, moved)
	final = append(final, rest[at:]...)
	return final
}

// InsertAt returns a new slice with id inserted at index (clamped).
func InsertAt(list []string, id string, index int) []string {
	if index < 0 {
		index = 0
	}
	if index > len(list) {
		index = len(list)
	}
	out := make([]string, 0, len(list)+1)
	out = append(out, list[:index]...)
	out = append(out, id)
	out = append(out, list[index:]...)
	return out
}

// Remove returns a new slice without id.
func Remove(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, x := range list {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

// PositionUpdate renumbers one item of a freshly reordered group.
type PositionUpdate struct {
	ID       string
	Position int // 1-based index in the group's new order
}

// RenumberPositions plans the writes that make ordered authoritative: every
// item gets position 1..N, and only items whose current position differs are
// included, so unchanged siblings cost no write. current maps id to the
// position persisted before the move.
func RenumberPositions(ordered []string, current map[string]int) []PositionUpdate {
	var out []PositionUpdate
	for i, id := range ordered {
		want := i + 1
		if cur, ok := current[id]; ok && cur == want {
			continue
		}
		out = append(out, PositionUpdate{ID: id, Position: want})
	}
	return out
}
