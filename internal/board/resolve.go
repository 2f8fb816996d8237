package board

// DragSnapshot is captured once, at lift time. Home is the signature of the
// group the item was lifted from; indices are never captured here because the
// group may change shape between lift and drop.
type DragSnapshot struct {
	ItemID string
	Home   Signature
	// EditorID scopes checklist-row drags to one checklist instance. Empty
	// for task drags.
	EditorID string
}

// HoverSignal is the last signal emitted by the innermost target under the
// pointer. Item-level signals carry a target item and the closest edge;
// group-level signals carry only the group's signature.
type HoverSignal struct {
	TargetItemID string
	Edge         Edge
	Group        Signature
	GroupLevel   bool
}

// Resolve classifies a drop against the view's current group set. All indices
// are computed here, from current state, never from anything cached during
// hover. Resolving the same (snapshot, signal) pair again after the first
// resulting move has been applied yields NoOp.
func Resolve(groups []*Group, snap DragSnapshot, sig HoverSignal) Move {
	home, ok := FindGroup(groups, snap.Home)
	if !ok {
		home, ok = GroupContaining(groups, snap.ItemID)
		if !ok {
			return NoOp{}
		}
	}

	if !sig.GroupLevel && sig.TargetItemID != "" {
		if sig.TargetItemID == snap.ItemID {
			return NoOp{}
		}
		dest, ok := GroupContaining(groups, sig.TargetItemID)
		if !ok {
			// Target vanished between hover and drop; fall back to the
			// group-level branch against the signal's signature.
			return resolveGroupLevel(groups, home, snap, sig.Group)
		}
		if dest == home {
			from := home.IndexOf(snap.ItemID)
			to := home.IndexOf(sig.TargetItemID)
			if from < 0 || to < 0 || from == to {
				return NoOp{}
			}
			return Reorder{
				GroupID:   home.ID,
				ItemID:    snap.ItemID,
				FromIndex: from,
				ToIndex:   to,
				Edge:      sig.Edge,
			}
		}
		insertAt := dest.IndexOf(sig.TargetItemID)
		if insertAt < 0 {
			insertAt = len(dest.ItemIDs)
		} else if sig.Edge == EdgeBottom {
			insertAt++
		}
		return CrossGroupMove{
			ItemID:   snap.ItemID,
			From:     home.Signature,
			To:       dest.Signature,
			InsertAt: insertAt,
			Fields:   Diff(home.Signature, dest.Signature),
		}
	}

	return resolveGroupLevel(groups, home, snap, sig.Group)
}

func resolveGroupLevel(groups []*Group, home *Group, snap DragSnapshot, destSig Signature) Move {
	if destSig.Equal(home.Signature) {
		// Dropped on the home group's own header or empty area: move to
		// the end of the home list.
		from := home.IndexOf(snap.ItemID)
		if from < 0 || from == len(home.ItemIDs)-1 {
			return NoOp{}
		}
		return Reorder{
			GroupID:   home.ID,
			ItemID:    snap.ItemID,
			FromIndex: from,
			ToIndex:   len(home.ItemIDs) - 1,
			Edge:      EdgeBottom,
			Append:    true,
		}
	}
	fields := Diff(home.Signature, destSig)
	dest, ok := FindGroup(groups, destSig)
	if !ok || len(dest.ItemIDs) == 0 {
		// The destination list is empty (possibly not even materialized in
		// this view's group set): append by signature alone.
		return AppendToEmpty{
			ItemID: snap.ItemID,
			From:   home.Signature,
			To:     destSig,
			Fields: fields,
		}
	}
	return CrossGroupMove{
		ItemID:   snap.ItemID,
		From:     home.Signature,
		To:       destSig,
		InsertAt: len(dest.ItemIDs),
		Fields:   fields,
	}
}
