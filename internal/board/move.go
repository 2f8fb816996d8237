package board

// Move is the resolved, side-effect-free description of what a drop should do
// to ordering and context. It is a closed set of variants; consumers switch
// exhaustively rather than type-assert against open interfaces.
type Move interface{ isMove() }

// NoOp is a drop that changes nothing: a cancelled gesture, a drop onto the
// dragged item itself, or a reorder whose indices coincide.
type NoOp struct{}

// Reorder repositions an item within one group.
type Reorder struct {
	GroupID   string
	ItemID    string
	FromIndex int
	ToIndex   int
	Edge      Edge
	// Append marks a group-level drop onto the item's own group (move to
	// end); FromIndex/ToIndex/Edge are derived, not hover-supplied.
	Append bool
}

// CrossGroupMove re-homes an item into a different group at a precise index.
// Fields lists the signature tags that changed, in update precedence order.
type CrossGroupMove struct {
	ItemID   string
	From     Signature
	To       Signature
	InsertAt int
	Fields   []Field
}

// AppendToEmpty re-homes an item into a group with no resolvable insertion
// point (empty list or a group-level drop): insertion is at the end.
type AppendToEmpty struct {
	ItemID string
	From   Signature
	To     Signature
	Fields []Field
}

func (NoOp) isMove()           {}
func (Reorder) isMove()        {}
func (CrossGroupMove) isMove() {}
func (AppendToEmpty) isMove()  {}
