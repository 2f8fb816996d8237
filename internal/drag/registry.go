package drag

// Target is a registered drop candidate: its payload plus the screen box used
// for hit testing. Item-level targets sit inside their container's group
// target; the innermost hit wins.
type Target struct {
	ID      string
	Payload Payload
	Box     Rect
}

// Registry holds the currently registered drop targets. Registration is
// explicit and scoped: Register returns a release func the caller must defer
// (or invoke on teardown), so a dismantled view can never leak stale targets.
type Registry struct {
	targets []Target
	nextKey int
	keys    []int
}

func (r *Registry) Register(t Target) (release func()) {
	key := r.nextKey
	r.nextKey++
	r.targets = append(r.targets, t)
	r.keys = append(r.keys, key)
	return func() {
		for i, k := range r.keys {
			if k == key {
				r.targets = append(r.targets[:i], r.targets[i+1:]...)
				r.keys = append(r.keys[:i], r.keys[i+1:]...)
				return
			}
		}
	}
}

// Reset drops every registered target. Views that rebuild their full target
// set each render call this before re-registering.
func (r *Registry) Reset() {
	r.targets = r.targets[:0]
	r.keys = r.keys[:0]
}

func (r *Registry) Len() int { return len(r.targets) }

// HitTest returns the innermost registered target accepting dragged at (x,y).
// Innermost means smallest box area among hits: an item-level target nested in
// its group container shadows the container.
func (r *Registry) HitTest(dragged Payload, x, y int) (Target, bool) {
	best := -1
	bestArea := 0
	for i, t := range r.targets {
		if !t.Box.Contains(x, y) {
			continue
		}
		if !CanAccept(dragged, t.Payload) {
			continue
		}
		area := t.Box.W * t.Box.H
		if best < 0 || area < bestArea {
			best = i
			bestArea = area
		}
	}
	if best < 0 {
		return Target{}, false
	}
	return r.targets[best], true
}
