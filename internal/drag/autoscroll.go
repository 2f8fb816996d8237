package drag

// AutoScroll computes the scroll applied while a drag hovers near the edge of
// a scrollable container. The rate is fixed (cells per tick); there is no
// acceleration. The caller ticks it while a gesture is active and stops the
// ticker immediately on drop or cancel.
type AutoScroll struct {
	// Margin is how close (in cells) the pointer must be to the container's
	// top or bottom edge before scrolling starts.
	Margin int
	// Rate is cells scrolled per tick.
	Rate int
}

// Delta returns the per-tick scroll offset for a pointer at y inside the
// viewport box: negative near the top edge, positive near the bottom, zero in
// the middle or outside the box.
func (a AutoScroll) Delta(box Rect, y int) int {
	if y < box.Y || y >= box.Y+box.H {
		return 0
	}
	margin := a.Margin
	if margin <= 0 {
		margin = 2
	}
	rate := a.Rate
	if rate <= 0 {
		rate = 1
	}
	if y < box.Y+margin {
		return -rate
	}
	if y >= box.Y+box.H-margin {
		return rate
	}
	return 0
}
