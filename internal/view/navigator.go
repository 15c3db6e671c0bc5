package view

// Navigator steps through a derived visible-index list circularly. It holds
// the currently selected scan index (an index into the full scan slice, not
// into the visible list).
type Navigator struct {
	visible []int
	current int
}

// NewNavigator builds a navigator anchored to the first visible index, or to
// -1 when nothing is visible.
func NewNavigator(visible []int) *Navigator {
	n := &Navigator{visible: visible, current: -1}
	if len(visible) > 0 {
		n.current = visible[0]
	}
	return n
}

// Current returns the selected scan index, -1 when nothing is visible.
func (n *Navigator) Current() int {
	return n.current
}

// Select moves the selection to the given scan index if it is visible.
func (n *Navigator) Select(index int) bool {
	for _, candidate := range n.visible {
		if candidate == index {
			n.current = index
			return true
		}
	}
	return false
}

// SetVisible swaps in a new visible list. When the current selection is no
// longer present the navigator re-anchors to the first visible index.
func (n *Navigator) SetVisible(visible []int) {
	n.visible = visible
	if len(visible) == 0 {
		n.current = -1
		return
	}
	for _, candidate := range visible {
		if candidate == n.current {
			return
		}
	}
	n.current = visible[0]
}

// Next advances to the following visible index, wrapping past the end.
func (n *Navigator) Next() int {
	return n.step(1)
}

// Prev retreats to the preceding visible index, wrapping before the start.
func (n *Navigator) Prev() int {
	return n.step(-1)
}

func (n *Navigator) step(delta int) int {
	if len(n.visible) == 0 {
		n.current = -1
		return -1
	}

	position := -1
	for i, candidate := range n.visible {
		if candidate == n.current {
			position = i
			break
		}
	}
	if position == -1 {
		// Selection vanished from the list; re-anchor instead of failing.
		n.current = n.visible[0]
		return n.current
	}

	position = (position + delta + len(n.visible)) % len(n.visible)
	n.current = n.visible[position]
	return n.current
}
