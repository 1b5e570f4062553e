package layout

// ResizeSession is an explicit drag-gesture object. It captures an immutable
// snapshot of the proportion vector and the container extent along the drag
// axis at gesture start; each pointer move recomputes the pair of adjacent
// shares from that snapshot. The last computed vector is the committed value;
// there is no separate commit step.
type ResizeSession struct {
	group   Group
	index   int
	start   Vector
	extent  float64
	current Vector
}

// StartResize begins a gesture adjusting the boundary between elements index
// and index+1 of the given group. extentPx is the container's size in pixels
// (or cells) along the drag axis; a degenerate extent is floored to 1 so a
// zero-size container can never divide by zero.
func StartResize(g Group, v Vector, index int, extentPx float64) *ResizeSession {
	if index < 0 || index >= len(v)-1 {
		return nil
	}
	if extentPx < 1 {
		extentPx = 1
	}
	snap := v.Normalize()
	return &ResizeSession{
		group:   g,
		index:   index,
		start:   snap,
		extent:  extentPx,
		current: snap.Clone(),
	}
}

// Group returns the group this session adjusts.
func (s *ResizeSession) Group() Group { return s.group }

// Index returns the boundary index this session adjusts.
func (s *ResizeSession) Index() int { return s.index }

// Update recomputes the vector for a pointer displacement of deltaPx pixels
// from the gesture start. Only elements index and index+1 move; their combined
// share is constant, and neither may fall below the group floor even at the
// expense of the requested delta. The result is renormalized to guard against
// floating drift.
func (s *ResizeSession) Update(deltaPx float64) Vector {
	delta := deltaPx / s.extent * NormalizedTotal

	floor := s.group.Floor()
	a0 := s.start[s.index]
	b0 := s.start[s.index+1]
	pair := a0 + b0

	// Clamping the first element to [floor, pair-floor] bounds both sides:
	// the second element is pair minus the first.
	a := a0 + delta
	if a < floor {
		a = floor
	}
	if a > pair-floor {
		a = pair - floor
	}
	b := pair - a

	next := s.start.Clone()
	next[s.index] = a
	next[s.index+1] = b
	s.current = next.Normalize()
	return s.current
}

// Current returns the most recently computed vector.
func (s *ResizeSession) Current() Vector { return s.current }
