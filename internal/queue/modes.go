package queue

// RepeatMode defines the boundary behavior of queue traversal.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

// String returns the repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "Off"
	case RepeatAll:
		return "All"
	case RepeatOne:
		return "One"
	default:
		return "Unknown"
	}
}

// RepeatMode returns the current repeat mode.
func (q *Queue) RepeatMode() RepeatMode {
	return q.repeatMode
}

// SetRepeatMode sets the repeat mode.
func (q *Queue) SetRepeatMode(mode RepeatMode) {
	q.repeatMode = mode
}

// CycleRepeatMode advances Off -> All -> One -> Off and returns the new mode.
func (q *Queue) CycleRepeatMode() RepeatMode {
	switch q.repeatMode {
	case RepeatOff:
		q.repeatMode = RepeatAll
	case RepeatAll:
		q.repeatMode = RepeatOne
	case RepeatOne:
		q.repeatMode = RepeatOff
	}
	return q.repeatMode
}

// Shuffle reports whether shuffle traversal is enabled.
func (q *Queue) Shuffle() bool {
	return q.shuffle
}

// SetShuffle enables or disables shuffle traversal. The stored order never
// changes; only Next's index selection does.
func (q *Queue) SetShuffle(enabled bool) {
	q.shuffle = enabled
}

// ToggleShuffle flips shuffle and returns the new value.
func (q *Queue) ToggleShuffle() bool {
	q.shuffle = !q.shuffle
	return q.shuffle
}
