package player

// The device state machine has three states:
//
//	Stopped -> Playing  (Play)
//	Playing -> Paused   (Pause)
//	Playing -> Stopped  (Stop, natural end)
//	Paused  -> Playing  (Resume)
//	Paused  -> Stopped  (Stop)
//
// Toggle cycles Playing <-> Paused and is a no-op when Stopped. Invalid
// transitions (Pause while Stopped, Resume while Playing) are ignored.

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if playback is active (Playing or Paused).
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}
