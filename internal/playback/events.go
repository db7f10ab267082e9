package playback

import "github.com/llehouerou/swell/internal/catalog"

// StateChange is emitted when the playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when the current track identity changes. Identity is
// the track's audio URL, so re-selecting the already-current track does not
// emit.
type TrackChange struct {
	Previous      *catalog.Track
	Current       *catalog.Track
	PreviousIndex int
	Index         int
}

// QueueChange is emitted when the queue contents change.
type QueueChange struct {
	Tracks []catalog.Track
	Index  int
}

// ModeChange is emitted when repeat or shuffle mode changes.
type ModeChange struct {
	RepeatMode RepeatMode
	Shuffle    bool
}

// ErrorEvent is emitted when a device or telemetry operation fails.
// These never interrupt the queue state machine.
type ErrorEvent struct {
	Operation string // e.g. "play", "report play"
	TrackID   string
	Err       error
}
