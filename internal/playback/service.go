// Package playback binds the queue state machine to the single audio device
// and reports play telemetry. The queue is the source of truth: device state
// never drives the queue except through the natural end-of-track event.
package playback

import (
	"context"
	"time"

	"github.com/llehouerou/swell/internal/catalog"
	"github.com/llehouerou/swell/internal/queue"
)

// State represents the playback state as derived from the queue.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// RepeatMode aliases the queue's repeat mode for subscribers.
type RepeatMode = queue.RepeatMode

// Reporter submits play-count telemetry. Implemented by the API client.
type Reporter interface {
	ReportPlay(ctx context.Context, songID string) error
}

// Service is the playback facade: queue operations that also keep the audio
// device in sync.
type Service interface {
	// Queue replacement
	InitializeQueue(tracks []catalog.Track)
	PlayAlbum(tracks []catalog.Track, startIndex int)
	SetCurrent(track catalog.Track)

	// Navigation
	Toggle()
	Next()
	Previous()
	JumpTo(index int)

	// Queue manipulation
	Add(tracks ...catalog.Track)
	RemoveAt(index int)
	Clear()

	// State queries
	State() State
	IsPlaying() bool
	IsPaused() bool
	IsStopped() bool
	Position() time.Duration
	Duration() time.Duration
	CurrentTrack() *catalog.Track

	// Queue queries
	QueueTracks() []catalog.Track
	QueueIndex() int
	QueueLen() int
	QueueIsEmpty() bool
	QueueHasNext() bool

	// Mode control
	RepeatMode() RepeatMode
	SetRepeatMode(mode RepeatMode)
	CycleRepeatMode() RepeatMode
	Shuffle() bool
	SetShuffle(enabled bool)
	ToggleShuffle() bool

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}
