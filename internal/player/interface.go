// Package player owns the single audio output device. Exactly one component
// (the playback service) drives it; everything else observes queue state.
package player

import "time"

// State represents the device playback state.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// Interface defines the device contract for dependency injection and testing.
type Interface interface {
	// Play starts streaming the audio at url from position zero. Any track
	// already playing is stopped first.
	Play(url string) error
	Stop()
	Pause()
	Resume()
	Toggle()
	State() State
	Position() time.Duration
	Duration() time.Duration
	// FinishedChan signals natural end of track, exactly once per track.
	FinishedChan() <-chan struct{}
	// StartedChan signals that audio actually started (Play or Resume).
	StartedChan() <-chan struct{}
	Close() error
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
