// Package queue implements the playback queue state machine: an ordered
// track list, a cursor, a playing flag, and the repeat/shuffle traversal
// policy. It never touches the audio device; the playback service reflects
// this state onto one.
package queue

import (
	"math/rand"
	"time"

	"github.com/llehouerou/swell/internal/catalog"
)

// Queue holds the ordered playback queue and its cursor.
//
// Invariants:
//   - currentIndex is -1 or a valid index into tracks.
//   - playing is false whenever currentIndex is -1.
//   - tracks keeps insertion order; shuffle is applied at Next time, never by
//     reordering the stored slice, so Previous stays well-defined.
//
// All out-of-range inputs clamp or no-op. Nothing here returns an error:
// this is interactive state, not a protocol.
type Queue struct {
	tracks       []catalog.Track
	currentIndex int // -1 if nothing selected
	playing      bool
	repeatMode   RepeatMode
	shuffle      bool
	rng          *rand.Rand
}

// New creates a new empty queue.
func New() *Queue {
	return &Queue{
		currentIndex: -1,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Initialize replaces the queue contents wholesale without selecting
// anything. Playback stops: a fresh queue has no current track.
func (q *Queue) Initialize(tracks []catalog.Track) {
	q.tracks = append(q.tracks[:0:0], tracks...)
	q.currentIndex = -1
	q.playing = false
}

// Restore replaces the queue contents and cursor without starting playback.
// Used when loading a persisted queue at startup. An out-of-range index
// leaves nothing selected.
func (q *Queue) Restore(tracks []catalog.Track, currentIndex int) {
	q.Initialize(tracks)
	if currentIndex < 0 || currentIndex >= len(q.tracks) {
		return
	}
	q.currentIndex = currentIndex
}

// PlayAlbum replaces the queue with tracks and starts playing at startIndex.
// An out-of-range startIndex leaves nothing selected.
func (q *Queue) PlayAlbum(tracks []catalog.Track, startIndex int) {
	q.Initialize(tracks)
	if startIndex < 0 || startIndex >= len(q.tracks) {
		return
	}
	q.currentIndex = startIndex
	q.playing = true
}

// SetCurrent selects track for playback. If a track with the same id is
// already queued the cursor moves to it; otherwise the queue becomes an
// ad-hoc single-track queue holding just this track.
func (q *Queue) SetCurrent(track catalog.Track) {
	for i := range q.tracks {
		if q.tracks[i].ID == track.ID {
			q.currentIndex = i
			q.playing = true
			return
		}
	}
	q.tracks = []catalog.Track{track}
	q.currentIndex = 0
	q.playing = true
}

// TogglePlay flips the playing flag. No-op when nothing is selected.
func (q *Queue) TogglePlay() {
	if q.currentIndex < 0 {
		return
	}
	q.playing = !q.playing
}

// Next moves the cursor forward. At the last index it wraps under repeat-all,
// otherwise the queue exhausts: cursor cleared, playing false. Calling Next
// on an exhausted or empty queue is a no-op, so the user action and the
// device's end-of-track event can both call it safely.
func (q *Queue) Next() {
	if q.currentIndex < 0 {
		return
	}

	if q.shuffle && len(q.tracks) > 1 {
		q.currentIndex = q.randomOtherIndex()
		q.playing = true
		return
	}

	if q.currentIndex >= len(q.tracks)-1 {
		if q.repeatMode == RepeatAll {
			q.currentIndex = 0
			q.playing = true
			return
		}
		q.currentIndex = -1
		q.playing = false
		return
	}

	q.currentIndex++
	q.playing = true
}

// Advance is the natural end-of-track transition. It behaves like Next
// except under repeat-one, where the current track replays.
func (q *Queue) Advance() {
	if q.currentIndex >= 0 && q.repeatMode == RepeatOne {
		q.playing = true
		return
	}
	q.Next()
}

// Previous moves the cursor back one position. Always linear, even under
// shuffle. At index 0 it wraps under repeat-all and no-ops otherwise.
func (q *Queue) Previous() {
	if q.currentIndex < 0 {
		return
	}

	if q.currentIndex == 0 {
		if q.repeatMode == RepeatAll && len(q.tracks) > 0 {
			q.currentIndex = len(q.tracks) - 1
			q.playing = true
		}
		return
	}

	q.currentIndex--
	q.playing = true
}

// JumpTo selects the track at index and starts playing it.
// Out-of-range indexes are ignored.
func (q *Queue) JumpTo(index int) {
	if index < 0 || index >= len(q.tracks) {
		return
	}
	q.currentIndex = index
	q.playing = true
}

// Add appends tracks without changing the cursor.
func (q *Queue) Add(tracks ...catalog.Track) {
	q.tracks = append(q.tracks, tracks...)
}

// RemoveAt removes the track at index, keeping the cursor on the same track
// where possible. Removing the current track keeps the cursor position
// (which now points at the next track), clamped to the new end.
func (q *Queue) RemoveAt(index int) bool {
	if index < 0 || index >= len(q.tracks) {
		return false
	}
	q.tracks = append(q.tracks[:index], q.tracks[index+1:]...)

	switch {
	case q.currentIndex > index:
		q.currentIndex--
	case q.currentIndex == index:
		if q.currentIndex >= len(q.tracks) {
			q.currentIndex = len(q.tracks) - 1
		}
		if q.currentIndex < 0 {
			q.playing = false
		}
	}
	return true
}

// Clear empties the queue and stops playback.
func (q *Queue) Clear() {
	q.tracks = q.tracks[:0]
	q.currentIndex = -1
	q.playing = false
}

// Current returns the selected track, or nil if none.
func (q *Queue) Current() *catalog.Track {
	if q.currentIndex < 0 || q.currentIndex >= len(q.tracks) {
		return nil
	}
	t := q.tracks[q.currentIndex]
	return &t
}

// CurrentIndex returns the cursor position (-1 if nothing selected).
func (q *Queue) CurrentIndex() int {
	return q.currentIndex
}

// IsPlaying reports whether the queue wants audio running.
func (q *Queue) IsPlaying() bool {
	return q.playing
}

// Tracks returns a copy of the queued tracks in stored order.
func (q *Queue) Tracks() []catalog.Track {
	result := make([]catalog.Track, len(q.tracks))
	copy(result, q.tracks)
	return result
}

// Len returns the number of queued tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// IsEmpty reports whether the queue holds no tracks.
func (q *Queue) IsEmpty() bool {
	return len(q.tracks) == 0
}

// HasNext reports whether Next would select another track.
func (q *Queue) HasNext() bool {
	if q.currentIndex < 0 {
		return false
	}
	if q.shuffle && len(q.tracks) > 1 {
		return true
	}
	return q.currentIndex < len(q.tracks)-1 || q.repeatMode == RepeatAll
}

// randomOtherIndex picks a random index different from the current one.
// Caller guarantees len(tracks) > 1.
func (q *Queue) randomOtherIndex() int {
	i := q.rng.Intn(len(q.tracks) - 1)
	if i >= q.currentIndex {
		i++
	}
	return i
}
