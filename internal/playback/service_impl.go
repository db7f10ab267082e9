package playback

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/llehouerou/swell/internal/catalog"
	"github.com/llehouerou/swell/internal/player"
	"github.com/llehouerou/swell/internal/queue"
)

const reportTimeout = 10 * time.Second

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	mu sync.Mutex

	queue    *queue.Queue
	device   player.Interface
	reporter Reporter // nil disables telemetry
	sess     session

	subs   []*Subscription
	subsMu sync.RWMutex

	done   chan struct{}
	closed bool
}

// New creates a playback service owning the given device. reporter may be
// nil to disable play telemetry.
func New(device player.Interface, q *queue.Queue, reporter Reporter) Service {
	s := &serviceImpl{
		queue:    q,
		device:   device,
		reporter: reporter,
		done:     make(chan struct{}),
	}
	go s.deviceLoop()
	return s
}

// deviceLoop forwards device events into the state machine.
func (s *serviceImpl) deviceLoop() {
	for {
		select {
		case <-s.device.FinishedChan():
			s.handleTrackFinished()
		case <-s.device.StartedChan():
			s.handlePlayStarted()
		case <-s.done:
			return
		}
	}
}

// --- Queue replacement ---

func (s *serviceImpl) InitializeQueue(tracks []catalog.Track) {
	s.update(func() { s.queue.Initialize(tracks) }, true)
}

func (s *serviceImpl) PlayAlbum(tracks []catalog.Track, startIndex int) {
	s.update(func() { s.queue.PlayAlbum(tracks, startIndex) }, true)
}

func (s *serviceImpl) SetCurrent(track catalog.Track) {
	s.update(func() { s.queue.SetCurrent(track) }, true)
}

// --- Navigation ---

func (s *serviceImpl) Toggle() {
	s.update(func() { s.queue.TogglePlay() }, false)
}

func (s *serviceImpl) Next() {
	s.update(func() { s.queue.Next() }, false)
}

func (s *serviceImpl) Previous() {
	s.update(func() { s.queue.Previous() }, false)
}

func (s *serviceImpl) JumpTo(index int) {
	s.update(func() { s.queue.JumpTo(index) }, false)
}

// --- Queue manipulation ---

func (s *serviceImpl) Add(tracks ...catalog.Track) {
	s.update(func() { s.queue.Add(tracks...) }, true)
}

func (s *serviceImpl) RemoveAt(index int) {
	s.update(func() { s.queue.RemoveAt(index) }, true)
}

func (s *serviceImpl) Clear() {
	s.update(func() { s.queue.Clear() }, true)
}

// update runs a queue mutation, reconciles the device, and emits change
// events. queueChanged marks operations that may alter queue contents.
func (s *serviceImpl) update(mutate func(), queueChanged bool) {
	s.mu.Lock()
	prevState := s.stateLocked()
	prevTrack := s.queue.Current()
	prevIndex := s.queue.CurrentIndex()

	mutate()
	s.syncDeviceLocked()

	curState := s.stateLocked()
	curTrack := s.queue.Current()
	curIndex := s.queue.CurrentIndex()
	var tracks []catalog.Track
	if queueChanged {
		tracks = s.queue.Tracks()
	}
	s.mu.Unlock()

	if curState != prevState {
		s.broadcast(func(sub *Subscription) {
			sub.sendState(StateChange{Previous: prevState, Current: curState})
		})
	}
	if !sameTrack(prevTrack, curTrack) {
		s.broadcast(func(sub *Subscription) {
			sub.sendTrack(TrackChange{
				Previous:      prevTrack,
				Current:       curTrack,
				PreviousIndex: prevIndex,
				Index:         curIndex,
			})
		})
	}
	if queueChanged {
		s.broadcast(func(sub *Subscription) {
			sub.sendQueue(QueueChange{Tracks: tracks, Index: curIndex})
		})
	}
}

func sameTrack(a, b *catalog.Track) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.AudioURL == b.AudioURL
}

// syncDeviceLocked makes the device reflect queue state. The device never
// drives the queue from here; only handleTrackFinished feeds back.
func (s *serviceImpl) syncDeviceLocked() {
	cur := s.queue.Current()
	if cur == nil {
		if s.device.State() != player.Stopped {
			s.device.Stop()
		}
		s.sess.reset()
		return
	}

	if cur.AudioURL != s.sess.boundURL {
		// New track identity: load from position zero. If the queue is
		// already playing, start immediately; otherwise just bind.
		if s.device.State() != player.Stopped {
			s.device.Stop()
		}
		if s.queue.IsPlaying() {
			s.startLocked(*cur)
		} else {
			s.sess.rebind(cur.ID, cur.AudioURL)
		}
		return
	}

	// Same track: reflect the playing flag.
	switch {
	case s.queue.IsPlaying() && s.device.State() == player.Paused:
		s.device.Resume()
	case s.queue.IsPlaying() && s.device.State() == player.Stopped:
		s.startLocked(*cur)
	case !s.queue.IsPlaying() && s.device.State() == player.Playing:
		s.device.Pause()
	}
}

// startLocked hands a new source to the device, opening a fresh telemetry
// session for this activation.
func (s *serviceImpl) startLocked(track catalog.Track) {
	s.sess.rebind(track.ID, track.AudioURL)
	if err := s.device.Play(track.AudioURL); err != nil {
		log.Warn().Err(err).Str("track", track.ID).Msg("device play failed")
		s.broadcast(func(sub *Subscription) {
			sub.sendError(ErrorEvent{Operation: "play", TrackID: track.ID, Err: err})
		})
	}
}

// handleTrackFinished is the natural end-of-track feedback path.
func (s *serviceImpl) handleTrackFinished() {
	s.mu.Lock()
	// Duplicate or stale end events: nothing selected, or the device is
	// already playing a newer source.
	if s.queue.Current() == nil || s.device.State() != player.Stopped {
		s.mu.Unlock()
		return
	}
	prevState := s.stateLocked()
	prevTrack := s.queue.Current()
	prevIndex := s.queue.CurrentIndex()

	s.queue.Advance()
	s.syncDeviceLocked()

	curState := s.stateLocked()
	curTrack := s.queue.Current()
	curIndex := s.queue.CurrentIndex()
	s.mu.Unlock()

	if curState != prevState {
		s.broadcast(func(sub *Subscription) {
			sub.sendState(StateChange{Previous: prevState, Current: curState})
		})
	}
	if !sameTrack(prevTrack, curTrack) {
		s.broadcast(func(sub *Subscription) {
			sub.sendTrack(TrackChange{
				Previous:      prevTrack,
				Current:       curTrack,
				PreviousIndex: prevIndex,
				Index:         curIndex,
			})
		})
	}
}

// handlePlayStarted fires the one-shot play-count report for the current
// activation. Failures are logged and never surfaced or retried.
func (s *serviceImpl) handlePlayStarted() {
	s.mu.Lock()
	cur := s.queue.Current()
	if cur == nil || s.sess.reported || s.reporter == nil {
		s.mu.Unlock()
		return
	}
	s.sess.reported = true
	trackID := s.sess.boundTrackID
	s.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()
		if err := s.reporter.ReportPlay(ctx, trackID); err != nil {
			log.Warn().Err(err).Str("track", trackID).Msg("play report failed")
		}
	}()
}

// --- State queries ---

// stateLocked derives the playback state from the queue, not the device.
func (s *serviceImpl) stateLocked() State {
	switch {
	case s.queue.CurrentIndex() < 0:
		return StateStopped
	case s.queue.IsPlaying():
		return StatePlaying
	default:
		return StatePaused
	}
}

func (s *serviceImpl) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *serviceImpl) IsPlaying() bool { return s.State() == StatePlaying }

func (s *serviceImpl) IsPaused() bool { return s.State() == StatePaused }

func (s *serviceImpl) IsStopped() bool { return s.State() == StateStopped }

func (s *serviceImpl) Position() time.Duration {
	return s.device.Position()
}

func (s *serviceImpl) Duration() time.Duration {
	s.mu.Lock()
	cur := s.queue.Current()
	s.mu.Unlock()

	if d := s.device.Duration(); d > 0 {
		return d
	}
	// The stream may not report a length; fall back to catalog metadata.
	if cur != nil {
		return cur.Duration()
	}
	return 0
}

func (s *serviceImpl) CurrentTrack() *catalog.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Current()
}

// --- Queue queries ---

func (s *serviceImpl) QueueTracks() []catalog.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Tracks()
}

func (s *serviceImpl) QueueIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.CurrentIndex()
}

func (s *serviceImpl) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

func (s *serviceImpl) QueueIsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.IsEmpty()
}

func (s *serviceImpl) QueueHasNext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.HasNext()
}

// --- Mode control ---

func (s *serviceImpl) RepeatMode() RepeatMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.RepeatMode()
}

func (s *serviceImpl) SetRepeatMode(mode RepeatMode) {
	s.mu.Lock()
	s.queue.SetRepeatMode(mode)
	shuffle := s.queue.Shuffle()
	s.mu.Unlock()
	s.emitMode(mode, shuffle)
}

func (s *serviceImpl) CycleRepeatMode() RepeatMode {
	s.mu.Lock()
	mode := s.queue.CycleRepeatMode()
	shuffle := s.queue.Shuffle()
	s.mu.Unlock()
	s.emitMode(mode, shuffle)
	return mode
}

func (s *serviceImpl) Shuffle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Shuffle()
}

func (s *serviceImpl) SetShuffle(enabled bool) {
	s.mu.Lock()
	s.queue.SetShuffle(enabled)
	mode := s.queue.RepeatMode()
	s.mu.Unlock()
	s.emitMode(mode, enabled)
}

func (s *serviceImpl) ToggleShuffle() bool {
	s.mu.Lock()
	shuffle := s.queue.ToggleShuffle()
	mode := s.queue.RepeatMode()
	s.mu.Unlock()
	s.emitMode(mode, shuffle)
	return shuffle
}

func (s *serviceImpl) emitMode(mode RepeatMode, shuffle bool) {
	s.broadcast(func(sub *Subscription) {
		sub.sendMode(ModeChange{RepeatMode: mode, Shuffle: shuffle})
	})
}

// --- Subscriptions ---

func (s *serviceImpl) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

func (s *serviceImpl) broadcast(send func(*Subscription)) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		send(sub)
	}
}

// --- Lifecycle ---

func (s *serviceImpl) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()

	return s.device.Close()
}
