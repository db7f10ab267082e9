package player

import "time"

// Mock is a test double for the device.
type Mock struct {
	state      State
	position   time.Duration
	duration   time.Duration
	playErr    error
	playCalls  []string
	finishedCh chan struct{}
	startedCh  chan struct{}
	closed     bool
}

// NewMock creates a new mock device for testing.
func NewMock() *Mock {
	return &Mock{
		state:      Stopped,
		finishedCh: make(chan struct{}, 1),
		startedCh:  make(chan struct{}, 1),
	}
}

func (m *Mock) Play(url string) error {
	m.playCalls = append(m.playCalls, url)
	if m.playErr != nil {
		return m.playErr
	}
	m.state = Playing
	return nil
}

func (m *Mock) Stop() { m.state = Stopped }

func (m *Mock) Pause() {
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) Resume() {
	if m.state == Paused {
		m.state = Playing
	}
}

func (m *Mock) Toggle() {
	switch m.state {
	case Playing:
		m.Pause()
	case Paused:
		m.Resume()
	case Stopped:
		// Nothing to toggle when stopped.
	}
}

func (m *Mock) State() State { return m.state }

func (m *Mock) Position() time.Duration { return m.position }

func (m *Mock) Duration() time.Duration { return m.duration }

func (m *Mock) FinishedChan() <-chan struct{} { return m.finishedCh }

func (m *Mock) StartedChan() <-chan struct{} { return m.startedCh }

func (m *Mock) Close() error {
	m.closed = true
	m.state = Stopped
	return nil
}

// Test helpers

func (m *Mock) SetState(s State) { m.state = s }

func (m *Mock) SetPlayError(err error) { m.playErr = err }

func (m *Mock) PlayCalls() []string { return m.playCalls }

func (m *Mock) SetPosition(d time.Duration) { m.position = d }

func (m *Mock) SetDuration(d time.Duration) { m.duration = d }

func (m *Mock) Closed() bool { return m.closed }

// SimulateFinished simulates a natural end of track.
func (m *Mock) SimulateFinished() {
	m.state = Stopped
	select {
	case m.finishedCh <- struct{}{}:
	default:
	}
}

// SimulateStarted simulates the device reporting that audio started.
func (m *Mock) SimulateStarted() {
	select {
	case m.startedCh <- struct{}{}:
	default:
	}
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
