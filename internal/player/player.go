package player

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
)

const speakerBufferLen = 100 * time.Millisecond

// Player streams remote mp3 audio through the system speaker.
type Player struct {
	mu sync.Mutex

	state      State
	streamer   beep.StreamSeekCloser
	format     beep.Format
	ctrl       *beep.Ctrl
	generation int // invalidates finished callbacks from replaced tracks

	sampleRate  beep.SampleRate
	initialized bool

	finishedCh chan struct{}
	startedCh  chan struct{}

	httpClient *http.Client
}

// New creates a new player. The speaker is initialized lazily on first Play
// so that constructing a player never touches the audio device.
func New() *Player {
	return &Player{
		finishedCh: make(chan struct{}, 1),
		startedCh:  make(chan struct{}, 1),
		// No overall timeout: the body is consumed for the whole track.
		httpClient: &http.Client{},
	}
}

// Play fetches url and starts playback from position zero.
func (p *Player) Play(url string) error {
	resp, err := p.httpClient.Get(url)
	if err != nil {
		return fmt.Errorf("fetch audio: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return fmt.Errorf("fetch audio: status %d", resp.StatusCode)
	}

	streamer, format, err := mp3.Decode(resp.Body)
	if err != nil {
		resp.Body.Close()
		return fmt.Errorf("decode audio: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	if !p.initialized {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(speakerBufferLen)); err != nil {
			streamer.Close()
			return fmt.Errorf("init speaker: %w", err)
		}
		p.sampleRate = format.SampleRate
		p.initialized = true
	}

	var source beep.Streamer = streamer
	if format.SampleRate != p.sampleRate {
		source = beep.Resample(4, format.SampleRate, p.sampleRate, streamer)
	}

	p.generation++
	gen := p.generation

	p.streamer = streamer
	p.format = format
	p.ctrl = &beep.Ctrl{
		Streamer: beep.Seq(source, beep.Callback(func() {
			p.handleFinished(gen)
		})),
	}

	speaker.Play(p.ctrl)
	p.state = Playing
	p.signalStarted()
	return nil
}

// handleFinished runs inside the speaker goroutine when the stream drains.
func (p *Player) handleFinished(gen int) {
	go func() {
		p.mu.Lock()
		if gen != p.generation {
			// A newer track replaced this one before its callback ran.
			p.mu.Unlock()
			return
		}
		p.closeStreamLocked()
		p.state = Stopped
		p.mu.Unlock()

		select {
		case p.finishedCh <- struct{}{}:
		default:
		}
	}()
}

// Stop halts playback and releases the current stream.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.state == Stopped {
		return
	}
	p.generation++
	if p.initialized {
		speaker.Clear()
	}
	p.closeStreamLocked()
	p.state = Stopped
}

func (p *Player) closeStreamLocked() {
	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	p.ctrl = nil
}

// Pause pauses playback. No-op unless playing.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Playing || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	p.state = Paused
}

// Resume resumes paused playback. No-op unless paused.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Paused || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	p.state = Playing
	p.signalStarted()
}

// Toggle cycles between playing and paused.
func (p *Player) Toggle() {
	p.mu.Lock()
	state := p.state
	p.mu.Unlock()

	switch state {
	case Playing:
		p.Pause()
	case Paused:
		p.Resume()
	case Stopped:
		// Nothing to toggle when stopped.
	}
}

// State returns the current device state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Position returns the playback position within the current track.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := p.streamer.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(pos)
}

// Duration returns the current track length, or 0 when the stream does not
// report one (mp3 over a non-seekable body).
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	n := p.streamer.Len()
	if n <= 0 {
		return 0
	}
	return p.format.SampleRate.D(n)
}

// FinishedChan signals natural end of track.
func (p *Player) FinishedChan() <-chan struct{} {
	return p.finishedCh
}

// StartedChan signals that audio started.
func (p *Player) StartedChan() <-chan struct{} {
	return p.startedCh
}

// Close stops playback and releases the stream. The speaker itself stays
// initialized; beep has no teardown.
func (p *Player) Close() error {
	p.Stop()
	return nil
}

func (p *Player) signalStarted() {
	select {
	case p.startedCh <- struct{}{}:
	default:
	}
}
