package playback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/llehouerou/swell/internal/catalog"
	"github.com/llehouerou/swell/internal/player"
	"github.com/llehouerou/swell/internal/queue"
)

// mockReporter records play reports for assertions.
type mockReporter struct {
	mu      sync.Mutex
	reports []string
	err     error
}

func (r *mockReporter) ReportPlay(_ context.Context, songID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, songID)
	return r.err
}

func (r *mockReporter) Reports() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.reports...)
}

func makeTracks(n int) []catalog.Track {
	tracks := make([]catalog.Track, n)
	for i := range tracks {
		id := string(rune('a' + i))
		tracks[i] = catalog.Track{
			ID:       id,
			Title:    "Track " + id,
			AudioURL: "https://cdn.example.com/" + id + ".mp3",
		}
	}
	return tracks
}

func newTestService(t *testing.T) (Service, *player.Mock, *mockReporter) {
	t.Helper()
	device := player.NewMock()
	reporter := &mockReporter{}
	svc := New(device, queue.New(), reporter)
	t.Cleanup(func() { svc.Close() })
	return svc, device, reporter
}

// waitFor polls cond until it holds or the deadline passes. Device events
// travel through the service's own goroutine, so tests cannot assert
// immediately after SimulateFinished/SimulateStarted.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestPlayAlbum_StartsDevice(t *testing.T) {
	svc, device, _ := newTestService(t)
	tracks := makeTracks(3)

	svc.PlayAlbum(tracks, 1)

	if svc.State() != StatePlaying {
		t.Errorf("State() = %v, want Playing", svc.State())
	}
	calls := device.PlayCalls()
	if len(calls) != 1 || calls[0] != tracks[1].AudioURL {
		t.Errorf("PlayCalls() = %v, want [%s]", calls, tracks[1].AudioURL)
	}
}

func TestInitializeQueue_DoesNotStartDevice(t *testing.T) {
	svc, device, _ := newTestService(t)

	svc.InitializeQueue(makeTracks(3))

	if svc.State() != StateStopped {
		t.Errorf("State() = %v, want Stopped", svc.State())
	}
	if len(device.PlayCalls()) != 0 {
		t.Errorf("device started without a selection: %v", device.PlayCalls())
	}
}

func TestToggle_PausesAndResumesDevice(t *testing.T) {
	svc, device, _ := newTestService(t)
	svc.PlayAlbum(makeTracks(2), 0)

	svc.Toggle()
	if svc.State() != StatePaused {
		t.Errorf("State() = %v, want Paused", svc.State())
	}
	if device.State() != player.Paused {
		t.Errorf("device state = %v, want Paused", device.State())
	}

	svc.Toggle()
	if svc.State() != StatePlaying {
		t.Errorf("State() = %v, want Playing", svc.State())
	}
	// Same track resumed, not reloaded
	if len(device.PlayCalls()) != 1 {
		t.Errorf("resume reloaded the source: %v", device.PlayCalls())
	}
}

func TestNext_LoadsNewSource(t *testing.T) {
	svc, device, _ := newTestService(t)
	tracks := makeTracks(3)
	svc.PlayAlbum(tracks, 0)

	svc.Next()

	calls := device.PlayCalls()
	if len(calls) != 2 || calls[1] != tracks[1].AudioURL {
		t.Errorf("PlayCalls() = %v, want second call %s", calls, tracks[1].AudioURL)
	}
}

func TestSetCurrent_SameTrackDoesNotRestart(t *testing.T) {
	svc, device, _ := newTestService(t)
	tracks := makeTracks(2)
	svc.PlayAlbum(tracks, 0)

	svc.SetCurrent(tracks[0])

	if len(device.PlayCalls()) != 1 {
		t.Errorf("re-selecting the current track restarted it: %v", device.PlayCalls())
	}
}

func TestTrackFinished_AdvancesQueue(t *testing.T) {
	svc, device, _ := newTestService(t)
	tracks := makeTracks(2)
	svc.PlayAlbum(tracks, 0)

	device.SimulateFinished()

	waitFor(t, func() bool {
		cur := svc.CurrentTrack()
		return cur != nil && cur.ID == "b"
	}, "queue did not advance on track end")

	calls := device.PlayCalls()
	if calls[len(calls)-1] != tracks[1].AudioURL {
		t.Errorf("device not started on next track: %v", calls)
	}
	if svc.State() != StatePlaying {
		t.Errorf("State() = %v, want Playing", svc.State())
	}
}

func TestTrackFinished_LastTrackStops(t *testing.T) {
	svc, device, _ := newTestService(t)
	svc.PlayAlbum(makeTracks(2), 1)

	device.SimulateFinished()

	waitFor(t, func() bool {
		return svc.State() == StateStopped
	}, "queue did not stop after the last track")

	if svc.CurrentTrack() != nil {
		t.Error("expected no current track after exhaustion")
	}
	if svc.QueueLen() != 2 {
		t.Errorf("QueueLen() = %d, want 2 (contents survive exhaustion)", svc.QueueLen())
	}
}

func TestTrackFinished_RepeatOneReplays(t *testing.T) {
	svc, device, _ := newTestService(t)
	tracks := makeTracks(2)
	svc.PlayAlbum(tracks, 0)
	svc.SetRepeatMode(queue.RepeatOne)

	device.SimulateFinished()

	waitFor(t, func() bool {
		return len(device.PlayCalls()) == 2
	}, "repeat-one did not replay the track")

	calls := device.PlayCalls()
	if calls[1] != tracks[0].AudioURL {
		t.Errorf("replayed %s, want %s", calls[1], tracks[0].AudioURL)
	}
	if cur := svc.CurrentTrack(); cur == nil || cur.ID != "a" {
		t.Errorf("CurrentTrack() = %v, want track a", cur)
	}
}

func TestTrackFinished_EmptyQueueIgnored(t *testing.T) {
	svc, device, _ := newTestService(t)

	device.SimulateFinished()

	time.Sleep(50 * time.Millisecond)
	if svc.State() != StateStopped {
		t.Errorf("State() = %v, want Stopped", svc.State())
	}
}

func TestPlayStarted_ReportsOncePerActivation(t *testing.T) {
	svc, device, reporter := newTestService(t)
	svc.PlayAlbum(makeTracks(2), 0)

	device.SimulateStarted()
	waitFor(t, func() bool {
		return len(reporter.Reports()) == 1
	}, "play was not reported")

	// A duplicate start event for the same activation must not re-report.
	device.SimulateStarted()
	time.Sleep(50 * time.Millisecond)
	if got := reporter.Reports(); len(got) != 1 {
		t.Fatalf("reports = %v, want exactly one", got)
	}
	if reporter.Reports()[0] != "a" {
		t.Errorf("reported %q, want %q", reporter.Reports()[0], "a")
	}
}

func TestPlayStarted_NewActivationReportsAgain(t *testing.T) {
	svc, device, reporter := newTestService(t)
	svc.PlayAlbum(makeTracks(2), 0)

	device.SimulateStarted()
	waitFor(t, func() bool { return len(reporter.Reports()) == 1 }, "first report missing")

	svc.Next()
	device.SimulateStarted()
	waitFor(t, func() bool { return len(reporter.Reports()) == 2 }, "second report missing")

	if got := reporter.Reports(); got[1] != "b" {
		t.Errorf("reports = %v, want second report for b", got)
	}
}

func TestPlayStarted_RepeatOneReplayReportsAgain(t *testing.T) {
	svc, device, reporter := newTestService(t)
	svc.PlayAlbum(makeTracks(1), 0)
	svc.SetRepeatMode(queue.RepeatOne)

	device.SimulateStarted()
	waitFor(t, func() bool { return len(reporter.Reports()) == 1 }, "first report missing")

	// Natural end replays the track: a fresh activation, a fresh report.
	device.SimulateFinished()
	waitFor(t, func() bool { return len(device.PlayCalls()) == 2 }, "replay did not happen")

	device.SimulateStarted()
	waitFor(t, func() bool { return len(reporter.Reports()) == 2 }, "replay was not reported")
}

func TestPlayStarted_NilReporter(t *testing.T) {
	device := player.NewMock()
	svc := New(device, queue.New(), nil)
	defer svc.Close()

	svc.PlayAlbum(makeTracks(1), 0)
	device.SimulateStarted()

	time.Sleep(50 * time.Millisecond)
	if svc.State() != StatePlaying {
		t.Errorf("State() = %v, want Playing", svc.State())
	}
}

func TestPlayError_EmitsErrorEvent(t *testing.T) {
	svc, device, _ := newTestService(t)
	sub := svc.Subscribe()
	device.SetPlayError(errors.New("connection refused"))

	svc.PlayAlbum(makeTracks(1), 0)

	select {
	case e := <-sub.Error:
		if e.Operation != "play" || e.TrackID != "a" {
			t.Errorf("ErrorEvent = %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no error event emitted")
	}
}

func TestClear_StopsDevice(t *testing.T) {
	svc, device, _ := newTestService(t)
	svc.PlayAlbum(makeTracks(2), 0)

	svc.Clear()

	if device.State() != player.Stopped {
		t.Errorf("device state = %v, want Stopped", device.State())
	}
	if svc.State() != StateStopped {
		t.Errorf("State() = %v, want Stopped", svc.State())
	}
}

func TestSubscribe_TrackAndStateEvents(t *testing.T) {
	svc, _, _ := newTestService(t)
	sub := svc.Subscribe()
	tracks := makeTracks(2)

	svc.PlayAlbum(tracks, 0)

	select {
	case e := <-sub.TrackChanged:
		if e.Current == nil || e.Current.ID != "a" {
			t.Errorf("TrackChange.Current = %v, want track a", e.Current)
		}
		if e.Previous != nil {
			t.Errorf("TrackChange.Previous = %v, want nil", e.Previous)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no track event")
	}

	select {
	case e := <-sub.StateChanged:
		if e.Previous != StateStopped || e.Current != StatePlaying {
			t.Errorf("StateChange = %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no state event")
	}
}

func TestSubscribe_ModeEvents(t *testing.T) {
	svc, _, _ := newTestService(t)
	sub := svc.Subscribe()

	svc.SetRepeatMode(queue.RepeatAll)

	select {
	case e := <-sub.ModeChanged:
		if e.RepeatMode != queue.RepeatAll {
			t.Errorf("ModeChange.RepeatMode = %v, want RepeatAll", e.RepeatMode)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no mode event")
	}
}

func TestClose_StopsDeviceAndSubscriptions(t *testing.T) {
	device := player.NewMock()
	svc := New(device, queue.New(), nil)
	sub := svc.Subscribe()

	if err := svc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	select {
	case <-sub.Done:
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed")
	}
	if !device.Closed() {
		t.Error("device not closed")
	}
}
