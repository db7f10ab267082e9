package main

import (
	"testing"
	"time"

	"github.com/llehouerou/swell/internal/catalog"
	"github.com/llehouerou/swell/internal/playback"
	"github.com/llehouerou/swell/internal/player"
	"github.com/llehouerou/swell/internal/queue"
	"github.com/llehouerou/swell/internal/state"
)

func persistTracks(ids ...string) []catalog.Track {
	tracks := make([]catalog.Track, len(ids))
	for i, id := range ids {
		tracks[i] = catalog.Track{ID: id, Title: "Track " + id, AudioURL: "https://cdn.example.com/" + id + ".mp3"}
	}
	return tracks
}

func waitForSaves(t *testing.T, mock *state.Mock, n int) []state.QueueState {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if saved := mock.SavedStates(); len(saved) >= n {
			return saved
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d saves, got %v", n, mock.SavedStates())
	return nil
}

func TestPersistLoop_SavesQueueAndModeChanges(t *testing.T) {
	mock := state.NewMock()
	a := &app{
		service:  playback.New(player.NewMock(), queue.New(), nil),
		stateMgr: mock,
	}
	defer a.service.Close()

	go a.persistLoop(a.service.Subscribe())

	a.service.InitializeQueue(persistTracks("a", "b"))

	saved := waitForSaves(t, mock, 1)
	last := saved[len(saved)-1]
	if len(last.Tracks) != 2 || last.Tracks[0].ID != "a" {
		t.Errorf("saved tracks = %+v", last.Tracks)
	}
	if last.CurrentIndex != -1 {
		t.Errorf("saved index = %d, want -1 before playback starts", last.CurrentIndex)
	}

	prev := len(saved)
	a.service.SetRepeatMode(queue.RepeatAll)

	saved = waitForSaves(t, mock, prev+1)
	last = saved[len(saved)-1]
	if last.RepeatMode != int(queue.RepeatAll) {
		t.Errorf("saved repeat mode = %d, want %d", last.RepeatMode, int(queue.RepeatAll))
	}
}

func TestPersistLoop_NoStateManager(t *testing.T) {
	a := &app{service: playback.New(player.NewMock(), queue.New(), nil)}

	loopDone := make(chan struct{})
	go func() {
		a.persistLoop(a.service.Subscribe())
		close(loopDone)
	}()

	// Events without a state manager must be a no-op, not a panic.
	a.service.InitializeQueue(persistTracks("a"))

	if err := a.service.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	select {
	case <-loopDone:
	case <-time.After(2 * time.Second):
		t.Fatal("persist loop did not exit after Close")
	}
}

func TestRestoreQueue(t *testing.T) {
	mock := state.NewMock()
	mock.SetQueue(&state.QueueState{
		CurrentIndex: 1,
		RepeatMode:   int(queue.RepeatAll),
		Shuffle:      true,
		Tracks:       persistTracks("a", "b", "c"),
	})

	q := queue.New()
	restoreQueue(q, mock)

	if q.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1", q.CurrentIndex())
	}
	if q.IsPlaying() {
		t.Error("restore must not start playback")
	}
	if q.RepeatMode() != queue.RepeatAll {
		t.Errorf("RepeatMode() = %v, want RepeatAll", q.RepeatMode())
	}
	if !q.Shuffle() {
		t.Error("Shuffle() = false, want true")
	}
}

func TestRestoreQueue_EmptyState(t *testing.T) {
	q := queue.New()
	restoreQueue(q, state.NewMock())

	if !q.IsEmpty() || q.CurrentIndex() != -1 {
		t.Errorf("queue = %d tracks, index %d, want empty", q.Len(), q.CurrentIndex())
	}
}
