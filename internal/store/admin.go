package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/llehouerou/swell/internal/catalog"
)

// AdminAPI is the remote surface the moderation store needs.
type AdminAPI interface {
	PendingSongs(ctx context.Context) ([]catalog.Track, error)
	PendingAlbums(ctx context.Context) ([]catalog.Album, error)
	ApproveSong(ctx context.Context, id string) error
	RejectSong(ctx context.Context, id string) error
	ApproveAlbum(ctx context.Context, id string) error
	RejectAlbum(ctx context.Context, id string) error
	Users(ctx context.Context) ([]catalog.User, error)
	UpdateUserRole(ctx context.Context, id string, role catalog.Role) (*catalog.User, error)
	DeleteUser(ctx context.Context, id string) error
	Stats(ctx context.Context) (*catalog.Stats, error)
}

// Admin caches moderation queues and the user roster. Mutations remove or
// patch entries locally only after the server confirms.
type Admin struct {
	mu sync.Mutex

	api    AdminAPI
	notify Notifier

	pendingSongs  []catalog.Track
	pendingAlbums []catalog.Album
	users         []catalog.User
	stats         *catalog.Stats
	loading       bool
	err           string
	gen           uint64
}

// NewAdmin creates an empty moderation store.
func NewAdmin(api AdminAPI, notify Notifier) *Admin {
	if notify == nil {
		notify = Nop{}
	}
	return &Admin{api: api, notify: notify}
}

// FetchPendingSongs replaces the pending song queue.
func (a *Admin) FetchPendingSongs(ctx context.Context) {
	a.fetch(ctx, "Failed to fetch pending songs", func(ctx context.Context) error {
		songs, err := a.api.PendingSongs(ctx)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.pendingSongs = songs
		a.mu.Unlock()
		return nil
	})
}

// FetchPendingAlbums replaces the pending album queue.
func (a *Admin) FetchPendingAlbums(ctx context.Context) {
	a.fetch(ctx, "Failed to fetch pending albums", func(ctx context.Context) error {
		albums, err := a.api.PendingAlbums(ctx)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.pendingAlbums = albums
		a.mu.Unlock()
		return nil
	})
}

// FetchUsers replaces the user roster.
func (a *Admin) FetchUsers(ctx context.Context) {
	a.fetch(ctx, "Failed to fetch users", func(ctx context.Context) error {
		users, err := a.api.Users(ctx)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.users = users
		a.mu.Unlock()
		return nil
	})
}

// FetchStats refreshes the dashboard counters.
func (a *Admin) FetchStats(ctx context.Context) {
	a.fetch(ctx, "Failed to fetch stats", func(ctx context.Context) error {
		stats, err := a.api.Stats(ctx)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.stats = stats
		a.mu.Unlock()
		return nil
	})
}

// ApproveSong publishes a pending song and drops it from the queue.
func (a *Admin) ApproveSong(ctx context.Context, id string) {
	a.moderateSong(ctx, id, "Song approved", "Failed to approve song", a.api.ApproveSong)
}

// RejectSong discards a pending song and drops it from the queue.
func (a *Admin) RejectSong(ctx context.Context, id string) {
	a.moderateSong(ctx, id, "Song rejected", "Failed to reject song", a.api.RejectSong)
}

// ApproveAlbum publishes a pending album and drops it from the queue.
func (a *Admin) ApproveAlbum(ctx context.Context, id string) {
	a.moderateAlbum(ctx, id, "Album approved", "Failed to approve album", a.api.ApproveAlbum)
}

// RejectAlbum discards a pending album and drops it from the queue.
func (a *Admin) RejectAlbum(ctx context.Context, id string) {
	a.moderateAlbum(ctx, id, "Album rejected", "Failed to reject album", a.api.RejectAlbum)
}

// UpdateUserRole changes an account role, patching in the server's answer.
func (a *Admin) UpdateUserRole(ctx context.Context, id string, role catalog.Role) {
	a.mu.Lock()
	a.loading = true
	a.err = ""
	gen := a.gen
	a.mu.Unlock()

	user, err := a.api.UpdateUserRole(ctx, id, role)

	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		return
	}
	a.loading = false
	if err != nil {
		a.err = "Failed to update user"
		a.mu.Unlock()
		log.Warn().Err(err).Str("user", id).Msg("update user failed")
		a.notify.Error("Failed to update user")
		return
	}
	for i := range a.users {
		if a.users[i].ID == id {
			a.users[i] = *user
		}
	}
	a.mu.Unlock()
	a.notify.Success("User updated")
}

// DeleteUser removes an account and drops it from the roster.
func (a *Admin) DeleteUser(ctx context.Context, id string) {
	a.mu.Lock()
	a.loading = true
	a.err = ""
	gen := a.gen
	a.mu.Unlock()

	err := a.api.DeleteUser(ctx, id)

	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		return
	}
	a.loading = false
	if err != nil {
		a.err = "Failed to delete user"
		a.mu.Unlock()
		log.Warn().Err(err).Str("user", id).Msg("delete user failed")
		a.notify.Error("Failed to delete user")
		return
	}
	kept := a.users[:0]
	for _, u := range a.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	a.users = kept
	a.mu.Unlock()
	a.notify.Success("User deleted")
}

func (a *Admin) fetch(ctx context.Context, failMsg string, load func(context.Context) error) {
	a.mu.Lock()
	a.loading = true
	a.err = ""
	gen := a.gen
	a.mu.Unlock()

	err := load(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen {
		return
	}
	a.loading = false
	if err != nil {
		log.Warn().Err(err).Msg(failMsg)
		a.err = failMsg
		a.notify.Error(failMsg)
	}
}

func (a *Admin) moderateSong(ctx context.Context, id, okMsg, failMsg string, call func(context.Context, string) error) {
	if !a.moderate(ctx, id, okMsg, failMsg, call) {
		return
	}
	a.mu.Lock()
	kept := a.pendingSongs[:0]
	for _, s := range a.pendingSongs {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	a.pendingSongs = kept
	a.mu.Unlock()
}

func (a *Admin) moderateAlbum(ctx context.Context, id, okMsg, failMsg string, call func(context.Context, string) error) {
	if !a.moderate(ctx, id, okMsg, failMsg, call) {
		return
	}
	a.mu.Lock()
	kept := a.pendingAlbums[:0]
	for _, al := range a.pendingAlbums {
		if al.ID != id {
			kept = append(kept, al)
		}
	}
	a.pendingAlbums = kept
	a.mu.Unlock()
}

// moderate runs one approve/reject call and reports whether the local queue
// should drop the entry.
func (a *Admin) moderate(ctx context.Context, id, okMsg, failMsg string, call func(context.Context, string) error) bool {
	a.mu.Lock()
	a.loading = true
	a.err = ""
	gen := a.gen
	a.mu.Unlock()

	err := call(ctx, id)

	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		return false
	}
	a.loading = false
	if err != nil {
		a.err = failMsg
		a.mu.Unlock()
		log.Warn().Err(err).Str("id", id).Msg(failMsg)
		a.notify.Error(failMsg)
		return false
	}
	a.mu.Unlock()
	a.notify.Success(okMsg)
	return true
}

// PendingSongs returns the cached moderation queue for songs.
func (a *Admin) PendingSongs() []catalog.Track {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]catalog.Track(nil), a.pendingSongs...)
}

// PendingAlbums returns the cached moderation queue for albums.
func (a *Admin) PendingAlbums() []catalog.Album {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]catalog.Album(nil), a.pendingAlbums...)
}

// Users returns the cached user roster.
func (a *Admin) Users() []catalog.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]catalog.User(nil), a.users...)
}

// Stats returns the cached dashboard counters, nil before the first fetch.
func (a *Admin) Stats() *catalog.Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stats == nil {
		return nil
	}
	stats := *a.stats
	return &stats
}

// IsLoading reports whether a call is in flight.
func (a *Admin) IsLoading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

// Err returns the last failure message, empty if none.
func (a *Admin) Err() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Reset clears all moderation state on sign-out.
func (a *Admin) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gen++
	a.pendingSongs = nil
	a.pendingAlbums = nil
	a.users = nil
	a.stats = nil
	a.loading = false
	a.err = ""
}
