package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/llehouerou/swell/internal/catalog"
)

// PlaylistsAPI is the remote surface the playlists store needs.
type PlaylistsAPI interface {
	Playlists(ctx context.Context) ([]catalog.Playlist, error)
	PlaylistByID(ctx context.Context, id string) (*catalog.Playlist, error)
	CreatePlaylist(ctx context.Context, name, description string) (*catalog.Playlist, error)
	UpdatePlaylist(ctx context.Context, id, name, description string) (*catalog.Playlist, error)
	DeletePlaylist(ctx context.Context, id string) error
	AddPlaylistSong(ctx context.Context, playlistID, songID string) (*catalog.Playlist, error)
	RemovePlaylistSong(ctx context.Context, playlistID, songID string) (*catalog.Playlist, error)
}

// Playlists caches the user's playlists. The server owns track order, so
// mutations patch in the representation it returns instead of predicting
// locally.
type Playlists struct {
	mu sync.Mutex

	api    PlaylistsAPI
	notify Notifier

	playlists []catalog.Playlist
	current   *catalog.Playlist
	loading   bool
	err       string
	gen       uint64
}

// NewPlaylists creates an empty playlists store.
func NewPlaylists(api PlaylistsAPI, notify Notifier) *Playlists {
	if notify == nil {
		notify = Nop{}
	}
	return &Playlists{api: api, notify: notify}
}

// Fetch replaces the playlist list wholesale from the server.
func (p *Playlists) Fetch(ctx context.Context) {
	p.mu.Lock()
	p.loading = true
	p.err = ""
	gen := p.gen
	p.mu.Unlock()

	playlists, err := p.api.Playlists(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return
	}
	p.loading = false
	if err != nil {
		log.Warn().Err(err).Msg("fetch playlists failed")
		p.err = "Failed to fetch playlists"
		p.notify.Error(p.err)
		return
	}
	p.playlists = playlists
}

// FetchByID loads one playlist with hydrated tracks as the current playlist.
func (p *Playlists) FetchByID(ctx context.Context, id string) {
	p.mu.Lock()
	p.loading = true
	p.err = ""
	gen := p.gen
	p.mu.Unlock()

	playlist, err := p.api.PlaylistByID(ctx, id)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return
	}
	p.loading = false
	if err != nil {
		log.Warn().Err(err).Str("playlist", id).Msg("fetch playlist failed")
		p.err = "Failed to fetch playlist"
		p.notify.Error(p.err)
		return
	}
	p.current = playlist
}

// Create makes a new playlist and prepends the server's representation.
func (p *Playlists) Create(ctx context.Context, name, description string) {
	p.mu.Lock()
	p.loading = true
	p.err = ""
	gen := p.gen
	p.mu.Unlock()

	playlist, err := p.api.CreatePlaylist(ctx, name, description)

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.loading = false
	if err != nil {
		p.err = "Failed to create playlist"
		p.mu.Unlock()
		log.Warn().Err(err).Msg("create playlist failed")
		p.notify.Error("Failed to create playlist")
		return
	}
	p.playlists = append([]catalog.Playlist{*playlist}, p.playlists...)
	p.mu.Unlock()
	p.notify.Success("Playlist created")
}

// Update renames or redescribes a playlist, patching in the returned
// representation.
func (p *Playlists) Update(ctx context.Context, id, name, description string) {
	p.mutate(ctx, id, "Failed to update playlist", "Playlist updated",
		func(ctx context.Context) (*catalog.Playlist, error) {
			return p.api.UpdatePlaylist(ctx, id, name, description)
		})
}

// Delete removes a playlist locally only after the server confirms.
func (p *Playlists) Delete(ctx context.Context, id string) {
	p.mu.Lock()
	p.loading = true
	p.err = ""
	gen := p.gen
	p.mu.Unlock()

	err := p.api.DeletePlaylist(ctx, id)

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.loading = false
	if err != nil {
		p.err = "Failed to delete playlist"
		p.mu.Unlock()
		log.Warn().Err(err).Str("playlist", id).Msg("delete playlist failed")
		p.notify.Error("Failed to delete playlist")
		return
	}
	kept := p.playlists[:0]
	for _, pl := range p.playlists {
		if pl.ID != id {
			kept = append(kept, pl)
		}
	}
	p.playlists = kept
	if p.current != nil && p.current.ID == id {
		p.current = nil
	}
	p.mu.Unlock()
	p.notify.Success("Playlist deleted")
}

// AddSong appends a song to a playlist; the server decides the final order.
func (p *Playlists) AddSong(ctx context.Context, playlistID, songID string) {
	p.mutate(ctx, playlistID, "Failed to add song to playlist", "Song added to playlist",
		func(ctx context.Context) (*catalog.Playlist, error) {
			return p.api.AddPlaylistSong(ctx, playlistID, songID)
		})
}

// RemoveSong removes a song from a playlist.
func (p *Playlists) RemoveSong(ctx context.Context, playlistID, songID string) {
	p.mutate(ctx, playlistID, "Failed to remove song from playlist", "Song removed from playlist",
		func(ctx context.Context) (*catalog.Playlist, error) {
			return p.api.RemovePlaylistSong(ctx, playlistID, songID)
		})
}

// mutate runs a remote mutation returning the playlist's new representation
// and patches it into the list and the current playlist.
func (p *Playlists) mutate(ctx context.Context, id, failMsg, okMsg string, call func(context.Context) (*catalog.Playlist, error)) {
	p.mu.Lock()
	p.loading = true
	p.err = ""
	gen := p.gen
	p.mu.Unlock()

	updated, err := call(ctx)

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.loading = false
	if err != nil {
		p.err = failMsg
		p.mu.Unlock()
		log.Warn().Err(err).Str("playlist", id).Msg(failMsg)
		p.notify.Error(failMsg)
		return
	}
	for i := range p.playlists {
		if p.playlists[i].ID == id {
			p.playlists[i] = *updated
		}
	}
	if p.current != nil && p.current.ID == id {
		p.current = updated
	}
	p.mu.Unlock()
	p.notify.Success(okMsg)
}

// All returns the cached playlists.
func (p *Playlists) All() []catalog.Playlist {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := make([]catalog.Playlist, len(p.playlists))
	copy(result, p.playlists)
	return result
}

// Current returns the playlist loaded by FetchByID, or nil.
func (p *Playlists) Current() *catalog.Playlist {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// IsLoading reports whether a call is in flight.
func (p *Playlists) IsLoading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Err returns the last failure message, empty if none.
func (p *Playlists) Err() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Reset clears the store on sign-out.
func (p *Playlists) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.playlists = nil
	p.current = nil
	p.loading = false
	p.err = ""
}
