package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/llehouerou/swell/internal/catalog"
)

// ArtistAPI is the remote surface the uploads store needs.
type ArtistAPI interface {
	MyUploads(ctx context.Context) ([]catalog.Track, []catalog.Album, error)
}

// Artist caches the signed-in artist's own uploads. The server scopes the
// listing to the caller, so there is nothing to filter locally.
type Artist struct {
	mu sync.Mutex

	api    ArtistAPI
	notify Notifier

	songs   []catalog.Track
	albums  []catalog.Album
	loading bool
	err     string
	gen     uint64
}

// NewArtist creates an empty uploads store.
func NewArtist(api ArtistAPI, notify Notifier) *Artist {
	if notify == nil {
		notify = Nop{}
	}
	return &Artist{api: api, notify: notify}
}

// Fetch replaces both upload lists wholesale from the server.
func (a *Artist) Fetch(ctx context.Context) {
	a.mu.Lock()
	a.loading = true
	a.err = ""
	gen := a.gen
	a.mu.Unlock()

	songs, albums, err := a.api.MyUploads(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen {
		return // store was reset while the request was in flight
	}
	a.loading = false
	if err != nil {
		log.Warn().Err(err).Msg("fetch uploads failed")
		a.err = "Failed to fetch uploads"
		a.notify.Error(a.err)
		return
	}
	a.songs = songs
	a.albums = albums
}

// Songs returns the artist's uploaded songs in server order.
func (a *Artist) Songs() []catalog.Track {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]catalog.Track(nil), a.songs...)
}

// Albums returns the artist's uploaded albums in server order.
func (a *Artist) Albums() []catalog.Album {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]catalog.Album(nil), a.albums...)
}

// IsLoading reports whether a call is in flight.
func (a *Artist) IsLoading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

// Err returns the last failure message, empty if none.
func (a *Artist) Err() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Reset clears the store on sign-out. In-flight responses are discarded.
func (a *Artist) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gen++
	a.songs = nil
	a.albums = nil
	a.loading = false
	a.err = ""
}
