package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/llehouerou/swell/internal/catalog"
)

// MusicAPI is the remote surface the catalog accessor needs.
type MusicAPI interface {
	Songs(ctx context.Context, limit, offset int, query string) (*catalog.Page, error)
	FeaturedSongs(ctx context.Context) ([]catalog.Track, error)
	MadeForYouSongs(ctx context.Context) ([]catalog.Track, error)
	TrendingSongs(ctx context.Context) ([]catalog.Track, error)
	Albums(ctx context.Context) ([]catalog.Album, error)
	AlbumByID(ctx context.Context, id string) (*catalog.Album, error)
}

// Music is the read-only catalog accessor: home shelves, albums, and the
// paginated full song listing. No mutation logic lives here.
type Music struct {
	mu sync.Mutex

	api    MusicAPI
	notify Notifier

	allSongs     []catalog.Track
	hasMoreSongs bool
	nextOffset   int
	query        string

	featured   []catalog.Track
	madeForYou []catalog.Track
	trending   []catalog.Track

	albums       []catalog.Album
	currentAlbum *catalog.Album

	loading bool
	err     string
	gen     uint64
}

// NewMusic creates an empty catalog accessor.
func NewMusic(api MusicAPI, notify Notifier) *Music {
	if notify == nil {
		notify = Nop{}
	}
	return &Music{api: api, notify: notify, hasMoreSongs: true}
}

// FetchSongs loads one page of the song listing. Offset zero (or a changed
// query) replaces the accumulated listing; later offsets extend it.
func (m *Music) FetchSongs(ctx context.Context, limit, offset int, query string) {
	m.mu.Lock()
	m.loading = true
	m.err = ""
	gen := m.gen
	m.mu.Unlock()

	page, err := m.api.Songs(ctx, limit, offset, query)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return
	}
	m.loading = false
	if err != nil {
		log.Warn().Err(err).Msg("fetch songs failed")
		m.err = "Failed to fetch songs"
		m.notify.Error(m.err)
		return
	}
	if offset == 0 || query != m.query {
		m.allSongs = page.Tracks
	} else {
		m.allSongs = append(m.allSongs, page.Tracks...)
	}
	m.query = query
	m.nextOffset = offset + len(page.Tracks)
	m.hasMoreSongs = page.HasMore
}

// FetchShelves loads the featured, made-for-you, and trending shelves.
// Each shelf fails independently; one bad shelf does not blank the others.
func (m *Music) FetchShelves(ctx context.Context) {
	m.mu.Lock()
	m.loading = true
	m.err = ""
	gen := m.gen
	m.mu.Unlock()

	featured, errFeatured := m.api.FeaturedSongs(ctx)
	madeForYou, errMade := m.api.MadeForYouSongs(ctx)
	trending, errTrending := m.api.TrendingSongs(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return
	}
	m.loading = false
	if errFeatured == nil {
		m.featured = featured
	}
	if errMade == nil {
		m.madeForYou = madeForYou
	}
	if errTrending == nil {
		m.trending = trending
	}
	if errFeatured != nil || errMade != nil || errTrending != nil {
		log.Warn().
			AnErr("featured", errFeatured).
			AnErr("madeForYou", errMade).
			AnErr("trending", errTrending).
			Msg("fetch shelves partially failed")
		m.err = "Failed to fetch songs"
		m.notify.Error(m.err)
	}
}

// FetchAlbums replaces the album listing wholesale.
func (m *Music) FetchAlbums(ctx context.Context) {
	m.mu.Lock()
	m.loading = true
	m.err = ""
	gen := m.gen
	m.mu.Unlock()

	albums, err := m.api.Albums(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return
	}
	m.loading = false
	if err != nil {
		log.Warn().Err(err).Msg("fetch albums failed")
		m.err = "Failed to fetch albums"
		m.notify.Error(m.err)
		return
	}
	m.albums = albums
}

// FetchAlbum loads one album with its tracks as the current album.
func (m *Music) FetchAlbum(ctx context.Context, id string) {
	m.mu.Lock()
	m.loading = true
	m.err = ""
	gen := m.gen
	m.mu.Unlock()

	album, err := m.api.AlbumByID(ctx, id)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return
	}
	m.loading = false
	if err != nil {
		log.Warn().Err(err).Str("album", id).Msg("fetch album failed")
		m.err = "Failed to fetch album"
		m.notify.Error(m.err)
		return
	}
	m.currentAlbum = album
}

// AllSongs returns the accumulated paginated listing.
func (m *Music) AllSongs() []catalog.Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]catalog.Track, len(m.allSongs))
	copy(result, m.allSongs)
	return result
}

// HasMoreSongs reports whether another page is available.
func (m *Music) HasMoreSongs() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasMoreSongs
}

// NextOffset returns the offset of the next unfetched page.
func (m *Music) NextOffset() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nextOffset
}

// Featured returns the featured shelf.
func (m *Music) Featured() []catalog.Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]catalog.Track(nil), m.featured...)
}

// MadeForYou returns the personalized shelf.
func (m *Music) MadeForYou() []catalog.Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]catalog.Track(nil), m.madeForYou...)
}

// Trending returns the trending shelf.
func (m *Music) Trending() []catalog.Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]catalog.Track(nil), m.trending...)
}

// Albums returns the cached album listing.
func (m *Music) Albums() []catalog.Album {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]catalog.Album(nil), m.albums...)
}

// CurrentAlbum returns the album loaded by FetchAlbum, or nil.
func (m *Music) CurrentAlbum() *catalog.Album {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentAlbum
}

// IsLoading reports whether a call is in flight.
func (m *Music) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Err returns the last failure message, empty if none.
func (m *Music) Err() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Reset clears the accessor.
func (m *Music) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.allSongs = nil
	m.hasMoreSongs = true
	m.nextOffset = 0
	m.query = ""
	m.featured = nil
	m.madeForYou = nil
	m.trending = nil
	m.albums = nil
	m.currentAlbum = nil
	m.loading = false
	m.err = ""
}
