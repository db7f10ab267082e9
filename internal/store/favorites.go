package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/llehouerou/swell/internal/catalog"
)

// FavoritesAPI is the remote surface the favorites store needs.
type FavoritesAPI interface {
	Favorites(ctx context.Context) ([]catalog.Track, error)
	AddFavorite(ctx context.Context, songID string) error
	RemoveFavorite(ctx context.Context, songID string) error
	CheckFavorite(ctx context.Context, songID string) (bool, error)
}

// Favorites caches the user's favorite tracks: a hydrated list for display
// and an id set for O(1) membership tests. The two are kept strictly in
// sync; mutations update the set optimistically and reconcile the list with
// a full re-fetch.
type Favorites struct {
	mu sync.Mutex

	api    FavoritesAPI
	notify Notifier

	favorites []catalog.Track
	ids       map[string]struct{}
	loading   bool
	err       string
	gen       uint64
}

// NewFavorites creates an empty favorites store.
func NewFavorites(api FavoritesAPI, notify Notifier) *Favorites {
	if notify == nil {
		notify = Nop{}
	}
	return &Favorites{
		api:    api,
		notify: notify,
		ids:    make(map[string]struct{}),
	}
}

// Fetch replaces the cache wholesale from the server.
func (f *Favorites) Fetch(ctx context.Context) {
	f.mu.Lock()
	f.loading = true
	f.err = ""
	gen := f.gen
	f.mu.Unlock()

	songs, err := f.api.Favorites(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return // store was reset while the request was in flight
	}
	f.loading = false
	if err != nil {
		log.Warn().Err(err).Msg("fetch favorites failed")
		f.err = "Failed to fetch favorites"
		f.notify.Error(f.err)
		return
	}
	f.favorites = songs
	f.ids = make(map[string]struct{}, len(songs))
	for _, song := range songs {
		f.ids[song.ID] = struct{}{}
	}
}

// Add marks a song as favorite. The id set is updated before the remote call
// returns so IsFavorite flips immediately; on failure the optimistic update
// is rolled back, on success the hydrated list is re-fetched.
func (f *Favorites) Add(ctx context.Context, songID string) {
	f.mu.Lock()
	f.loading = true
	f.err = ""
	gen := f.gen
	_, existed := f.ids[songID]
	f.ids[songID] = struct{}{}
	f.mu.Unlock()

	err := f.api.AddFavorite(ctx, songID)

	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return
	}
	f.loading = false
	if err != nil {
		if !existed {
			delete(f.ids, songID)
		}
		f.err = "Failed to add to favorites"
		f.mu.Unlock()
		log.Warn().Err(err).Str("song", songID).Msg("add favorite failed")
		f.notify.Error("Failed to add to favorites")
		return
	}
	f.mu.Unlock()

	f.notify.Success("Added to favorites")
	f.Fetch(ctx)
}

// Remove unmarks a song as favorite, mirroring Add.
func (f *Favorites) Remove(ctx context.Context, songID string) {
	f.mu.Lock()
	f.loading = true
	f.err = ""
	gen := f.gen
	_, existed := f.ids[songID]
	delete(f.ids, songID)
	f.mu.Unlock()

	err := f.api.RemoveFavorite(ctx, songID)

	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return
	}
	f.loading = false
	if err != nil {
		if existed {
			f.ids[songID] = struct{}{}
		}
		f.err = "Failed to remove from favorites"
		f.mu.Unlock()
		log.Warn().Err(err).Str("song", songID).Msg("remove favorite failed")
		f.notify.Error("Failed to remove from favorites")
		return
	}
	f.mu.Unlock()

	f.notify.Success("Removed from favorites")
	f.Fetch(ctx)
}

// CheckRemote asks the server for the authoritative membership of one song
// and folds the answer into the set. Failures leave the set untouched.
func (f *Favorites) CheckRemote(ctx context.Context, songID string) bool {
	fav, err := f.api.CheckFavorite(ctx, songID)
	if err != nil {
		log.Debug().Err(err).Str("song", songID).Msg("check favorite failed")
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if fav {
		f.ids[songID] = struct{}{}
	} else {
		delete(f.ids, songID)
	}
	return fav
}

// IsFavorite reports membership from the local set. O(1).
func (f *Favorites) IsFavorite(songID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.ids[songID]
	return ok
}

// Tracks returns the hydrated favorites in server order.
func (f *Favorites) Tracks() []catalog.Track {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]catalog.Track, len(f.favorites))
	copy(result, f.favorites)
	return result
}

// IsLoading reports whether a call is in flight.
func (f *Favorites) IsLoading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Err returns the last failure message, empty if none.
func (f *Favorites) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Reset clears the store on sign-out. In-flight responses are discarded.
func (f *Favorites) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	f.favorites = nil
	f.ids = make(map[string]struct{})
	f.loading = false
	f.err = ""
}
