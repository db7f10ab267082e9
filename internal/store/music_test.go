package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/llehouerou/swell/internal/catalog"
)

// fakeMusicAPI implements MusicAPI with function fields.
type fakeMusicAPI struct {
	songs      func(ctx context.Context, limit, offset int, query string) (*catalog.Page, error)
	featured   func(ctx context.Context) ([]catalog.Track, error)
	madeForYou func(ctx context.Context) ([]catalog.Track, error)
	trending   func(ctx context.Context) ([]catalog.Track, error)
	albums     func(ctx context.Context) ([]catalog.Album, error)
	albumByID  func(ctx context.Context, id string) (*catalog.Album, error)
}

func (f *fakeMusicAPI) Songs(ctx context.Context, limit, offset int, query string) (*catalog.Page, error) {
	return f.songs(ctx, limit, offset, query)
}

func (f *fakeMusicAPI) FeaturedSongs(ctx context.Context) ([]catalog.Track, error) {
	if f.featured == nil {
		return nil, nil
	}
	return f.featured(ctx)
}

func (f *fakeMusicAPI) MadeForYouSongs(ctx context.Context) ([]catalog.Track, error) {
	if f.madeForYou == nil {
		return nil, nil
	}
	return f.madeForYou(ctx)
}

func (f *fakeMusicAPI) TrendingSongs(ctx context.Context) ([]catalog.Track, error) {
	if f.trending == nil {
		return nil, nil
	}
	return f.trending(ctx)
}

func (f *fakeMusicAPI) Albums(ctx context.Context) ([]catalog.Album, error) {
	if f.albums == nil {
		return nil, nil
	}
	return f.albums(ctx)
}

func (f *fakeMusicAPI) AlbumByID(ctx context.Context, id string) (*catalog.Album, error) {
	if f.albumByID == nil {
		return nil, nil
	}
	return f.albumByID(ctx, id)
}

// pagedCatalog serves slices of a fixed track list like the server would.
func pagedCatalog(total int) func(ctx context.Context, limit, offset int, query string) (*catalog.Page, error) {
	all := make([]catalog.Track, total)
	for i := range all {
		all[i] = catalog.Track{ID: fmt.Sprintf("t%03d", i)}
	}
	return func(_ context.Context, limit, offset int, _ string) (*catalog.Page, error) {
		if offset >= total {
			return &catalog.Page{Total: total}, nil
		}
		end := offset + limit
		if end > total {
			end = total
		}
		return &catalog.Page{
			Tracks:  all[offset:end],
			Total:   total,
			HasMore: end < total,
		}, nil
	}
}

func TestMusic_FetchSongs_Paginates(t *testing.T) {
	m := NewMusic(&fakeMusicAPI{songs: pagedCatalog(25)}, nil)
	ctx := context.Background()

	m.FetchSongs(ctx, 10, 0, "")
	if got := len(m.AllSongs()); got != 10 {
		t.Fatalf("after page 1: %d songs, want 10", got)
	}
	if !m.HasMoreSongs() {
		t.Fatal("HasMoreSongs() = false, want true")
	}
	if m.NextOffset() != 10 {
		t.Fatalf("NextOffset() = %d, want 10", m.NextOffset())
	}

	m.FetchSongs(ctx, 10, m.NextOffset(), "")
	m.FetchSongs(ctx, 10, m.NextOffset(), "")

	if got := len(m.AllSongs()); got != 25 {
		t.Fatalf("after all pages: %d songs, want 25", got)
	}
	if m.HasMoreSongs() {
		t.Error("HasMoreSongs() = true after the last page")
	}
}

func TestMusic_FetchSongs_OffsetZeroReplaces(t *testing.T) {
	m := NewMusic(&fakeMusicAPI{songs: pagedCatalog(25)}, nil)
	ctx := context.Background()

	m.FetchSongs(ctx, 10, 0, "")
	m.FetchSongs(ctx, 10, 10, "")
	m.FetchSongs(ctx, 10, 0, "")

	if got := len(m.AllSongs()); got != 10 {
		t.Errorf("offset-zero fetch accumulated: %d songs, want 10", got)
	}
}

func TestMusic_FetchSongs_QueryChangeReplaces(t *testing.T) {
	m := NewMusic(&fakeMusicAPI{songs: pagedCatalog(25)}, nil)
	ctx := context.Background()

	m.FetchSongs(ctx, 10, 0, "")
	m.FetchSongs(ctx, 10, 10, "aurora")

	if got := len(m.AllSongs()); got != 10 {
		t.Errorf("query change did not replace the listing: %d songs", got)
	}
}

func TestMusic_FetchSongs_Error(t *testing.T) {
	api := &fakeMusicAPI{
		songs: func(context.Context, int, int, string) (*catalog.Page, error) {
			return nil, errors.New("boom")
		},
	}
	sink := &recorder{}
	m := NewMusic(api, sink)

	m.FetchSongs(context.Background(), 10, 0, "")

	if m.Err() != "Failed to fetch songs" {
		t.Errorf("Err() = %q", m.Err())
	}
	if len(sink.Errors()) != 1 {
		t.Errorf("notifier errors = %v, want 1", sink.Errors())
	}
}

func TestMusic_FetchShelves_IndependentFailure(t *testing.T) {
	api := &fakeMusicAPI{
		songs: pagedCatalog(0),
		featured: func(context.Context) ([]catalog.Track, error) {
			return favTracks("f1", "f2"), nil
		},
		madeForYou: func(context.Context) ([]catalog.Track, error) {
			return nil, errors.New("boom")
		},
		trending: func(context.Context) ([]catalog.Track, error) {
			return favTracks("t1"), nil
		},
	}
	m := NewMusic(api, nil)

	m.FetchShelves(context.Background())

	if got := len(m.Featured()); got != 2 {
		t.Errorf("Featured() = %d tracks, want 2", got)
	}
	if got := len(m.Trending()); got != 1 {
		t.Errorf("Trending() = %d tracks, want 1", got)
	}
	if len(m.MadeForYou()) != 0 {
		t.Error("failed shelf should stay empty")
	}
	if m.Err() == "" {
		t.Error("partial shelf failure should record an error")
	}
}

func TestMusic_FetchAlbum(t *testing.T) {
	api := &fakeMusicAPI{
		songs: pagedCatalog(0),
		albumByID: func(_ context.Context, id string) (*catalog.Album, error) {
			return &catalog.Album{ID: id, Title: "Night Drive", Tracks: favTracks("a", "b")}, nil
		},
	}
	m := NewMusic(api, nil)

	m.FetchAlbum(context.Background(), "al1")

	al := m.CurrentAlbum()
	if al == nil || al.ID != "al1" || len(al.Tracks) != 2 {
		t.Errorf("CurrentAlbum() = %+v", al)
	}
}

func TestMusic_Reset(t *testing.T) {
	m := NewMusic(&fakeMusicAPI{songs: pagedCatalog(25)}, nil)
	m.FetchSongs(context.Background(), 10, 0, "")

	m.Reset()

	if len(m.AllSongs()) != 0 || m.NextOffset() != 0 {
		t.Error("Reset did not clear the listing")
	}
	if !m.HasMoreSongs() {
		t.Error("Reset should restore the has-more default")
	}
}
