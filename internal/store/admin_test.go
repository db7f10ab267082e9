package store

import (
	"context"
	"errors"
	"testing"

	"github.com/llehouerou/swell/internal/catalog"
)

// fakeAdminAPI implements AdminAPI with function fields. Nil fields succeed.
type fakeAdminAPI struct {
	pendingSongs   func(ctx context.Context) ([]catalog.Track, error)
	pendingAlbums  func(ctx context.Context) ([]catalog.Album, error)
	approveSong    func(ctx context.Context, id string) error
	rejectSong     func(ctx context.Context, id string) error
	users          func(ctx context.Context) ([]catalog.User, error)
	updateUserRole func(ctx context.Context, id string, role catalog.Role) (*catalog.User, error)
	deleteUser     func(ctx context.Context, id string) error
	stats          func(ctx context.Context) (*catalog.Stats, error)
}

func (f *fakeAdminAPI) PendingSongs(ctx context.Context) ([]catalog.Track, error) {
	if f.pendingSongs == nil {
		return nil, nil
	}
	return f.pendingSongs(ctx)
}

func (f *fakeAdminAPI) PendingAlbums(ctx context.Context) ([]catalog.Album, error) {
	if f.pendingAlbums == nil {
		return nil, nil
	}
	return f.pendingAlbums(ctx)
}

func (f *fakeAdminAPI) ApproveSong(ctx context.Context, id string) error {
	if f.approveSong == nil {
		return nil
	}
	return f.approveSong(ctx, id)
}

func (f *fakeAdminAPI) RejectSong(ctx context.Context, id string) error {
	if f.rejectSong == nil {
		return nil
	}
	return f.rejectSong(ctx, id)
}

func (f *fakeAdminAPI) ApproveAlbum(context.Context, string) error { return nil }

func (f *fakeAdminAPI) RejectAlbum(context.Context, string) error { return nil }

func (f *fakeAdminAPI) Users(ctx context.Context) ([]catalog.User, error) {
	if f.users == nil {
		return nil, nil
	}
	return f.users(ctx)
}

func (f *fakeAdminAPI) UpdateUserRole(ctx context.Context, id string, role catalog.Role) (*catalog.User, error) {
	if f.updateUserRole == nil {
		return &catalog.User{ID: id, Role: role}, nil
	}
	return f.updateUserRole(ctx, id, role)
}

func (f *fakeAdminAPI) DeleteUser(ctx context.Context, id string) error {
	if f.deleteUser == nil {
		return nil
	}
	return f.deleteUser(ctx, id)
}

func (f *fakeAdminAPI) Stats(ctx context.Context) (*catalog.Stats, error) {
	if f.stats == nil {
		return &catalog.Stats{}, nil
	}
	return f.stats(ctx)
}

func TestAdmin_ApproveSong_DropsFromQueue(t *testing.T) {
	api := &fakeAdminAPI{
		pendingSongs: func(context.Context) ([]catalog.Track, error) {
			return favTracks("s1", "s2"), nil
		},
	}
	sink := &recorder{}
	a := NewAdmin(api, sink)
	ctx := context.Background()
	a.FetchPendingSongs(ctx)

	a.ApproveSong(ctx, "s1")

	if got := a.PendingSongs(); len(got) != 1 || got[0].ID != "s2" {
		t.Errorf("PendingSongs() = %v, want [s2]", got)
	}
	if got := sink.Successes(); len(got) != 1 || got[0] != "Song approved" {
		t.Errorf("successes = %v", got)
	}
}

func TestAdmin_RejectSongFailure_KeepsQueue(t *testing.T) {
	api := &fakeAdminAPI{
		pendingSongs: func(context.Context) ([]catalog.Track, error) {
			return favTracks("s1"), nil
		},
		rejectSong: func(context.Context, string) error {
			return errors.New("boom")
		},
	}
	a := NewAdmin(api, nil)
	ctx := context.Background()
	a.FetchPendingSongs(ctx)

	a.RejectSong(ctx, "s1")

	if got := a.PendingSongs(); len(got) != 1 {
		t.Errorf("failed rejection dropped the entry: %v", got)
	}
	if a.Err() != "Failed to reject song" {
		t.Errorf("Err() = %q", a.Err())
	}
}

func TestAdmin_UpdateUserRole_PatchesRoster(t *testing.T) {
	api := &fakeAdminAPI{
		users: func(context.Context) ([]catalog.User, error) {
			return []catalog.User{
				{ID: "u1", FullName: "Sam", Role: catalog.RoleListener},
				{ID: "u2", FullName: "Alex", Role: catalog.RoleListener},
			}, nil
		},
	}
	a := NewAdmin(api, nil)
	ctx := context.Background()
	a.FetchUsers(ctx)

	a.UpdateUserRole(ctx, "u2", catalog.RoleArtist)

	users := a.Users()
	if users[1].Role != catalog.RoleArtist {
		t.Errorf("Users()[1] = %+v, want artist role", users[1])
	}
	if users[0].Role != catalog.RoleListener {
		t.Errorf("Users()[0] changed: %+v", users[0])
	}
}

func TestAdmin_DeleteUser(t *testing.T) {
	api := &fakeAdminAPI{
		users: func(context.Context) ([]catalog.User, error) {
			return []catalog.User{{ID: "u1"}, {ID: "u2"}}, nil
		},
	}
	a := NewAdmin(api, nil)
	ctx := context.Background()
	a.FetchUsers(ctx)

	a.DeleteUser(ctx, "u1")

	if got := a.Users(); len(got) != 1 || got[0].ID != "u2" {
		t.Errorf("Users() = %v, want [u2]", got)
	}
}

func TestAdmin_FetchStats(t *testing.T) {
	api := &fakeAdminAPI{
		stats: func(context.Context) (*catalog.Stats, error) {
			return &catalog.Stats{TotalSongs: 120, TotalAlbums: 14, TotalUsers: 9, TotalArtists: 3}, nil
		},
	}
	a := NewAdmin(api, nil)

	if a.Stats() != nil {
		t.Error("Stats() non-nil before the first fetch")
	}

	a.FetchStats(context.Background())

	stats := a.Stats()
	if stats == nil || stats.TotalSongs != 120 || stats.TotalArtists != 3 {
		t.Errorf("Stats() = %+v", stats)
	}

	a.Reset()
	if a.Stats() != nil {
		t.Error("Stats() survived Reset")
	}
}

func TestAdmin_FetchStatsError(t *testing.T) {
	api := &fakeAdminAPI{
		stats: func(context.Context) (*catalog.Stats, error) {
			return nil, errors.New("boom")
		},
	}
	sink := &recorder{}
	a := NewAdmin(api, sink)

	a.FetchStats(context.Background())

	if a.Err() != "Failed to fetch stats" {
		t.Errorf("Err() = %q", a.Err())
	}
	if a.Stats() != nil {
		t.Error("Stats() set despite failure")
	}
}

func TestAdmin_FetchError(t *testing.T) {
	api := &fakeAdminAPI{
		pendingSongs: func(context.Context) ([]catalog.Track, error) {
			return nil, errors.New("boom")
		},
	}
	sink := &recorder{}
	a := NewAdmin(api, sink)

	a.FetchPendingSongs(context.Background())

	if a.Err() != "Failed to fetch pending songs" {
		t.Errorf("Err() = %q", a.Err())
	}
	if len(sink.Errors()) != 1 {
		t.Errorf("notifier errors = %v, want 1", sink.Errors())
	}
}
