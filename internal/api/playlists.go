package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/llehouerou/swell/internal/catalog"
)

// Playlists returns the current user's playlists.
func (c *Client) Playlists(ctx context.Context) ([]catalog.Playlist, error) {
	var playlists []catalog.Playlist
	if err := c.get(ctx, "/playlists", &playlists); err != nil {
		return nil, fmt.Errorf("fetch playlists: %w", err)
	}
	return playlists, nil
}

// PlaylistByID returns a single playlist with hydrated tracks.
func (c *Client) PlaylistByID(ctx context.Context, id string) (*catalog.Playlist, error) {
	var playlist catalog.Playlist
	if err := c.get(ctx, "/playlists/"+url.PathEscape(id), &playlist); err != nil {
		return nil, fmt.Errorf("fetch playlist: %w", err)
	}
	return &playlist, nil
}

// CreatePlaylist creates a playlist and returns the server's representation.
func (c *Client) CreatePlaylist(ctx context.Context, name, description string) (*catalog.Playlist, error) {
	body := map[string]string{"name": name}
	if description != "" {
		body["description"] = description
	}
	var playlist catalog.Playlist
	if err := c.post(ctx, "/playlists", body, &playlist); err != nil {
		return nil, fmt.Errorf("create playlist: %w", err)
	}
	return &playlist, nil
}

// UpdatePlaylist renames or redescribes a playlist and returns the updated
// representation. Empty fields are left unchanged by the server.
func (c *Client) UpdatePlaylist(ctx context.Context, id, name, description string) (*catalog.Playlist, error) {
	body := map[string]string{}
	if name != "" {
		body["name"] = name
	}
	if description != "" {
		body["description"] = description
	}
	var playlist catalog.Playlist
	if err := c.put(ctx, "/playlists/"+url.PathEscape(id), body, &playlist); err != nil {
		return nil, fmt.Errorf("update playlist: %w", err)
	}
	return &playlist, nil
}

// DeletePlaylist removes a playlist.
func (c *Client) DeletePlaylist(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/playlists/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	return nil
}

// AddPlaylistSong appends a song to a playlist. The server decides the final
// order and returns the updated playlist.
func (c *Client) AddPlaylistSong(ctx context.Context, playlistID, songID string) (*catalog.Playlist, error) {
	body := map[string]string{"songId": songID}
	var playlist catalog.Playlist
	err := c.post(ctx, "/playlists/"+url.PathEscape(playlistID)+"/songs", body, &playlist)
	if err != nil {
		return nil, fmt.Errorf("add song to playlist: %w", err)
	}
	return &playlist, nil
}

// RemovePlaylistSong removes a song from a playlist and returns the updated
// playlist.
func (c *Client) RemovePlaylistSong(ctx context.Context, playlistID, songID string) (*catalog.Playlist, error) {
	path := "/playlists/" + url.PathEscape(playlistID) + "/songs/" + url.PathEscape(songID)
	var playlist catalog.Playlist
	if err := c.delete(ctx, path, &playlist); err != nil {
		return nil, fmt.Errorf("remove song from playlist: %w", err)
	}
	return &playlist, nil
}
