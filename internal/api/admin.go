package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/llehouerou/swell/internal/catalog"
)

// CheckAdmin reports whether the current credential belongs to an admin.
// An unauthorized response means "not admin", not an error; only transport
// and unexpected server failures are returned.
func (c *Client) CheckAdmin(ctx context.Context) (bool, error) {
	var result struct {
		Admin bool `json:"admin"`
	}
	err := c.get(ctx, "/admin/check", &result)
	if err != nil {
		if IsUnauthorized(err) {
			return false, nil
		}
		return false, fmt.Errorf("check admin: %w", err)
	}
	return result.Admin, nil
}

// PendingSongs returns songs awaiting moderation.
func (c *Client) PendingSongs(ctx context.Context) ([]catalog.Track, error) {
	var songs []catalog.Track
	if err := c.get(ctx, "/admin/songs/pending", &songs); err != nil {
		return nil, fmt.Errorf("fetch pending songs: %w", err)
	}
	return songs, nil
}

// PendingAlbums returns albums awaiting moderation.
func (c *Client) PendingAlbums(ctx context.Context) ([]catalog.Album, error) {
	var albums []catalog.Album
	if err := c.get(ctx, "/admin/albums/pending", &albums); err != nil {
		return nil, fmt.Errorf("fetch pending albums: %w", err)
	}
	return albums, nil
}

// ApproveSong publishes a pending song.
func (c *Client) ApproveSong(ctx context.Context, id string) error {
	if err := c.post(ctx, "/admin/songs/"+url.PathEscape(id)+"/approve", nil, nil); err != nil {
		return fmt.Errorf("approve song: %w", err)
	}
	return nil
}

// RejectSong discards a pending song.
func (c *Client) RejectSong(ctx context.Context, id string) error {
	if err := c.post(ctx, "/admin/songs/"+url.PathEscape(id)+"/reject", nil, nil); err != nil {
		return fmt.Errorf("reject song: %w", err)
	}
	return nil
}

// ApproveAlbum publishes a pending album.
func (c *Client) ApproveAlbum(ctx context.Context, id string) error {
	if err := c.post(ctx, "/admin/albums/"+url.PathEscape(id)+"/approve", nil, nil); err != nil {
		return fmt.Errorf("approve album: %w", err)
	}
	return nil
}

// RejectAlbum discards a pending album.
func (c *Client) RejectAlbum(ctx context.Context, id string) error {
	if err := c.post(ctx, "/admin/albums/"+url.PathEscape(id)+"/reject", nil, nil); err != nil {
		return fmt.Errorf("reject album: %w", err)
	}
	return nil
}

// Users returns every account (admin only).
func (c *Client) Users(ctx context.Context) ([]catalog.User, error) {
	var users []catalog.User
	if err := c.get(ctx, "/admin/users", &users); err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	return users, nil
}

// UpdateUserRole changes an account's role and returns the updated account.
func (c *Client) UpdateUserRole(ctx context.Context, id string, role catalog.Role) (*catalog.User, error) {
	body := map[string]string{"role": string(role)}
	var user catalog.User
	if err := c.put(ctx, "/admin/users/"+url.PathEscape(id), body, &user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &user, nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/admin/users/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
