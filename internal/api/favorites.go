package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/llehouerou/swell/internal/catalog"
)

// Favorites returns the current user's favorite tracks, hydrated.
func (c *Client) Favorites(ctx context.Context) ([]catalog.Track, error) {
	var songs []catalog.Track
	if err := c.get(ctx, "/favorites", &songs); err != nil {
		return nil, fmt.Errorf("fetch favorites: %w", err)
	}
	return songs, nil
}

// AddFavorite marks a song as favorite.
func (c *Client) AddFavorite(ctx context.Context, songID string) error {
	body := map[string]string{"songId": songID}
	if err := c.post(ctx, "/favorites", body, nil); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite unmarks a song as favorite.
func (c *Client) RemoveFavorite(ctx context.Context, songID string) error {
	if err := c.delete(ctx, "/favorites/"+url.PathEscape(songID), nil); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// CheckFavorite asks the server whether a song is in the user's favorites.
func (c *Client) CheckFavorite(ctx context.Context, songID string) (bool, error) {
	var result struct {
		IsFavorite bool `json:"isFavorite"`
	}
	if err := c.get(ctx, "/favorites/"+url.PathEscape(songID)+"/check", &result); err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return result.IsFavorite, nil
}
