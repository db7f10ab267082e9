package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/llehouerou/swell/internal/catalog"
)

// Albums returns every approved album.
func (c *Client) Albums(ctx context.Context) ([]catalog.Album, error) {
	var albums []catalog.Album
	if err := c.get(ctx, "/albums", &albums); err != nil {
		return nil, fmt.Errorf("fetch albums: %w", err)
	}
	return albums, nil
}

// AlbumByID returns a single album with its tracks in release order.
func (c *Client) AlbumByID(ctx context.Context, id string) (*catalog.Album, error) {
	var album catalog.Album
	if err := c.get(ctx, "/albums/"+url.PathEscape(id), &album); err != nil {
		return nil, fmt.Errorf("fetch album: %w", err)
	}
	return &album, nil
}

// Stats returns the service-wide counters shown on the admin dashboard.
func (c *Client) Stats(ctx context.Context) (*catalog.Stats, error) {
	var stats catalog.Stats
	if err := c.get(ctx, "/stats", &stats); err != nil {
		return nil, fmt.Errorf("fetch stats: %w", err)
	}
	return &stats, nil
}
