package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/llehouerou/swell/internal/catalog"
)

// Songs returns one page of the full song listing. query may be empty; limit
// and offset select the window.
func (c *Client) Songs(ctx context.Context, limit, offset int, query string) (*catalog.Page, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	if query != "" {
		params.Set("query", query)
	}

	var result struct {
		Songs   []catalog.Track `json:"songs"`
		Total   int             `json:"total"`
		HasMore bool            `json:"hasMore"`
	}
	if err := c.get(ctx, "/songs?"+params.Encode(), &result); err != nil {
		return nil, fmt.Errorf("fetch songs: %w", err)
	}
	return &catalog.Page{Tracks: result.Songs, Total: result.Total, HasMore: result.HasMore}, nil
}

// FeaturedSongs returns the featured shelf.
func (c *Client) FeaturedSongs(ctx context.Context) ([]catalog.Track, error) {
	var songs []catalog.Track
	if err := c.get(ctx, "/songs/featured", &songs); err != nil {
		return nil, fmt.Errorf("fetch featured songs: %w", err)
	}
	return songs, nil
}

// MadeForYouSongs returns the personalized shelf.
func (c *Client) MadeForYouSongs(ctx context.Context) ([]catalog.Track, error) {
	var songs []catalog.Track
	if err := c.get(ctx, "/songs/made-for-you", &songs); err != nil {
		return nil, fmt.Errorf("fetch made-for-you songs: %w", err)
	}
	return songs, nil
}

// TrendingSongs returns the trending shelf.
func (c *Client) TrendingSongs(ctx context.Context) ([]catalog.Track, error) {
	var songs []catalog.Track
	if err := c.get(ctx, "/songs/trending", &songs); err != nil {
		return nil, fmt.Errorf("fetch trending songs: %w", err)
	}
	return songs, nil
}

// ReportPlay increments the play count for a song. The response carries no
// payload the client needs.
func (c *Client) ReportPlay(ctx context.Context, songID string) error {
	if err := c.post(ctx, "/songs/"+url.PathEscape(songID)+"/play", nil, nil); err != nil {
		return fmt.Errorf("report play: %w", err)
	}
	return nil
}
