package api

import (
	"context"
	"fmt"

	"github.com/llehouerou/swell/internal/catalog"
)

// MyUploads returns the signed-in artist's own submissions, pending and
// approved alike.
func (c *Client) MyUploads(ctx context.Context) ([]catalog.Track, []catalog.Album, error) {
	var uploads struct {
		Songs  []catalog.Track `json:"songs"`
		Albums []catalog.Album `json:"albums"`
	}
	if err := c.get(ctx, "/artist/uploads", &uploads); err != nil {
		return nil, nil, fmt.Errorf("fetch uploads: %w", err)
	}
	return uploads.Songs, uploads.Albums, nil
}
