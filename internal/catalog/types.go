// Package catalog defines the immutable descriptors served by the streaming
// service. Tracks are value types: the queue and stores copy them freely and
// never mutate them.
package catalog

import "time"

// Track describes a single playable song.
type Track struct {
	ID         string `json:"_id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	AlbumID    string `json:"albumId,omitempty"` // empty for singles
	ArtworkURL string `json:"imageUrl"`
	AudioURL   string `json:"audioUrl"`
	Seconds    int    `json:"duration"`
	PlayCount  int    `json:"playCount,omitempty"`
	Approved   bool   `json:"isApproved,omitempty"`
	UploadedBy string `json:"uploadedBy,omitempty"`
}

// Duration returns the track length.
func (t Track) Duration() time.Duration {
	return time.Duration(t.Seconds) * time.Second
}

// Album describes an ordered collection of tracks released together.
type Album struct {
	ID          string  `json:"_id"`
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	ArtworkURL  string  `json:"imageUrl"`
	ReleaseYear int     `json:"releaseYear"`
	Tracks      []Track `json:"songs"`
	Approved    bool    `json:"isApproved,omitempty"`
	UploadedBy  string  `json:"uploadedBy,omitempty"`
}

// Playlist describes a user-owned ordered collection. The server owns the
// track order; clients mirror whatever it returns.
type Playlist struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	UserID      string  `json:"userId"`
	Tracks      []Track `json:"songs"`
}

// Role is the access level of a user account.
type Role string

const (
	RoleListener Role = "user"
	RoleArtist   Role = "artist"
	RoleAdmin    Role = "admin"
)

// User describes an account as the service reports it.
type User struct {
	ID         string `json:"_id"`
	ExternalID string `json:"clerkId"` // identity-provider id
	FullName   string `json:"fullName"`
	ImageURL   string `json:"imageUrl"`
	Role       Role   `json:"role,omitempty"`
}

// Page is one window of a paginated track listing.
type Page struct {
	Tracks  []Track
	Total   int
	HasMore bool
}

// Stats are the aggregate counters shown on the admin dashboard.
type Stats struct {
	TotalSongs   int `json:"totalSongs"`
	TotalAlbums  int `json:"totalAlbums"`
	TotalUsers   int `json:"totalUsers"`
	TotalArtists int `json:"totalArtists"`
}
