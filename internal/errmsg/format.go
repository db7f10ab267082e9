// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Catalog operations
	OpSongsFetch  Op = "fetch songs"
	OpAlbumsFetch Op = "fetch albums"
	OpAlbumFetch  Op = "fetch album"

	// Favorites operations
	OpFavoritesFetch Op = "fetch favorites"
	OpFavoriteAdd    Op = "add to favorites"
	OpFavoriteRemove Op = "remove from favorites"

	// Playlist operations
	OpPlaylistsFetch     Op = "fetch playlists"
	OpPlaylistCreate     Op = "create playlist"
	OpPlaylistUpdate     Op = "update playlist"
	OpPlaylistDelete     Op = "delete playlist"
	OpPlaylistAddSong    Op = "add song to playlist"
	OpPlaylistRemoveSong Op = "remove song from playlist"

	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlayReport    Op = "report play"

	// Queue persistence
	OpQueueLoad Op = "load saved queue"
	OpQueueSave Op = "save queue"

	// Moderation
	OpPendingFetch Op = "fetch pending uploads"
	OpModerate     Op = "moderate upload"
	OpUsersFetch   Op = "fetch users"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
