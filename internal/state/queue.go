package state

import (
	"database/sql"
	"errors"

	"github.com/llehouerou/swell/internal/catalog"
	dbutil "github.com/llehouerou/swell/internal/db"
)

// QueueState represents the saved queue state.
type QueueState struct {
	CurrentIndex int
	RepeatMode   int
	Shuffle      bool
	Tracks       []catalog.Track
}

func getQueue(db *sql.DB) (*QueueState, error) {
	// Get queue state
	var currentIndex, repeatMode int
	var shuffle bool
	row := db.QueryRow(`SELECT current_index, repeat_mode, shuffle FROM queue_state WHERE id = 1`)
	err := row.Scan(&currentIndex, &repeatMode, &shuffle)
	if errors.Is(err, sql.ErrNoRows) {
		return &QueueState{CurrentIndex: -1}, nil
	}
	if err != nil {
		return nil, err
	}

	// Get tracks
	rows, err := db.Query(`
		SELECT track_id, title, artist, album_id, artwork_url, audio_url, duration
		FROM queue_tracks
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []catalog.Track
	for rows.Next() {
		var t catalog.Track
		var artist, albumID, artworkURL sql.NullString
		var duration sql.NullInt64

		err := rows.Scan(&t.ID, &t.Title, &artist, &albumID, &artworkURL, &t.AudioURL, &duration)
		if err != nil {
			return nil, err
		}

		t.Artist = dbutil.NullStringValue(artist)
		t.AlbumID = dbutil.NullStringValue(albumID)
		t.ArtworkURL = dbutil.NullStringValue(artworkURL)
		t.Seconds = int(dbutil.NullInt64Value(duration))
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &QueueState{
		CurrentIndex: currentIndex,
		RepeatMode:   repeatMode,
		Shuffle:      shuffle,
		Tracks:       tracks,
	}, nil
}

func saveQueue(sqlDB *sql.DB, state QueueState) error {
	return dbutil.WithTx(sqlDB, func(tx *sql.Tx) error {
		// Clear existing queue
		_, err := tx.Exec(`DELETE FROM queue_tracks`)
		if err != nil {
			return err
		}

		// Save queue state
		_, err = tx.Exec(`
			INSERT INTO queue_state (id, current_index, repeat_mode, shuffle)
			VALUES (1, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				current_index = excluded.current_index,
				repeat_mode = excluded.repeat_mode,
				shuffle = excluded.shuffle
		`, state.CurrentIndex, state.RepeatMode, state.Shuffle)
		if err != nil {
			return err
		}

		// Insert tracks
		stmt, err := tx.Prepare(`
			INSERT INTO queue_tracks (position, track_id, title, artist, album_id, artwork_url, audio_url, duration)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, t := range state.Tracks {
			_, err = stmt.Exec(i, t.ID, t.Title, t.Artist, t.AlbumID, t.ArtworkURL, t.AudioURL, t.Seconds)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
