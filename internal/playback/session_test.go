package playback

import "testing"

func TestSession_RebindRearmsReport(t *testing.T) {
	var s session

	s.rebind("a", "https://cdn.example.com/a.mp3")
	s.reported = true

	// Rebinding the same track is still a new activation.
	s.rebind("a", "https://cdn.example.com/a.mp3")
	if s.reported {
		t.Error("rebind did not rearm the one-shot report")
	}
}

func TestSession_Reset(t *testing.T) {
	s := session{boundTrackID: "a", boundURL: "u", reported: true}

	s.reset()

	if s.boundTrackID != "" || s.boundURL != "" || s.reported {
		t.Errorf("reset left %+v", s)
	}
}
