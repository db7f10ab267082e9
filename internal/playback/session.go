package playback

// session tracks one device activation: which track the device was last told
// to play and whether its play has been reported. It exists to guarantee at
// most one play-count report per activation, independent of how many times
// the device emits its started event.
type session struct {
	boundTrackID string
	boundURL     string
	reported     bool
}

// rebind starts a new activation for the given track, rearming the one-shot
// play report. Called every time the device is handed a new source, which
// includes a repeat-one replay of the same track.
func (s *session) rebind(trackID, url string) {
	s.boundTrackID = trackID
	s.boundURL = url
	s.reported = false
}

// reset clears the session when nothing is bound.
func (s *session) reset() {
	s.rebind("", "")
}
