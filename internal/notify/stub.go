//go:build !linux

package notify

// stubNotifier swallows notifications where no freedesktop daemon exists.
type stubNotifier struct{}

// New returns a no-op notifier on non-Linux platforms. Store outcomes still
// reach the prompt through their error fields.
func New() (Notifier, error) {
	return &stubNotifier{}, nil
}

func (s *stubNotifier) Notify(_ Notification) (uint32, error) {
	return 0, nil
}

func (s *stubNotifier) Close(_ uint32) error {
	return nil
}
