// Package store holds the client-side caches of user-owned and catalog
// collections. Every store follows the same pattern: wholesale fetch into a
// local cache, optimistic mutation reconciled against the server's response,
// a loading flag and an error string, and a generation counter so responses
// arriving after a Reset (or a newer wholesale replacement) are discarded
// instead of overwriting current state.
//
// Remote failures never escape a store: they are recorded on the error field
// and pushed to the Notifier. Overlapping calls follow last-write-wins for
// the shared loading/error fields.
package store

// Notifier surfaces store outcomes to the user. The desktop notification
// sink implements it; tests use Nop or a recorder.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Nop is a Notifier that discards everything.
type Nop struct{}

func (Nop) Success(string) {}

func (Nop) Error(string) {}
