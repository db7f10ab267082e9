package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// AuthAPI is the remote surface the auth store needs.
type AuthAPI interface {
	CheckAdmin(ctx context.Context) (bool, error)
}

// Auth caches the current user's authorization facts. An unauthorized admin
// check silently means "not admin"; it is never surfaced as an error.
type Auth struct {
	mu sync.Mutex

	api AuthAPI

	isAdmin bool
	loading bool
	gen     uint64
}

// NewAuth creates an auth store.
func NewAuth(api AuthAPI) *Auth {
	return &Auth{api: api}
}

// CheckAdmin refreshes the admin flag from the server. Any failure,
// authorization or transport, downgrades to not-admin.
func (a *Auth) CheckAdmin(ctx context.Context) {
	a.mu.Lock()
	a.loading = true
	gen := a.gen
	a.mu.Unlock()

	admin, err := a.api.CheckAdmin(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen {
		return
	}
	a.loading = false
	if err != nil {
		log.Debug().Err(err).Msg("admin check failed, assuming not admin")
		a.isAdmin = false
		return
	}
	a.isAdmin = admin
}

// IsAdmin reports the cached admin flag.
func (a *Auth) IsAdmin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.isAdmin
}

// IsLoading reports whether a check is in flight.
func (a *Auth) IsLoading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

// Reset clears cached authorization on sign-out.
func (a *Auth) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gen++
	a.isAdmin = false
	a.loading = false
}
