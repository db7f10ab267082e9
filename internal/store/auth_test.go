package store

import (
	"context"
	"testing"

	"github.com/llehouerou/swell/internal/api"
)

// fakeAuthAPI implements AuthAPI with a function field.
type fakeAuthAPI struct {
	checkAdmin func(ctx context.Context) (bool, error)
}

func (f *fakeAuthAPI) CheckAdmin(ctx context.Context) (bool, error) {
	return f.checkAdmin(ctx)
}

func TestAuth_CheckAdmin(t *testing.T) {
	a := NewAuth(&fakeAuthAPI{
		checkAdmin: func(context.Context) (bool, error) { return true, nil },
	})

	a.CheckAdmin(context.Background())

	if !a.IsAdmin() {
		t.Error("IsAdmin() = false, want true")
	}
}

func TestAuth_CheckAdmin_UnauthorizedMeansNotAdmin(t *testing.T) {
	a := NewAuth(&fakeAuthAPI{
		checkAdmin: func(context.Context) (bool, error) {
			return false, &api.Error{Status: 401, Message: "unauthorized"}
		},
	})

	a.CheckAdmin(context.Background())

	if a.IsAdmin() {
		t.Error("IsAdmin() = true after unauthorized check")
	}
	if a.IsLoading() {
		t.Error("still loading after check")
	}
}

func TestAuth_Reset(t *testing.T) {
	a := NewAuth(&fakeAuthAPI{
		checkAdmin: func(context.Context) (bool, error) { return true, nil },
	})
	a.CheckAdmin(context.Background())

	a.Reset()

	if a.IsAdmin() {
		t.Error("Reset did not clear the admin flag")
	}
}
