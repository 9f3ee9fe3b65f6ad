// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/account"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/internal/users/auth/authtest"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

func seed() []*auth.User {
	return []*auth.User{
		{ID: "id-alice", Username: "alice", Email: "alice@example.com", Role: sec.RoleUser},
		{ID: "id-mod", Username: "mod", Email: "mod@example.com", Role: sec.RoleModerator},
		{ID: "id-admin", Username: "admin", Email: "admin@example.com", Role: sec.RoleAdmin},
		{ID: "id-root", Username: "root", Email: "root@example.com", Role: sec.RoleUser, IsSuperuser: true},
	}
}

func newService(t *testing.T) (*account.Service, *authtest.UserStore) {
	t.Helper()
	store := authtest.NewUserStore(seed()...)
	return account.NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil))), store
}

func actorOf(t *testing.T, store *authtest.UserStore, id string) sec.Actor {
	t.Helper()
	user, err := store.FindByID(context.Background(), id)
	require.NoError(t, err)
	return user.Actor()
}

// # Self Profile

/*
TestUpdateMe_IgnoresRole verifies the self patch has no path to the role.
*/
func TestUpdateMe_IgnoresRole(t *testing.T) {
	service, store := newService(t)
	alice := actorOf(t, store, "id-alice")

	user, err := service.UpdateMe(context.Background(), alice, account.ProfilePatch{Bio: pointer.To("hello")})
	require.NoError(t, err)

	assert.Equal(t, "hello", user.Bio)
	assert.Equal(t, sec.RoleUser, user.Role)

	stored, err := store.FindByID(context.Background(), "id-alice")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, stored.Role)
}

/*
TestUpdateMe_Validation verifies patched identity fields are checked.
*/
func TestUpdateMe_Validation(t *testing.T) {
	service, store := newService(t)
	alice := actorOf(t, store, "id-alice")

	tests := []struct {
		name  string
		patch account.ProfilePatch
		code  string
	}{
		{"reserved username", account.ProfilePatch{Username: pointer.To("me")}, apperr.CodeValidation},
		{"bad email", account.ProfilePatch{Email: pointer.To("nope")}, apperr.CodeValidation},
		{"taken username", account.ProfilePatch{Username: pointer.To("mod")}, apperr.CodeConflict},
		{"taken email", account.ProfilePatch{Email: pointer.To("admin@example.com")}, apperr.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.UpdateMe(context.Background(), alice, tt.patch)
			assert.True(t, apperr.IsCode(err, tt.code), "got %v", err)
		})
	}
}

/*
TestGetMe verifies anonymous callers are rejected and users see themselves.
*/
func TestGetMe(t *testing.T) {
	service, store := newService(t)

	_, err := service.GetMe(context.Background(), sec.Actor{})
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))

	user, err := service.GetMe(context.Background(), actorOf(t, store, "id-mod"))
	require.NoError(t, err)
	assert.Equal(t, "mod", user.Username)
}

// # Admin Directory

/*
TestAdminEndpoints_RequireAdmin verifies only admins and superusers pass.
*/
func TestAdminEndpoints_RequireAdmin(t *testing.T) {
	service, store := newService(t)

	tests := []struct {
		id      string
		allowed bool
	}{
		{"id-alice", false},
		{"id-mod", false},
		{"id-admin", true},
		{"id-root", true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			_, err := service.Get(context.Background(), actorOf(t, store, tt.id), "alice")
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))
			}
		})
	}
}

/*
TestUpdate_AdminChangesRole verifies admins can promote and the role is
validated against the enumeration.
*/
func TestUpdate_AdminChangesRole(t *testing.T) {
	service, store := newService(t)
	admin := actorOf(t, store, "id-admin")

	user, err := service.Update(context.Background(), admin, "alice", account.AdminPatch{Role: pointer.To("moderator")})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, user.Role)

	_, err = service.Update(context.Background(), admin, "alice", account.AdminPatch{Role: pointer.To("root")})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	_, err = service.Update(context.Background(), admin, "ghost", account.AdminPatch{Role: pointer.To("user")})
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestCreate verifies defaults, role validation and uniqueness.
*/
func TestCreate(t *testing.T) {
	service, store := newService(t)
	admin := actorOf(t, store, "id-admin")

	user, err := service.Create(context.Background(), admin, account.CreateInput{Username: "dave", Email: "dave@example.com"})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, user.Role)

	_, err = service.Create(context.Background(), admin, account.CreateInput{Username: "erin", Email: "erin@example.com", Role: "owner"})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	_, err = service.Create(context.Background(), admin, account.CreateInput{Username: "dave", Email: "other@example.com"})
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))
}

/*
TestListAndDelete verifies search and removal.
*/
func TestListAndDelete(t *testing.T) {
	service, store := newService(t)
	admin := actorOf(t, store, "id-admin")
	page := pagination.Params{Page: 1, Limit: 10}

	users, total, err := service.List(context.Background(), admin, "O", page)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "mod", users[0].Username)
	assert.Equal(t, "root", users[1].Username)

	require.NoError(t, service.Delete(context.Background(), admin, "alice"))
	assert.Equal(t, 3, store.Count())
	assert.True(t, apperr.IsNotFound(service.Delete(context.Background(), admin, "alice")))
}
