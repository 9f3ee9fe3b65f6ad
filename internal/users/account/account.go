// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account manages profiles: the caller's own profile under /users/me
and the admin-only user directory under /users.

# Architecture

  - Domain: accounts are [auth.User]; this package adds the mutation rules.
  - Security: the role can only be changed through the admin endpoints.
    The self-profile patch type has no role field at all.
*/
package account

import (
	"context"

	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Repository Contracts

// AccountRepository is the persistence contract for account management.
// [auth.PostgresUserRepository] satisfies it.
type AccountRepository interface {
	FindByID(ctx context.Context, id string) (*auth.User, error)
	FindByUsername(ctx context.Context, username string) (*auth.User, error)
	List(ctx context.Context, search string, page pagination.Params) ([]*auth.User, int, error)
	Create(ctx context.Context, user *auth.User) error
	Update(ctx context.Context, user *auth.User) error
	Delete(ctx context.Context, id string) error
}

// # Inputs

// ProfilePatch is the whitelist of fields an account may change on itself.
// A nil pointer leaves the field untouched.
type ProfilePatch struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
}

// AdminPatch is what an admin may change on any account.
type AdminPatch struct {
	ProfilePatch
	Role *string
}

// CreateInput is the admin payload for creating an account.
type CreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string
}
