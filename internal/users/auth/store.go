// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # User Data Access

// UserRepository is the data access contract the sign-in flow needs.
//
// Lookups return an apperr NOT_FOUND error when no row matches. Create
// returns a CONFLICT naming the field when username or email is taken.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - ctx: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: NOT_FOUND or database failures
	*/
	FindByID(ctx context.Context, id string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - ctx: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: NOT_FOUND or database failures
	*/
	FindByUsername(ctx context.Context, username string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - ctx: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: NOT_FOUND or database failures
	*/
	FindByEmail(ctx context.Context, email string) (*User, error)

	/*
		Create persists a new account. Uniqueness is enforced by the store.

		Parameters:
		  - ctx: context.Context
		  - user: *User

		Returns:
		  - error: CONFLICT on a duplicate username or email
	*/
	Create(ctx context.Context, user *User) error
}
