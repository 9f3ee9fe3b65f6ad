// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth owns the account directory and the passwordless sign-in flow.

Flow:

 1. Signup stores the account and mails a confirmation code.
 2. The client posts (username, confirmation_code) to the token endpoint.
 3. The code is recomputed for the account's current state and compared;
    on a match an RS256 access token is minted.

Codes are never stored. See [sec.CodeGenerator] for the derivation.
*/
package auth

import (
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
)

// # Domain Entities

// User is a registered account.
type User struct {
	ID          string    `json:"-"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Bio         string    `json:"bio"`
	Role        sec.Role  `json:"role"`
	IsSuperuser bool      `json:"-"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// Actor returns the permission view of the account.
func (user *User) Actor() sec.Actor {
	return sec.Actor{
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role,
		IsSuperuser: user.IsSuperuser,
	}
}

// CodeSubject returns the state a confirmation code is bound to.
func (user *User) CodeSubject() sec.CodeSubject {
	return sec.CodeSubject{
		AccountID: user.ID,
		Username:  user.Username,
		Email:     user.Email,
	}
}

// # Field Identifiers

const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldConfirmationCode = "confirmation_code"
	FieldRole             = "role"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldBio              = "bio"
)

// # Constraints

const (
	// ReservedUsername is the alias of the self-profile endpoint.
	ReservedUsername = "me"

	UsernameMaxLength = 150
	EmailMaxLength    = 254
	NameMaxLength     = 150
)

// ValidateUsername applies the username rules to v.
func ValidateUsername(v *validate.Validator, username string) *validate.Validator {
	v.Required(FieldUsername, username)
	if strings.TrimSpace(username) == "" {
		return v
	}
	return v.MaxLen(FieldUsername, username, UsernameMaxLength).
		Username(FieldUsername, username).
		NotEqual(FieldUsername, username, ReservedUsername)
}

// ValidateEmail applies the email rules to v.
func ValidateEmail(v *validate.Validator, email string) *validate.Validator {
	v.Required(FieldEmail, email)
	if strings.TrimSpace(email) == "" {
		return v
	}
	return v.MaxLen(FieldEmail, email, EmailMaxLength).Email(FieldEmail, email)
}

// NormalizeEmail trims the address and lowercases its domain part.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	local, domain, found := strings.Cut(email, "@")
	if !found {
		return email
	}
	return local + "@" + strings.ToLower(domain)
}
