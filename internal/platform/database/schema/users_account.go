// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table       string
	ID          string
	Username    string
	Email       string
	Role        string
	IsSuperuser string
	Bio         string
	FirstName   string
	LastName    string
	CreatedAt   string
	UpdatedAt   string

	// Unique constraints
	UniqueUsername string
	UniqueEmail    string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	Username:    "username",
	Email:       "email",
	Role:        "role",
	IsSuperuser: "issuperuser",
	Bio:         "bio",
	FirstName:   "firstname",
	LastName:    "lastname",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",

	UniqueUsername: "uq_account_username",
	UniqueEmail:    "uq_account_email",
}

// Columns returns the columns scanned into an account.
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.Role, t.IsSuperuser,
		t.Bio, t.FirstName, t.LastName, t.CreatedAt, t.UpdatedAt,
	}
}
