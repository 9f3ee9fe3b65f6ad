// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # User Repository

// PostgresUserRepository stores accounts in users.account. It serves both
// the sign-in flow and the account management endpoints.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

var (
	userTable   = schema.UserAccount
	userColumns = schema.Cols(userTable.Columns()...)
)

// scanUser hydrates a [User] in [schema.UserAccountTable.Columns] order.
func scanUser(row pgx.Row) (*User, error) {
	var (
		user User
		role string
	)
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&role,
		&user.IsSuperuser,
		&user.Bio,
		&user.FirstName,
		&user.LastName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Role = sec.Role(role)
	return &user, nil
}

func (repository *PostgresUserRepository) findBy(ctx context.Context, column, value string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, userColumns, userTable.Table, column)

	user, err := scanUser(repository.pool.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err, "find_user_by_"+column)
	}
	return user, nil
}

// FindByID implements [UserRepository].
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return repository.findBy(ctx, userTable.ID, id)
}

// FindByUsername implements [UserRepository].
func (repository *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return repository.findBy(ctx, userTable.Username, username)
}

// FindByEmail implements [UserRepository].
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return repository.findBy(ctx, userTable.Email, email)
}

/*
Create inserts a new account.

Description: Timestamps are set here. A duplicate username or email comes
back from Postgres as 23505 on uq_account_username / uq_account_email and is
reported as a CONFLICT on that field.
*/
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		userTable.Table, userColumns)

	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		string(user.Role),
		user.IsSuperuser,
		user.Bio,
		user.FirstName,
		user.LastName,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return dberr.Wrap(err, "create_user")
}

// Update persists every mutable column of user.
func (repository *PostgresUserRepository) Update(ctx context.Context, user *User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8
		WHERE %s = $1`,
		userTable.Table,
		userTable.Username, userTable.Email, userTable.Role,
		userTable.Bio, userTable.FirstName, userTable.LastName, userTable.UpdatedAt,
		userTable.ID,
	)

	user.UpdatedAt = time.Now().UTC()

	tag, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		string(user.Role),
		user.Bio,
		user.FirstName,
		user.LastName,
		user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "update_user")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

// Delete removes the account. Its reviews and comments cascade.
func (repository *PostgresUserRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, userTable.Table, userTable.ID)

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_user")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

// List returns one page of accounts ordered by username, optionally
// filtered by a case-insensitive username substring, plus the total count.
func (repository *PostgresUserRepository) List(ctx context.Context, search string, page pagination.Params) ([]*User, int, error) {
	var (
		builder strings.Builder
		args    []any
	)

	fmt.Fprintf(&builder, `SELECT %s, COUNT(*) OVER() FROM %s`, userColumns, userTable.Table)
	if search != "" {
		args = append(args, schema.Contains(search))
		fmt.Fprintf(&builder, ` WHERE %s ILIKE $%d`, userTable.Username, len(args))
	}
	args = append(args, page.Limit, page.Offset())
	fmt.Fprintf(&builder, ` ORDER BY %s LIMIT $%d OFFSET $%d`, userTable.Username, len(args)-1, len(args))

	rows, err := repository.pool.Query(ctx, builder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	users := make([]*User, 0, page.Limit)
	total := 0
	for rows.Next() {
		var (
			user User
			role string
		)
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &role, &user.IsSuperuser,
			&user.Bio, &user.FirstName, &user.LastName, &user.CreatedAt, &user.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_user")
		}
		user.Role = sec.Role(role)
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}

	return users, total, nil
}
