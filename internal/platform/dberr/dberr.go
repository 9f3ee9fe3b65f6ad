// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Constraint naming
//
// Unique constraints are named uq_<table>_<field> in the migrations, so a
// violation can be reported against the offending field without leaking SQL.
package dberr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

const uniquePrefix = "uq_"

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
//
// # Mapping
//   - pgx.ErrNoRows            -> NOT_FOUND
//   - 23505 unique_violation   -> CONFLICT with the field taken from the constraint
//   - 23503 foreign_key        -> VALIDATION_ERROR
//   - anything else            -> INTERNAL_ERROR (action kept in the cause)
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// Already classified further down the stack
	if apperr.As(err) != nil {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Constraint violations
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			field := ConstraintField(pgErr.ConstraintName)
			msg := "A record with this " + strings.ReplaceAll(field, "_", " ") + " already exists"
			return apperr.FieldConflict(field, msg)
		case pgerrcode.ForeignKeyViolation:
			return apperr.ValidationError("Referenced resource does not exist")
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// IsUniqueViolation reports whether err is a unique violation of the named
// constraint. An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// ConstraintField extracts the field part of a uq_<table>_<field> name.
func ConstraintField(constraint string) string {
	name, ok := strings.CutPrefix(constraint, uniquePrefix)
	if !ok {
		return constraint
	}
	if _, field, found := strings.Cut(name, "_"); found {
		return field
	}
	return name
}
