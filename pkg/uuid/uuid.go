// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuid generates the primary keys of every table.
//
// Version 7 values sort by creation time, which keeps the B-tree indexes on
// the id columns append-mostly and lets "ORDER BY id" mean creation order.
package uuid

import "github.com/google/uuid"

// New returns a new UUIDv7 string. It panics only if the system entropy
// source fails.
func New() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Valid reports whether s parses as a UUID. Handlers use it to answer 404
// instead of letting Postgres reject a malformed uuid literal.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
