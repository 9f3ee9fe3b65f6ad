// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns of the PostgreSQL schema in
// data/migrations. Repositories build SQL from these descriptors instead of
// repeating string literals.
package schema

import "strings"

// Cols joins column names for a SELECT or INSERT list.
func Cols(columns ...string) string {
	return strings.Join(columns, ", ")
}

// Qualify prefixes every column with alias.
func Qualify(alias string, columns ...string) string {
	qualified := make([]string, len(columns))
	for i, column := range columns {
		qualified[i] = alias + "." + column
	}
	return strings.Join(qualified, ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains builds an ILIKE pattern matching s anywhere, with the LIKE
// wildcards in s escaped.
func Contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
