// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// PostgresRepository implements [Repository] over core.category or
// core.genre.
type PostgresRepository struct {
	pool *pgxpool.Pool
	kind Kind
}

// NewRepository creates a repository for kind.
func NewRepository(pool *pgxpool.Pool, kind Kind) *PostgresRepository {
	return &PostgresRepository{pool: pool, kind: kind}
}

func (repository *PostgresRepository) table() schema.ReferenceTable {
	return repository.kind.Table
}

// List implements [Repository].
func (repository *PostgresRepository) List(ctx context.Context, search string, page pagination.Params) ([]*Term, int, error) {
	t := repository.table()

	var (
		builder strings.Builder
		args    []any
	)
	fmt.Fprintf(&builder, `SELECT %s, COUNT(*) OVER() FROM %s`, schema.Cols(t.Columns()...), t.Table)
	if search != "" {
		args = append(args, schema.Contains(search))
		fmt.Fprintf(&builder, ` WHERE %s ILIKE $%d`, t.Name, len(args))
	}
	args = append(args, page.Limit, page.Offset())
	fmt.Fprintf(&builder, ` ORDER BY %s, %s LIMIT $%d OFFSET $%d`, t.Name, t.Slug, len(args)-1, len(args))

	rows, err := repository.pool.Query(ctx, builder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_"+t.Table)
	}
	defer rows.Close()

	terms := make([]*Term, 0, page.Limit)
	total := 0
	for rows.Next() {
		var term Term
		if err := rows.Scan(&term.ID, &term.Name, &term.Slug, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_"+t.Table)
		}
		terms = append(terms, &term)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_"+t.Table)
	}
	return terms, total, nil
}

// FindBySlug implements [Repository].
func (repository *PostgresRepository) FindBySlug(ctx context.Context, termSlug string) (*Term, error) {
	t := repository.table()
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, schema.Cols(t.Columns()...), t.Table, t.Slug)

	var term Term
	err := repository.pool.QueryRow(ctx, query, termSlug).Scan(&term.ID, &term.Name, &term.Slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(repository.kind.Resource)
		}
		return nil, dberr.Wrap(err, "find_"+t.Table)
	}
	return &term, nil
}

// Create implements [Repository].
func (repository *PostgresRepository) Create(ctx context.Context, term *Term) error {
	t := repository.table()
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3)`, t.Table, schema.Cols(t.Columns()...))

	_, err := repository.pool.Exec(ctx, query, term.ID, term.Name, term.Slug)
	return dberr.Wrap(err, "create_"+t.Table)
}

// Update implements [Repository].
func (repository *PostgresRepository) Update(ctx context.Context, term *Term) error {
	t := repository.table()
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`, t.Table, t.Name, t.Slug, t.ID)

	tag, err := repository.pool.Exec(ctx, query, term.ID, term.Name, term.Slug)
	if err != nil {
		return dberr.Wrap(err, "update_"+t.Table)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(repository.kind.Resource)
	}
	return nil
}

// Delete implements [Repository].
func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	t := repository.table()
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.ID)

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_"+t.Table)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(repository.kind.Resource)
	}
	return nil
}
