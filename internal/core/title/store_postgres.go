// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// PostgresRepository implements [Repository].
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new [PostgresRepository].
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectClause reads a title with its category and the rounded average of
// its review scores. NULL rating means no reviews yet.
func selectClause(extraColumns ...string) string {
	t, c, r := schema.CoreTitle, schema.CoreCategory, schema.SocialReview

	extra := ""
	if len(extraColumns) > 0 {
		extra = ", " + schema.Cols(extraColumns...)
	}
	return fmt.Sprintf(`SELECT t.%s, t.%s, t.%s, t.%s, t.%s, t.%s,
		c.%s, c.%s, c.%s,
		(SELECT ROUND(AVG(r.%s))::int FROM %s r WHERE r.%s = t.%s)%s
		FROM %s t LEFT JOIN %s c ON c.%s = t.%s`,
		t.ID, t.Name, t.Year, t.Description, t.CreatedAt, t.UpdatedAt,
		c.ID, c.Name, c.Slug,
		r.Score, r.Table, r.TitleID, t.ID, extra,
		t.Table, c.Table, c.ID, t.CategoryID,
	)
}

// scanTitle reads the columns of [selectClause], plus extra destinations.
func scanTitle(row pgx.Row, extra ...any) (*Title, error) {
	var (
		title                                  Title
		categoryID, categoryName, categorySlug *string
	)
	dest := append([]any{
		&title.ID, &title.Name, &title.Year, &title.Description, &title.CreatedAt, &title.UpdatedAt,
		&categoryID, &categoryName, &categorySlug,
		&title.Rating,
	}, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if categoryID != nil {
		title.Category = &reference.Term{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
	}
	title.Genres = []reference.Term{}
	return &title, nil
}

// List implements [Repository].
func (repository *PostgresRepository) List(ctx context.Context, filter Filter, page pagination.Params) ([]*Title, int, error) {
	t, c := schema.CoreTitle, schema.CoreCategory
	tg, g := schema.CoreTitleGenre, schema.CoreGenre

	var (
		builder    strings.Builder
		conditions []string
		args       []any
	)
	builder.WriteString(selectClause("COUNT(*) OVER()"))

	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf(`c.%s = $%d`, c.Slug, len(args)))
	}
	if filter.Genre != "" {
		args = append(args, filter.Genre)
		conditions = append(conditions, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM %s tg JOIN %s g ON g.%s = tg.%s WHERE tg.%s = t.%s AND g.%s = $%d)`,
			tg.Table, g.Table, g.ID, tg.GenreID, tg.TitleID, t.ID, g.Slug, len(args)))
	}
	if filter.Name != "" {
		args = append(args, schema.Contains(filter.Name))
		conditions = append(conditions, fmt.Sprintf(`t.%s ILIKE $%d`, t.Name, len(args)))
	}
	if filter.Year != nil {
		args = append(args, *filter.Year)
		conditions = append(conditions, fmt.Sprintf(`t.%s = $%d`, t.Year, len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	args = append(args, page.Limit, page.Offset())
	fmt.Fprintf(&builder, ` ORDER BY t.%s, t.%s LIMIT $%d OFFSET $%d`, t.Name, t.ID, len(args)-1, len(args))

	rows, err := repository.pool.Query(ctx, builder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles")
	}
	defer rows.Close()

	titles := make([]*Title, 0, page.Limit)
	total := 0
	for rows.Next() {
		title, err := scanTitle(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_title")
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles")
	}

	if err := repository.attachGenres(ctx, titles); err != nil {
		return nil, 0, err
	}
	return titles, total, nil
}

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Title, error) {
	query := selectClause() + fmt.Sprintf(` WHERE t.%s = $1`, schema.CoreTitle.ID)

	title, err := scanTitle(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Title")
		}
		return nil, dberr.Wrap(err, "find_title")
	}

	if err := repository.attachGenres(ctx, []*Title{title}); err != nil {
		return nil, err
	}
	return title, nil
}

// attachGenres loads the genres of all titles in one query.
func (repository *PostgresRepository) attachGenres(ctx context.Context, titles []*Title) error {
	if len(titles) == 0 {
		return nil
	}

	byID := make(map[string]*Title, len(titles))
	ids := make([]string, 0, len(titles))
	for _, title := range titles {
		byID[title.ID] = title
		ids = append(ids, title.ID)
	}

	tg, g := schema.CoreTitleGenre, schema.CoreGenre
	query := fmt.Sprintf(`SELECT tg.%s, g.%s, g.%s, g.%s
		FROM %s tg JOIN %s g ON g.%s = tg.%s
		WHERE tg.%s = ANY($1::uuid[])
		ORDER BY g.%s`,
		tg.TitleID, g.ID, g.Name, g.Slug,
		tg.Table, g.Table, g.ID, tg.GenreID,
		tg.TitleID,
		g.Name,
	)

	rows, err := repository.pool.Query(ctx, query, ids)
	if err != nil {
		return dberr.Wrap(err, "list_title_genres")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			titleID string
			genre   reference.Term
		)
		if err := rows.Scan(&titleID, &genre.ID, &genre.Name, &genre.Slug); err != nil {
			return dberr.Wrap(err, "scan_title_genre")
		}
		if title, ok := byID[titleID]; ok {
			title.Genres = append(title.Genres, genre)
		}
	}
	return dberr.Wrap(rows.Err(), "list_title_genres")
}

// Create implements [Repository].
func (repository *PostgresRepository) Create(ctx context.Context, record *Record) error {
	t := schema.CoreTitle
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5)`,
		t.Table, t.ID, t.Name, t.Year, t.Description, t.CategoryID)

	return postgres.WithTx(ctx, repository.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query, record.ID, record.Name, record.Year, record.Description, record.CategoryID); err != nil {
			return dberr.Wrap(err, "create_title")
		}
		return replaceGenres(ctx, tx, record)
	})
}

// Update implements [Repository].
func (repository *PostgresRepository) Update(ctx context.Context, record *Record) error {
	t := schema.CoreTitle
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW() WHERE %s = $1`,
		t.Table, t.Name, t.Year, t.Description, t.CategoryID, t.UpdatedAt, t.ID)

	return postgres.WithTx(ctx, repository.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, record.ID, record.Name, record.Year, record.Description, record.CategoryID)
		if err != nil {
			return dberr.Wrap(err, "update_title")
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("Title")
		}
		return replaceGenres(ctx, tx, record)
	})
}

func replaceGenres(ctx context.Context, tx pgx.Tx, record *Record) error {
	tg := schema.CoreTitleGenre

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, tg.Table, tg.TitleID)
	if _, err := tx.Exec(ctx, deleteQuery, record.ID); err != nil {
		return dberr.Wrap(err, "clear_title_genres")
	}
	if len(record.GenreIDs) == 0 {
		return nil
	}

	insertQuery := fmt.Sprintf(`INSERT INTO %s (%s, %s) SELECT $1, UNNEST($2::uuid[])`,
		tg.Table, tg.TitleID, tg.GenreID)
	if _, err := tx.Exec(ctx, insertQuery, record.ID, record.GenreIDs); err != nil {
		return dberr.Wrap(err, "link_title_genres")
	}
	return nil
}

// Delete implements [Repository].
func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	t := schema.CoreTitle
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.ID)

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_title")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Title")
	}
	return nil
}
