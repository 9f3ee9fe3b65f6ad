// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
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

// # Reviews

// reviewSelect reads a review with its author's username.
func reviewSelect(extraColumns ...string) string {
	r, a := schema.SocialReview, schema.UserAccount

	extra := ""
	if len(extraColumns) > 0 {
		extra = ", " + schema.Cols(extraColumns...)
	}
	return fmt.Sprintf(`SELECT %s, a.%s%s
		FROM %s r JOIN %s a ON a.%s = r.%s`,
		schema.Qualify("r", r.ID, r.TitleID, r.AuthorID, r.Text, r.Score, r.PubDate), a.Username, extra,
		r.Table, a.Table, a.ID, r.AuthorID,
	)
}

func scanReview(row pgx.Row, extra ...any) (*Review, error) {
	var review Review
	dest := append([]any{
		&review.ID, &review.TitleID, &review.AuthorID,
		&review.Text, &review.Score, &review.PubDate, &review.Author,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &review, nil
}

// ListReviews implements [Repository].
func (repository *PostgresRepository) ListReviews(ctx context.Context, titleID string, page pagination.Params) ([]*Review, int, error) {
	r := schema.SocialReview
	query := reviewSelect("COUNT(*) OVER()") + fmt.Sprintf(
		` WHERE r.%s = $1 ORDER BY r.%s DESC, r.%s LIMIT $2 OFFSET $3`,
		r.TitleID, r.PubDate, r.ID)

	rows, err := repository.pool.Query(ctx, query, titleID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_reviews")
	}
	defer rows.Close()

	reviews := make([]*Review, 0, page.Limit)
	total := 0
	for rows.Next() {
		review, err := scanReview(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_review")
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_reviews")
	}
	return reviews, total, nil
}

// FindReview implements [Repository].
func (repository *PostgresRepository) FindReview(ctx context.Context, titleID, reviewID string) (*Review, error) {
	r := schema.SocialReview
	query := reviewSelect() + fmt.Sprintf(` WHERE r.%s = $1 AND r.%s = $2`, r.TitleID, r.ID)

	review, err := scanReview(repository.pool.QueryRow(ctx, query, titleID, reviewID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Review")
		}
		return nil, dberr.Wrap(err, "find_review")
	}
	return review, nil
}

// CreateReview implements [Repository].
func (repository *PostgresRepository) CreateReview(ctx context.Context, review *Review) error {
	r := schema.SocialReview
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6)`,
		r.Table, schema.Cols(r.ID, r.TitleID, r.AuthorID, r.Text, r.Score, r.PubDate))

	_, err := repository.pool.Exec(ctx, query,
		review.ID, review.TitleID, review.AuthorID, review.Text, review.Score, review.PubDate)
	if dberr.IsUniqueViolation(err, r.UniqueTitleAuthor) {
		return ErrDuplicateReview
	}
	return dberr.Wrap(err, "create_review")
}

// UpdateReview implements [Repository].
func (repository *PostgresRepository) UpdateReview(ctx context.Context, review *Review) error {
	r := schema.SocialReview
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = NOW() WHERE %s = $1`,
		r.Table, r.Text, r.Score, r.UpdatedAt, r.ID)

	tag, err := repository.pool.Exec(ctx, query, review.ID, review.Text, review.Score)
	if err != nil {
		return dberr.Wrap(err, "update_review")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review")
	}
	return nil
}

// DeleteReview implements [Repository]. Comments cascade.
func (repository *PostgresRepository) DeleteReview(ctx context.Context, reviewID string) error {
	return repository.delete(ctx, schema.SocialReview.Table, schema.SocialReview.ID, reviewID, "Review")
}

// # Comments

func commentSelect(extraColumns ...string) string {
	c, a := schema.SocialComment, schema.UserAccount

	extra := ""
	if len(extraColumns) > 0 {
		extra = ", " + schema.Cols(extraColumns...)
	}
	return fmt.Sprintf(`SELECT %s, a.%s%s
		FROM %s c JOIN %s a ON a.%s = c.%s`,
		schema.Qualify("c", c.ID, c.ReviewID, c.AuthorID, c.Text, c.PubDate), a.Username, extra,
		c.Table, a.Table, a.ID, c.AuthorID,
	)
}

func scanComment(row pgx.Row, extra ...any) (*Comment, error) {
	var comment Comment
	dest := append([]any{
		&comment.ID, &comment.ReviewID, &comment.AuthorID,
		&comment.Text, &comment.PubDate, &comment.Author,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments implements [Repository].
func (repository *PostgresRepository) ListComments(ctx context.Context, reviewID string, page pagination.Params) ([]*Comment, int, error) {
	c := schema.SocialComment
	query := commentSelect("COUNT(*) OVER()") + fmt.Sprintf(
		` WHERE c.%s = $1 ORDER BY c.%s, c.%s LIMIT $2 OFFSET $3`,
		c.ReviewID, c.PubDate, c.ID)

	rows, err := repository.pool.Query(ctx, query, reviewID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	comments := make([]*Comment, 0, page.Limit)
	total := 0
	for rows.Next() {
		comment, err := scanComment(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}
	return comments, total, nil
}

// FindComment implements [Repository].
func (repository *PostgresRepository) FindComment(ctx context.Context, reviewID, commentID string) (*Comment, error) {
	c := schema.SocialComment
	query := commentSelect() + fmt.Sprintf(` WHERE c.%s = $1 AND c.%s = $2`, c.ReviewID, c.ID)

	comment, err := scanComment(repository.pool.QueryRow(ctx, query, reviewID, commentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, dberr.Wrap(err, "find_comment")
	}
	return comment, nil
}

// CreateComment implements [Repository].
func (repository *PostgresRepository) CreateComment(ctx context.Context, comment *Comment) error {
	c := schema.SocialComment
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5)`,
		c.Table, schema.Cols(c.ID, c.ReviewID, c.AuthorID, c.Text, c.PubDate))

	_, err := repository.pool.Exec(ctx, query,
		comment.ID, comment.ReviewID, comment.AuthorID, comment.Text, comment.PubDate)
	return dberr.Wrap(err, "create_comment")
}

// UpdateComment implements [Repository].
func (repository *PostgresRepository) UpdateComment(ctx context.Context, comment *Comment) error {
	c := schema.SocialComment
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		c.Table, c.Text, c.UpdatedAt, c.ID)

	tag, err := repository.pool.Exec(ctx, query, comment.ID, comment.Text)
	if err != nil {
		return dberr.Wrap(err, "update_comment")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment")
	}
	return nil
}

// DeleteComment implements [Repository].
func (repository *PostgresRepository) DeleteComment(ctx context.Context, commentID string) error {
	return repository.delete(ctx, schema.SocialComment.Table, schema.SocialComment.ID, commentID, "Comment")
}

func (repository *PostgresRepository) delete(ctx context.Context, table, idColumn, id, resource string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, idColumn)

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_"+table)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}
