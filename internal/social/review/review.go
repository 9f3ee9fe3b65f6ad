// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review manages reviews of titles and the comments under them.

Reading is public. Any authenticated account may write; changing or
deleting an existing review or comment is reserved to its author and to
moderators and admins. An account reviews a title at most once, enforced by
the store.
*/
package review

import (
	"context"
	"time"

	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Domain Entities

// Review is one account's scored opinion of a title.
type Review struct {
	ID       string    `json:"id"`
	TitleID  string    `json:"-"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

// Object returns the ownership view for permission checks.
func (r *Review) Object() sec.Object {
	return sec.Object{OwnerID: r.AuthorID, OwnerUsername: r.Author}
}

// Comment is a reply under a review.
type Comment struct {
	ID       string    `json:"id"`
	ReviewID string    `json:"-"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

// Object returns the ownership view for permission checks.
func (c *Comment) Object() sec.Object {
	return sec.Object{OwnerID: c.AuthorID, OwnerUsername: c.Author}
}

// # Field Identifiers

const (
	FieldText  = "text"
	FieldScore = "score"
	FieldTitle = "title"

	ScoreMin = 1
	ScoreMax = 10
)

// ErrDuplicateReview is returned when the author already reviewed the title.
var ErrDuplicateReview = apperr.FieldConflict(FieldTitle, "You have already reviewed this title")

// # Repository Contracts

// Repository is the persistence contract for reviews and comments.
//
// CreateReview returns [ErrDuplicateReview] when (title, author) exists.
type Repository interface {
	ListReviews(ctx context.Context, titleID string, page pagination.Params) ([]*Review, int, error)
	FindReview(ctx context.Context, titleID, reviewID string) (*Review, error)
	CreateReview(ctx context.Context, review *Review) error
	UpdateReview(ctx context.Context, review *Review) error
	DeleteReview(ctx context.Context, reviewID string) error

	ListComments(ctx context.Context, reviewID string, page pagination.Params) ([]*Comment, int, error)
	FindComment(ctx context.Context, reviewID, commentID string) (*Comment, error)
	CreateComment(ctx context.Context, comment *Comment) error
	UpdateComment(ctx context.Context, comment *Comment) error
	DeleteComment(ctx context.Context, commentID string) error
}

// TitleFinder checks that the parent title exists.
type TitleFinder interface {
	Get(ctx context.Context, id string) (*title.Title, error)
}

// # Inputs

// ReviewInput is the create payload of a review.
type ReviewInput struct {
	Text  string
	Score *int
}

// ReviewPatch changes a review. Nil fields are left untouched.
type ReviewPatch struct {
	Text  *string
	Score *int
}

// CommentInput is the create payload of a comment.
type CommentInput struct {
	Text string
}

// CommentPatch changes a comment.
type CommentPatch struct {
	Text *string
}
