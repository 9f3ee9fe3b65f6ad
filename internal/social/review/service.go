// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

// # Service Layer

// Service implements the ReviewCommentAccess endpoints.
type Service struct {
	repo   Repository
	titles TitleFinder
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a new [Service].
func NewService(repo Repository, titles TitleFinder, logger *slog.Logger) *Service {
	return &Service{repo: repo, titles: titles, logger: logger, now: time.Now}
}

// ListReviews returns the reviews of a title, newest first.
func (service *Service) ListReviews(ctx context.Context, titleID string, page pagination.Params) ([]*Review, int, error) {
	if _, err := service.titles.Get(ctx, titleID); err != nil {
		return nil, 0, err
	}

	reviews, total, err := service.repo.ListReviews(ctx, titleID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("review_service_list_failed: %w", err)
	}
	return reviews, total, nil
}

// GetReview returns one review of a title.
func (service *Service) GetReview(ctx context.Context, titleID, reviewID string) (*Review, error) {
	if _, err := service.titles.Get(ctx, titleID); err != nil {
		return nil, err
	}
	return service.findReview(ctx, titleID, reviewID)
}

/*
CreateReview publishes the actor's review of a title.

Returns:
  - *Review: The stored review
  - error: VALIDATION_ERROR for a missing text or a score outside [1, 10],
    CONFLICT when the actor already reviewed the title
*/
func (service *Service) CreateReview(ctx context.Context, actor sec.Actor, titleID string, input ReviewInput) (*Review, error) {
	if err := sec.Authorize(sec.ReviewCommentAccess, actor, sec.ActionCreate); err != nil {
		return nil, err
	}
	if _, err := service.titles.Get(ctx, titleID); err != nil {
		return nil, err
	}

	review := &Review{
		ID:       uuid.New(),
		TitleID:  titleID,
		AuthorID: actor.UserID,
		Author:   actor.Username,
		Text:     strings.TrimSpace(input.Text),
		PubDate:  service.now().UTC(),
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, review.Text).
		Custom(FieldScore, input.Score == nil, validate.MsgRequired)
	if input.Score != nil {
		review.Score = *input.Score
		validator.Range(FieldScore, review.Score, ScoreMin, ScoreMax)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("review_service_create_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "review_created",
		slog.String("review_id", review.ID),
		slog.String("title_id", titleID),
		slog.String("user_id", actor.UserID),
		slog.Int("score", review.Score),
	)
	return review, nil
}

// UpdateReview applies patch to a review owned by the actor, or to any
// review when the actor moderates.
func (service *Service) UpdateReview(ctx context.Context, actor sec.Actor, titleID, reviewID string, patch ReviewPatch) (*Review, error) {
	if err := sec.Authorize(sec.ReviewCommentAccess, actor, sec.ActionUpdate); err != nil {
		return nil, err
	}

	review, err := service.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := sec.AuthorizeObject(sec.ReviewCommentAccess, actor, sec.ActionUpdate, review.Object()); err != nil {
		return nil, err
	}

	if patch.Text != nil {
		review.Text = strings.TrimSpace(*patch.Text)
	}
	if patch.Score != nil {
		review.Score = *patch.Score
	}

	validator := &validate.Validator{}
	validateReview(validator, review)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.UpdateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("review_service_update_failed: %w", err)
	}

	service.logModeration(ctx, actor, review.Object(), "review_moderated", review.ID)
	return review, nil
}

// DeleteReview removes a review with its comments.
func (service *Service) DeleteReview(ctx context.Context, actor sec.Actor, titleID, reviewID string) error {
	if err := sec.Authorize(sec.ReviewCommentAccess, actor, sec.ActionDelete); err != nil {
		return err
	}

	review, err := service.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := sec.AuthorizeObject(sec.ReviewCommentAccess, actor, sec.ActionDelete, review.Object()); err != nil {
		return err
	}

	if err := service.repo.DeleteReview(ctx, review.ID); err != nil {
		return fmt.Errorf("review_service_delete_failed: %w", err)
	}

	service.logModeration(ctx, actor, review.Object(), "review_moderated", review.ID)
	return nil
}

// # Helpers

func validateReview(validator *validate.Validator, review *Review) {
	validator.Required(FieldText, review.Text).
		Range(FieldScore, review.Score, ScoreMin, ScoreMax)
}

func (service *Service) findReview(ctx context.Context, titleID, reviewID string) (*Review, error) {
	if !uuid.Valid(reviewID) {
		return nil, apperr.NotFound("Review")
	}

	review, err := service.repo.FindReview(ctx, titleID, reviewID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Review")
		}
		return nil, fmt.Errorf("review_service_find_failed: %w", err)
	}
	return review, nil
}

// logModeration records changes made by someone other than the author.
func (service *Service) logModeration(ctx context.Context, actor sec.Actor, target sec.Object, event, id string) {
	if target.OwnerID == actor.UserID {
		return
	}
	service.logger.InfoContext(ctx, event,
		slog.String("id", id),
		slog.String("author_id", target.OwnerID),
		slog.String("moderator_id", actor.UserID),
	)
}
