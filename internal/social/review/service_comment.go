// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

// ListComments returns the comments under a review, oldest first.
func (service *Service) ListComments(ctx context.Context, titleID, reviewID string, page pagination.Params) ([]*Comment, int, error) {
	if _, err := service.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}

	comments, total, err := service.repo.ListComments(ctx, reviewID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("comment_service_list_failed: %w", err)
	}
	return comments, total, nil
}

// GetComment returns one comment under a review.
func (service *Service) GetComment(ctx context.Context, titleID, reviewID, commentID string) (*Comment, error) {
	if _, err := service.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	if !uuid.Valid(commentID) {
		return nil, apperr.NotFound("Comment")
	}

	comment, err := service.repo.FindComment(ctx, reviewID, commentID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, fmt.Errorf("comment_service_find_failed: %w", err)
	}
	return comment, nil
}

// CreateComment adds the actor's comment under a review.
func (service *Service) CreateComment(ctx context.Context, actor sec.Actor, titleID, reviewID string, input CommentInput) (*Comment, error) {
	if err := sec.Authorize(sec.ReviewCommentAccess, actor, sec.ActionCreate); err != nil {
		return nil, err
	}
	if _, err := service.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:       uuid.New(),
		ReviewID: reviewID,
		AuthorID: actor.UserID,
		Author:   actor.Username,
		Text:     strings.TrimSpace(input.Text),
		PubDate:  service.now().UTC(),
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, comment.Text)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("comment_service_create_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "comment_created",
		slog.String("comment_id", comment.ID),
		slog.String("review_id", reviewID),
		slog.String("user_id", actor.UserID),
	)
	return comment, nil
}

// UpdateComment changes the text of a comment.
func (service *Service) UpdateComment(ctx context.Context, actor sec.Actor, titleID, reviewID, commentID string, patch CommentPatch) (*Comment, error) {
	if err := sec.Authorize(sec.ReviewCommentAccess, actor, sec.ActionUpdate); err != nil {
		return nil, err
	}

	comment, err := service.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := sec.AuthorizeObject(sec.ReviewCommentAccess, actor, sec.ActionUpdate, comment.Object()); err != nil {
		return nil, err
	}

	if patch.Text != nil {
		comment.Text = strings.TrimSpace(*patch.Text)
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, comment.Text)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.UpdateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("comment_service_update_failed: %w", err)
	}

	service.logModeration(ctx, actor, comment.Object(), "comment_moderated", comment.ID)
	return comment, nil
}

// DeleteComment removes a comment.
func (service *Service) DeleteComment(ctx context.Context, actor sec.Actor, titleID, reviewID, commentID string) error {
	if err := sec.Authorize(sec.ReviewCommentAccess, actor, sec.ActionDelete); err != nil {
		return err
	}

	comment, err := service.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := sec.AuthorizeObject(sec.ReviewCommentAccess, actor, sec.ActionDelete, comment.Object()); err != nil {
		return err
	}

	if err := service.repo.DeleteComment(ctx, comment.ID); err != nil {
		return fmt.Errorf("comment_service_delete_failed: %w", err)
	}

	service.logModeration(ctx, actor, comment.Object(), "comment_moderated", comment.ID)
	return nil
}
