// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/slug"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

// # Service Layer

// Service implements the AdminOrReadOnly vocabulary endpoints.
type Service struct {
	kind   Kind
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a [Service] for one vocabulary.
func NewService(kind Kind, repo Repository, logger *slog.Logger) *Service {
	return &Service{kind: kind, repo: repo, logger: logger.With(slog.String("vocabulary", kind.Resource))}
}

// List returns one page of terms. Open to everyone.
func (service *Service) List(ctx context.Context, search string, page pagination.Params) ([]*Term, int, error) {
	terms, total, err := service.repo.List(ctx, search, page)
	if err != nil {
		return nil, 0, fmt.Errorf("reference_service_list_failed: %w", err)
	}
	return terms, total, nil
}

// Get returns the term with the given slug. Open to everyone.
func (service *Service) Get(ctx context.Context, termSlug string) (*Term, error) {
	term, err := service.repo.FindBySlug(ctx, termSlug)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound(service.kind.Resource)
		}
		return nil, fmt.Errorf("reference_service_get_failed: %w", err)
	}
	return term, nil
}

/*
Create adds a term.

Description: When the slug is omitted it is derived from the name, e.g.
"Science Fiction" becomes "science-fiction". A name with no usable
characters for a slug must come with an explicit one.

Returns:
  - *Term: The stored term
  - error: FORBIDDEN, VALIDATION_ERROR or CONFLICT (slug taken)
*/
func (service *Service) Create(ctx context.Context, actor sec.Actor, input CreateInput) (*Term, error) {
	if err := sec.Authorize(sec.AdminOrReadOnly, actor, sec.ActionCreate); err != nil {
		return nil, err
	}

	term := &Term{ID: uuid.New(), Name: strings.TrimSpace(input.Name), Slug: strings.TrimSpace(input.Slug)}
	if term.Slug == "" {
		term.Slug = slug.From(term.Name)
	}

	if err := validateTerm(term); err != nil {
		return nil, err
	}

	if err := service.repo.Create(ctx, term); err != nil {
		return nil, fmt.Errorf("reference_service_create_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "reference_term_created", slog.String("slug", term.Slug))
	return term, nil
}

// Update applies patch to the term with the given slug.
func (service *Service) Update(ctx context.Context, actor sec.Actor, termSlug string, patch Patch) (*Term, error) {
	if err := sec.Authorize(sec.AdminOrReadOnly, actor, sec.ActionUpdate); err != nil {
		return nil, err
	}

	term, err := service.Get(ctx, termSlug)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		term.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Slug != nil {
		term.Slug = strings.TrimSpace(*patch.Slug)
	}

	if err := validateTerm(term); err != nil {
		return nil, err
	}

	if err := service.repo.Update(ctx, term); err != nil {
		return nil, fmt.Errorf("reference_service_update_failed: %w", err)
	}
	return term, nil
}

// Delete removes the term with the given slug.
func (service *Service) Delete(ctx context.Context, actor sec.Actor, termSlug string) error {
	if err := sec.Authorize(sec.AdminOrReadOnly, actor, sec.ActionDelete); err != nil {
		return err
	}

	term, err := service.Get(ctx, termSlug)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(ctx, term.ID); err != nil {
		return fmt.Errorf("reference_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "reference_term_deleted", slog.String("slug", term.Slug))
	return nil
}

func validateTerm(term *Term) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, term.Name).
		MaxLen(FieldName, term.Name, NameMaxLength).
		Required(FieldSlug, term.Slug)
	if term.Slug != "" {
		validator.MaxLen(FieldSlug, term.Slug, slug.MaxLength).Slug(FieldSlug, term.Slug)
	}
	return validator.Err()
}
