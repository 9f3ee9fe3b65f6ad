// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

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

// Service implements the AdminOrReadOnly title endpoints.
type Service struct {
	repo       Repository
	categories TermFinder
	genres     TermFinder
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new [Service].
func NewService(repo Repository, categories, genres TermFinder, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		genres:     genres,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock replaces the clock used for the year check.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// List returns one page of titles ordered by name. Open to everyone.
func (service *Service) List(ctx context.Context, filter Filter, page pagination.Params) ([]*Title, int, error) {
	titles, total, err := service.repo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("title_service_list_failed: %w", err)
	}
	return titles, total, nil
}

// Get returns a title with its rating. Open to everyone.
func (service *Service) Get(ctx context.Context, id string) (*Title, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Title")
	}

	title, err := service.repo.FindByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Title")
		}
		return nil, fmt.Errorf("title_service_get_failed: %w", err)
	}
	return title, nil
}

/*
Create adds a title.

Returns:
  - *Title: The stored title, rating null
  - error: FORBIDDEN, or VALIDATION_ERROR for a future year or an unknown
    category or genre slug
*/
func (service *Service) Create(ctx context.Context, actor sec.Actor, input CreateInput) (*Title, error) {
	if err := sec.Authorize(sec.AdminOrReadOnly, actor, sec.ActionCreate); err != nil {
		return nil, err
	}

	record := &Record{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
	}

	validator := &validate.Validator{}
	validator.Custom(FieldYear, input.Year == nil, validate.MsgRequired)
	if input.Year != nil {
		record.Year = *input.Year
	}
	service.validate(validator, record)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.resolveRelations(ctx, record, &input.Category, &input.Genres); err != nil {
		return nil, err
	}

	if err := service.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("title_service_create_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "title_created",
		slog.String("title_id", record.ID),
		slog.String("admin_id", actor.UserID),
	)
	return service.Get(ctx, record.ID)
}

// Update applies patch to a title.
func (service *Service) Update(ctx context.Context, actor sec.Actor, id string, patch Patch) (*Title, error) {
	if err := sec.Authorize(sec.AdminOrReadOnly, actor, sec.ActionUpdate); err != nil {
		return nil, err
	}

	current, err := service.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	record := recordOf(current)
	if patch.Name != nil {
		record.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Year != nil {
		record.Year = *patch.Year
	}
	if patch.Description != nil {
		record.Description = *patch.Description
	}

	validator := &validate.Validator{}
	service.validate(validator, record)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.resolveRelations(ctx, record, patch.Category, patch.Genres); err != nil {
		return nil, err
	}

	if err := service.repo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("title_service_update_failed: %w", err)
	}
	return service.Get(ctx, record.ID)
}

// Delete removes a title with its reviews and comments.
func (service *Service) Delete(ctx context.Context, actor sec.Actor, id string) error {
	if err := sec.Authorize(sec.AdminOrReadOnly, actor, sec.ActionDelete); err != nil {
		return err
	}
	if !uuid.Valid(id) {
		return apperr.NotFound("Title")
	}

	if err := service.repo.Delete(ctx, id); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("Title")
		}
		return fmt.Errorf("title_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "title_deleted",
		slog.String("title_id", id),
		slog.String("admin_id", actor.UserID),
	)
	return nil
}

// # Helpers

func (service *Service) validate(validator *validate.Validator, record *Record) {
	currentYear := service.now().Year()

	validator.Required(FieldName, record.Name).
		MaxLen(FieldName, record.Name, NameMaxLength).
		Custom(FieldYear, record.Year > currentYear, "Year cannot be in the future").
		Custom(FieldYear, record.Year < YearMin, fmt.Sprintf("Year cannot be before %d", YearMin))
}

// resolveRelations turns slugs into IDs on record. A nil pointer keeps the
// current relation.
func (service *Service) resolveRelations(ctx context.Context, record *Record, category *string, genres *[]string) error {
	if category != nil {
		record.CategoryID = nil
		if *category != "" {
			term, err := service.categories.Get(ctx, *category)
			if err != nil {
				return relationError(err, FieldCategory, *category)
			}
			record.CategoryID = &term.ID
		}
	}

	if genres != nil {
		seen := make(map[string]bool, len(*genres))
		record.GenreIDs = make([]string, 0, len(*genres))
		for _, genreSlug := range *genres {
			if seen[genreSlug] {
				continue
			}
			seen[genreSlug] = true

			term, err := service.genres.Get(ctx, genreSlug)
			if err != nil {
				return relationError(err, FieldGenre, genreSlug)
			}
			record.GenreIDs = append(record.GenreIDs, term.ID)
		}
	}
	return nil
}

func relationError(err error, field, slug string) error {
	if apperr.IsNotFound(err) {
		return validate.RequiredError(field, fmt.Sprintf("Unknown slug %q", slug))
	}
	return fmt.Errorf("title_service_resolve_%s_failed: %w", field, err)
}

func recordOf(title *Title) *Record {
	record := &Record{
		ID:          title.ID,
		Name:        title.Name,
		Year:        title.Year,
		Description: title.Description,
		GenreIDs:    make([]string, 0, len(title.Genres)),
	}
	if title.Category != nil {
		categoryID := title.Category.ID
		record.CategoryID = &categoryID
	}
	for _, genre := range title.Genres {
		record.GenreIDs = append(record.GenreIDs, genre.ID)
	}
	return record
}
