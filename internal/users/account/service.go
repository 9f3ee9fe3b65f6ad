// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

// # Service Layer

// Service applies profile and directory changes.
type Service struct {
	accountRepository AccountRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service].
func NewService(accountRepo AccountRepository, logger *slog.Logger) *Service {
	return &Service{accountRepository: accountRepo, logger: logger}
}

// # Self Profile

/*
GetMe returns the caller's own account.

Returns:
  - *auth.User: The stored profile
  - error: UNAUTHORIZED for anonymous callers, NOT_FOUND if deleted meanwhile
*/
func (service *Service) GetMe(ctx context.Context, actor sec.Actor) (*auth.User, error) {
	if err := sec.Authorize(sec.SelfOnly, actor, sec.ActionRead); err != nil {
		return nil, err
	}

	user, err := service.accountRepository.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_me_failed: %w", err)
	}

	if err := sec.AuthorizeObject(sec.SelfOnly, actor, sec.ActionRead, ownerOf(user)); err != nil {
		return nil, err
	}
	return user, nil
}

/*
UpdateMe applies a self-service patch.

Description: Only the fields of [ProfilePatch] can change. A role sent by
the client never reaches this method, so the stored role is kept as is.
*/
func (service *Service) UpdateMe(ctx context.Context, actor sec.Actor, patch ProfilePatch) (*auth.User, error) {
	if err := sec.Authorize(sec.SelfOnly, actor, sec.ActionUpdate); err != nil {
		return nil, err
	}

	user, err := service.accountRepository.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_me_failed: %w", err)
	}

	if err := sec.AuthorizeObject(sec.SelfOnly, actor, sec.ActionUpdate, ownerOf(user)); err != nil {
		return nil, err
	}

	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	applyPatch(user, patch)

	if err := service.accountRepository.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("account_service_update_me_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "user_profile_updated", slog.String("user_id", user.ID))
	return user, nil
}

// # Admin Directory

// List returns one page of accounts whose username contains search.
func (service *Service) List(ctx context.Context, actor sec.Actor, search string, page pagination.Params) ([]*auth.User, int, error) {
	if err := sec.Authorize(sec.AdminOnly, actor, sec.ActionRead); err != nil {
		return nil, 0, err
	}

	users, total, err := service.accountRepository.List(ctx, search, page)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, total, nil
}

// Get returns the account with the given username.
func (service *Service) Get(ctx context.Context, actor sec.Actor, username string) (*auth.User, error) {
	if err := sec.Authorize(sec.AdminOnly, actor, sec.ActionRead); err != nil {
		return nil, err
	}

	user, err := service.accountRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_failed: %w", err)
	}
	return user, nil
}

// Create adds an account with any role. The new account signs in through
// the regular signup/token flow.
func (service *Service) Create(ctx context.Context, actor sec.Actor, input CreateInput) (*auth.User, error) {
	if err := sec.Authorize(sec.AdminOnly, actor, sec.ActionCreate); err != nil {
		return nil, err
	}

	input.Email = auth.NormalizeEmail(input.Email)
	if input.Role == "" {
		input.Role = string(sec.RoleUser)
	}

	validator := &validate.Validator{}
	auth.ValidateUsername(validator, input.Username)
	auth.ValidateEmail(validator, input.Email)
	validateNames(validator, &input.FirstName, &input.LastName)
	validator.OneOf(auth.FieldRole, input.Role, sec.RoleNames()...)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user := &auth.User{
		ID:        uuid.New(),
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      sec.Role(input.Role),
	}

	if err := service.accountRepository.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("account_service_create_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "user_created_by_admin",
		slog.String("user_id", user.ID),
		slog.String("admin_id", actor.UserID),
		slog.String("role", string(user.Role)),
	)
	return user, nil
}

// Update applies an admin patch, which may include the role.
func (service *Service) Update(ctx context.Context, actor sec.Actor, username string, patch AdminPatch) (*auth.User, error) {
	if err := sec.Authorize(sec.AdminOnly, actor, sec.ActionUpdate); err != nil {
		return nil, err
	}

	user, err := service.accountRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	if err := validatePatch(patch.ProfilePatch); err != nil {
		return nil, err
	}
	var role sec.Role
	if patch.Role != nil {
		parsed, err := sec.ParseRole(*patch.Role)
		if err != nil {
			return nil, validate.RequiredError(auth.FieldRole, "Must be one of: user, moderator, admin")
		}
		role = parsed
	}

	previousRole := user.Role
	applyPatch(user, patch.ProfilePatch)
	if patch.Role != nil {
		user.Role = role
	}

	if err := service.accountRepository.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	if user.Role != previousRole {
		service.logger.InfoContext(ctx, "user_role_changed",
			slog.String("user_id", user.ID),
			slog.String("admin_id", actor.UserID),
			slog.String("from", string(previousRole)),
			slog.String("to", string(user.Role)),
		)
	}
	return user, nil
}

// Delete removes the account with the given username.
func (service *Service) Delete(ctx context.Context, actor sec.Actor, username string) error {
	if err := sec.Authorize(sec.AdminOnly, actor, sec.ActionDelete); err != nil {
		return err
	}

	user, err := service.accountRepository.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	if err := service.accountRepository.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "user_deleted",
		slog.String("user_id", user.ID),
		slog.String("admin_id", actor.UserID),
	)
	return nil
}

// # Helpers

func ownerOf(user *auth.User) sec.Object {
	return sec.Object{OwnerID: user.ID, OwnerUsername: user.Username}
}

func validatePatch(patch ProfilePatch) error {
	validator := &validate.Validator{}
	if patch.Username != nil {
		auth.ValidateUsername(validator, *patch.Username)
	}
	if patch.Email != nil {
		*patch.Email = auth.NormalizeEmail(*patch.Email)
		auth.ValidateEmail(validator, *patch.Email)
	}
	validateNames(validator, patch.FirstName, patch.LastName)
	return validator.Err()
}

func validateNames(validator *validate.Validator, firstName, lastName *string) {
	if firstName != nil {
		validator.MaxLen(auth.FieldFirstName, *firstName, auth.NameMaxLength)
	}
	if lastName != nil {
		validator.MaxLen(auth.FieldLastName, *lastName, auth.NameMaxLength)
	}
}

func applyPatch(user *auth.User, patch ProfilePatch) {
	pointer.Apply(&user.Username, patch.Username)
	pointer.Apply(&user.Email, patch.Email)
	pointer.Apply(&user.FirstName, patch.FirstName)
	pointer.Apply(&user.LastName, patch.LastName)
	pointer.Apply(&user.Bio, patch.Bio)
}
