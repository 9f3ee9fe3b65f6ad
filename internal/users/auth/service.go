// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/mail"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

// dispatchTimeout bounds the outbox push so a slow Redis never holds up
// the signup response.
const dispatchTimeout = 2 * time.Second

// # Contracts & Types

// TokenProvider mints signed access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// CodeIssuer generates and verifies confirmation codes.
type CodeIssuer interface {
	Generate(subject sec.CodeSubject) string
	Verify(subject sec.CodeSubject, code string) bool
}

// Service implements signup and the code-for-token exchange.
type Service struct {
	userRepository UserRepository
	codeIssuer     CodeIssuer
	tokenProvider  TokenProvider
	outbox         mail.Outbox
	accessTokenTTL time.Duration
	logger         *slog.Logger
}

// NewService constructs a new [Service].
func NewService(
	userRepo UserRepository,
	codes CodeIssuer,
	tokens TokenProvider,
	outbox mail.Outbox,
	accessTokenTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository: userRepo,
		codeIssuer:     codes,
		tokenProvider:  tokens,
		outbox:         outbox,
		accessTokenTTL: accessTokenTTL,
		logger:         logger,
	}
}

// # Signup

// SignupInput is the signup payload.
type SignupInput struct {
	Username string
	Email    string
}

/*
Signup registers an account and mails it a confirmation code.

Description: Submitting the exact (username, email) pair of an existing
account mails a fresh code instead of failing. A username or email that
belongs to a different account is a CONFLICT on that field. Concurrent
duplicate signups are settled by the store's unique constraints.

Mail dispatch is best effort: a failure is logged and the signup still
succeeds.

Returns:
  - *User: The new or existing account
  - error: VALIDATION_ERROR, CONFLICT or storage failures
*/
func (service *Service) Signup(ctx context.Context, input SignupInput) (*User, error) {
	input.Email = NormalizeEmail(input.Email)

	validator := &validate.Validator{}
	ValidateUsername(validator, input.Username)
	ValidateEmail(validator, input.Email)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.resolveSignup(ctx, input)
	if err != nil {
		return nil, err
	}

	service.dispatchCode(ctx, user)
	return user, nil
}

// resolveSignup returns the existing account for a repeated signup or
// creates a new one.
func (service *Service) resolveSignup(ctx context.Context, input SignupInput) (*User, error) {
	existing, err := service.userRepository.FindByUsername(ctx, input.Username)
	switch {
	case err == nil:
		if existing.Email != input.Email {
			return nil, apperr.FieldConflict(FieldUsername, "A user with this username already exists")
		}
		return existing, nil
	case !apperr.IsNotFound(err):
		return nil, fmt.Errorf("auth_service_signup_lookup_failed: %w", err)
	}

	if _, err := service.userRepository.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperr.FieldConflict(FieldEmail, "A user with this email already exists")
	} else if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("auth_service_signup_lookup_failed: %w", err)
	}

	user := &User{
		ID:       uuid.New(),
		Username: input.Username,
		Email:    input.Email,
		Role:     sec.RoleUser,
	}

	if err := service.userRepository.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "account_signed_up",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

// IssueCode returns a fresh confirmation code for user.
func (service *Service) IssueCode(user *User) string {
	return service.codeIssuer.Generate(user.CodeSubject())
}

// CreateSuperuser bootstraps an admin account with the superuser flag and
// returns its confirmation code. Nothing is mailed; the caller hands the
// code over out of band.
func (service *Service) CreateSuperuser(ctx context.Context, input SignupInput) (*User, string, error) {
	input.Email = NormalizeEmail(input.Email)

	validator := &validate.Validator{}
	ValidateUsername(validator, input.Username)
	ValidateEmail(validator, input.Email)
	if err := validator.Err(); err != nil {
		return nil, "", err
	}

	user := &User{
		ID:          uuid.New(),
		Username:    input.Username,
		Email:       input.Email,
		Role:        sec.RoleAdmin,
		IsSuperuser: true,
	}
	if err := service.userRepository.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("auth_service_create_superuser_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "superuser_created",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return user, service.IssueCode(user), nil
}

// dispatchCode queues the confirmation mail and only logs on failure.
func (service *Service) dispatchCode(ctx context.Context, user *User) {
	code := service.IssueCode(user)

	dispatchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)
	defer cancel()

	if err := service.outbox.Enqueue(dispatchCtx, mail.ConfirmationMessage(user.Email, user.Username, code)); err != nil {
		service.logger.WarnContext(ctx, "confirmation_mail_failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		return
	}

	service.logger.InfoContext(ctx, "confirmation_mail_queued", slog.String("user_id", user.ID))
}

// # Token Exchange

/*
ObtainToken exchanges a confirmation code for an access token.

Description: The code is recomputed for the account's current state and
compared in constant time. Nothing is written, so a still-valid code can be
exchanged any number of times.

Returns:
  - string: Signed access token
  - error: VALIDATION_ERROR (empty fields), NOT_FOUND (unknown username),
    INVALID_CREDENTIAL (wrong or expired code)
*/
func (service *Service) ObtainToken(ctx context.Context, username, code string) (string, error) {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		Required(FieldConfirmationCode, code)
	if err := validator.Err(); err != nil {
		return "", err
	}

	user, err := service.userRepository.FindByUsername(ctx, username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", apperr.NotFound("User")
		}
		return "", fmt.Errorf("auth_service_token_lookup_failed: %w", err)
	}

	if !service.codeIssuer.Verify(user.CodeSubject(), code) {
		service.logger.WarnContext(ctx, "confirmation_code_rejected", slog.String("user_id", user.ID))
		return "", apperr.InvalidCredential(FieldConfirmationCode, "Invalid or expired confirmation code")
	}

	token, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, string(user.Role), service.accessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "access_token_issued", slog.String("user_id", user.ID))
	return token, nil
}

// # Actor Resolution

// ResolveActor loads the current permission view of an account. It backs
// the authentication middleware, so role changes and deletions apply to
// tokens that are already issued.
func (service *Service) ResolveActor(ctx context.Context, userID string) (sec.Actor, error) {
	user, err := service.userRepository.FindByID(ctx, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return sec.Actor{}, apperr.NotFound("User")
		}
		return sec.Actor{}, fmt.Errorf("auth_service_resolve_actor_failed: %w", err)
	}
	return user.Actor(), nil
}
