// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/mail"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/internal/users/auth/authtest"
)

// # Fixtures

type stubTokens struct{}

func (stubTokens) GenerateAccessToken(userID, username, role string, _ time.Duration) (string, error) {
	return "token:" + userID + ":" + username + ":" + role, nil
}

type recordingOutbox struct {
	mu       sync.Mutex
	err      error
	messages []mail.Message
}

func (o *recordingOutbox) Enqueue(_ context.Context, message mail.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.messages = append(o.messages, message)
	return nil
}

// lastCode extracts the code from the most recent confirmation mail.
func (o *recordingOutbox) lastCode(t *testing.T) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.messages)

	for _, line := range strings.Split(o.messages[len(o.messages)-1].Text, "\n") {
		if trimmed := strings.TrimSpace(line); strings.Count(trimmed, "-") == 1 && !strings.Contains(trimmed, " ") {
			return trimmed
		}
	}
	t.Fatal("no code in message")
	return ""
}

type fixture struct {
	service *auth.Service
	store   *authtest.UserStore
	outbox  *recordingOutbox
	codes   *sec.CodeGenerator
}

func newFixture(t *testing.T, users ...*auth.User) *fixture {
	t.Helper()

	codes, err := sec.NewCodeGenerator("test-secret", time.Hour)
	require.NoError(t, err)

	store := authtest.NewUserStore(users...)
	outbox := &recordingOutbox{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		service: auth.NewService(store, codes, stubTokens{}, outbox, time.Hour, logger),
		store:   store,
		outbox:  outbox,
		codes:   codes,
	}
}

func alice() *auth.User {
	return &auth.User{ID: "id-alice", Username: "alice", Email: "alice@example.com", Role: sec.RoleUser}
}

// # Signup

/*
TestSignup_CreatesAccountAndMailsCode verifies the happy path.
*/
func TestSignup_CreatesAccountAndMailsCode(t *testing.T) {
	f := newFixture(t)

	user, err := f.service.Signup(context.Background(), auth.SignupInput{Username: "bob", Email: "bob@Example.COM"})
	require.NoError(t, err)

	assert.Equal(t, "bob", user.Username)
	assert.Equal(t, "bob@example.com", user.Email)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.Equal(t, 1, f.store.Count())

	require.Len(t, f.outbox.messages, 1)
	assert.Equal(t, "bob@example.com", f.outbox.messages[0].To)
	assert.True(t, f.codes.Verify(user.CodeSubject(), f.outbox.lastCode(t)))
}

/*
TestSignup_Validation verifies malformed payloads are rejected.
*/
func TestSignup_Validation(t *testing.T) {
	tests := []struct {
		name     string
		input    auth.SignupInput
		badField string
	}{
		{"reserved username", auth.SignupInput{Username: "me", Email: "me@example.com"}, auth.FieldUsername},
		{"empty username", auth.SignupInput{Username: "", Email: "x@example.com"}, auth.FieldUsername},
		{"bad characters", auth.SignupInput{Username: "bad name!", Email: "x@example.com"}, auth.FieldUsername},
		{"too long", auth.SignupInput{Username: strings.Repeat("a", 151), Email: "x@example.com"}, auth.FieldUsername},
		{"bad email", auth.SignupInput{Username: "carol", Email: "carol"}, auth.FieldEmail},
		{"empty email", auth.SignupInput{Username: "carol", Email: ""}, auth.FieldEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.service.Signup(context.Background(), tt.input)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeValidation, ae.Code)
			require.NotEmpty(t, ae.Details)
			assert.Equal(t, tt.badField, ae.Details[0].Field)
			assert.Zero(t, f.store.Count())
		})
	}
}

/*
TestSignup_Conflicts verifies partial matches with an existing account.
*/
func TestSignup_Conflicts(t *testing.T) {
	tests := []struct {
		name  string
		input auth.SignupInput
		field string
	}{
		{"username taken", auth.SignupInput{Username: "alice", Email: "other@example.com"}, auth.FieldUsername},
		{"email taken", auth.SignupInput{Username: "alice2", Email: "alice@example.com"}, auth.FieldEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, alice())

			_, err := f.service.Signup(context.Background(), tt.input)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeConflict, ae.Code)
			assert.Equal(t, tt.field, ae.Details[0].Field)
			assert.Empty(t, f.outbox.messages)
		})
	}
}

/*
TestSignup_Repeat verifies the exact pair re-issues a code for the same
account.
*/
func TestSignup_Repeat(t *testing.T) {
	f := newFixture(t, alice())

	user, err := f.service.Signup(context.Background(), auth.SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "id-alice", user.ID)
	assert.Equal(t, 1, f.store.Count())
	assert.Len(t, f.outbox.messages, 1)
}

/*
TestSignup_MailFailureIgnored verifies the outbox cannot fail a signup.
*/
func TestSignup_MailFailureIgnored(t *testing.T) {
	f := newFixture(t)
	f.outbox.err = errors.New("redis down")

	user, err := f.service.Signup(context.Background(), auth.SignupInput{Username: "bob", Email: "bob@example.com"})

	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
	assert.Equal(t, 1, f.store.Count())
}

/*
TestSignup_ConcurrentSameEmail verifies racing signups for one email end in
exactly one account and one CONFLICT.
*/
func TestSignup_ConcurrentSameEmail(t *testing.T) {
	for range 20 {
		f := newFixture(t)

		var (
			wg   sync.WaitGroup
			errs = make([]error, 2)
		)
		for i, username := range []string{"first", "second"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = f.service.Signup(context.Background(), auth.SignupInput{Username: username, Email: "same@example.com"})
			}()
		}
		wg.Wait()

		successes, conflicts := 0, 0
		for _, err := range errs {
			switch {
			case err == nil:
				successes++
			case apperr.IsCode(err, apperr.CodeConflict):
				conflicts++
			}
		}
		assert.Equal(t, 1, successes)
		assert.Equal(t, 1, conflicts)
		assert.Equal(t, 1, f.store.Count())
	}
}

/*
TestSignup_StoreFailure verifies unexpected store errors are not masked.
*/
func TestSignup_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.store.Err = errors.New("connection refused")

	_, err := f.service.Signup(context.Background(), auth.SignupInput{Username: "bob", Email: "bob@example.com"})

	require.Error(t, err)
	assert.Nil(t, apperr.As(err))
}

// # Token Exchange

/*
TestObtainToken covers the exchange error taxonomy.
*/
func TestObtainToken(t *testing.T) {
	f := newFixture(t, alice())
	code := f.service.IssueCode(alice())

	tests := []struct {
		name     string
		username string
		code     string
		wantCode string
	}{
		{"empty code", "alice", "", apperr.CodeValidation},
		{"empty username", "", code, apperr.CodeValidation},
		{"unknown user", "nobody", code, apperr.CodeNotFound},
		{"wrong code", "alice", code[:len(code)-1] + "x", apperr.CodeInvalidCredential},
		{"garbage code", "alice", "not-a-code", apperr.CodeInvalidCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.ObtainToken(context.Background(), tt.username, tt.code)
			assert.True(t, apperr.IsCode(err, tt.wantCode), "got %v", err)
		})
	}
}

/*
TestObtainToken_BothFieldsEmpty verifies both fields are reported.
*/
func TestObtainToken_BothFieldsEmpty(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ObtainToken(context.Background(), "", "")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 2)
}

/*
TestObtainToken_Idempotent verifies a valid code can be exchanged repeatedly.
*/
func TestObtainToken_Idempotent(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Signup(context.Background(), auth.SignupInput{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)
	code := f.outbox.lastCode(t)

	for range 3 {
		token, err := f.service.ObtainToken(context.Background(), "bob", code)
		require.NoError(t, err)
		assert.Contains(t, token, ":bob:user")
	}
}

/*
TestObtainToken_EverySingleCharacterAlteration verifies no one-character
edit of a valid code is accepted.
*/
func TestObtainToken_EverySingleCharacterAlteration(t *testing.T) {
	f := newFixture(t, alice())
	code := f.service.IssueCode(alice())

	for i := range len(code) {
		altered := []byte(code)
		if altered[i] == 'f' {
			altered[i] = 'e'
		} else {
			altered[i] = 'f'
		}

		_, err := f.service.ObtainToken(context.Background(), "alice", string(altered))
		assert.True(t, apperr.IsCode(err, apperr.CodeInvalidCredential), "position %d", i)
	}
}

// # Actor Resolution

/*
TestResolveActor verifies the actor reflects the stored account.
*/
func TestResolveActor(t *testing.T) {
	admin := &auth.User{ID: "id-root", Username: "root", Email: "root@example.com", Role: sec.RoleUser, IsSuperuser: true}
	f := newFixture(t, admin)

	actor, err := f.service.ResolveActor(context.Background(), "id-root")
	require.NoError(t, err)
	assert.True(t, actor.IsAdmin())
	assert.Equal(t, "root", actor.Username)

	_, err = f.service.ResolveActor(context.Background(), "missing")
	assert.True(t, apperr.IsNotFound(err))
}

// # Bootstrap

/*
TestCreateSuperuser verifies the bootstrap account and its usable code.
*/
func TestCreateSuperuser(t *testing.T) {
	f := newFixture(t, alice())

	root, code, err := f.service.CreateSuperuser(context.Background(), auth.SignupInput{Username: "root", Email: "root@example.com"})
	require.NoError(t, err)
	assert.True(t, root.IsSuperuser)
	assert.Equal(t, sec.RoleAdmin, root.Role)
	assert.Empty(t, f.outbox.messages, "bootstrap does not mail")

	token, err := f.service.ObtainToken(context.Background(), "root", code)
	require.NoError(t, err)
	assert.Contains(t, token, ":root:admin")

	_, _, err = f.service.CreateSuperuser(context.Background(), auth.SignupInput{Username: "alice", Email: "other@example.com"})
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))

	_, _, err = f.service.CreateSuperuser(context.Background(), auth.SignupInput{Username: "me", Email: "me@example.com"})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}
