// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/api"
	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/config"
	"github.com/taibuivan/yamdb/internal/platform/mail"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/social/review"
	"github.com/taibuivan/yamdb/internal/users/account"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/internal/users/auth/authtest"
)

type testServer struct {
	router  http.Handler
	auth    *auth.Service
	store   *authtest.UserStore
	cleanup context.CancelFunc
}

// newTestServer wires the real identity flow over an in-memory user store.
// Catalogue handlers are routed but never reached by these tests.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tokens := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "yamdb.test")

	codes, err := sec.NewCodeGenerator("test-secret", time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := authtest.NewUserStore()
	authService := auth.NewService(store, codes, tokens, mail.Discard{}, time.Hour, logger)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(context.Context) error { return nil },
		CheckQueue:    func(context.Context) error { return errors.New("redis down") },
	}, logger)

	cfg := &config.Config{Environment: "development", RateLimitRPS: 1000, RateLimitBurst: 1000}
	ctx, cancel := context.WithCancel(context.Background())

	router := api.NewRouter(ctx, cfg, logger, api.Identity{Verifier: tokens, Resolver: authService}, api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(authService),
		Users:      account.NewHandler(account.NewService(store, logger)),
		Categories: reference.NewHandler(nil),
		Genres:     reference.NewHandler(nil),
		Titles:     title.NewHandler(nil),
		Reviews:    review.NewHandler(nil),
	})

	return &testServer{router: router, auth: authService, store: store, cleanup: cancel}
}

func (s *testServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, request)
	return recorder
}

// login signs up username and exchanges its code for a token.
func (s *testServer) login(t *testing.T, username string) string {
	t.Helper()

	recorder := s.do(http.MethodPost, "/api/v1/auth/signup/", `{"username":"`+username+`","email":"`+username+`@example.com"}`, "")
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	user, err := s.store.FindByUsername(context.Background(), username)
	require.NoError(t, err)
	code := s.auth.IssueCode(user)

	recorder = s.do(http.MethodPost, "/api/v1/auth/token", `{"username":"`+username+`","confirmation_code":"`+code+`"}`, "")
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var payload struct {
		Data struct {
			Access string `json:"access"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.Data.Access)
	return payload.Data.Access
}

/*
TestRouter_IdentityFlow verifies signup, token exchange and the refreshed
actor end to end.
*/
func TestRouter_IdentityFlow(t *testing.T) {
	server := newTestServer(t)
	defer server.cleanup()

	token := server.login(t, "alice")

	recorder := server.do(http.MethodGet, "/api/v1/users/me/", "", token)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"username":"alice"`)

	recorder = server.do(http.MethodPatch, "/api/v1/users/me", `{"bio":"hi","role":"admin"}`, token)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"role":"user"`)

	recorder = server.do(http.MethodGet, "/api/v1/users/", "", token)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	// Promotion applies to the existing token on the next request.
	user, err := server.store.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	user.Role = sec.RoleAdmin
	require.NoError(t, server.store.Update(context.Background(), user))

	recorder = server.do(http.MethodGet, "/api/v1/users/", "", token)
	assert.Equal(t, http.StatusOK, recorder.Code)

	// Deletion revokes it.
	require.NoError(t, server.store.Delete(context.Background(), user.ID))
	recorder = server.do(http.MethodGet, "/api/v1/users/me", "", token)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestRouter_Policies verifies route-level denials before any handler runs.
*/
func TestRouter_Policies(t *testing.T) {
	server := newTestServer(t)
	defer server.cleanup()

	token := server.login(t, "bob")

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{"anonymous me", http.MethodGet, "/api/v1/users/me/", "", http.StatusUnauthorized},
		{"anonymous category create", http.MethodPost, "/api/v1/categories/", "", http.StatusUnauthorized},
		{"user genre delete", http.MethodDelete, "/api/v1/genres/drama/", token, http.StatusForbidden},
		{"user title create", http.MethodPost, "/api/v1/titles", token, http.StatusForbidden},
		{"anonymous review create", http.MethodPost, "/api/v1/titles/0190a000-0000-7000-8000-000000000001/reviews/", "", http.StatusUnauthorized},
		{"forged token", http.MethodGet, "/api/v1/users/me", "forged", http.StatusUnauthorized},
		{"bad code", http.MethodPost, "/api/v1/auth/token/", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{}`
			if tt.name == "bad code" {
				body = `{"username":"bob","confirmation_code":"nope-00"}`
			}
			recorder := server.do(tt.method, tt.path, body, tt.token)
			assert.Equal(t, tt.wantStatus, recorder.Code, recorder.Body.String())
		})
	}
}

/*
TestHealth verifies liveness and a degraded readiness report.
*/
func TestHealth(t *testing.T) {
	server := newTestServer(t)
	defer server.cleanup()

	recorder := server.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = server.do(http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"code":"SERVICE_UNAVAILABLE"`)
	assert.Contains(t, recorder.Body.String(), `{"field":"redis","message":"redis down"}`)
	assert.NotContains(t, recorder.Body.String(), `"field":"postgres"`)
}
