// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

type stubVerifier struct {
	claims map[string]*sec.AuthClaims
}

func (v stubVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if claims, ok := v.claims[token]; ok {
		return claims, nil
	}
	return nil, errors.New("invalid")
}

type stubResolver struct {
	actors map[string]sec.Actor
}

func (r stubResolver) ResolveActor(_ context.Context, userID string) (sec.Actor, error) {
	if actor, ok := r.actors[userID]; ok {
		return actor, nil
	}
	return sec.Actor{}, apperr.NotFound("User")
}

func newAuthenticator() func(http.Handler) http.Handler {
	verifier := stubVerifier{claims: map[string]*sec.AuthClaims{
		"good-token":    {UserID: "u1", Role: "user"},
		"deleted-token": {UserID: "gone"},
		// Stale role in the token; the resolver holds the current one.
		"demoted-token": {UserID: "u2", Role: "admin"},
	}}
	resolver := stubResolver{actors: map[string]sec.Actor{
		"u1": {UserID: "u1", Username: "alice", Role: sec.RoleUser},
		"u2": {UserID: "u2", Username: "bob", Role: sec.RoleUser},
	}}
	return middleware.Authenticate(verifier, resolver)
}

func echoActor() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("X-Actor", ctxutil.GetActor(request.Context()).Username)
		writer.WriteHeader(http.StatusOK)
	})
}

/*
TestAuthenticate verifies the header parsing and actor resolution flow.
*/
func TestAuthenticate(t *testing.T) {
	handler := newAuthenticator()(echoActor())

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantActor  string
	}{
		{"anonymous", "", http.StatusOK, ""},
		{"valid bearer", "Bearer good-token", http.StatusOK, "alice"},
		{"scheme is case insensitive", "bearer good-token", http.StatusOK, "alice"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"missing token", "Bearer ", http.StatusUnauthorized, ""},
		{"invalid token", "Bearer forged", http.StatusUnauthorized, ""},
		{"deleted account", "Bearer deleted-token", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantActor, recorder.Header().Get("X-Actor"))
		})
	}
}

/*
TestAuthorize verifies route-level policies with freshly resolved roles.
*/
func TestAuthorize(t *testing.T) {
	handler := newAuthenticator()(middleware.Authorize(sec.AdminOrReadOnly)(echoActor()))

	tests := []struct {
		name       string
		method     string
		header     string
		wantStatus int
	}{
		{"anonymous read", http.MethodGet, "", http.StatusOK},
		{"anonymous write", http.MethodPost, "", http.StatusUnauthorized},
		{"user write", http.MethodPost, "Bearer good-token", http.StatusForbidden},
		{"stale admin claim is ignored", http.MethodDelete, "Bearer demoted-token", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(tt.method, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

/*
TestRequireAuth verifies anonymous requests are rejected.
*/
func TestRequireAuth(t *testing.T) {
	handler := newAuthenticator()(middleware.RequireAuth(echoActor()))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer good-token")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}
