// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/users/auth"
)

func post(t *testing.T, handler http.Handler, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	return recorder, payload
}

/*
TestHandler_SignupThenToken walks the whole flow over HTTP.
*/
func TestHandler_SignupThenToken(t *testing.T) {
	f := newFixture(t)
	router := auth.NewHandler(f.service).Routes()

	recorder, payload := post(t, router, "/signup", `{"username":"bob","email":"bob@example.com"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, map[string]any{"username": "bob", "email": "bob@example.com"}, payload["data"])

	body := `{"username":"bob","confirmation_code":"` + f.outbox.lastCode(t) + `"}`
	recorder, payload = post(t, router, "/token", body)
	require.Equal(t, http.StatusOK, recorder.Code)
	data := payload["data"].(map[string]any)
	assert.NotEmpty(t, data["access"])
}

/*
TestHandler_ErrorStatuses verifies the taxonomy maps to HTTP statuses.
*/
func TestHandler_ErrorStatuses(t *testing.T) {
	f := newFixture(t, alice())
	router := auth.NewHandler(f.service).Routes()

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"malformed json", "/signup", `{"username":`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"reserved username", "/signup", `{"username":"me","email":"me@example.com"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"taken username", "/signup", `{"username":"alice","email":"x@example.com"}`, http.StatusConflict, "CONFLICT"},
		{"missing code", "/token", `{"username":"alice"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown user", "/token", `{"username":"nobody","confirmation_code":"abc-def"}`, http.StatusNotFound, "NOT_FOUND"},
		{"bad code", "/token", `{"username":"alice","confirmation_code":"abc-def"}`, http.StatusBadRequest, "INVALID_CREDENTIAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, payload := post(t, router, tt.path, tt.body)
			assert.Equal(t, tt.status, recorder.Code)
			assert.Equal(t, tt.code, payload["code"])
		})
	}
}
