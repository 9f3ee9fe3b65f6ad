// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

func newTokenService(t *testing.T, issuer string) *sec.TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenServiceFromKeys(key, &key.PublicKey, issuer)
}

/*
TestTokenService_RoundTrip verifies a minted token verifies with its claims.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t, "yamdb.test")

	token, err := service.GenerateAccessToken("user-1", "alice", "moderator", time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "moderator", claims.Role)
}

/*
TestTokenService_Rejects verifies expired, foreign and tampered tokens fail.
*/
func TestTokenService_Rejects(t *testing.T) {
	service := newTokenService(t, "yamdb.test")

	t.Run("expired", func(t *testing.T) {
		token, err := service.GenerateAccessToken("user-1", "alice", "user", -time.Minute)
		require.NoError(t, err)
		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("signed by another key", func(t *testing.T) {
		foreign := newTokenService(t, "yamdb.test")
		token, err := foreign.GenerateAccessToken("user-1", "alice", "user", time.Minute)
		require.NoError(t, err)
		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("other issuer", func(t *testing.T) {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		signer := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "elsewhere")
		verifier := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "yamdb.test")

		token, err := signer.GenerateAccessToken("user-1", "alice", "user", time.Minute)
		require.NoError(t, err)
		_, err = verifier.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := service.VerifyToken("not.a.token")
		assert.Error(t, err)
	})
}
