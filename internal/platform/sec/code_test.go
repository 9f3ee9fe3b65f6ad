// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

func newGenerator(t *testing.T, now *time.Time) *sec.CodeGenerator {
	t.Helper()
	generator, err := sec.NewCodeGenerator("test-secret", time.Hour)
	require.NoError(t, err)
	return generator.WithClock(func() time.Time { return *now })
}

var subject = sec.CodeSubject{AccountID: "0190-aaaa", Username: "alice", Email: "alice@example.com"}

/*
TestCodeGenerator_RoundTrip verifies a fresh code verifies repeatedly.
*/
func TestCodeGenerator_RoundTrip(t *testing.T) {
	now := time.Unix(1_760_000_000, 0)
	generator := newGenerator(t, &now)

	code := generator.Generate(subject)

	for range 3 {
		assert.True(t, generator.Verify(subject, code))
	}
}

/*
TestCodeGenerator_SingleCharacterAlteration verifies that changing any one
character of a valid code makes it fail.
*/
func TestCodeGenerator_SingleCharacterAlteration(t *testing.T) {
	now := time.Unix(1_760_000_000, 0)
	generator := newGenerator(t, &now)
	code := generator.Generate(subject)

	for i := range len(code) {
		for _, replacement := range []byte{'0', 'a', 'A', 'z', '-'} {
			if code[i] == replacement {
				continue
			}
			altered := []byte(code)
			altered[i] = replacement
			assert.False(t, generator.Verify(subject, string(altered)), "position %d -> %q", i, replacement)
		}
	}
}

/*
TestCodeGenerator_Expiry verifies the TTL boundary and future stamps.
*/
func TestCodeGenerator_Expiry(t *testing.T) {
	now := time.Unix(1_760_000_000, 0)
	generator := newGenerator(t, &now)
	code := generator.Generate(subject)

	now = now.Add(time.Hour)
	assert.True(t, generator.Verify(subject, code), "valid at exactly ttl")

	now = now.Add(time.Second)
	assert.False(t, generator.Verify(subject, code), "expired after ttl")

	now = time.Unix(1_760_000_000, 0).Add(-time.Hour)
	assert.False(t, generator.Verify(subject, code), "stamped in the future")
}

/*
TestCodeGenerator_StateChange verifies codes are bound to the account state.
*/
func TestCodeGenerator_StateChange(t *testing.T) {
	now := time.Unix(1_760_000_000, 0)
	generator := newGenerator(t, &now)
	code := generator.Generate(subject)

	changed := []sec.CodeSubject{
		{AccountID: "0190-bbbb", Username: subject.Username, Email: subject.Email},
		{AccountID: subject.AccountID, Username: "alice2", Email: subject.Email},
		{AccountID: subject.AccountID, Username: subject.Username, Email: "new@example.com"},
		// Field boundaries must not be ambiguous.
		{AccountID: subject.AccountID + "alice", Username: "", Email: subject.Email},
	}

	for _, other := range changed {
		assert.False(t, generator.Verify(other, code), "%+v", other)
	}
}

/*
TestCodeGenerator_KeyIsolation verifies a different secret cannot verify.
*/
func TestCodeGenerator_KeyIsolation(t *testing.T) {
	now := time.Unix(1_760_000_000, 0)
	generator := newGenerator(t, &now)

	other, err := sec.NewCodeGenerator("another-secret", time.Hour)
	require.NoError(t, err)
	other = other.WithClock(func() time.Time { return now })

	assert.False(t, other.Verify(subject, generator.Generate(subject)))
}

/*
TestCodeGenerator_Malformed verifies garbage input is rejected.
*/
func TestCodeGenerator_Malformed(t *testing.T) {
	now := time.Unix(1_760_000_000, 0)
	generator := newGenerator(t, &now)

	for _, code := range []string{"", "-", "abc", "abc-", "-abc", "+t5x0g0-00", "zzzzzzzzzzzzzzzz-00"} {
		assert.False(t, generator.Verify(subject, code), code)
	}
}

/*
TestNewCodeGenerator_InvalidConfig verifies constructor guards.
*/
func TestNewCodeGenerator_InvalidConfig(t *testing.T) {
	_, err := sec.NewCodeGenerator("", time.Hour)
	assert.Error(t, err)

	_, err = sec.NewCodeGenerator("secret", 0)
	assert.Error(t, err)
}
