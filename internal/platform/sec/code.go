// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

// # Confirmation Codes

const (
	// codeKeyInfo separates the confirmation-code key from any other key
	// derived from the same secret.
	codeKeyInfo = "yamdb/confirmation-code/v1"

	// codeMACBytes is the number of HMAC bytes kept in a code.
	codeMACBytes = 16

	// codeClockSkew tolerates codes stamped slightly in the future.
	codeClockSkew = 30 * time.Second
)

// CodeSubject is the account state a confirmation code is bound to.
//
// Changing any field invalidates every outstanding code for the account.
type CodeSubject struct {
	AccountID string
	Username  string
	Email     string
}

// CodeGenerator issues and verifies stateless confirmation codes.
//
// # Format
//
//	<issued-at, unix seconds, base36>-<hex(HMAC-SHA256(key, subject, issued-at))[:32]>
//
// Nothing is persisted. Verification recomputes the MAC for the account's
// current state and checks the embedded timestamp against the TTL.
type CodeGenerator struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewCodeGenerator derives the MAC key from secret with HKDF-SHA256.
func NewCodeGenerator(secret string, ttl time.Duration) (*CodeGenerator, error) {
	if secret == "" {
		return nil, errors.New("sec: confirmation code secret is empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("sec: confirmation code ttl must be positive, got %s", ttl)
	}

	key := make([]byte, sha256.Size)
	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte(codeKeyInfo))
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("sec: failed to derive confirmation code key: %w", err)
	}

	return &CodeGenerator{key: key, ttl: ttl, now: time.Now}, nil
}

// WithClock returns a copy of the generator reading time from now.
func (generator *CodeGenerator) WithClock(now func() time.Time) *CodeGenerator {
	clone := *generator
	clone.now = now
	return &clone
}

// TTL returns how long an issued code stays valid.
func (generator *CodeGenerator) TTL() time.Duration {
	return generator.ttl
}

// Generate issues a code for the subject's current state.
func (generator *CodeGenerator) Generate(subject CodeSubject) string {
	issuedAt := generator.now().Unix()
	return strconv.FormatInt(issuedAt, 36) + "-" + generator.mac(subject, issuedAt)
}

// Verify reports whether code was issued for subject, in its current state,
// within the TTL. The MAC comparison is constant time.
func (generator *CodeGenerator) Verify(subject CodeSubject, code string) bool {
	stamp, mac, found := strings.Cut(code, "-")
	if !found || stamp == "" || mac == "" {
		return false
	}

	issuedAt, err := strconv.ParseInt(stamp, 36, 64)
	if err != nil || strconv.FormatInt(issuedAt, 36) != stamp {
		return false
	}

	expected := generator.mac(subject, issuedAt)
	if !hmac.Equal([]byte(expected), []byte(mac)) {
		return false
	}

	age := generator.now().Sub(time.Unix(issuedAt, 0))
	return age >= -codeClockSkew && age <= generator.ttl
}

// mac writes every field length-prefixed so that no two subjects share
// an input encoding.
func (generator *CodeGenerator) mac(subject CodeSubject, issuedAt int64) string {
	hash := hmac.New(sha256.New, generator.key)

	for _, field := range []string{subject.AccountID, subject.Username, subject.Email} {
		var length [4]byte
		binary.BigEndian.PutUint32(length[:], uint32(len(field)))
		hash.Write(length[:])
		hash.Write([]byte(field))
	}

	var stamp [8]byte
	binary.BigEndian.PutUint64(stamp[:], uint64(issuedAt))
	hash.Write(stamp[:])

	return hex.EncodeToString(hash.Sum(nil)[:codeMACBytes])
}
