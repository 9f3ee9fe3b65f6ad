// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer holds small generic helpers for optional fields of PATCH
// payloads, where nil means "not sent".
package pointer

// To returns a pointer to v.
func To[T any](v T) *T {
	return &v
}

// Apply copies *p into dst when p is set and reports whether it did.
func Apply[T any](dst *T, p *T) bool {
	if p == nil {
		return false
	}
	*dst = *p
	return true
}
