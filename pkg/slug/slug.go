// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug turns display names into ASCII URL slugs, e.g.
// "Science Fiction" -> "science-fiction". Categories and genres use it when
// the client omits a slug.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength matches the slug column width.
const MaxLength = 50

var (
	invalidRun = regexp.MustCompile(`[^a-z0-9_]+`)
	edgeDashes = regexp.MustCompile(`^-+|-+$`)
)

// From converts s to a slug: accents are stripped via NFD decomposition,
// everything outside [a-z0-9_] collapses to a single hyphen, and the result
// is cut to [MaxLength].
func From(s string) string {
	stripAccents := transform.Chain(norm.NFD, transform.RemoveFunc(isMark))
	result, _, err := transform.String(stripAccents, s)
	if err != nil {
		result = s
	}

	result = invalidRun.ReplaceAllString(strings.ToLower(result), "-")
	result = edgeDashes.ReplaceAllString(result, "")

	if len(result) > MaxLength {
		result = strings.TrimRight(result[:MaxLength], "-")
	}
	return result
}

func isMark(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
