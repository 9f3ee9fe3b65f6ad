// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := map[string]string{
		"Science Fiction":     "science-fiction",
		"  Film Noir  ":       "film-noir",
		"Café Société":        "cafe-societe",
		"rock_n_roll":         "rock_n_roll",
		"Sci-Fi / Fantasy!!":  "sci-fi-fantasy",
		"Документальный":      "",
		"2001: A Space Odyss": "2001-a-space-odyss",
	}

	for in, want := range tests {
		assert.Equal(t, want, slug.From(in), in)
	}
}

func TestFrom_Truncates(t *testing.T) {
	got := slug.From(strings.Repeat("ab ", 40))
	assert.LessOrEqual(t, len(got), slug.MaxLength)
	assert.False(t, strings.HasSuffix(got, "-"))
}
