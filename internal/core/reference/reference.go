// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reference manages the two lookup vocabularies of the catalogue:
categories and genres.

Both are (name, slug) pairs addressed by slug in URLs, so one [Service]
and one [PostgresRepository] serve either kind; the [Kind] selects the
table and the wording of errors.
*/
package reference

import (
	"context"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Domain Entities

// Term is a category or a genre. The ID stays internal.
type Term struct {
	ID   string `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Kind binds a vocabulary to its table.
type Kind struct {
	// Resource names the entity in error messages ("Category not found").
	Resource string
	Table    schema.ReferenceTable
}

var (
	Categories = Kind{Resource: "Category", Table: schema.CoreCategory}
	Genres     = Kind{Resource: "Genre", Table: schema.CoreGenre}
)

// # Field Identifiers

const (
	FieldName = "name"
	FieldSlug = "slug"

	NameMaxLength = 256
)

// # Repository Contracts

// Repository is the persistence contract of one vocabulary.
type Repository interface {
	// List returns one page ordered by name, filtered by a name substring.
	List(ctx context.Context, search string, page pagination.Params) ([]*Term, int, error)

	// FindBySlug returns NOT_FOUND when the slug is unknown.
	FindBySlug(ctx context.Context, slug string) (*Term, error)

	// Create returns CONFLICT on a duplicate slug.
	Create(ctx context.Context, term *Term) error

	// Update rewrites name and slug of the term with term.ID.
	Update(ctx context.Context, term *Term) error

	// Delete removes the term. Titles keep existing: their category is
	// set to null and genre links are dropped.
	Delete(ctx context.Context, id string) error
}

// # Inputs

// CreateInput is the create payload. An empty slug is derived from Name.
type CreateInput struct {
	Name string
	Slug string
}

// Patch changes a term. A nil field is left untouched.
type Patch struct {
	Name *string
	Slug *string
}
