// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title manages the catalogue of works that users review.

A title belongs to at most one category and any number of genres. Clients
write category and genres as slugs and read them back as nested
{name, slug} objects. The rating is the rounded average of review scores,
computed on read.
*/
package title

import (
	"context"
	"time"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Domain Entities

// Title is the read model of a catalogue entry.
type Title struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Year        int              `json:"year"`
	Description string           `json:"description"`
	Rating      *int             `json:"rating"`
	Category    *reference.Term  `json:"category"`
	Genres      []reference.Term `json:"genre"`
	CreatedAt   time.Time        `json:"-"`
	UpdatedAt   time.Time        `json:"-"`
}

// Record is the write model: relations are resolved to IDs.
type Record struct {
	ID          string
	Name        string
	Year        int
	Description string
	CategoryID  *string
	GenreIDs    []string
}

// Filter narrows a title listing. Empty fields do not filter.
type Filter struct {
	Category string // category slug
	Genre    string // genre slug
	Name     string // case-insensitive substring
	Year     *int
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldYear        = "year"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldGenre       = "genre"

	NameMaxLength = 256

	// YearMin is the earliest accepted release year, well inside INTEGER.
	YearMin = -5000
)

// # Repository Contracts

// Repository is the persistence contract for titles.
type Repository interface {
	List(ctx context.Context, filter Filter, page pagination.Params) ([]*Title, int, error)
	FindByID(ctx context.Context, id string) (*Title, error)

	// Create and Update write the row and its genre links atomically.
	Create(ctx context.Context, record *Record) error
	Update(ctx context.Context, record *Record) error

	// Delete removes the title; its reviews and comments cascade.
	Delete(ctx context.Context, id string) error
}

// TermFinder resolves a category or genre slug.
type TermFinder interface {
	Get(ctx context.Context, slug string) (*reference.Term, error)
}

// # Inputs

// CreateInput is the create payload.
type CreateInput struct {
	Name        string
	Year        *int
	Description string
	Category    string
	Genres      []string
}

// Patch changes a title. A nil field is left untouched; an empty Category
// clears the category.
type Patch struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genres      *[]string
}
