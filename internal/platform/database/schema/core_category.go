// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ReferenceTable describes the two slug-addressed lookup tables,
// 'core.category' and 'core.genre'.
type ReferenceTable struct {
	Table string
	ID    string
	Name  string
	Slug  string

	UniqueSlug string
}

// CoreCategory is the schema definition for core.category
var CoreCategory = ReferenceTable{
	Table:      "core.category",
	ID:         "id",
	Name:       "name",
	Slug:       "slug",
	UniqueSlug: "uq_category_slug",
}

// CoreGenre is the schema definition for core.genre
var CoreGenre = ReferenceTable{
	Table:      "core.genre",
	ID:         "id",
	Name:       "name",
	Slug:       "slug",
	UniqueSlug: "uq_genre_slug",
}

func (t ReferenceTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug}
}
