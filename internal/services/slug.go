package services

import "github.com/gosimple/slug"

// maxSlugLength matches the width of the products.slug column.
const maxSlugLength = 255

func init() {
	slug.MaxLength = maxSlugLength
}

// deriveSlug lowercases s and replaces whitespace and punctuation with hyphens.
// The same input always yields the same slug, cut on a word boundary to fit
// the slug column.
func deriveSlug(s string) string {
	return slug.Make(s)
}
