package models

import "strings"

// Category selects the keyword tables and prose templates used for a card
type Category string

const (
	CategoryAnime  Category = "anime-collection"
	CategoryMovies Category = "movies"
	CategoryCars   Category = "car-collection"
	CategoryGames  Category = "games"
	CategorySports Category = "sports"
	CategoryStars  Category = "star-collection"

	// DefaultCategory applies whenever a category is absent or unrecognized
	DefaultCategory = CategoryAnime
)

// AllCategories returns the recognised categories in a stable order
func AllCategories() []Category {
	return []Category{CategoryAnime, CategoryMovies, CategoryCars, CategoryGames, CategorySports, CategoryStars}
}

// Known reports whether c is one of the recognised categories
func (c Category) Known() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory normalises raw input. Unknown or empty values resolve to
// DefaultCategory and ok is false.
func ParseCategory(raw string) (c Category, ok bool) {
	candidate := Category(strings.ToLower(strings.TrimSpace(raw)))
	if candidate.Known() {
		return candidate, true
	}
	return DefaultCategory, false
}
