package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		raw    string
		want   Category
		wantOK bool
	}{
		{"car-collection", CategoryCars, true},
		{"  Movies ", CategoryMovies, true},
		{"STAR-COLLECTION", CategoryStars, true},
		{"", DefaultCategory, false},
		{"cars", DefaultCategory, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseCategory(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestDefaultCategoryIsAnime(t *testing.T) {
	assert.Equal(t, CategoryAnime, DefaultCategory)
	assert.True(t, DefaultCategory.Known())
	assert.Len(t, AllCategories(), 6)
}
