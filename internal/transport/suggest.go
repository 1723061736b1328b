package transport

import (
	"strings"

	"github.com/arbovm/levenshtein"

	"github.com/anime-shed/card-inspector-go/pkg/models"
)

// maxSuggestionDistance keeps suggestions to plausible typos
const maxSuggestionDistance = 4

// SuggestCategory returns the closest known category for an unrecognised, non-empty value
func SuggestCategory(raw string) (models.Category, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return "", false
	}
	if _, known := models.ParseCategory(normalized); known {
		return "", false
	}

	best := models.Category("")
	bestDistance := maxSuggestionDistance + 1
	for _, c := range models.AllCategories() {
		if d := levenshtein.Distance(normalized, string(c)); d < bestDistance {
			best, bestDistance = c, d
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}
