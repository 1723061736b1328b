// Package cardmeta derives card identity and stats from a label, a category and measured quality.
package cardmeta

import (
	"math"
	"math/rand/v2"
	"strings"

	"github.com/anime-shed/card-inspector-go/pkg/models"
)

const (
	baseStat = 50.0
	statSpan = 50.0

	// FallbackQualityMultiplier stands in for qualityScore/100 when no metrics exist
	FallbackQualityMultiplier = 0.3
)

var labelSeparators = strings.NewReplacer("_", " ", "-", " ", ".", " ", "+", " ")

// normalizeLabel lower-cases and turns filename separators into spaces so that
// "one_piece-luffy.png" matches the keyword "one piece"
func normalizeLabel(label string) string {
	return labelSeparators.Replace(strings.ToLower(label))
}

// ResolveSeries returns the series of the first keyword contained in label, or the
// category default. matched is false when the default was used.
func ResolveSeries(label string, category models.Category) (series string, matched bool) {
	if !category.Known() {
		category = models.DefaultCategory
	}
	normalized := normalizeLabel(label)
	for _, rule := range seriesRules[category] {
		if strings.Contains(normalized, rule.keyword) {
			return rule.series, true
		}
	}
	return defaultSeries[category], false
}

// DefaultSeries returns the series used when nothing in the label matches
func DefaultSeries(category models.Category) string {
	if s, ok := defaultSeries[category]; ok {
		return s
	}
	return defaultSeries[models.DefaultCategory]
}

// Characters returns the candidate names for a series, falling back to the category roster
func Characters(series string, category models.Category) []string {
	if names, ok := seriesCharacters[series]; ok && len(names) > 0 {
		return names
	}
	if names, ok := genericCharacters[category]; ok {
		return names
	}
	return genericCharacters[models.DefaultCategory]
}

// PickCharacter chooses one candidate. A nil rng uses the process-wide source.
func PickCharacter(series string, category models.Category, rng *rand.Rand) string {
	names := Characters(series, category)
	if rng == nil {
		return names[rand.IntN(len(names))]
	}
	return names[rng.IntN(len(names))]
}

// QualityMultiplier is qualityScore/100, or the fixed fallback when metrics are missing
func QualityMultiplier(metrics *models.ImageQualityMetrics) float64 {
	if metrics == nil {
		return FallbackQualityMultiplier
	}
	return float64(metrics.Quality.QualityScore) / 100
}

// SynthesizeStats derives battle stats. HP is twice attack by construction.
func SynthesizeStats(qualityMultiplier float64) models.CardStats {
	qm := math.Max(0, math.Min(1, qualityMultiplier))
	v := uint(math.Round(baseStat + qm*statSpan))
	return models.CardStats{
		Attack:  v,
		Defense: v,
		Speed:   v,
		HP:      2 * v,
	}
}

// Generate builds the card identity. metrics may be nil on the fallback path.
func Generate(label string, category models.Category, metrics *models.ImageQualityMetrics, rarity models.Rarity, rng *rand.Rand) models.CardInfo {
	if !category.Known() {
		category = models.DefaultCategory
	}
	series, _ := ResolveSeries(label, category)
	character := PickCharacter(series, category, rng)

	return models.CardInfo{
		Name:      character,
		Series:    series,
		Character: character,
		Rarity:    rarity,
		Stats:     SynthesizeStats(QualityMultiplier(metrics)),
	}
}
