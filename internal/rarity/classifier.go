// Package rarity assigns card tiers and confidence from aggregated image quality.
package rarity

import (
	"math"

	"github.com/anime-shed/card-inspector-go/pkg/models"
)

// tierRule is one row of the classification table
type tierRule struct {
	tier          models.Rarity
	minScore      int
	minIndicators int
}

// tiers is evaluated top to bottom and the first satisfied rule wins.
// Thresholds never increase down the table, which keeps classification
// monotonic in both inputs.
var tiers = []tierRule{
	{models.Legendary, 90, 4},
	{models.SecretRare, 80, 3},
	{models.UltraRare, 70, 2},
	{models.SuperRare, 60, 2},
	{models.Rare, 50, 0},
	{models.Uncommon, 40, 0},
}

const indicatorBonus = 0.05

// Classify returns the rarest tier whose score and indicator thresholds are both met
func Classify(qualityScore, indicatorCount int) models.Rarity {
	for _, rule := range tiers {
		if qualityScore >= rule.minScore && indicatorCount >= rule.minIndicators {
			return rule.tier
		}
	}
	return models.Common
}

// ClassifyMetrics is Classify applied to a complete measurement
func ClassifyMetrics(m models.ImageQualityMetrics) models.Rarity {
	return Classify(m.Quality.QualityScore, m.RarityIndicators.Count())
}

// EstimateConfidence maps quality and indicator count onto [MinConfidence, MaxConfidence].
// Path-dependent scaling belongs to the caller.
func EstimateConfidence(qualityScore, indicatorCount int) float64 {
	base := float64(qualityScore) / 100
	bonus := float64(indicatorCount) * indicatorBonus
	return Clamp(base + bonus)
}

// Clamp bounds a confidence value to the valid range
func Clamp(confidence float64) float64 {
	if math.IsNaN(confidence) {
		return models.MinConfidence
	}
	return math.Max(models.MinConfidence, math.Min(models.MaxConfidence, confidence))
}
