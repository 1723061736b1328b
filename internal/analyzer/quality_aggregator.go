package analyzer

import (
	"math"

	"github.com/anime-shed/card-inspector-go/pkg/models"
)

// Score weights; they sum to 1
const (
	weightResolution         = 0.30
	weightSharpness          = 0.25
	weightColorComplexity    = 0.20
	weightBrightnessVariance = 0.15
	weightFileSize           = 0.10
)

// Normalisation points and indicator thresholds
const (
	fullScoreMegapixels = 5.0
	fullScoreFileBytes  = 1_000_000

	highResolutionMegapixels = 2.0
	excellentQualityScore    = 80
	richColorsComplexity     = 70.0
	cardAspectRatio          = 0.7
	aspectRatioTolerance     = 0.1
	largeFileBytes           = 500_000
)

// AggregateQuality combines container facts and pixel scores into the final metrics
func AggregateQuality(info ContainerInfo, sharpness float64, color ColorScores) (models.ImageQualityMetrics, error) {
	res := info.Resolution
	resolutionScore := math.Min(100, res.Megapixels/fullScoreMegapixels*100)
	fileSizeScore := math.Min(100, float64(info.FileInfo.SizeBytes)/fullScoreFileBytes*100)

	weighted := weightResolution*resolutionScore +
		weightSharpness*sharpness +
		weightColorComplexity*color.Complexity +
		weightBrightnessVariance*color.BrightnessVariance +
		weightFileSize*fileSizeScore
	qualityScore := int(math.Round(clamp(weighted, 0, 100)))

	quality, err := models.NewQualityScores(sharpness, color.Complexity, color.BrightnessVariance, qualityScore)
	if err != nil {
		return models.ImageQualityMetrics{}, err
	}

	return models.ImageQualityMetrics{
		Resolution: res,
		Quality:    quality,
		FileInfo:   info.FileInfo,
		RarityIndicators: models.RarityIndicators{
			HighResolution:     res.Megapixels >= highResolutionMegapixels,
			ExcellentQuality:   qualityScore >= excellentQualityScore,
			RichColors:         color.Complexity >= richColorsComplexity,
			PerfectAspectRatio: math.Abs(res.AspectRatio-cardAspectRatio) < aspectRatioTolerance,
			LargeFileSize:      info.FileInfo.SizeBytes > largeFileBytes,
		},
	}, nil
}
