package factory

import (
	"errors"
	"image"

	"github.com/anime-shed/card-inspector-go/internal/analyzer"
	apperrors "github.com/anime-shed/card-inspector-go/internal/errors"
)

var errHeaderOnly = errors.New("pixel analysis disabled")

// headerOnlyCalculator reports neutral scores without decoding pixels, so every
// result it feeds is partial. Useful for fast triage of very large batches where
// only resolution and size matter.
type headerOnlyCalculator struct{}

func (headerOnlyCalculator) NeedsPixels() bool { return false }

func (headerOnlyCalculator) SharpnessScore(image.Image) (float64, error) {
	return analyzer.DefaultMetricScore, apperrors.NewMetricDegradedError(analyzer.StageSharpness, errHeaderOnly)
}

func (headerOnlyCalculator) ColorStatistics(image.Image) (analyzer.ColorScores, error) {
	return analyzer.ColorScores{
		Complexity:         analyzer.DefaultMetricScore,
		BrightnessVariance: analyzer.DefaultMetricScore,
	}, apperrors.NewMetricDegradedError(analyzer.StageColor, errHeaderOnly)
}
