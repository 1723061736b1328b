package analyzer

import (
	"bytes"
	"fmt"
	"image"

	apperrors "github.com/anime-shed/card-inspector-go/internal/errors"
)

// DefaultMaxPixels bounds the decoded image size. Headers declaring more pixels
// than this are scored from metadata only.
const DefaultMaxPixels int64 = 100_000_000

// coreAnalyzer implements QualityAnalyzer and sequences extraction, decoding,
// pixel analysis and aggregation
type coreAnalyzer struct {
	extractor  MetadataExtractor
	calculator MetricsCalculator
	maxPixels  int64
}

// Option configures a QualityAnalyzer
type Option func(*coreAnalyzer)

// WithMaxPixels overrides DefaultMaxPixels. Values <= 0 keep the default.
func WithMaxPixels(n int64) Option {
	return func(ca *coreAnalyzer) {
		if n > 0 {
			ca.maxPixels = n
		}
	}
}

// NewQualityAnalyzer creates an analyzer with the default components
func NewQualityAnalyzer(opts ...Option) QualityAnalyzer {
	return NewQualityAnalyzerWith(NewMetadataExtractor(), NewMetricsCalculator(), opts...)
}

// NewQualityAnalyzerWith creates an analyzer from explicit components. When the
// calculator implements PixelFreeCalculator and reports it needs no pixels, the
// image is never decoded.
func NewQualityAnalyzerWith(extractor MetadataExtractor, calculator MetricsCalculator, opts ...Option) QualityAnalyzer {
	ca := &coreAnalyzer{
		extractor:  extractor,
		calculator: calculator,
		maxPixels:  DefaultMaxPixels,
	}
	for _, opt := range opts {
		opt(ca)
	}
	return ca
}

// Analyze returns an error only when the container cannot be opened. Pixel-level
// failures are recorded in QualityReport.Degraded and replaced by neutral defaults.
func (ca *coreAnalyzer) Analyze(data []byte, sizeBytes int64) (*QualityReport, error) {
	info, err := ca.extractor.Extract(data, sizeBytes)
	if err != nil {
		return nil, err
	}

	report := &QualityReport{}
	sharpness := DefaultMetricScore
	color := defaultColorScores()

	pixels := int64(info.Resolution.Width) * int64(info.Resolution.Height)
	switch {
	case !needsPixels(ca.calculator):
		sharpness, color = ca.score(report, nil)
	case pixels > ca.maxPixels:
		cause := fmt.Errorf("image declares %d pixels, limit is %d", pixels, ca.maxPixels)
		report.Degraded = append(report.Degraded,
			apperrors.NewMetricDegradedError(StageSharpness, cause),
			apperrors.NewMetricDegradedError(StageColor, cause),
		)
	default:
		img, _, decodeErr := image.Decode(bytes.NewReader(data))
		if decodeErr != nil {
			// Header was readable but the pixel data is not: both analyzers degrade
			report.Degraded = append(report.Degraded,
				apperrors.NewMetricDegradedError(StageSharpness, decodeErr),
				apperrors.NewMetricDegradedError(StageColor, decodeErr),
			)
			break
		}
		sharpness, color = ca.score(report, img)
	}

	metrics, err := AggregateQuality(info, sharpness, color)
	if err != nil {
		return nil, apperrors.NewProcessingError("quality aggregation failed", err)
	}
	report.Metrics = metrics
	return report, nil
}

func (ca *coreAnalyzer) score(report *QualityReport, img image.Image) (float64, ColorScores) {
	sharpness, sharpErr := ca.calculator.SharpnessScore(img)
	if sharpErr != nil {
		report.Degraded = append(report.Degraded, sharpErr)
	}
	color, colorErr := ca.calculator.ColorStatistics(img)
	if colorErr != nil {
		report.Degraded = append(report.Degraded, colorErr)
	}
	return sharpness, color
}

func needsPixels(calc MetricsCalculator) bool {
	if pf, ok := calc.(PixelFreeCalculator); ok {
		return pf.NeedsPixels()
	}
	return true
}
