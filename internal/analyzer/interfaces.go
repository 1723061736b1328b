package analyzer

import "image"

// MetadataExtractor reads container-level facts without decoding pixels
type MetadataExtractor interface {
	Extract(data []byte, sizeBytes int64) (ContainerInfo, error)
}

// MetricsCalculator computes pixel statistics from a decoded image.
// The returned scores are always usable: a non-nil error means the neutral
// default was substituted and carries the reason.
type MetricsCalculator interface {
	SharpnessScore(img image.Image) (float64, error)
	ColorStatistics(img image.Image) (ColorScores, error)
}

// QualityAnalyzer runs metadata extraction, pixel analysis and aggregation for one image
type QualityAnalyzer interface {
	Analyze(data []byte, sizeBytes int64) (*QualityReport, error)
}

// PixelFreeCalculator is implemented by calculators that can score from the
// header alone. The analyzer passes them a nil image when NeedsPixels is false.
type PixelFreeCalculator interface {
	MetricsCalculator
	NeedsPixels() bool
}
