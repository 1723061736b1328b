package analyzer

import "github.com/anime-shed/card-inspector-go/pkg/models"

// DefaultMetricScore is the neutral value used when an analyzer cannot produce a measurement
const DefaultMetricScore = 50.0

// Stage names used in degradation errors and logs
const (
	StageSharpness = "sharpness"
	StageColor     = "color_statistics"
	StageDecode    = "decode"
)

// ContainerInfo holds what the metadata extractor learns from the container
type ContainerInfo struct {
	Resolution models.Resolution
	FileInfo   models.FileInfo
}

// ChannelStats summarises one colour channel over all pixels
type ChannelStats struct {
	Min    uint8
	Max    uint8
	Mean   float64
	StdDev float64
}

// ColorScores holds per-channel statistics and the two derived scores
type ColorScores struct {
	Channels           [3]ChannelStats
	Complexity         float64
	BrightnessVariance float64
}

func defaultColorScores() ColorScores {
	return ColorScores{Complexity: DefaultMetricScore, BrightnessVariance: DefaultMetricScore}
}

// QualityReport is the outcome of QualityAnalyzer.Analyze
type QualityReport struct {
	Metrics models.ImageQualityMetrics
	// Degraded lists one metric_degraded error per analyzer that fell back to its default
	Degraded []error
}

// Partial reports whether any analyzer degraded
func (r *QualityReport) Partial() bool {
	return len(r.Degraded) > 0
}
