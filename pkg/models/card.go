package models

import (
	"fmt"
	"math"
)

// Resolution describes the pixel dimensions of the submitted image
type Resolution struct {
	Width       uint    `json:"width"`
	Height      uint    `json:"height"`
	Megapixels  float64 `json:"megapixels"`
	AspectRatio float64 `json:"aspectRatio"`
}

// NewResolution derives megapixels and aspect ratio from the dimensions
func NewResolution(width, height uint) (Resolution, error) {
	if width == 0 || height == 0 {
		return Resolution{}, fmt.Errorf("resolution must be non-zero (got %dx%d)", width, height)
	}
	return Resolution{
		Width:       width,
		Height:      height,
		Megapixels:  float64(width) * float64(height) / 1e6,
		AspectRatio: float64(width) / float64(height),
	}, nil
}

// QualityScores holds the analyzer outputs and the aggregated score
type QualityScores struct {
	SharpnessScore     float64 `json:"sharpnessScore"`
	ColorComplexity    float64 `json:"colorComplexity"`
	BrightnessVariance float64 `json:"brightnessVariance"`
	QualityScore       int     `json:"qualityScore"`
}

// NewQualityScores rejects any component outside [0,100]
func NewQualityScores(sharpness, colorComplexity, brightnessVariance float64, qualityScore int) (QualityScores, error) {
	for name, v := range map[string]float64{
		"sharpnessScore":     sharpness,
		"colorComplexity":    colorComplexity,
		"brightnessVariance": brightnessVariance,
	} {
		if math.IsNaN(v) || v < 0 || v > 100 {
			return QualityScores{}, fmt.Errorf("%s out of range [0,100]: %v", name, v)
		}
	}
	if qualityScore < 0 || qualityScore > 100 {
		return QualityScores{}, fmt.Errorf("qualityScore out of range [0,100]: %d", qualityScore)
	}
	return QualityScores{
		SharpnessScore:     sharpness,
		ColorComplexity:    colorComplexity,
		BrightnessVariance: brightnessVariance,
		QualityScore:       qualityScore,
	}, nil
}

// FileInfo describes the encoded container
type FileInfo struct {
	SizeBytes uint    `json:"sizeBytes"`
	SizeMB    float64 `json:"sizeMB"`
	Format    string  `json:"format"`
	Density   *uint   `json:"density,omitempty"`
}

// NewFileInfo fills SizeMB from the byte count
func NewFileInfo(sizeBytes uint, format string, density *uint) FileInfo {
	return FileInfo{
		SizeBytes: sizeBytes,
		SizeMB:    float64(sizeBytes) / (1024 * 1024),
		Format:    format,
		Density:   density,
	}
}

// RarityIndicators are the five independent quality thresholds
type RarityIndicators struct {
	HighResolution     bool `json:"highResolution"`
	ExcellentQuality   bool `json:"excellentQuality"`
	RichColors         bool `json:"richColors"`
	PerfectAspectRatio bool `json:"perfectAspectRatio"`
	LargeFileSize      bool `json:"largeFileSize"`
}

// Count returns how many indicators are set
func (ri RarityIndicators) Count() int {
	n := 0
	for _, set := range []bool{ri.HighResolution, ri.ExcellentQuality, ri.RichColors, ri.PerfectAspectRatio, ri.LargeFileSize} {
		if set {
			n++
		}
	}
	return n
}

// ImageQualityMetrics is the complete measurement of one image
type ImageQualityMetrics struct {
	Resolution       Resolution       `json:"resolution"`
	Quality          QualityScores    `json:"quality"`
	FileInfo         FileInfo         `json:"fileInfo"`
	RarityIndicators RarityIndicators `json:"rarityIndicators"`
}

// CardStats are the synthesized battle stats
type CardStats struct {
	Attack  uint `json:"attack"`
	Defense uint `json:"defense"`
	Speed   uint `json:"speed"`
	HP      uint `json:"hp"`
}

// CardInfo is the descriptive part of a card
type CardInfo struct {
	Name      string    `json:"name"`
	Series    string    `json:"series"`
	Character string    `json:"character"`
	Rarity    Rarity    `json:"rarity"`
	Stats     CardStats `json:"stats"`
}

const (
	MinConfidence = 0.1
	MaxConfidence = 1.0
)

// CardAnalysisResult is the only output of the analysis pipeline
type CardAnalysisResult struct {
	CardInfo     CardInfo             `json:"cardInfo"`
	Confidence   float64              `json:"confidence"`
	ImageQuality *ImageQualityMetrics `json:"imageQuality,omitempty"`
	Story        string               `json:"story"`
}

// NewCardAnalysisResult checks the result invariants before handing it out
func NewCardAnalysisResult(info CardInfo, confidence float64, quality *ImageQualityMetrics, story string) (CardAnalysisResult, error) {
	if math.IsNaN(confidence) || confidence < MinConfidence || confidence > MaxConfidence {
		return CardAnalysisResult{}, fmt.Errorf("confidence out of range [%.1f,%.1f]: %v", MinConfidence, MaxConfidence, confidence)
	}
	if !info.Rarity.Valid() {
		return CardAnalysisResult{}, fmt.Errorf("invalid rarity %d", int(info.Rarity))
	}
	if info.Stats.HP != 2*info.Stats.Attack {
		return CardAnalysisResult{}, fmt.Errorf("hp %d must equal twice attack %d", info.Stats.HP, info.Stats.Attack)
	}
	if story == "" {
		return CardAnalysisResult{}, fmt.Errorf("story must not be empty")
	}
	return CardAnalysisResult{
		CardInfo:     info,
		Confidence:   confidence,
		ImageQuality: quality,
		Story:        story,
	}, nil
}
