package analyzer

import (
	"math/rand/v2"
	"testing"

	"github.com/anime-shed/card-inspector-go/pkg/models"
)

func containerInfo(t *testing.T, width, height, sizeBytes uint) ContainerInfo {
	t.Helper()
	res, err := models.NewResolution(width, height)
	if err != nil {
		t.Fatalf("NewResolution: %v", err)
	}
	return ContainerInfo{Resolution: res, FileInfo: models.NewFileInfo(sizeBytes, "jpeg", nil)}
}

func TestAggregateQuality_HighEndCard(t *testing.T) {
	info := containerInfo(t, 3000, 4200, 1_200_000)

	metrics, err := AggregateQuality(info, 100, ColorScores{Complexity: 75, BrightnessVariance: 60})
	if err != nil {
		t.Fatalf("AggregateQuality failed: %v", err)
	}

	// 0.30*100 + 0.25*100 + 0.20*75 + 0.15*60 + 0.10*100 = 89
	if metrics.Quality.QualityScore != 89 {
		t.Errorf("Expected quality score 89, got %d", metrics.Quality.QualityScore)
	}
	ind := metrics.RarityIndicators
	if !ind.HighResolution || !ind.ExcellentQuality || !ind.RichColors || !ind.PerfectAspectRatio || !ind.LargeFileSize {
		t.Errorf("Expected all indicators, got %+v", ind)
	}
	if ind.Count() != 5 {
		t.Errorf("Expected 5 indicators, got %d", ind.Count())
	}
}

func TestAggregateQuality_SmallFlatImage(t *testing.T) {
	info := containerInfo(t, 100, 100, 8_000)

	metrics, err := AggregateQuality(info, 0, ColorScores{})
	if err != nil {
		t.Fatalf("AggregateQuality failed: %v", err)
	}
	if metrics.Quality.QualityScore != 0 {
		t.Errorf("Expected quality score 0, got %d", metrics.Quality.QualityScore)
	}
	if metrics.RarityIndicators.Count() != 0 {
		t.Errorf("Expected no indicators, got %+v", metrics.RarityIndicators)
	}
}

func TestAggregateQuality_IndicatorBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		width  uint
		height uint
		size   uint
		check  func(models.RarityIndicators) bool
		expect bool
	}{
		{"Exactly 2MP is high resolution", 1000, 2000, 1, func(r models.RarityIndicators) bool { return r.HighResolution }, true},
		{"Just under 2MP", 1000, 1999, 1, func(r models.RarityIndicators) bool { return r.HighResolution }, false},
		{"500000 bytes is not large", 10, 10, 500_000, func(r models.RarityIndicators) bool { return r.LargeFileSize }, false},
		{"500001 bytes is large", 10, 10, 500_001, func(r models.RarityIndicators) bool { return r.LargeFileSize }, true},
		{"Aspect 0.75 is card shaped", 750, 1000, 1, func(r models.RarityIndicators) bool { return r.PerfectAspectRatio }, true},
		{"Square is not card shaped", 100, 100, 1, func(r models.RarityIndicators) bool { return r.PerfectAspectRatio }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics, err := AggregateQuality(containerInfo(t, tt.width, tt.height, tt.size), 0, ColorScores{})
			if err != nil {
				t.Fatalf("AggregateQuality failed: %v", err)
			}
			if got := tt.check(metrics.RarityIndicators); got != tt.expect {
				t.Errorf("Expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestAggregateQuality_ScoreAlwaysInRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 500; i++ {
		info := containerInfo(t, uint(rng.IntN(8000)+1), uint(rng.IntN(8000)+1), uint(rng.IntN(5_000_000)+1))
		color := ColorScores{Complexity: rng.Float64() * 100, BrightnessVariance: rng.Float64() * 100}

		metrics, err := AggregateQuality(info, rng.Float64()*100, color)
		if err != nil {
			t.Fatalf("AggregateQuality failed: %v", err)
		}
		q := metrics.Quality.QualityScore
		if q < 0 || q > 100 {
			t.Fatalf("Quality score out of range: %d", q)
		}
		if metrics.RarityIndicators.ExcellentQuality != (q >= 80) {
			t.Fatalf("excellentQuality inconsistent with score %d", q)
		}
	}
}
