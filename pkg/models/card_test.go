package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResolution(t *testing.T) {
	res, err := NewResolution(3000, 4200)
	require.NoError(t, err)
	assert.InDelta(t, 12.6, res.Megapixels, 1e-9)
	assert.InDelta(t, 3000.0/4200.0, res.AspectRatio, 1e-12)

	_, err = NewResolution(0, 100)
	assert.Error(t, err)
}

func TestNewQualityScores(t *testing.T) {
	_, err := NewQualityScores(50, 50, 50, 50)
	assert.NoError(t, err)

	cases := []struct {
		name                 string
		sharp, color, bright float64
		score                int
	}{
		{"negative sharpness", -1, 0, 0, 0},
		{"colour above 100", 0, 100.5, 0, 0},
		{"NaN brightness", 0, 0, math.NaN(), 0},
		{"score above 100", 0, 0, 0, 101},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewQualityScores(tc.sharp, tc.color, tc.bright, tc.score)
			assert.Error(t, err)
		})
	}
}

func TestNewFileInfo(t *testing.T) {
	fi := NewFileInfo(1048576, "png", nil)
	assert.InDelta(t, 1.0, fi.SizeMB, 1e-12)
	assert.Nil(t, fi.Density)
}

func TestRarityIndicatorsCount(t *testing.T) {
	assert.Equal(t, 0, RarityIndicators{}.Count())
	assert.Equal(t, 2, RarityIndicators{HighResolution: true, LargeFileSize: true}.Count())
	assert.Equal(t, 5, RarityIndicators{true, true, true, true, true}.Count())
}

func validInfo() CardInfo {
	return CardInfo{
		Name:      "Goku",
		Series:    "Dragon Ball",
		Character: "Goku",
		Rarity:    Rare,
		Stats:     CardStats{Attack: 80, Defense: 80, Speed: 80, HP: 160},
	}
}

func TestNewCardAnalysisResult(t *testing.T) {
	result, err := NewCardAnalysisResult(validInfo(), 0.5, nil, "A card.")
	require.NoError(t, err)
	assert.Equal(t, 0.5, result.Confidence)

	badHP := validInfo()
	badHP.Stats.HP = 159
	badRarity := validInfo()
	badRarity.Rarity = Rarity(9)

	cases := []struct {
		name       string
		info       CardInfo
		confidence float64
		story      string
	}{
		{"confidence too low", validInfo(), 0.05, "x"},
		{"confidence too high", validInfo(), 1.01, "x"},
		{"hp mismatch", badHP, 0.5, "x"},
		{"invalid rarity", badRarity, 0.5, "x"},
		{"empty story", validInfo(), 0.5, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCardAnalysisResult(tc.info, tc.confidence, nil, tc.story)
			assert.Error(t, err)
		})
	}
}

func TestCardAnalysisResultJSONShape(t *testing.T) {
	quality := &ImageQualityMetrics{
		Resolution: Resolution{Width: 10, Height: 20, Megapixels: 0.0002, AspectRatio: 0.5},
		FileInfo:   NewFileInfo(100, "jpeg", nil),
	}
	result, err := NewCardAnalysisResult(validInfo(), 0.5, quality, "A card.")
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Contains(t, generic, "cardInfo")
	assert.Contains(t, generic, "confidence")
	assert.Contains(t, generic, "imageQuality")
	assert.Contains(t, generic, "story")

	cardInfo := generic["cardInfo"].(map[string]any)
	assert.Equal(t, "Rare", cardInfo["rarity"])
	stats := cardInfo["stats"].(map[string]any)
	assert.Equal(t, float64(160), stats["hp"])

	iq := generic["imageQuality"].(map[string]any)
	for _, key := range []string{"resolution", "quality", "fileInfo", "rarityIndicators"} {
		assert.Contains(t, iq, key)
	}
	assert.NotContains(t, iq["fileInfo"].(map[string]any), "density")
}
