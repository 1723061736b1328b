package cardmeta

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anime-shed/card-inspector-go/pkg/models"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func TestResolveSeries(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		category models.Category
		want     string
		matched  bool
	}{
		{"Ferrari under cars", "my_Ferrari_F40.jpg", models.CategoryCars, "Ferrari Collection", true},
		{"Separators become spaces", "one-piece_poster.png", models.CategoryAnime, "One Piece", true},
		{"First keyword in table order wins", "ferrari-vs-lamborghini.png", models.CategoryCars, "Ferrari Collection", true},
		{"Table order beats label order", "lamborghini-vs-ferrari.png", models.CategoryCars, "Ferrari Collection", true},
		{"Car default", "IMG_0001.jpg", models.CategoryCars, "Automotive Collection", false},
		{"Keyword from another category is ignored", "ferrari.png", models.CategoryAnime, "Anime Collection", false},
		{"Unknown category uses anime tables", "naruto.png", models.Category("stamps"), "Naruto", true},
		{"Empty label", "", models.CategoryMovies, "Cinema Classics", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, matched := ResolveSeries(tt.label, tt.category)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.matched, matched)
		})
	}
}

func TestEveryCategoryHasDefaultsAndRoster(t *testing.T) {
	for _, c := range models.AllCategories() {
		assert.NotEmpty(t, DefaultSeries(c), "default series for %s", c)
		assert.NotEmpty(t, genericCharacters[c], "generic roster for %s", c)
		for _, rule := range seriesRules[c] {
			assert.NotEmpty(t, seriesCharacters[rule.series], "roster for series %q", rule.series)
		}
	}
}

func TestCharactersFallback(t *testing.T) {
	assert.Equal(t, genericCharacters[models.CategoryCars], Characters("Automotive Collection", models.CategoryCars))
	assert.Equal(t, seriesCharacters["Dragon Ball"], Characters("Dragon Ball", models.CategoryAnime))
	assert.Equal(t, genericCharacters[models.DefaultCategory], Characters("Nowhere", models.Category("x")))
}

func TestPickCharacterSeeded(t *testing.T) {
	a := PickCharacter("Ferrari Collection", models.CategoryCars, seeded(42))
	b := PickCharacter("Ferrari Collection", models.CategoryCars, seeded(42))
	assert.Equal(t, a, b)
	assert.Contains(t, seriesCharacters["Ferrari Collection"], a)

	assert.Contains(t, seriesCharacters["Ferrari Collection"], PickCharacter("Ferrari Collection", models.CategoryCars, nil))
}

func TestSynthesizeStats(t *testing.T) {
	tests := []struct {
		qm   float64
		want uint
	}{
		{0, 50},
		{0.3, 65},
		{0.88, 94},
		{1, 100},
		{1.7, 100},
		{-1, 50},
	}
	for _, tt := range tests {
		stats := SynthesizeStats(tt.qm)
		assert.Equal(t, tt.want, stats.Attack, "qm=%v", tt.qm)
		assert.Equal(t, stats.Attack, stats.Defense)
		assert.Equal(t, stats.Attack, stats.Speed)
		assert.Equal(t, 2*stats.Attack, stats.HP)
	}
}

func TestSynthesizeStatsHPInvariant(t *testing.T) {
	for score := 0; score <= 100; score++ {
		stats := SynthesizeStats(float64(score) / 100)
		require.Equal(t, 2*stats.Attack, stats.HP, "score %d", score)
	}
}

func TestQualityMultiplier(t *testing.T) {
	assert.Equal(t, FallbackQualityMultiplier, QualityMultiplier(nil))
	m := &models.ImageQualityMetrics{Quality: models.QualityScores{QualityScore: 64}}
	assert.InDelta(t, 0.64, QualityMultiplier(m), 1e-12)
}

func TestGenerate(t *testing.T) {
	m := &models.ImageQualityMetrics{Quality: models.QualityScores{QualityScore: 10}}
	info := Generate("red_ferrari.jpg", models.CategoryCars, m, models.Rare, seeded(1))

	assert.Equal(t, "Ferrari Collection", info.Series)
	assert.Equal(t, info.Character, info.Name)
	assert.Contains(t, seriesCharacters["Ferrari Collection"], info.Character)
	assert.Equal(t, models.Rare, info.Rarity)
	assert.Equal(t, uint(55), info.Stats.Attack)
	assert.Equal(t, uint(110), info.Stats.HP)
}

func TestGenerateFallback(t *testing.T) {
	info := Generate("missing.png", models.CategoryCars, nil, models.Common, seeded(1))

	assert.Equal(t, "Automotive Collection", info.Series)
	assert.Contains(t, genericCharacters[models.CategoryCars], info.Character)
	assert.Equal(t, uint(65), info.Stats.Attack)
	assert.Equal(t, uint(130), info.Stats.HP)
}
