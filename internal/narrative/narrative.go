// Package narrative writes the short flavour text printed on a card.
package narrative

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/anime-shed/card-inspector-go/pkg/models"
)

// pristineThreshold splits quality scores into the two condition buckets
const pristineThreshold = 70

var powerAdjectives = map[models.Rarity]string{
	models.Common:     "emerging",
	models.Uncommon:   "promising",
	models.Rare:       "formidable",
	models.SuperRare:  "powerful",
	models.UltraRare:  "mighty",
	models.SecretRare: "mythical",
	models.Legendary:  "ultimate",
}

// Placeholders: {character} {series} {power} {condition} {rarity} {score} {collection}
var templates = map[models.Category][]string{
	models.CategoryAnime: {
		"{character} steps out of {series} as a {power} fighter, captured in {condition} detail.",
		"From the pages of {series}, the {power} {character} awakens. This {condition} {rarity} card scored {score} for quality.",
		"A {power} aura surrounds {character}. Few {series} cards survive in such {condition} form.",
		"{character} of {series} stands ready, {power} and unyielding, preserved in {condition} condition.",
	},
	models.CategoryMovies: {
		"Lights, camera, action: {character} brings {power} star power from {series}, shown in {condition} quality.",
		"A {power} scene-stealer from {series}, {character} is frozen here in {condition} detail.",
		"{series} presents {character}, a {power} presence on a {condition} {rarity} card.",
	},
	models.CategoryCars: {
		"The {power} {character} roars out of the {series}, its finish {condition} at a quality score of {score}.",
		"Engine warm and lines sharp, the {character} is a {power} machine from the {series} in {condition} shape.",
		"Built for the open road, this {power} {character} joins the {series} as a {condition} {rarity}.",
		"A {condition} print of the {power} {character}, a highlight of any {collection}.",
	},
	models.CategoryGames: {
		"Player one: {character} from {series} enters with {power} stats and a {condition} finish.",
		"Level up with the {power} {character}. This {series} card is a {condition} {rarity}.",
		"{character} spawns from {series}, {power} and ready, rendered in {condition} detail.",
	},
	models.CategorySports: {
		"{character} takes the field for {series}, a {power} competitor captured in {condition} form.",
		"Game day belongs to the {power} {character} of {series}. A {condition} {rarity} for the record books.",
		"From the {series} archive, {character} shows {power} form on a {condition} card.",
	},
	models.CategoryStars: {
		"{character} shines among the {series}, a {power} talent on a {condition} card.",
		"The spotlight finds {character}: {power}, glamorous and preserved in {condition} quality.",
		"A {condition} keepsake of the {power} {character}, straight from the {series}.",
	},
}

var titleCaser = cases.Title(language.English)

// Input is everything the narrative depends on
type Input struct {
	Character    string
	Series       string
	Category     models.Category
	Rarity       models.Rarity
	QualityScore int
}

// PowerAdjective maps a tier onto its descriptive word
func PowerAdjective(r models.Rarity) string {
	if adj, ok := powerAdjectives[r]; ok {
		return adj
	}
	return powerAdjectives[models.Common]
}

// ConditionAdjective buckets the quality score
func ConditionAdjective(qualityScore int) string {
	if qualityScore >= pristineThreshold {
		return "pristine"
	}
	return "well-worn"
}

// CollectionTitle renders a category as a display title, e.g. "Car Collection"
func CollectionTitle(c models.Category) string {
	return titleCaser.String(strings.ReplaceAll(string(c), "-", " "))
}

// Generate picks a template for the category and fills it in. A nil rng uses the
// process-wide source. The result is never empty.
func Generate(in Input, rng *rand.Rand) string {
	set, ok := templates[in.Category]
	if !ok {
		in.Category = models.DefaultCategory
		set = templates[models.DefaultCategory]
	}
	var idx int
	if rng == nil {
		idx = rand.IntN(len(set))
	} else {
		idx = rng.IntN(len(set))
	}

	character := in.Character
	if character == "" {
		character = "An unknown challenger"
	}
	series := in.Series
	if series == "" {
		series = CollectionTitle(in.Category)
	}

	r := strings.NewReplacer(
		"{character}", character,
		"{series}", series,
		"{power}", PowerAdjective(in.Rarity),
		"{condition}", ConditionAdjective(in.QualityScore),
		"{rarity}", in.Rarity.String(),
		"{score}", strconv.Itoa(in.QualityScore),
		"{collection}", CollectionTitle(in.Category),
	)
	return r.Replace(set[idx])
}
