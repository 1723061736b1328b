package cardmeta

import "github.com/anime-shed/card-inspector-go/pkg/models"

// seriesRule maps a lower-case label fragment to a series name
type seriesRule struct {
	keyword string
	series  string
}

// seriesRules are scanned in order per category; the first keyword found in the label wins.
// Overlaps are resolved by position in the table and nothing else.
var seriesRules = map[models.Category][]seriesRule{
	models.CategoryAnime: {
		{"naruto", "Naruto"},
		{"sasuke", "Naruto"},
		{"one piece", "One Piece"},
		{"luffy", "One Piece"},
		{"dragon ball", "Dragon Ball"},
		{"goku", "Dragon Ball"},
		{"pokemon", "Pokemon"},
		{"pikachu", "Pokemon"},
		{"attack on titan", "Attack on Titan"},
		{"demon slayer", "Demon Slayer"},
		{"sailor moon", "Sailor Moon"},
		{"my hero", "My Hero Academia"},
		{"evangelion", "Neon Genesis Evangelion"},
	},
	models.CategoryMovies: {
		{"star wars", "Star Wars"},
		{"jedi", "Star Wars"},
		{"avengers", "Marvel Cinematic Universe"},
		{"marvel", "Marvel Cinematic Universe"},
		{"batman", "DC Films"},
		{"superman", "DC Films"},
		{"harry potter", "Wizarding World"},
		{"hogwarts", "Wizarding World"},
		{"lord of the rings", "Middle-earth Saga"},
		{"jurassic", "Jurassic Park"},
		{"james bond", "James Bond"},
		{"007", "James Bond"},
	},
	models.CategoryCars: {
		{"ferrari", "Ferrari Collection"},
		{"lamborghini", "Lamborghini Collection"},
		{"porsche", "Porsche Collection"},
		{"mclaren", "McLaren Collection"},
		{"bmw", "BMW Collection"},
		{"mustang", "Ford Collection"},
		{"ford", "Ford Collection"},
		{"tesla", "Tesla Collection"},
	},
	models.CategoryGames: {
		{"mario", "Super Mario"},
		{"zelda", "The Legend of Zelda"},
		{"final fantasy", "Final Fantasy"},
		{"sonic", "Sonic the Hedgehog"},
		{"street fighter", "Street Fighter"},
		{"minecraft", "Minecraft"},
		{"halo", "Halo"},
	},
	models.CategorySports: {
		{"basketball", "Basketball Legends"},
		{"nba", "Basketball Legends"},
		{"soccer", "Football Legends"},
		{"football", "Football Legends"},
		{"tennis", "Tennis Legends"},
		{"baseball", "Baseball Legends"},
		{"formula 1", "Formula One"},
	},
	models.CategoryStars: {
		{"hollywood", "Hollywood Icons"},
		{"oscar", "Award Winners"},
		{"singer", "Music Legends"},
		{"concert", "Music Legends"},
	},
}

// defaultSeries is used when no keyword matches
var defaultSeries = map[models.Category]string{
	models.CategoryAnime:  "Anime Collection",
	models.CategoryMovies: "Cinema Classics",
	models.CategoryCars:   "Automotive Collection",
	models.CategoryGames:  "Gaming Legends",
	models.CategorySports: "Sports Legends",
	models.CategoryStars:  "Celebrity Stars",
}

var seriesCharacters = map[string][]string{
	"Naruto":                    {"Naruto Uzumaki", "Sasuke Uchiha", "Sakura Haruno", "Kakashi Hatake"},
	"One Piece":                 {"Monkey D. Luffy", "Roronoa Zoro", "Nami", "Sanji"},
	"Dragon Ball":               {"Goku", "Vegeta", "Gohan", "Piccolo"},
	"Pokemon":                   {"Pikachu", "Charizard", "Mewtwo", "Eevee"},
	"Attack on Titan":           {"Eren Yeager", "Mikasa Ackerman", "Levi Ackerman"},
	"Demon Slayer":              {"Tanjiro Kamado", "Nezuko Kamado", "Zenitsu Agatsuma"},
	"Sailor Moon":               {"Sailor Moon", "Sailor Mars", "Sailor Mercury"},
	"My Hero Academia":          {"Izuku Midoriya", "All Might", "Katsuki Bakugo"},
	"Neon Genesis Evangelion":   {"Shinji Ikari", "Rei Ayanami", "Asuka Langley"},
	"Star Wars":                 {"Luke Skywalker", "Darth Vader", "Leia Organa", "Yoda"},
	"Marvel Cinematic Universe": {"Iron Man", "Captain America", "Thor", "Black Widow"},
	"DC Films":                  {"Batman", "Superman", "Wonder Woman"},
	"Wizarding World":           {"Harry Potter", "Hermione Granger", "Albus Dumbledore"},
	"Middle-earth Saga":         {"Frodo Baggins", "Gandalf", "Aragorn"},
	"Jurassic Park":             {"Tyrannosaurus Rex", "Velociraptor", "Alan Grant"},
	"James Bond":                {"James Bond", "M", "Q"},
	"Ferrari Collection":        {"Ferrari F40", "Ferrari LaFerrari", "Ferrari 250 GTO", "Ferrari Enzo"},
	"Lamborghini Collection":    {"Lamborghini Countach", "Lamborghini Aventador", "Lamborghini Miura"},
	"Porsche Collection":        {"Porsche 911", "Porsche 918 Spyder", "Porsche Carrera GT"},
	"McLaren Collection":        {"McLaren F1", "McLaren P1", "McLaren Senna"},
	"BMW Collection":            {"BMW M3", "BMW M1", "BMW i8"},
	"Ford Collection":           {"Ford Mustang", "Ford GT40", "Ford Model T"},
	"Tesla Collection":          {"Tesla Roadster", "Tesla Model S", "Tesla Cybertruck"},
	"Super Mario":               {"Mario", "Luigi", "Princess Peach", "Bowser"},
	"The Legend of Zelda":       {"Link", "Princess Zelda", "Ganondorf"},
	"Final Fantasy":             {"Cloud Strife", "Sephiroth", "Tifa Lockhart"},
	"Sonic the Hedgehog":        {"Sonic", "Tails", "Knuckles", "Shadow"},
	"Street Fighter":            {"Ryu", "Ken", "Chun-Li"},
	"Minecraft":                 {"Steve", "Alex", "Creeper"},
	"Halo":                      {"Master Chief", "Cortana", "The Arbiter"},
	"Basketball Legends":        {"The Point Guard", "The Slam Dunker", "The Sixth Man"},
	"Football Legends":          {"The Striker", "The Playmaker", "The Goalkeeper"},
	"Tennis Legends":            {"The Baseliner", "The Serve-and-Volleyer"},
	"Baseball Legends":          {"The Slugger", "The Ace Pitcher", "The Shortstop"},
	"Formula One":               {"The Pole Sitter", "The Rain Master", "The Champion"},
	"Hollywood Icons":           {"The Leading Lady", "The Action Hero", "The Director"},
	"Award Winners":             {"The Best Actor", "The Best Actress"},
	"Music Legends":             {"The Headliner", "The Diva", "The Guitar Hero"},
}

// genericCharacters covers series without a registered roster, including every default series
var genericCharacters = map[models.Category][]string{
	models.CategoryAnime:  {"Mysterious Hero", "Spirit Warrior", "Shadow Ninja", "Magical Guardian"},
	models.CategoryMovies: {"Silver Screen Hero", "Masked Villain", "Legendary Director"},
	models.CategoryCars:   {"Classic Roadster", "Street Racer", "Grand Tourer", "Rally Champion"},
	models.CategoryGames:  {"Pixel Knight", "Boss Monster", "Speedrunner"},
	models.CategorySports: {"Rookie of the Year", "Team Captain", "Hall of Famer"},
	models.CategoryStars:  {"Rising Star", "Red Carpet Icon", "Chart Topper"},
}
