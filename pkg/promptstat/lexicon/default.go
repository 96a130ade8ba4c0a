package lexicon

// Default returns the built-in dictionary: music genres, music emotions and
// narrative elements. Each call builds a fresh, identical value.
//
// Several words are listed twice ("dance" is a genre and a narrative
// element, "dark" an emotion and a narrative element). Narrative is
// declared last and therefore owns them.
func Default() *Dictionary {
	return New([]Category{
		{Key: Genres, Name: "music_genres", Words: defaultGenres},
		{Key: Emotions, Name: "music_emotions", Words: defaultEmotions},
		{Key: Narrative, Name: "narrative_elements", Words: defaultNarrative},
	})
}

var defaultGenres = []string{
	"house", "phonk", "pop", "rock", "electronic", "rap", "jazz", "classical",
	"hip", "hop", "techno", "trance", "ambient", "folk", "country", "rb", "soul",
	"metal", "punk", "indie", "edm", "dubstep", "trap", "lofi", "blues", "disco",
	"reggae", "funk", "dance", "electro", "synth", "bass", "drum", "instrumental",
	"orchestral", "vocal", "choir", "acapella", "acoustic", "ballad", "progressive",
	"alternative", "experimental", "psychedelic", "industrial", "grunge", "hardcore",
	"dnb", "drill", "grime", "garage", "tropical", "latin", "salsa",
	"bossa", "nova", "flamenco", "opera",
}

var defaultEmotions = []string{
	"happy", "sad", "energetic", "calm", "relaxing", "upbeat", "melancholic",
	"angry", "peaceful", "nostalgic", "dramatic", "romantic", "epic", "dark",
	"emotional", "uplifting", "dreamy", "intense", "joyful", "atmospheric",
	"aggressive", "mellow", "soothing", "exciting", "passionate", "haunting",
	"ethereal", "groovy", "hypnotic", "inspiring", "mysterious", "sensual",
	"tender", "triumphant", "whimsical", "bittersweet", "cheerful", "contemplative",
	"ecstatic", "frantic", "gloomy", "hopeful", "laid", "back", "majestic", "melancholy",
	"moody", "optimistic", "playful", "reflective", "serene", "somber", "tense",
	"tranquil", "vibrant", "wistful",
}

var defaultNarrative = []string{
	"story", "journey", "adventure", "love", "night", "day", "summer", "winter",
	"ocean", "mountain", "city", "space", "dream", "memory", "fantasy", "party",
	"dance", "travel", "nature", "rain", "sunset", "morning", "evening", "time",
	"life", "death", "birth", "childhood", "youth", "age", "future", "past",
	"present", "history", "war", "peace", "fight", "battle", "victory", "defeat",
	"success", "failure", "beginning", "end", "forest", "desert", "sea", "river",
	"lake", "sky", "stars", "moon", "sun", "light", "dark", "shadow", "fire", "water",
	"earth", "air", "spring", "autumn", "fall", "season", "holiday", "celebration",
	"ritual", "ceremony", "wedding", "funeral", "graduation", "anniversary",
}
