package eligibility

import "golang.org/x/text/cases"

var folder = cases.Fold()

// commonWords is the closed set of terms never offered as vocabulary.
// Entries are stored case-folded.
var commonWords = buildSet(
	// stop-words
	"the", "and", "for", "are", "but", "not", "you", "all", "any", "can",
	"had", "her", "was", "one", "our", "out", "has", "him", "his", "how",
	"its", "may", "new", "now", "old", "see", "two", "way", "who", "did",
	"get", "let", "put", "say", "she", "too", "use", "this", "that", "with",
	"have", "from", "they", "will", "would", "there", "their", "what", "about",
	"which", "when", "make", "like", "time", "just", "know", "take", "into",
	"your", "some", "could", "them", "than", "then", "look", "only", "come",
	"over", "also", "back", "after", "first", "well", "even", "want", "because",
	"these", "give", "most", "very", "been", "were", "where", "being", "those",
	"does", "should", "while", "though", "each", "such", "here", "more", "much",
	"many", "both", "same", "other", "another", "every", "either", "neither",
	"upon", "onto", "within", "without", "through", "between", "against",
	"during", "before", "under", "above", "below", "again", "further", "once",
	"yours", "ours", "mine", "hers", "theirs", "myself", "yourself", "itself",
	"whom", "whose", "why", "yes", "yet", "nor", "off", "own", "per", "via",

	// basic vocabulary
	"good", "bad", "big", "small", "thing", "things", "stuff", "people",
	"person", "man", "woman", "day", "year", "way", "place", "part", "work",
	"life", "world", "hand", "home", "house", "water", "food", "money",
	"nice", "great", "little", "long", "high", "right", "left", "next",
	"last", "few", "able", "sure",

	// fillers
	"um", "uh", "erm", "hmm", "huh", "okay", "yeah", "yep", "nope", "nah",
	"like", "basically", "actually", "literally", "really", "whatever",
	"anyway", "ah", "oh", "eh", "ugh", "wow", "oops",

	// abbreviations written as words
	"etc", "aka", "asap", "diy", "fyi", "btw", "imo", "imho", "tbh",
	"idk", "omg", "lol", "rofl", "lmao", "brb", "irl", "tldr",

	// internet slang
	"gonna", "wanna", "gotta", "kinda", "sorta", "lemme", "gimme", "dunno",
	"noob", "pwned", "yolo", "fomo", "meme", "selfie", "emoji", "hashtag",
	"vibe", "vibes", "bruh", "sus", "lit", "bae", "thx", "pls", "plz",
)

func buildSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[folder.String(w)] = struct{}{}
	}
	return set
}

// IsCommonWord reports case-insensitive membership in the common-word set.
func IsCommonWord(word string) bool {
	_, ok := commonWords[folder.String(word)]
	return ok
}
