// Package stemmer implements a Russian, Porter-style suffix-stripping
// stemmer operating directly on UTF-8 byte strings. Tokens shorter than
// four bytes and tokens with no suffix match are returned unchanged; the
// stemmer never fails and is fully deterministic.
package stemmer

// minStemLength is the byte length below which a token bypasses stemming
// entirely.
const minStemLength = 4

// vowels lists the ten Russian vowels as their two-byte UTF-8 encodings.
// а е и о у ы э ю я ё — listed once each; the classic reference table
// lists и twice, which is a harmless duplicate this table does not repeat.
var vowels = [][2]byte{
	{0xD0, 0xB0}, // а
	{0xD0, 0xB5}, // е
	{0xD0, 0xB8}, // и
	{0xD0, 0xBE}, // о
	{0xD1, 0x83}, // у
	{0xD1, 0x8B}, // ы
	{0xD1, 0x8D}, // э
	{0xD1, 0x8E}, // ю
	{0xD1, 0x8F}, // я
	{0xD1, 0x91}, // ё
}

func isVowelAt(b []byte, i int) bool {
	if i+1 >= len(b) {
		return false
	}
	for _, v := range vowels {
		if b[i] == v[0] && b[i+1] == v[1] {
			return true
		}
	}
	return false
}

// rvPosition returns the byte offset of the RV region: two bytes past the
// first vowel found scanning two bytes at a time from the start, or the
// full length if no vowel is present.
func rvPosition(b []byte) int {
	for i := 0; i+1 < len(b); i += 2 {
		if isVowelAt(b, i) {
			return i + 2
		}
	}
	return len(b)
}

// pastRV reports whether a suffix of the given length lies strictly after
// rv, i.e. removing it would not touch bytes at or before rv.
func pastRV(wordLen, suffixLen, rv int) bool {
	return wordLen-suffixLen > rv
}

func hasSuffix(word, suffix string) bool {
	if len(word) < len(suffix) {
		return false
	}
	return word[len(word)-len(suffix):] == suffix
}

func tryRemove(word string, rv int, suffixes []string) (string, bool) {
	for _, s := range suffixes {
		if hasSuffix(word, s) && pastRV(len(word), len(s), rv) {
			return word[:len(word)-len(s)], true
		}
	}
	return word, false
}

var perfectiveGerund = []string{
	"ившись", "ывшись", "вшись", "ивши", "ывши", "вши", "ив", "ыв", "в",
}

var reflexive = []string{"ся", "сь"}

var adjectival = []string{
	"ими", "ыми", "его", "ого", "ему", "ому", "ее", "ие", "ые", "ое",
	"ей", "ий", "ый", "ой", "ем", "им", "ым", "ом", "их", "ых",
	"ую", "юю", "ая", "яя", "ою", "ею",
}

var verb = []string{
	"ейте", "уйте", "ите", "йте", "ешь", "ете", "уют", "ют", "ат", "ят",
	"ны", "ен", "ть", "ишь", "ую", "ю", "ла", "на", "ли", "ло", "но",
	"ет", "й", "л", "н",
}

var noun = []string{
	"иями", "ями", "ами", "ией", "иям", "ием", "иях", "ов", "ев", "ей",
	"ой", "ий", "ям", "ем", "ам", "ом", "ах", "ях", "ию", "ью", "ья",
	"ье", "ии", "и", "ы", "у", "о", "й", "а", "е", "я", "ь",
}

var superlative = []string{"ейше", "ейш"}

// Stem reduces token to its stem. token must already be lowercase (the
// tokenizer's output form).
func Stem(token string) string {
	if len(token) < minStemLength {
		return token
	}

	word := token
	rv := rvPosition([]byte(word))

	// Step 1.
	if reduced, ok := tryRemove(word, rv, perfectiveGerund); ok {
		word = reduced
	} else {
		if reduced, ok := tryRemove(word, rv, reflexive); ok {
			word = reduced
		}
		if reduced, ok := tryRemove(word, rv, adjectival); ok {
			word = reduced
		} else if reduced, ok := tryRemove(word, rv, verb); ok {
			word = reduced
		} else if reduced, ok := tryRemove(word, rv, noun); ok {
			word = reduced
		}
	}

	// Step 2.
	if reduced, ok := tryRemove(word, rv, []string{"и"}); ok {
		word = reduced
	}

	// Step 3.
	if reduced, ok := tryRemove(word, rv, []string{"ость", "ост"}); ok {
		word = reduced
	}

	// Step 4.
	if hasSuffix(word, "нн") && pastRV(len(word), len("нн"), rv) {
		word = word[:len(word)-len("н")]
	} else if reduced, ok := tryRemove(word, rv, superlative); ok {
		word = reduced
		if hasSuffix(word, "нн") && pastRV(len(word), len("нн"), rv) {
			word = word[:len(word)-len("н")]
		}
	} else if reduced, ok := tryRemove(word, rv, []string{"ь"}); ok {
		word = reduced
	}

	return word
}
