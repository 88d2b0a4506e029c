// Package tokenizer splits UTF-8 text into lowercase word tokens, treating
// ASCII Latin letters, two-byte Cyrillic letters, ASCII digits, and hyphens
// as word characters and everything else as a separator. A token still must
// contain at least one letter and at least two Unicode characters to be
// emitted, so a run of only digits/hyphens with no letter is dropped.
package tokenizer

// Token is a single word extracted from a text along with the byte offset
// of its first byte in the source string.
type Token struct {
	Text     string
	Position int
}

// isASCIILetter reports whether b is an ASCII Latin letter.
func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isASCIIDigitOrHyphen(b byte) bool {
	return (b >= '0' && b <= '9') || b == '-'
}

// isCyrillicPair reports whether the two bytes starting at b1 form a
// two-byte UTF-8 encoding of a Cyrillic letter.
func isCyrillicPair(b1, b2 byte) bool {
	if b1 == 0xD0 {
		return (b2 >= 0x90 && b2 <= 0xBF) || b2 == 0x81
	}
	if b1 == 0xD1 {
		return (b2 >= 0x80 && b2 <= 0x8F) || b2 == 0x91
	}
	return false
}

// foldASCII lowercases an ASCII letter byte.
func foldASCII(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 0x20
	}
	return b
}

// foldCyrillicPair lowercases a two-byte Cyrillic sequence, returning the
// possibly-updated lead and trail bytes.
func foldCyrillicPair(b1, b2 byte) (byte, byte) {
	if b1 == 0xD0 {
		switch {
		case b2 == 0x81: // Ё -> ё
			return 0xD1, 0x91
		case b2 >= 0x90 && b2 <= 0x9F: // А-П -> а-п (same lead byte)
			return 0xD0, b2 + 0x20
		case b2 >= 0xA0 && b2 <= 0xAF: // Р-Я -> р-я (lead byte switches)
			return 0xD1, b2-0xA0+0x80
		}
	}
	return b1, b2
}

// leadByteLen classifies the leading byte of a UTF-8 sequence: 1, 2, 3, or
// 4 for the number of bytes in the sequence it introduces, 0 for a
// continuation or invalid byte.
func leadByteLen(b byte) int {
	switch {
	case b&0x80 == 0x00:
		return 1
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 0
	}
}

// isValidToken reports whether folded contains at least two Unicode
// characters and at least one letter.
func isValidToken(folded []byte, letterCount int) bool {
	charCount := 0
	i := 0
	for i < len(folded) {
		n := leadByteLen(folded[i])
		if n == 0 {
			n = 1
		}
		charCount++
		i += n
	}
	return charCount >= 2 && letterCount >= 1
}

// Tokenize splits text into lowercase word tokens.
func Tokenize(text string) []Token {
	src := []byte(text)
	var tokens []Token

	var buf []byte
	letters := 0
	start := -1

	flush := func(endPos int) {
		if start < 0 {
			return
		}
		if isValidToken(buf, letters) {
			tokens = append(tokens, Token{Text: string(buf), Position: start})
		}
		buf = buf[:0]
		letters = 0
		start = -1
	}

	i := 0
	for i < len(src) {
		b := src[i]

		if isASCIILetter(b) {
			if start < 0 {
				start = i
			}
			buf = append(buf, foldASCII(b))
			letters++
			i++
			continue
		}

		if i+1 < len(src) && isCyrillicPair(b, src[i+1]) {
			if start < 0 {
				start = i
			}
			f1, f2 := foldCyrillicPair(b, src[i+1])
			buf = append(buf, f1, f2)
			letters++
			i += 2
			continue
		}

		if isASCIIDigitOrHyphen(b) {
			if start < 0 {
				start = i
			}
			buf = append(buf, b)
			i++
			continue
		}

		// separator
		flush(i)
		i++
	}
	flush(len(src))

	return tokens
}
