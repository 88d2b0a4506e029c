package engine

import (
	"strings"
	"unicode/utf8"
)

const snippetWindow = 200
const snippetHalfWindow = snippetWindow / 2

// MakeSnippet returns up to snippetWindow characters of text centred on
// the first occurrence of any query term (case-insensitively), prefixed
// and/or suffixed with "..." wherever the window was clipped. If no term
// is found in text, it falls back to the first snippetWindow characters.
func MakeSnippet(text string, terms []string) string {
	lower := strings.ToLower(text)
	pos := -1
	for _, t := range terms {
		if t == "" {
			continue
		}
		if i := strings.Index(lower, t); i >= 0 && (pos < 0 || i < pos) {
			pos = i
		}
	}

	runes := []rune(text)
	if pos < 0 {
		if len(runes) <= snippetWindow {
			return text
		}
		return string(runes[:snippetWindow]) + "..."
	}

	start := utf8.RuneCountInString(lower[:pos]) - snippetHalfWindow
	prefix := ""
	if start < 0 {
		start = 0
	} else {
		prefix = "..."
	}

	end := start + snippetWindow
	suffix := ""
	if end >= len(runes) {
		end = len(runes)
	} else {
		suffix = "..."
	}

	return prefix + string(runes[start:end]) + suffix
}
