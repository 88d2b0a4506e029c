package query

import (
	"strings"

	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/textproc/stemmer"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/textproc/tokenizer"
)

// TokenKind identifies the lexical category of a Token.
type TokenKind int

const (
	TokenWord TokenKind = iota
	TokenAnd
	TokenOr
	TokenNot
	TokenLParen
	TokenRParen
	TokenEnd
)

// Token is one lexical unit of a query string. Stem is populated only for
// TokenWord.
type Token struct {
	Kind TokenKind
	Stem string
}

func isDelimiter(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '(', ')', '!':
		return true
	}
	return false
}

// keyword maps a lowercased raw word to its operator token kind, covering
// English and Cyrillic spellings.
func keyword(lower string) (TokenKind, bool) {
	switch lower {
	case "and":
		return TokenAnd, true
	case "or":
		return TokenOr, true
	case "not":
		return TokenNot, true
	case "и":
		return TokenAnd, true
	case "или":
		return TokenOr, true
	case "не":
		return TokenNot, true
	}
	return 0, false
}

// Lex converts a raw query string into a token stream terminated by
// TokenEnd. Unknown bytes and stray operator characters that don't form a
// recognised operator are treated as delimiters and simply dropped.
func Lex(query string) []Token {
	var tokens []Token
	i := 0
	n := len(query)

	for i < n {
		b := query[i]
		switch {
		case b == ' ' || b == '\t' || b == '\r' || b == '\n':
			i++
		case b == '(':
			tokens = append(tokens, Token{Kind: TokenLParen})
			i++
		case b == ')':
			tokens = append(tokens, Token{Kind: TokenRParen})
			i++
		case b == '!' && (i+1 >= n || query[i+1] != '='):
			tokens = append(tokens, Token{Kind: TokenNot})
			i++
		case b == '!':
			// "!=" is not a NOT operator; skip both bytes as unrecognised.
			i += 2
		case b == '&' && i+1 < n && query[i+1] == '&':
			tokens = append(tokens, Token{Kind: TokenAnd})
			i += 2
		case b == '|' && i+1 < n && query[i+1] == '|':
			tokens = append(tokens, Token{Kind: TokenOr})
			i += 2
		default:
			start := i
			for i < n && !isDelimiter(query[i]) && query[i] != '&' && query[i] != '|' {
				i++
			}
			raw := query[start:i]
			if raw == "" {
				i++
				continue
			}
			lower := strings.ToLower(raw)
			if kind, ok := keyword(lower); ok {
				tokens = append(tokens, Token{Kind: kind})
				continue
			}
			for _, tok := range tokenizer.Tokenize(raw) {
				tokens = append(tokens, Token{Kind: TokenWord, Stem: stemmer.Stem(tok.Text)})
			}
		}
	}

	tokens = append(tokens, Token{Kind: TokenEnd})
	return tokens
}
