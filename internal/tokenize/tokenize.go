package tokenize

import (
	"strings"
	"unicode/utf8"

	"github.com/rohmanhakim/geo-analyzer/internal/lexicon"
)

/*
Responsibilities
- Turn free text into a filtered token sequence

Normalization Rules
- Lowercase
- Every run of characters outside [0-9a-z] and Hangul syllables becomes one space
- Split on whitespace

Filter Rules
- Drop single-rune tokens
- Drop all-digit tokens
- Drop tokens of maxTokenRunes runes or more
- Drop stop words

The tokenizer is pure: same text and lexicon, same tokens.
*/

const maxTokenRunes = 30

type Tokenizer struct {
	lexicon lexicon.Lexicon
}

func New(lex lexicon.Lexicon) Tokenizer {
	return Tokenizer{lexicon: lex}
}

var defaultTokenizer = New(lexicon.Default())

// NormalizeAndTokenize tokenizes text with the default lexicon.
func NormalizeAndTokenize(text string) []string {
	return defaultTokenizer.Tokenize(text)
}

func (t Tokenizer) Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	var tokens []string
	for _, token := range strings.Fields(normalize(text)) {
		if t.keep(token) {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func (t Tokenizer) keep(token string) bool {
	n := utf8.RuneCountInString(token)
	if n <= 1 || n >= maxTokenRunes {
		return false
	}
	if isAllDigits(token) {
		return false
	}
	return !t.lexicon.IsStopWord(token)
}

// normalize lowercases text and collapses every run of non-token
// characters into a single space.
func normalize(text string) string {
	lower := strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(lower))
	inGap := false
	for _, r := range lower {
		if isTokenRune(r) {
			b.WriteRune(r)
			inGap = false
			continue
		}
		if !inGap {
			b.WriteByte(' ')
			inGap = true
		}
	}
	return b.String()
}

func isTokenRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'z':
		return true
	case r >= 0xAC00 && r <= 0xD7A3:
		return true
	}
	return false
}

func isAllDigits(token string) bool {
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return false
		}
	}
	return true
}
