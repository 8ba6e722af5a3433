package coverage

import (
	"strings"
	"unicode/utf8"

	"github.com/rohmanhakim/geo-analyzer/internal/qsource"
)

// Ratio returns the share of search questions that share at least one
// token with some page question, in [0,1].
//
// Tokens here are the lowercased whitespace-separated words of two runes
// or more. Stop words are not removed. Without search questions the ratio is 0.
func Ratio(pageQuestions []string, searchQuestions []qsource.SearchQuestion) float64 {
	if len(searchQuestions) == 0 || len(pageQuestions) == 0 {
		return 0
	}

	pageTokens := make([]map[string]struct{}, 0, len(pageQuestions))
	for _, q := range pageQuestions {
		if set := tokenSet(q); len(set) > 0 {
			pageTokens = append(pageTokens, set)
		}
	}

	covered := 0
	for _, sq := range searchQuestions {
		if intersectsAny(tokenSet(sq.Text), pageTokens) {
			covered++
		}
	}
	return float64(covered) / float64(len(searchQuestions))
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		if utf8.RuneCountInString(tok) >= 2 {
			set[tok] = struct{}{}
		}
	}
	return set
}

func intersectsAny(tokens map[string]struct{}, pageTokens []map[string]struct{}) bool {
	for tok := range tokens {
		for _, page := range pageTokens {
			if _, ok := page[tok]; ok {
				return true
			}
		}
	}
	return false
}
