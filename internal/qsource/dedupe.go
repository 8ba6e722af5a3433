package qsource

import (
	"strings"
	"unicode/utf8"
)

const minQuestionRunes = 5

var punctuationSpace = strings.NewReplacer(" ?", "?", " !", "!", " .", ".")

// Dedupe keeps the first question per normalized text, then drops
// questions whose raw text is minQuestionRunes runes or shorter.
// Normalized text is lowercased with whitespace runs folded to one space
// and no space left in front of '?', '!' or '.'.
func Dedupe(questions []SearchQuestion) []SearchQuestion {
	seen := make(map[string]struct{}, len(questions))
	var out []SearchQuestion
	for _, q := range questions {
		key := dedupeKey(q.Text)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
	}

	kept := out[:0]
	for _, q := range out {
		if utf8.RuneCountInString(q.Text) > minQuestionRunes {
			kept = append(kept, q)
		}
	}
	return kept
}

func dedupeKey(text string) string {
	folded := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	return punctuationSpace.Replace(folded)
}
