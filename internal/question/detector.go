package question

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Minimum candidate lengths, in runes. Candidates at or below the
// threshold are never questions.
const (
	PageContentMinLength = 10
	SourceTextMinLength  = 5
)

/*
Detector finds question-like sentences in free text.

Sentence Rules
  - A sentence ends after a run of '.', '!' or '?' that is followed by whitespace
  - The terminal punctuation stays with its sentence
  - Sentences are trimmed; those of minLength runes or fewer are dropped

A sentence is a question when it contains '?' or any interrogative cue.
Questions are returned in text order, duplicates included.
*/
type Detector struct {
	minLength int
	cues      []string
}

func NewDetector(minLength int, cues []string) Detector {
	return Detector{
		minLength: minLength,
		cues:      cues,
	}
}

func (d Detector) Detect(text string) []string {
	var questions []string
	for _, sentence := range splitSentences(text) {
		if utf8.RuneCountInString(sentence) <= d.minLength {
			continue
		}
		if d.isQuestion(sentence) {
			questions = append(questions, sentence)
		}
	}
	return questions
}

func (d Detector) isQuestion(sentence string) bool {
	if strings.ContainsRune(sentence, '?') {
		return true
	}
	for _, cue := range d.cues {
		if strings.Contains(sentence, cue) {
			return true
		}
	}
	return false
}

func splitSentences(text string) []string {
	var sentences []string
	start := 0
	inTerminal := false
	for i, r := range text {
		switch {
		case isTerminal(r):
			inTerminal = true
		case inTerminal && unicode.IsSpace(r):
			if s := strings.TrimSpace(text[start:i]); s != "" {
				sentences = append(sentences, s)
			}
			start = i
			inTerminal = false
		default:
			inTerminal = false
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
