package lexicon

import (
	"encoding/json"
	"os"
	"strings"
)

/*
Lexicon is the versioned word data the text stages depend on.

  - stop words are dropped by the tokenizer
  - interrogative cues mark a sentence as a question even without '?'

A Lexicon is immutable once built and safe for concurrent use.
*/
type Lexicon struct {
	version   string
	stopWords map[string]struct{}
	cues      []string
}

// Default returns the built-in "v1" lexicon.
func Default() Lexicon {
	return New(DefaultVersion, defaultStopWords, defaultInterrogativeCues)
}

func New(version string, stopWords []string, cues []string) Lexicon {
	set := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	ordered := make([]string, 0, len(cues))
	for _, c := range cues {
		c = strings.TrimSpace(c)
		if c != "" {
			ordered = append(ordered, c)
		}
	}
	return Lexicon{
		version:   version,
		stopWords: set,
		cues:      ordered,
	}
}

// FromFile loads a lexicon from a JSON document of the form
// {"version": "...", "stopWords": [...], "interrogativeCues": [...]}.
func FromFile(path string) (Lexicon, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, &LexiconError{
			Message: err.Error(),
			Cause:   ErrCauseReadFailure,
			Path:    path,
		}
	}

	var dto lexiconDTO
	if err := json.Unmarshal(content, &dto); err != nil {
		return Lexicon{}, &LexiconError{
			Message: err.Error(),
			Cause:   ErrCauseParseFailure,
			Path:    path,
		}
	}

	lex := New(strings.TrimSpace(dto.Version), dto.StopWords, dto.InterrogativeCues)
	if lex.version == "" || (len(lex.stopWords) == 0 && len(lex.cues) == 0) {
		return Lexicon{}, &LexiconError{
			Message: path,
			Cause:   ErrCauseEmpty,
			Path:    path,
		}
	}
	return lex, nil
}

func (l Lexicon) Version() string {
	return l.version
}

func (l Lexicon) IsStopWord(token string) bool {
	_, ok := l.stopWords[token]
	return ok
}

// StopWords returns the number of stop words in the lexicon.
func (l Lexicon) StopWords() int {
	return len(l.stopWords)
}

// Cues returns a copy of the interrogative cues in their declared order.
func (l Lexicon) Cues() []string {
	out := make([]string, len(l.cues))
	copy(out, l.cues)
	return out
}
