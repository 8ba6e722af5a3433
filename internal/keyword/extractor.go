package keyword

import (
	"sort"
	"strings"

	"github.com/rohmanhakim/geo-analyzer/internal/extractor"
	"github.com/rohmanhakim/geo-analyzer/internal/tokenize"
)

/*
Responsibilities
- Derive the seed keywords of a page from its metadata, headings and body

Extraction Rules
- Text blocks are joined in order: title, og:title, description,
  og:description, each heading, then the body prefix
- Empty blocks are skipped
- Tokens are counted per distinct value
- Ranking is by descending count; ties keep first-seen order
- At most maxKeywords are kept; the top keyword always scores 1.0
*/

const (
	DefaultMaxKeywords     = 10
	DefaultBodyPrefixRunes = 800
)

type Extractor struct {
	tokenizer       tokenize.Tokenizer
	maxKeywords     int
	bodyPrefixRunes int
}

func NewExtractor(tokenizer tokenize.Tokenizer, maxKeywords int, bodyPrefixRunes int) Extractor {
	if maxKeywords <= 0 {
		maxKeywords = DefaultMaxKeywords
	}
	if bodyPrefixRunes <= 0 {
		bodyPrefixRunes = DefaultBodyPrefixRunes
	}
	return Extractor{
		tokenizer:       tokenizer,
		maxKeywords:     maxKeywords,
		bodyPrefixRunes: bodyPrefixRunes,
	}
}

type tokenCount struct {
	token string
	count int
}

func (e Extractor) Extract(meta extractor.MetaRecord, headings []string, bodyText string) []SeedKeyword {
	text := e.joinBlocks(meta, headings, bodyText)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	tokens := e.tokenizer.Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	index := make(map[string]int, len(tokens))
	var counts []tokenCount
	for _, tok := range tokens {
		if i, ok := index[tok]; ok {
			counts[i].count++
			continue
		}
		index[tok] = len(counts)
		counts = append(counts, tokenCount{token: tok, count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})
	if len(counts) > e.maxKeywords {
		counts = counts[:e.maxKeywords]
	}

	maxCount := float64(counts[0].count)
	keywords := make([]SeedKeyword, 0, len(counts))
	for _, c := range counts {
		keywords = append(keywords, NewSeedKeyword(c.token, float64(c.count)/maxCount))
	}
	return keywords
}

func (e Extractor) joinBlocks(meta extractor.MetaRecord, headings []string, bodyText string) string {
	blocks := make([]string, 0, 5+len(headings))
	blocks = append(blocks, meta.Title, meta.OGTitle, meta.Description, meta.OGDescription)
	blocks = append(blocks, headings...)
	blocks = append(blocks, runePrefix(bodyText, e.bodyPrefixRunes))

	parts := blocks[:0]
	for _, b := range blocks {
		if b != "" {
			parts = append(parts, b)
		}
	}
	return strings.Join(parts, " ")
}

func runePrefix(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
