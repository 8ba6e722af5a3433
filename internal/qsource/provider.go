package qsource

import (
	"context"
	"fmt"
	"net/url"
)

// Provider returns candidate question phrasings for one keyword.
// Implementations must be safe for concurrent use.
type Provider interface {
	Lookup(ctx context.Context, keyword string, source Source) ([]SearchQuestion, error)
}

const searchURLPrefix = "https://www.google.com/search?q="

var questionTemplates = []string{
	"%s 비용은 얼마인가요?",
	"%s 추천 방법은 무엇인가요?",
	"%s 기간은 얼마나 걸리나요?",
}

// TemplateProvider is the offline stand-in for a real question source.
// It phrases a fixed set of questions around the keyword and links each
// one to a search for its own text.
type TemplateProvider struct{}

func NewTemplateProvider() TemplateProvider {
	return TemplateProvider{}
}

func (TemplateProvider) Lookup(ctx context.Context, keyword string, source Source) ([]SearchQuestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	questions := make([]SearchQuestion, 0, len(questionTemplates))
	for _, tmpl := range questionTemplates {
		text := fmt.Sprintf(tmpl, keyword)
		questions = append(questions, SearchQuestion{
			Source: source,
			Text:   text,
			URL:    searchURLPrefix + url.QueryEscape(text),
		})
	}
	return questions, nil
}
