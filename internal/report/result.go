package report

import (
	"encoding/json"
	"time"

	"github.com/rohmanhakim/geo-analyzer/internal/extractor"
	"github.com/rohmanhakim/geo-analyzer/internal/keyword"
	"github.com/rohmanhakim/geo-analyzer/internal/qsource"
	"github.com/rohmanhakim/geo-analyzer/internal/score"
)

// AnalysisResult is the immutable outcome of one analysis run.
type AnalysisResult struct {
	url              string
	normalizedURL    string
	meta             extractor.MetaRecord
	seedKeywords     []keyword.SeedKeyword
	pageQuestions    []string
	searchQuestions  []qsource.SearchQuestion
	questionClusters []QuestionCluster
	scores           score.GeoScores
	analyzedAt       time.Time
}

// QuestionCluster is reserved for a semantic clustering provider and is
// always empty for now.
type QuestionCluster struct {
	Label     string   `json:"label"`
	Questions []string `json:"questions"`
}

func NewAnalysisResult(
	url string,
	normalizedURL string,
	meta extractor.MetaRecord,
	seedKeywords []keyword.SeedKeyword,
	pageQuestions []string,
	searchQuestions []qsource.SearchQuestion,
	scores score.GeoScores,
	analyzedAt time.Time,
) AnalysisResult {
	return AnalysisResult{
		url:              url,
		normalizedURL:    normalizedURL,
		meta:             meta,
		seedKeywords:     cloneSlice(seedKeywords),
		pageQuestions:    cloneSlice(pageQuestions),
		searchQuestions:  cloneSlice(searchQuestions),
		questionClusters: []QuestionCluster{},
		scores:           scores,
		analyzedAt:       analyzedAt.UTC(),
	}
}

func (a AnalysisResult) URL() string {
	return a.url
}

func (a AnalysisResult) NormalizedURL() string {
	return a.normalizedURL
}

func (a AnalysisResult) Meta() extractor.MetaRecord {
	return a.meta
}

func (a AnalysisResult) SeedKeywords() []keyword.SeedKeyword {
	return cloneSlice(a.seedKeywords)
}

func (a AnalysisResult) PageQuestions() []string {
	return cloneSlice(a.pageQuestions)
}

func (a AnalysisResult) SearchQuestions() []qsource.SearchQuestion {
	return cloneSlice(a.searchQuestions)
}

func (a AnalysisResult) QuestionClusters() []QuestionCluster {
	return cloneSlice(a.questionClusters)
}

func (a AnalysisResult) Scores() score.GeoScores {
	return a.scores
}

func (a AnalysisResult) AnalyzedAt() time.Time {
	return a.analyzedAt
}

// IsFresh reports whether the result is younger than ttl at now.
func (a AnalysisResult) IsFresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(a.analyzedAt) < ttl
}

type seedKeywordDTO struct {
	Value string  `json:"value"`
	Score float64 `json:"score"`
}

type analysisResultDTO struct {
	URL              string                   `json:"url"`
	NormalizedURL    string                   `json:"normalizedUrl"`
	Meta             extractor.MetaRecord     `json:"meta"`
	SeedKeywords     []seedKeywordDTO         `json:"seedKeywords"`
	PageQuestions    []string                 `json:"pageQuestions"`
	SearchQuestions  []qsource.SearchQuestion `json:"searchQuestions"`
	QuestionClusters []QuestionCluster        `json:"questionClusters"`
	Scores           score.GeoScores          `json:"scores"`
	AnalyzedAt       time.Time                `json:"analyzedAt"`
}

func (a AnalysisResult) MarshalJSON() ([]byte, error) {
	dto := analysisResultDTO{
		URL:              a.url,
		NormalizedURL:    a.normalizedURL,
		Meta:             a.meta,
		SeedKeywords:     make([]seedKeywordDTO, 0, len(a.seedKeywords)),
		PageQuestions:    nonNil(a.pageQuestions),
		SearchQuestions:  nonNil(a.searchQuestions),
		QuestionClusters: nonNil(a.questionClusters),
		Scores:           a.scores,
		AnalyzedAt:       a.analyzedAt,
	}
	for _, kw := range a.seedKeywords {
		dto.SeedKeywords = append(dto.SeedKeywords, seedKeywordDTO{Value: kw.Value(), Score: kw.Score()})
	}
	return json.Marshal(dto)
}

func (a *AnalysisResult) UnmarshalJSON(data []byte) error {
	var dto analysisResultDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}
	keywords := make([]keyword.SeedKeyword, 0, len(dto.SeedKeywords))
	for _, kw := range dto.SeedKeywords {
		keywords = append(keywords, keyword.NewSeedKeyword(kw.Value, kw.Score))
	}
	*a = NewAnalysisResult(
		dto.URL,
		dto.NormalizedURL,
		dto.Meta,
		keywords,
		dto.PageQuestions,
		dto.SearchQuestions,
		dto.Scores,
		dto.AnalyzedAt,
	)
	return nil
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
