package analyzer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rohmanhakim/geo-analyzer/internal/analyzer"
	"github.com/rohmanhakim/geo-analyzer/internal/extractor"
	"github.com/rohmanhakim/geo-analyzer/internal/fetcher"
	"github.com/rohmanhakim/geo-analyzer/internal/qsource"
	"github.com/rohmanhakim/geo-analyzer/internal/report"
	"github.com/rohmanhakim/geo-analyzer/internal/score"
	"github.com/rohmanhakim/geo-analyzer/internal/storage"
	"github.com/rohmanhakim/geo-analyzer/pkg/failure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const normalizedSampleURL = "https://example.com/implant"

func TestAnalyze_EndToEndWithTemplateProvider(t *testing.T) {
	f := newAnalyzerFixture(t, qsource.NewTemplateProvider())
	f.store.On("Lookup", mock.Anything, normalizedSampleURL).Return(report.AnalysisResult{}, false, nil)
	f.fetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything).Return(pageResult(t, sampleURL, samplePage), nil)
	f.store.On("Store", mock.Anything, mock.Anything).Return(nil)

	result, err := f.analyzer.Analyze(context.Background(), sampleURL, false)

	require.Nil(t, err)
	assert.Equal(t, sampleURL, result.URL())
	assert.Equal(t, normalizedSampleURL, result.NormalizedURL())
	assert.Equal(t, "임플란트 가이드", result.Meta().Title)
	assert.Equal(t, fixedNow, result.AnalyzedAt())

	require.NotEmpty(t, result.SeedKeywords())
	assert.Equal(t, "임플란트", result.SeedKeywords()[0].Value())
	assert.Equal(t, 1.0, result.SeedKeywords()[0].Score())

	assert.Equal(t, []string{"임플란트 비용은 얼마인가요?"}, result.PageQuestions())
	// five keywords, three templates each, all distinct
	assert.Len(t, result.SearchQuestions(), 15)
	assert.Empty(t, result.QuestionClusters())

	scores := result.Scores()
	assert.Equal(t, 70, scores.StructureScore)
	assert.Greater(t, scores.CoverageRatio, 0.0)
	assert.LessOrEqual(t, scores.CoverageRatio, 1.0)
	assert.Equal(t, score.Compose(70, scores.CoverageRatio), scores)

	f.store.AssertCalled(t, "Store", mock.Anything, result)
	require.Len(t, f.finalizer.summaries, 1)
	assert.False(t, f.finalizer.summaries[0].CacheHit)
	assert.Equal(t, 15, f.finalizer.summaries[0].SearchQuestions)
	assert.Equal(t, scores.FinalScore, f.finalizer.summaries[0].FinalScore)
}

func TestAnalyze_FetchesTheUrlAsGiven(t *testing.T) {
	f := newAnalyzerFixture(t, qsource.NewTemplateProvider())
	f.store.On("Lookup", mock.Anything, mock.Anything).Return(report.AnalysisResult{}, false, nil)
	f.store.On("Store", mock.Anything, mock.Anything).Return(nil)
	f.fetcher.On("Fetch", mock.Anything, mock.MatchedBy(func(p fetcher.FetchParam) bool {
		u := p.URL()
		return u.String() == sampleURL && p.UserAgent() == "test-agent"
	}), mock.Anything).Return(pageResult(t, sampleURL, samplePage), nil)

	_, err := f.analyzer.Analyze(context.Background(), sampleURL, false)

	require.Nil(t, err)
	f.fetcher.AssertNumberOfCalls(t, "Fetch", 1)
}

func TestAnalyze_FetchFailureIsFatal(t *testing.T) {
	f := newAnalyzerFixture(t, qsource.NewTemplateProvider())
	fetchErr := &fetcher.FetchError{
		Message: "client error: 404",
		Cause:   fetcher.ErrCauseRequestClientError,
	}
	f.store.On("Lookup", mock.Anything, mock.Anything).Return(report.AnalysisResult{}, false, nil)
	f.fetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything).Return(fetcher.FetchResult{}, fetchErr)

	_, err := f.analyzer.Analyze(context.Background(), sampleURL, false)

	require.NotNil(t, err)
	assert.Equal(t, failure.SeverityFatal, err.Severity())

	var analysisErr *analyzer.AnalysisError
	require.True(t, errors.As(err, &analysisErr))
	assert.Equal(t, analyzer.ErrCauseFetchFailure, analysisErr.Cause)

	var unwrapped *fetcher.FetchError
	require.True(t, errors.As(err, &unwrapped))
	assert.Equal(t, fetcher.ErrCauseRequestClientError, unwrapped.Cause)

	f.store.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
	assert.Empty(t, f.finalizer.summaries)
}

func TestAnalyze_InvalidURL(t *testing.T) {
	tests := []string{
		"",
		"not a url",
		"ftp://example.com/file",
		"http://[::1",
	}

	for _, rawURL := range tests {
		t.Run(rawURL, func(t *testing.T) {
			f := newAnalyzerFixture(t, qsource.NewTemplateProvider())
			f.store.On("Lookup", mock.Anything, mock.Anything).Return(report.AnalysisResult{}, false, nil)

			_, err := f.analyzer.Analyze(context.Background(), rawURL, false)

			var analysisErr *analyzer.AnalysisError
			require.True(t, errors.As(err, &analysisErr))
			assert.Equal(t, analyzer.ErrCauseInvalidURL, analysisErr.Cause)
			f.fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
			assert.Equal(t, []string{"analyzer:Analyzer.Analyze"}, f.sink.errors)
		})
	}
}

func TestAnalyze_FreshCacheHit(t *testing.T) {
	f := newAnalyzerFixture(t, qsource.NewTemplateProvider())
	cached := report.NewAnalysisResult(
		sampleURL,
		normalizedSampleURL,
		extractor.MetaRecord{Title: "cached"},
		nil, nil, nil,
		score.Compose(50, 0),
		fixedNow.Add(-23*time.Hour),
	)
	f.store.On("Lookup", mock.Anything, normalizedSampleURL).Return(cached, true, nil)

	result, err := f.analyzer.Analyze(context.Background(), sampleURL, false)

	require.Nil(t, err)
	assert.Equal(t, cached, result)
	f.fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
	f.store.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
	require.Len(t, f.finalizer.summaries, 1)
	assert.True(t, f.finalizer.summaries[0].CacheHit)
}

func TestAnalyze_StaleCacheIsRecomputed(t *testing.T) {
	f := newAnalyzerFixture(t, qsource.NewTemplateProvider())
	stale := report.NewAnalysisResult(
		sampleURL,
		normalizedSampleURL,
		extractor.MetaRecord{Title: "stale"},
		nil, nil, nil,
		score.Compose(50, 0),
		fixedNow.Add(-24*time.Hour),
	)
	f.store.On("Lookup", mock.Anything, normalizedSampleURL).Return(stale, true, nil)
	f.fetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything).Return(pageResult(t, sampleURL, samplePage), nil)
	f.store.On("Store", mock.Anything, mock.Anything).Return(nil)

	result, err := f.analyzer.Analyze(context.Background(), sampleURL, false)

	require.Nil(t, err)
	assert.Equal(t, "임플란트 가이드", result.Meta().Title)
	f.fetcher.AssertNumberOfCalls(t, "Fetch", 1)
	f.store.AssertNumberOfCalls(t, "Store", 1)
}

func TestAnalyze_RefreshSkipsLookup(t *testing.T) {
	f := newAnalyzerFixture(t, qsource.NewTemplateProvider())
	f.fetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything).Return(pageResult(t, sampleURL, samplePage), nil)
	f.store.On("Store", mock.Anything, mock.Anything).Return(nil)

	_, err := f.analyzer.Analyze(context.Background(), sampleURL, true)

	require.Nil(t, err)
	f.store.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
	f.store.AssertNumberOfCalls(t, "Store", 1)
}

func TestAnalyze_StorageFailuresDoNotHideResult(t *testing.T) {
	f := newAnalyzerFixture(t, qsource.NewTemplateProvider())
	f.store.On("Lookup", mock.Anything, mock.Anything).Return(report.AnalysisResult{}, false, &storage.StorageError{
		Message: "connection refused",
		Cause:   storage.ErrCauseBackendUnavailable,
	})
	f.fetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything).Return(pageResult(t, sampleURL, samplePage), nil)
	f.store.On("Store", mock.Anything, mock.Anything).Return(&storage.StorageError{
		Message: "no space left on device",
		Cause:   storage.ErrCauseDiskFull,
	})

	result, err := f.analyzer.Analyze(context.Background(), sampleURL, false)

	require.Nil(t, err)
	assert.Equal(t, 70, result.Scores().StructureScore)
	require.Len(t, f.finalizer.summaries, 1)
}

func TestAnalyze_ProviderFailureDegradesToZeroCoverage(t *testing.T) {
	f := newAnalyzerFixture(t, failingProvider{})
	f.store.On("Lookup", mock.Anything, mock.Anything).Return(report.AnalysisResult{}, false, nil)
	f.fetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything).Return(pageResult(t, sampleURL, samplePage), nil)
	f.store.On("Store", mock.Anything, mock.Anything).Return(nil)

	result, err := f.analyzer.Analyze(context.Background(), sampleURL, false)

	require.Nil(t, err)
	assert.Empty(t, result.SearchQuestions())
	assert.Equal(t, 0.0, result.Scores().CoverageRatio)
	assert.Equal(t, 28, result.Scores().FinalScore)
	assert.Len(t, f.sink.errors, qsource.DefaultTopKeywords)
}

func TestAnalyze_UnparseablePageScoresTheFloor(t *testing.T) {
	f := newAnalyzerFixture(t, qsource.NewTemplateProvider())
	f.store.On("Lookup", mock.Anything, mock.Anything).Return(report.AnalysisResult{}, false, nil)
	f.fetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything).Return(pageResult(t, sampleURL, ""), nil)
	f.store.On("Store", mock.Anything, mock.Anything).Return(nil)

	result, err := f.analyzer.Analyze(context.Background(), sampleURL, false)

	require.Nil(t, err)
	assert.Empty(t, result.SeedKeywords())
	assert.Empty(t, result.SearchQuestions())
	assert.Equal(t, 40, result.Scores().StructureScore)
	assert.Equal(t, 16, result.Scores().FinalScore)
}
