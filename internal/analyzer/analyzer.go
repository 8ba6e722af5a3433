package analyzer

import (
	"context"
	"net/url"
	"time"

	"github.com/rohmanhakim/geo-analyzer/internal/coverage"
	"github.com/rohmanhakim/geo-analyzer/internal/extractor"
	"github.com/rohmanhakim/geo-analyzer/internal/fetcher"
	"github.com/rohmanhakim/geo-analyzer/internal/keyword"
	"github.com/rohmanhakim/geo-analyzer/internal/metadata"
	"github.com/rohmanhakim/geo-analyzer/internal/qsource"
	"github.com/rohmanhakim/geo-analyzer/internal/question"
	"github.com/rohmanhakim/geo-analyzer/internal/report"
	"github.com/rohmanhakim/geo-analyzer/internal/score"
	"github.com/rohmanhakim/geo-analyzer/internal/storage"
	"github.com/rohmanhakim/geo-analyzer/pkg/failure"
	"github.com/rohmanhakim/geo-analyzer/pkg/retry"
	"github.com/rohmanhakim/geo-analyzer/pkg/urlutil"
	"go.uber.org/zap"
)

const DefaultCacheTTL = 24 * time.Hour

/*
 Analyzer runs one analysis per call and owns its control flow.

 Pipeline:
 1. Normalize the URL into the cache key
 2. Return a fresh stored result unless a refresh is requested
 3. Fetch the page (the only failure surfaced to the caller)
 4. Extract structure, seed keywords and page questions
 5. Collect and dedupe search questions for the top keywords
 6. Score coverage and structure, compose the final score
 7. Store the result; store failures never hide the computed result

 Stages detect and record their own failures. Metadata emission is
 observational only and never changes the outcome of a run.
*/
type Analyzer struct {
	metadataSink      metadata.MetadataSink
	analysisFinalizer metadata.AnalysisFinalizer
	logger            *zap.Logger
	fetcher           fetcher.Fetcher
	extractor         extractor.Extractor
	keywordExtractor  keyword.Extractor
	pageDetector      question.Detector
	collector         qsource.Collector
	store             storage.ResultStore
	userAgent         string
	retryParam        retry.RetryParam
	cacheTTL          time.Duration
	clock             func() time.Time
}

// Dependencies are the collaborators of an Analyzer. Store, Logger and
// Clock are optional.
type Dependencies struct {
	MetadataSink      metadata.MetadataSink
	AnalysisFinalizer metadata.AnalysisFinalizer
	Logger            *zap.Logger
	Fetcher           fetcher.Fetcher
	Extractor         extractor.Extractor
	KeywordExtractor  keyword.Extractor
	PageDetector      question.Detector
	Collector         qsource.Collector
	Store             storage.ResultStore
	Clock             func() time.Time
}

func NewAnalyzer(
	deps Dependencies,
	userAgent string,
	retryParam retry.RetryParam,
	cacheTTL time.Duration,
) Analyzer {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Store == nil {
		deps.Store = storage.NoopStore{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return Analyzer{
		metadataSink:      deps.MetadataSink,
		analysisFinalizer: deps.AnalysisFinalizer,
		logger:            deps.Logger,
		fetcher:           deps.Fetcher,
		extractor:         deps.Extractor,
		keywordExtractor:  deps.KeywordExtractor,
		pageDetector:      deps.PageDetector,
		collector:         deps.Collector,
		store:             deps.Store,
		userAgent:         userAgent,
		retryParam:        retryParam,
		cacheTTL:          cacheTTL,
		clock:             deps.Clock,
	}
}

// Analyze scores the page at rawURL. With refresh set the cache lookup
// is skipped, but the new result is still stored.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string, refresh bool) (report.AnalysisResult, failure.ClassifiedError) {
	startTime := a.clock()
	normalizedURL := urlutil.Normalize(rawURL)
	logger := a.logger.With(zap.String("url", rawURL), zap.String("normalized_url", normalizedURL))

	if !refresh {
		if cached, ok := a.lookupFresh(ctx, normalizedURL, startTime, logger); ok {
			a.finalize(cached, true, startTime)
			return cached, nil
		}
	}

	pageURL, err := parsePageURL(rawURL)
	if err != nil {
		a.recordAnalysisError(rawURL, err)
		return report.AnalysisResult{}, err
	}

	fetchResult, fetchErr := a.fetcher.Fetch(ctx, fetcher.NewFetchParam(*pageURL, a.userAgent), a.retryParam)
	if fetchErr != nil {
		analysisErr := &AnalysisError{
			Message: "page could not be fetched",
			Cause:   ErrCauseFetchFailure,
			URL:     rawURL,
			Err:     fetchErr,
		}
		logger.Warn("analysis aborted", zap.Error(analysisErr))
		return report.AnalysisResult{}, analysisErr
	}

	page := a.extractor.Extract(*pageURL, fetchResult.Body(), fetchResult.ContentType())

	seedKeywords := a.keywordExtractor.Extract(page.Meta, page.Headings, page.BodyText)
	pageQuestions := a.pageDetector.Detect(page.BodyText)

	searchQuestions := qsource.Dedupe(a.collector.Collect(ctx, seedKeywords))

	ratio := coverage.Ratio(pageQuestions, searchQuestions)
	structure := score.Structure(page.Meta, page.Headings, pageQuestions)
	scores := score.Compose(structure, ratio)

	result := report.NewAnalysisResult(
		rawURL,
		normalizedURL,
		page.Meta,
		seedKeywords,
		pageQuestions,
		searchQuestions,
		scores,
		a.clock(),
	)

	if storeErr := a.store.Store(ctx, result); storeErr != nil {
		// already recorded by the store; the computed result still wins
		logger.Warn("analysis result not stored", zap.Error(storeErr))
	}

	a.finalize(result, false, startTime)
	return result, nil
}

func (a *Analyzer) lookupFresh(
	ctx context.Context,
	normalizedURL string,
	now time.Time,
	logger *zap.Logger,
) (report.AnalysisResult, bool) {
	cached, found, err := a.store.Lookup(ctx, normalizedURL)
	if err != nil {
		logger.Warn("cache lookup failed", zap.Error(err))
		return report.AnalysisResult{}, false
	}
	if !found {
		return report.AnalysisResult{}, false
	}
	if !cached.IsFresh(now, a.cacheTTL) {
		logger.Debug("cached result is stale", zap.Time("analyzed_at", cached.AnalyzedAt()))
		return report.AnalysisResult{}, false
	}
	return cached, true
}

func (a *Analyzer) finalize(result report.AnalysisResult, cacheHit bool, startTime time.Time) {
	if a.analysisFinalizer == nil {
		return
	}
	scores := result.Scores()
	a.analysisFinalizer.RecordAnalysis(metadata.AnalysisSummary{
		URL:             result.URL(),
		CacheHit:        cacheHit,
		SeedKeywords:    len(result.SeedKeywords()),
		PageQuestions:   len(result.PageQuestions()),
		SearchQuestions: len(result.SearchQuestions()),
		StructureScore:  scores.StructureScore,
		FinalScore:      scores.FinalScore,
		Duration:        a.clock().Sub(startTime),
	})
}

func (a *Analyzer) recordAnalysisError(rawURL string, err *AnalysisError) {
	a.metadataSink.RecordError(
		time.Now(),
		"analyzer",
		"Analyzer.Analyze",
		metadata.CauseContentInvalid,
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, rawURL),
		},
	)
}

func parsePageURL(rawURL string) (*url.URL, *AnalysisError) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, &AnalysisError{
			Message: err.Error(),
			Cause:   ErrCauseInvalidURL,
			URL:     rawURL,
		}
	}
	if (pageURL.Scheme != "http" && pageURL.Scheme != "https") || pageURL.Host == "" {
		return nil, &AnalysisError{
			Message: "url must be absolute http or https",
			Cause:   ErrCauseInvalidURL,
			URL:     rawURL,
		}
	}
	return pageURL, nil
}
