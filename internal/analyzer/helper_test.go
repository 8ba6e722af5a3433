package analyzer_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/rohmanhakim/geo-analyzer/internal/analyzer"
	"github.com/rohmanhakim/geo-analyzer/internal/extractor"
	"github.com/rohmanhakim/geo-analyzer/internal/fetcher"
	"github.com/rohmanhakim/geo-analyzer/internal/keyword"
	"github.com/rohmanhakim/geo-analyzer/internal/lexicon"
	"github.com/rohmanhakim/geo-analyzer/internal/metadata"
	"github.com/rohmanhakim/geo-analyzer/internal/qsource"
	"github.com/rohmanhakim/geo-analyzer/internal/question"
	"github.com/rohmanhakim/geo-analyzer/internal/report"
	"github.com/rohmanhakim/geo-analyzer/internal/storage"
	"github.com/rohmanhakim/geo-analyzer/internal/tokenize"
	"github.com/rohmanhakim/geo-analyzer/pkg/failure"
	"github.com/rohmanhakim/geo-analyzer/pkg/retry"
	"github.com/rohmanhakim/geo-analyzer/pkg/timeutil"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"
)

// samplePage has a title, a description, two headings and a single
// page question.
const samplePage = `<!DOCTYPE html>
<html>
<head>
<title>임플란트 가이드</title>
<meta name="description" content="임플란트 비용과 기간 안내">
</head>
<body>
<h1>임플란트 비용</h1>
<h2>임플란트 기간</h2>
<p>임플란트 비용은 얼마인가요? 상담 후 결정됩니다.</p>
</body>
</html>`

const sampleURL = "https://www.example.com/implant/?utm_source=test"

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// fetcherMock is a testify mock for fetcher.Fetcher
type fetcherMock struct {
	mock.Mock
}

func (f *fetcherMock) Fetch(
	ctx context.Context,
	fetchParam fetcher.FetchParam,
	retryParam retry.RetryParam,
) (fetcher.FetchResult, failure.ClassifiedError) {
	args := f.Called(ctx, fetchParam, retryParam)
	result := args.Get(0).(fetcher.FetchResult)
	var err failure.ClassifiedError
	if args.Get(1) != nil {
		err = args.Get(1).(failure.ClassifiedError)
	}
	return result, err
}

// storeMock is a testify mock for storage.ResultStore
type storeMock struct {
	mock.Mock
}

func (s *storeMock) Lookup(ctx context.Context, key string) (report.AnalysisResult, bool, failure.ClassifiedError) {
	args := s.Called(ctx, key)
	var err failure.ClassifiedError
	if args.Get(2) != nil {
		err = args.Get(2).(failure.ClassifiedError)
	}
	return args.Get(0).(report.AnalysisResult), args.Bool(1), err
}

func (s *storeMock) Store(ctx context.Context, result report.AnalysisResult) failure.ClassifiedError {
	args := s.Called(ctx, result)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(failure.ClassifiedError)
}

// finalizerMock records run summaries
type finalizerMock struct {
	summaries []metadata.AnalysisSummary
}

func (f *finalizerMock) RecordAnalysis(summary metadata.AnalysisSummary) {
	f.summaries = append(f.summaries, summary)
}

// sinkMock records error events; other events are ignored
type sinkMock struct {
	metadata.NoopSink
	errors []string
}

func (s *sinkMock) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	s.errors = append(s.errors, packageName+":"+action)
}

// failingProvider fails every lookup
type failingProvider struct{}

func (failingProvider) Lookup(ctx context.Context, keyword string, source qsource.Source) ([]qsource.SearchQuestion, error) {
	return nil, &qsource.ProviderError{
		Message: "quota exceeded",
		Cause:   qsource.ErrCauseBadStatus,
	}
}

type analyzerFixture struct {
	analyzer  analyzer.Analyzer
	fetcher   *fetcherMock
	store     *storeMock
	sink      *sinkMock
	finalizer *finalizerMock
}

func testRetryParam() retry.RetryParam {
	return retry.NewRetryParam(
		time.Millisecond,
		42,
		1,
		timeutil.NewBackoffParam(time.Millisecond, 2.0, 5*time.Millisecond),
	)
}

func newAnalyzerFixture(t *testing.T, provider qsource.Provider) analyzerFixture {
	t.Helper()
	lex := lexicon.Default()
	sink := &sinkMock{}
	logger := zaptest.NewLogger(t)
	pageExtractor := extractor.NewPageExtractor(sink)
	f := analyzerFixture{
		fetcher:   new(fetcherMock),
		store:     new(storeMock),
		sink:      sink,
		finalizer: &finalizerMock{},
	}
	f.analyzer = analyzer.NewAnalyzer(
		analyzer.Dependencies{
			MetadataSink:      sink,
			AnalysisFinalizer: f.finalizer,
			Logger:            logger,
			Fetcher:           f.fetcher,
			Extractor:         &pageExtractor,
			KeywordExtractor:  keyword.NewExtractor(tokenize.New(lex), 0, 0),
			PageDetector:      question.NewDetector(question.PageContentMinLength, lex.Cues()),
			Collector:         qsource.NewCollector(provider, qsource.SourceGoogle, 0, logger, sink),
			Store:             f.store,
			Clock:             func() time.Time { return fixedNow },
		},
		"test-agent",
		testRetryParam(),
		0,
	)
	return f
}

func pageResult(t *testing.T, rawURL string, body string) fetcher.FetchResult {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("bad test url %q: %v", rawURL, err)
	}
	return fetcher.NewFetchResultForTest(*u, []byte(body), 200, map[string]string{
		"Content-Type": "text/html; charset=utf-8",
	})
}

var _ storage.ResultStore = (*storeMock)(nil)
var _ fetcher.Fetcher = (*fetcherMock)(nil)
