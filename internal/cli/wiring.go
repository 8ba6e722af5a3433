package cmd

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rohmanhakim/geo-analyzer/internal/analyzer"
	"github.com/rohmanhakim/geo-analyzer/internal/config"
	"github.com/rohmanhakim/geo-analyzer/internal/extractor"
	"github.com/rohmanhakim/geo-analyzer/internal/fetcher"
	"github.com/rohmanhakim/geo-analyzer/internal/keyword"
	"github.com/rohmanhakim/geo-analyzer/internal/lexicon"
	"github.com/rohmanhakim/geo-analyzer/internal/metadata"
	"github.com/rohmanhakim/geo-analyzer/internal/qsource"
	"github.com/rohmanhakim/geo-analyzer/internal/question"
	"github.com/rohmanhakim/geo-analyzer/internal/storage"
	"github.com/rohmanhakim/geo-analyzer/internal/tokenize"
	"github.com/rohmanhakim/geo-analyzer/pkg/limiter"
	"github.com/rohmanhakim/geo-analyzer/pkg/retry"
	"github.com/rohmanhakim/geo-analyzer/pkg/timeutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. Unknown levels fall back to info;
// any format other than json is the human readable console encoding.
func NewLogger(levelStr, format string) *zap.Logger {
	level := zapcore.InfoLevel
	switch levelStr {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func buildAnalyzer(cfg config.Config, logger *zap.Logger) (analyzer.Analyzer, func(), error) {
	lex := lexicon.Default()
	if cfg.LexiconFile() != "" {
		loaded, err := lexicon.FromFile(cfg.LexiconFile())
		if err != nil {
			return analyzer.Analyzer{}, nil, err
		}
		lex = loaded
	}
	logger.Debug("lexicon loaded",
		zap.String("version", lex.Version()),
		zap.Int("stop_words", lex.StopWords()),
		zap.Int("cues", len(lex.Cues())),
	)

	runId := "analyze-" + strconv.FormatInt(time.Now().UnixNano(), 36)
	recorder := metadata.NewRecorder(logger, runId)

	retryParam := retry.NewRetryParam(
		cfg.Jitter(),
		cfg.RandomSeed(),
		cfg.MaxAttempt(),
		timeutil.NewBackoffParam(
			cfg.BackoffInitialDuration(),
			cfg.BackoffMultiplier(),
			cfg.BackoffMaxDuration(),
		),
	)
	httpClient := &http.Client{Timeout: cfg.Timeout()}

	store, closeStore, err := newResultStore(cfg, &recorder)
	if err != nil {
		return analyzer.Analyzer{}, nil, err
	}

	htmlFetcher := fetcher.NewHtmlFetcher(&recorder, httpClient)
	pageExtractor := extractor.NewPageExtractor(&recorder)
	collector := qsource.NewCollector(
		newProvider(cfg, httpClient, retryParam, lex),
		cfg.QuestionSource(),
		cfg.TopKeywords(),
		logger,
		&recorder,
	)

	a := analyzer.NewAnalyzer(
		analyzer.Dependencies{
			MetadataSink:      &recorder,
			AnalysisFinalizer: &recorder,
			Logger:            logger,
			Fetcher:           &htmlFetcher,
			Extractor:         &pageExtractor,
			KeywordExtractor:  keyword.NewExtractor(tokenize.New(lex), cfg.MaxSeedKeywords(), cfg.BodyPrefixRunes()),
			PageDetector:      question.NewDetector(question.PageContentMinLength, lex.Cues()),
			Collector:         collector,
			Store:             store,
		},
		cfg.UserAgent(),
		retryParam,
		cfg.CacheTTL(),
	)
	return a, closeStore, nil
}

func newProvider(
	cfg config.Config,
	httpClient *http.Client,
	retryParam retry.RetryParam,
	lex lexicon.Lexicon,
) qsource.Provider {
	if cfg.Provider() == config.ProviderGoogle {
		pacer := limiter.NewConcurrentRateLimiter(
			cfg.ProviderDelay(),
			cfg.Jitter(),
			cfg.RandomSeed(),
			timeutil.NewBackoffParam(
				cfg.BackoffInitialDuration(),
				cfg.BackoffMultiplier(),
				cfg.BackoffMaxDuration(),
			),
		)
		return qsource.NewGoogleProvider(
			cfg.GoogleEndpoint(),
			cfg.GoogleAPIKey(),
			cfg.GoogleEngineID(),
			httpClient,
			retryParam,
			lex.Cues(),
		).WithRateLimiter(pacer)
	}
	return qsource.NewTemplateProvider()
}

func newResultStore(cfg config.Config, sink metadata.MetadataSink) (storage.ResultStore, func(), error) {
	noop := func() {}
	switch cfg.Store() {
	case config.StoreMemory:
		return storage.NewMemoryStore(), noop, nil
	case config.StoreFile:
		return storage.NewLocalStore(sink, cfg.OutputDir(), cfg.HashAlgo()), noop, nil
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword(),
			DB:       cfg.RedisDB(),
		})
		return storage.NewRedisStore(sink, client, cfg.CacheTTL()), func() { client.Close() }, nil
	case config.StoreNone:
		return storage.NoopStore{}, noop, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown store %q", config.ErrInvalidConfig, cfg.Store())
	}
}
