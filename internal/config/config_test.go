package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rohmanhakim/geo-analyzer/internal/config"
	"github.com/rohmanhakim/geo-analyzer/internal/qsource"
	"github.com/rohmanhakim/geo-analyzer/pkg/hashutil"
)

func TestWithDefault(t *testing.T) {
	cfg := config.WithDefault()

	if cfg == nil {
		t.Fatal("WithDefault() returned nil")
	}

	builtCfg, err := cfg.Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}

	if builtCfg.UserAgent() != "geo-analyzer/1.0" {
		t.Errorf("expected UserAgent 'geo-analyzer/1.0', got '%s'", builtCfg.UserAgent())
	}
	if builtCfg.Timeout() != 10*time.Second {
		t.Errorf("expected Timeout 10s, got %v", builtCfg.Timeout())
	}
	if builtCfg.MaxAttempt() != 3 {
		t.Errorf("expected MaxAttempt 3, got %d", builtCfg.MaxAttempt())
	}
	if builtCfg.TopKeywords() != 5 {
		t.Errorf("expected TopKeywords 5, got %d", builtCfg.TopKeywords())
	}
	if builtCfg.MaxSeedKeywords() != 10 {
		t.Errorf("expected MaxSeedKeywords 10, got %d", builtCfg.MaxSeedKeywords())
	}
	if builtCfg.BodyPrefixRunes() != 800 {
		t.Errorf("expected BodyPrefixRunes 800, got %d", builtCfg.BodyPrefixRunes())
	}
	if builtCfg.QuestionSource() != qsource.SourceGoogle {
		t.Errorf("expected QuestionSource google, got %s", builtCfg.QuestionSource())
	}
	if builtCfg.Provider() != config.ProviderTemplate {
		t.Errorf("expected Provider template, got %s", builtCfg.Provider())
	}
	if builtCfg.GoogleEndpoint() != qsource.DefaultGoogleEndpoint {
		t.Errorf("unexpected GoogleEndpoint %s", builtCfg.GoogleEndpoint())
	}
	if builtCfg.Store() != config.StoreNone {
		t.Errorf("expected Store none, got %s", builtCfg.Store())
	}
	if builtCfg.HashAlgo() != hashutil.HashAlgoBLAKE3 {
		t.Errorf("expected HashAlgo blake3, got %s", builtCfg.HashAlgo())
	}
	if builtCfg.ProviderDelay() != 100*time.Millisecond {
		t.Errorf("expected ProviderDelay 100ms, got %v", builtCfg.ProviderDelay())
	}
	if builtCfg.CacheTTL() != 24*time.Hour {
		t.Errorf("expected CacheTTL 24h, got %v", builtCfg.CacheTTL())
	}
	if builtCfg.LogLevel() != "info" || builtCfg.LogFormat() != "console" {
		t.Errorf("unexpected logging defaults %s/%s", builtCfg.LogLevel(), builtCfg.LogFormat())
	}
	if builtCfg.LexiconFile() != "" {
		t.Errorf("expected no lexicon file, got %s", builtCfg.LexiconFile())
	}
}

func TestBuilderSetters(t *testing.T) {
	built, err := config.WithDefault().
		WithUserAgent("Bot/2.0").
		WithTimeout(3 * time.Second).
		WithJitter(time.Millisecond).
		WithRandomSeed(7).
		WithMaxAttempt(5).
		WithBackoffInitialDuration(time.Second).
		WithBackoffMultiplier(1.5).
		WithBackoffMaxDuration(time.Minute).
		WithTopKeywords(3).
		WithMaxSeedKeywords(20).
		WithBodyPrefixRunes(400).
		WithLexiconFile("lexicon.json").
		WithQuestionSource(qsource.SourceNaver).
		WithStore(config.StoreFile).
		WithOutputDir("results").
		WithHashAlgo(hashutil.HashAlgoSHA256).
		WithProviderDelay(time.Second).
		WithCacheTTL(time.Hour).
		WithLogLevel("debug").
		WithLogFormat("json").
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if built.UserAgent() != "Bot/2.0" {
		t.Errorf("expected UserAgent 'Bot/2.0', got '%s'", built.UserAgent())
	}
	if built.Timeout() != 3*time.Second {
		t.Errorf("expected Timeout 3s, got %v", built.Timeout())
	}
	if built.Jitter() != time.Millisecond || built.RandomSeed() != 7 {
		t.Errorf("unexpected jitter/seed %v/%d", built.Jitter(), built.RandomSeed())
	}
	if built.MaxAttempt() != 5 {
		t.Errorf("expected MaxAttempt 5, got %d", built.MaxAttempt())
	}
	if built.BackoffInitialDuration() != time.Second ||
		built.BackoffMultiplier() != 1.5 ||
		built.BackoffMaxDuration() != time.Minute {
		t.Errorf("unexpected backoff settings")
	}
	if built.TopKeywords() != 3 || built.MaxSeedKeywords() != 20 || built.BodyPrefixRunes() != 400 {
		t.Errorf("unexpected analysis settings")
	}
	if built.LexiconFile() != "lexicon.json" {
		t.Errorf("expected LexiconFile 'lexicon.json', got '%s'", built.LexiconFile())
	}
	if built.QuestionSource() != qsource.SourceNaver {
		t.Errorf("expected QuestionSource naver, got %s", built.QuestionSource())
	}
	if built.Store() != config.StoreFile || built.OutputDir() != "results" || built.HashAlgo() != hashutil.HashAlgoSHA256 {
		t.Errorf("unexpected store settings")
	}
	if built.ProviderDelay() != time.Second {
		t.Errorf("expected ProviderDelay 1s, got %v", built.ProviderDelay())
	}
	if built.CacheTTL() != time.Hour {
		t.Errorf("expected CacheTTL 1h, got %v", built.CacheTTL())
	}
	if built.LogLevel() != "debug" || built.LogFormat() != "json" {
		t.Errorf("unexpected logging settings %s/%s", built.LogLevel(), built.LogFormat())
	}
}

func TestBuild_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.Config
		wantErr error
	}{
		{
			name:    "zero attempts",
			cfg:     config.WithDefault().WithMaxAttempt(0),
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "zero top keywords",
			cfg:     config.WithDefault().WithTopKeywords(0),
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "negative cache ttl",
			cfg:     config.WithDefault().WithCacheTTL(-time.Second),
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "negative provider delay",
			cfg:     config.WithDefault().WithProviderDelay(-time.Millisecond),
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "unknown question source",
			cfg:     config.WithDefault().WithQuestionSource("bing"),
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "unknown provider",
			cfg:     config.WithDefault().WithProvider("openai"),
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "google provider without credentials",
			cfg:     config.WithDefault().WithProvider(config.ProviderGoogle),
			wantErr: config.ErrMissingCredentials,
		},
		{
			name:    "google provider with key only",
			cfg:     config.WithDefault().WithProvider(config.ProviderGoogle).WithGoogleCredentials("key", ""),
			wantErr: config.ErrMissingCredentials,
		},
		{
			name:    "unknown store",
			cfg:     config.WithDefault().WithStore("s3"),
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "file store without output dir",
			cfg:     config.WithDefault().WithStore(config.StoreFile).WithOutputDir(""),
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "file store with unknown hash",
			cfg:     config.WithDefault().WithStore(config.StoreFile).WithHashAlgo("md5"),
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "redis store without address",
			cfg:     config.WithDefault().WithStore(config.StoreRedis),
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "bad log level",
			cfg:     config.WithDefault().WithLogLevel("loud"),
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "bad log format",
			cfg:     config.WithDefault().WithLogFormat("xml"),
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "google provider with credentials",
			cfg: config.WithDefault().
				WithProvider(config.ProviderGoogle).
				WithGoogleCredentials("key", "engine"),
		},
		{
			name: "redis store with address",
			cfg:  config.WithDefault().WithStore(config.StoreRedis).WithRedis("localhost:6379", "", 2),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Build()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBuild_ReturnsValue(t *testing.T) {
	original := config.WithDefault()
	built, err := original.Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}

	original.WithTopKeywords(9)

	if built.TopKeywords() != 5 {
		t.Error("Build() appears to return reference, not value")
	}
}

func TestWithConfigFile_FileDoesNotExist(t *testing.T) {
	_, err := config.WithConfigFile("/nonexistent/path/config.json")

	if err == nil {
		t.Fatal("expected error for non-existent file, got nil")
	}

	if !errors.Is(err, config.ErrFileDoesNotExist) {
		t.Errorf("expected ErrFileDoesNotExist, got: %v", err)
	}
}

func TestWithConfigFile_InvalidJSON(t *testing.T) {
	configPath := writeConfig(t, "{invalid json content}")

	_, err := config.WithConfigFile(configPath)

	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}

	if !errors.Is(err, config.ErrConfigParsingFail) {
		t.Errorf("expected ErrConfigParsingFail, got: %v", err)
	}
}

func TestWithConfigFile_ValidCompleteConfig(t *testing.T) {
	configPath := writeConfig(t, completeConfigJson())

	loadedConfig, err := config.WithConfigFile(configPath)
	if err != nil {
		t.Fatalf("unexpected error loading valid config: %v", err)
	}

	if loadedConfig.UserAgent() != "TestBot/1.0" {
		t.Errorf("expected UserAgent 'TestBot/1.0', got '%s'", loadedConfig.UserAgent())
	}
	if loadedConfig.Timeout() != 30*time.Second {
		t.Errorf("expected Timeout 30s, got %v", loadedConfig.Timeout())
	}
	if loadedConfig.MaxAttempt() != 4 {
		t.Errorf("expected MaxAttempt 4, got %d", loadedConfig.MaxAttempt())
	}
	if loadedConfig.BackoffInitialDuration() != 200*time.Millisecond {
		t.Errorf("expected BackoffInitialDuration 200ms, got %v", loadedConfig.BackoffInitialDuration())
	}
	if loadedConfig.BackoffMultiplier() != 2.5 {
		t.Errorf("expected BackoffMultiplier 2.5, got %f", loadedConfig.BackoffMultiplier())
	}
	if loadedConfig.TopKeywords() != 3 {
		t.Errorf("expected TopKeywords 3, got %d", loadedConfig.TopKeywords())
	}
	if loadedConfig.Provider() != config.ProviderGoogle {
		t.Errorf("expected Provider google, got %s", loadedConfig.Provider())
	}
	if loadedConfig.GoogleAPIKey() != "test-key" || loadedConfig.GoogleEngineID() != "test-engine" {
		t.Errorf("unexpected google credentials")
	}
	if loadedConfig.GoogleEndpoint() != "http://localhost:9999/search" {
		t.Errorf("unexpected GoogleEndpoint %s", loadedConfig.GoogleEndpoint())
	}
	if loadedConfig.Store() != config.StoreRedis {
		t.Errorf("expected Store redis, got %s", loadedConfig.Store())
	}
	if loadedConfig.RedisAddr() != "localhost:6379" || loadedConfig.RedisPassword() != "secret" || loadedConfig.RedisDB() != 1 {
		t.Errorf("unexpected redis settings")
	}
	if loadedConfig.ProviderDelay() != 250*time.Millisecond {
		t.Errorf("expected ProviderDelay 250ms, got %v", loadedConfig.ProviderDelay())
	}
	if loadedConfig.CacheTTL() != time.Hour {
		t.Errorf("expected CacheTTL 1h, got %v", loadedConfig.CacheTTL())
	}
	if loadedConfig.LogFormat() != "json" {
		t.Errorf("expected LogFormat json, got %s", loadedConfig.LogFormat())
	}
}

func TestWithConfigFile_PartialConfig(t *testing.T) {
	configPath := writeConfig(t, `{
		"userAgent": "PartialBot/1.0",
		"store": "file",
		"outputDir": "partial_output"
	}`)

	loadedConfig, err := config.WithConfigFile(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if loadedConfig.UserAgent() != "PartialBot/1.0" {
		t.Errorf("expected UserAgent 'PartialBot/1.0', got '%s'", loadedConfig.UserAgent())
	}
	if loadedConfig.OutputDir() != "partial_output" {
		t.Errorf("expected OutputDir 'partial_output', got '%s'", loadedConfig.OutputDir())
	}
	// defaults remain
	if loadedConfig.TopKeywords() != 5 {
		t.Errorf("expected default TopKeywords 5, got %d", loadedConfig.TopKeywords())
	}
	if loadedConfig.Provider() != config.ProviderTemplate {
		t.Errorf("expected default Provider template, got %s", loadedConfig.Provider())
	}
	if loadedConfig.HashAlgo() != hashutil.HashAlgoBLAKE3 {
		t.Errorf("expected default HashAlgo blake3, got %s", loadedConfig.HashAlgo())
	}
}

func TestWithConfigFile_EmptyJSON(t *testing.T) {
	configPath := writeConfig(t, "{}")

	loadedConfig, err := config.WithConfigFile(configPath)
	if err != nil {
		t.Fatalf("empty config should fall back to defaults, got %v", err)
	}
	if loadedConfig.Store() != config.StoreNone {
		t.Errorf("expected default Store none, got %s", loadedConfig.Store())
	}
}

func TestWithConfigFile_InvalidValues(t *testing.T) {
	configPath := writeConfig(t, `{"provider": "google"}`)

	_, err := config.WithConfigFile(configPath)

	if !errors.Is(err, config.ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got: %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configPath
}

// Durations are nanoseconds, as encoded by time.Duration.
func completeConfigJson() string {
	return `
	{
    "userAgent": "TestBot/1.0",
    "timeout": 30000000000,
    "jitter": 1000000000,
    "randomSeed": 42,
    "maxAttempt": 4,
    "backoffInitialDuration": 200000000,
    "backoffMultiplier": 2.5,
    "backoffMaxDuration": 20000000000,
    "topKeywords": 3,
    "maxSeedKeywords": 8,
    "bodyPrefixRunes": 600,
    "questionSource": "google",
    "provider": "google",
    "googleEndpoint": "http://localhost:9999/search",
    "googleAPIKey": "test-key",
    "googleEngineID": "test-engine",
    "providerDelay": 250000000,
    "store": "redis",
    "redisAddr": "localhost:6379",
    "redisPassword": "secret",
    "redisDB": 1,
    "cacheTTL": 3600000000000,
    "logLevel": "warn",
    "logFormat": "json"
}
	`
}
