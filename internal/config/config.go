package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rohmanhakim/geo-analyzer/internal/qsource"
	"github.com/rohmanhakim/geo-analyzer/pkg/hashutil"
	"go.uber.org/zap/zapcore"
)

type ProviderKind string

const (
	ProviderTemplate ProviderKind = "template"
	ProviderGoogle   ProviderKind = "google"
)

type StoreKind string

const (
	StoreNone   StoreKind = "none"
	StoreMemory StoreKind = "memory"
	StoreFile   StoreKind = "file"
	StoreRedis  StoreKind = "redis"
)

type Config struct {
	//===============
	// Fetch
	//===============
	// User agent that will be used in the request header. In raw string
	userAgent string
	// Maximum time of a single fetch request
	timeout time.Duration
	// Randomized variation added on top of each backoff delay
	jitter time.Duration
	// Controls the random number generator
	randomSeed int64
	// maximum attempt during retry
	maxAttempt int
	// initial delay for backoff
	backoffInitialDuration time.Duration
	// multiplier during exponential backoff
	backoffMultiplier float64
	// capped maximum delay for backoff to stop exponential multiplication
	backoffMaxDuration time.Duration

	//===============
	// Analysis
	//===============
	// Number of top seed keywords sent to the question source
	topKeywords int
	// Maximum number of seed keywords kept per page
	maxSeedKeywords int
	// Number of body runes that take part in keyword extraction
	bodyPrefixRunes int
	// Optional JSON file replacing the built-in stop words and cues
	lexiconFile string

	//===============
	// Question source
	//===============
	questionSource qsource.Source
	provider       ProviderKind
	googleEndpoint string
	googleAPIKey   string
	googleEngineID string
	// Minimum spacing between two search requests to the provider host
	providerDelay time.Duration

	//===============
	// Result store
	//===============
	store     StoreKind
	outputDir string
	hashAlgo  hashutil.HashAlgo
	redisAddr string
	// Never printed
	redisPassword string
	redisDB       int
	// A stored result younger than this is served without re-analysis
	cacheTTL time.Duration

	//===============
	// Logging
	//===============
	logLevel  string
	logFormat string
}

type configDTO struct {
	UserAgent              string        `json:"userAgent,omitempty"`
	Timeout                time.Duration `json:"timeout,omitempty"`
	Jitter                 time.Duration `json:"jitter,omitempty"`
	RandomSeed             int64         `json:"randomSeed,omitempty"`
	MaxAttempt             int           `json:"maxAttempt,omitempty"`
	BackoffInitialDuration time.Duration `json:"backoffInitialDuration,omitempty"`
	BackoffMultiplier      float64       `json:"backoffMultiplier,omitempty"`
	BackoffMaxDuration     time.Duration `json:"backoffMaxDuration,omitempty"`
	TopKeywords            int           `json:"topKeywords,omitempty"`
	MaxSeedKeywords        int           `json:"maxSeedKeywords,omitempty"`
	BodyPrefixRunes        int           `json:"bodyPrefixRunes,omitempty"`
	LexiconFile            string        `json:"lexiconFile,omitempty"`
	QuestionSource         string        `json:"questionSource,omitempty"`
	Provider               string        `json:"provider,omitempty"`
	GoogleEndpoint         string        `json:"googleEndpoint,omitempty"`
	GoogleAPIKey           string        `json:"googleAPIKey,omitempty"`
	GoogleEngineID         string        `json:"googleEngineID,omitempty"`
	ProviderDelay          time.Duration `json:"providerDelay,omitempty"`
	Store                  string        `json:"store,omitempty"`
	OutputDir              string        `json:"outputDir,omitempty"`
	HashAlgo               string        `json:"hashAlgo,omitempty"`
	RedisAddr              string        `json:"redisAddr,omitempty"`
	RedisPassword          string        `json:"redisPassword,omitempty"`
	RedisDB                int           `json:"redisDB,omitempty"`
	CacheTTL               time.Duration `json:"cacheTTL,omitempty"`
	LogLevel               string        `json:"logLevel,omitempty"`
	LogFormat              string        `json:"logFormat,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	cfg := WithDefault()

	// Only override if non-zero value is provided
	if dto.UserAgent != "" {
		cfg.WithUserAgent(dto.UserAgent)
	}
	if dto.Timeout != 0 {
		cfg.WithTimeout(dto.Timeout)
	}
	if dto.Jitter != 0 {
		cfg.WithJitter(dto.Jitter)
	}
	if dto.RandomSeed != 0 {
		cfg.WithRandomSeed(dto.RandomSeed)
	}
	if dto.MaxAttempt != 0 {
		cfg.WithMaxAttempt(dto.MaxAttempt)
	}
	if dto.BackoffInitialDuration != 0 {
		cfg.WithBackoffInitialDuration(dto.BackoffInitialDuration)
	}
	if dto.BackoffMultiplier != 0 {
		cfg.WithBackoffMultiplier(dto.BackoffMultiplier)
	}
	if dto.BackoffMaxDuration != 0 {
		cfg.WithBackoffMaxDuration(dto.BackoffMaxDuration)
	}
	if dto.TopKeywords != 0 {
		cfg.WithTopKeywords(dto.TopKeywords)
	}
	if dto.MaxSeedKeywords != 0 {
		cfg.WithMaxSeedKeywords(dto.MaxSeedKeywords)
	}
	if dto.BodyPrefixRunes != 0 {
		cfg.WithBodyPrefixRunes(dto.BodyPrefixRunes)
	}
	if dto.LexiconFile != "" {
		cfg.WithLexiconFile(dto.LexiconFile)
	}
	if dto.QuestionSource != "" {
		cfg.WithQuestionSource(qsource.Source(dto.QuestionSource))
	}
	if dto.Provider != "" {
		cfg.WithProvider(ProviderKind(dto.Provider))
	}
	if dto.GoogleEndpoint != "" {
		cfg.WithGoogleEndpoint(dto.GoogleEndpoint)
	}
	if dto.GoogleAPIKey != "" || dto.GoogleEngineID != "" {
		cfg.WithGoogleCredentials(dto.GoogleAPIKey, dto.GoogleEngineID)
	}
	if dto.Store != "" {
		cfg.WithStore(StoreKind(dto.Store))
	}
	if dto.OutputDir != "" {
		cfg.WithOutputDir(dto.OutputDir)
	}
	if dto.HashAlgo != "" {
		cfg.WithHashAlgo(hashutil.HashAlgo(dto.HashAlgo))
	}
	if dto.RedisAddr != "" {
		cfg.WithRedis(dto.RedisAddr, dto.RedisPassword, dto.RedisDB)
	}
	if dto.ProviderDelay != 0 {
		cfg.WithProviderDelay(dto.ProviderDelay)
	}
	if dto.CacheTTL != 0 {
		cfg.WithCacheTTL(dto.CacheTTL)
	}
	if dto.LogLevel != "" {
		cfg.WithLogLevel(dto.LogLevel)
	}
	if dto.LogFormat != "" {
		cfg.WithLogFormat(dto.LogFormat)
	}

	return cfg.Build()
}

func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	err = json.Unmarshal(configContent, &cfgDTO)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	return newConfigFromDTO(cfgDTO)
}

// WithDefault creates a new Config with default values for all fields.
// The defaults analyze offline: template questions, no result store.
func WithDefault() *Config {
	defaultConfig := Config{
		userAgent:              "geo-analyzer/1.0",
		timeout:                10 * time.Second,
		jitter:                 500 * time.Millisecond,
		randomSeed:             time.Now().UnixNano(),
		maxAttempt:             3,
		backoffInitialDuration: 100 * time.Millisecond,
		backoffMultiplier:      2.0,
		backoffMaxDuration:     5 * time.Second,
		topKeywords:            5,
		maxSeedKeywords:        10,
		bodyPrefixRunes:        800,
		questionSource:         qsource.SourceGoogle,
		provider:               ProviderTemplate,
		googleEndpoint:         qsource.DefaultGoogleEndpoint,
		providerDelay:          100 * time.Millisecond,
		store:                  StoreNone,
		outputDir:              "output",
		hashAlgo:               hashutil.HashAlgoBLAKE3,
		cacheTTL:               24 * time.Hour,
		logLevel:               "info",
		logFormat:              "console",
	}
	return &defaultConfig
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithJitter(jitter time.Duration) *Config {
	c.jitter = jitter
	return c
}

func (c *Config) WithRandomSeed(seed int64) *Config {
	c.randomSeed = seed
	return c
}

func (c *Config) WithMaxAttempt(attempts int) *Config {
	c.maxAttempt = attempts
	return c
}

func (c *Config) WithBackoffInitialDuration(duration time.Duration) *Config {
	c.backoffInitialDuration = duration
	return c
}

func (c *Config) WithBackoffMultiplier(multiplier float64) *Config {
	c.backoffMultiplier = multiplier
	return c
}

func (c *Config) WithBackoffMaxDuration(duration time.Duration) *Config {
	c.backoffMaxDuration = duration
	return c
}

func (c *Config) WithTopKeywords(n int) *Config {
	c.topKeywords = n
	return c
}

func (c *Config) WithMaxSeedKeywords(n int) *Config {
	c.maxSeedKeywords = n
	return c
}

func (c *Config) WithBodyPrefixRunes(n int) *Config {
	c.bodyPrefixRunes = n
	return c
}

func (c *Config) WithLexiconFile(path string) *Config {
	c.lexiconFile = path
	return c
}

func (c *Config) WithQuestionSource(source qsource.Source) *Config {
	c.questionSource = source
	return c
}

func (c *Config) WithProvider(provider ProviderKind) *Config {
	c.provider = provider
	return c
}

func (c *Config) WithGoogleEndpoint(endpoint string) *Config {
	c.googleEndpoint = endpoint
	return c
}

func (c *Config) WithGoogleCredentials(apiKey string, engineID string) *Config {
	c.googleAPIKey = apiKey
	c.googleEngineID = engineID
	return c
}

func (c *Config) WithProviderDelay(delay time.Duration) *Config {
	c.providerDelay = delay
	return c
}

func (c *Config) WithStore(store StoreKind) *Config {
	c.store = store
	return c
}

func (c *Config) WithOutputDir(outputDir string) *Config {
	c.outputDir = outputDir
	return c
}

func (c *Config) WithHashAlgo(algo hashutil.HashAlgo) *Config {
	c.hashAlgo = algo
	return c
}

func (c *Config) WithRedis(addr string, password string, db int) *Config {
	c.redisAddr = addr
	c.redisPassword = password
	c.redisDB = db
	return c
}

func (c *Config) WithCacheTTL(ttl time.Duration) *Config {
	c.cacheTTL = ttl
	return c
}

func (c *Config) WithLogLevel(level string) *Config {
	c.logLevel = level
	return c
}

func (c *Config) WithLogFormat(format string) *Config {
	c.logFormat = format
	return c
}

func (c *Config) Build() (Config, error) {
	if c.maxAttempt < 1 {
		return Config{}, fmt.Errorf("%w: maxAttempt must be at least 1", ErrInvalidConfig)
	}
	if c.topKeywords < 1 || c.maxSeedKeywords < 1 || c.bodyPrefixRunes < 1 {
		return Config{}, fmt.Errorf("%w: topKeywords, maxSeedKeywords and bodyPrefixRunes must be positive", ErrInvalidConfig)
	}
	if c.providerDelay < 0 {
		return Config{}, fmt.Errorf("%w: providerDelay must not be negative", ErrInvalidConfig)
	}
	if c.cacheTTL <= 0 {
		return Config{}, fmt.Errorf("%w: cacheTTL must be positive", ErrInvalidConfig)
	}
	if _, err := qsource.ParseSource(string(c.questionSource)); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}

	switch c.provider {
	case ProviderTemplate:
	case ProviderGoogle:
		if c.googleAPIKey == "" || c.googleEngineID == "" {
			return Config{}, fmt.Errorf("%w: google provider needs googleAPIKey and googleEngineID", ErrMissingCredentials)
		}
	default:
		return Config{}, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, c.provider)
	}

	switch c.store {
	case StoreNone, StoreMemory:
	case StoreFile:
		if c.outputDir == "" {
			return Config{}, fmt.Errorf("%w: file store needs outputDir", ErrInvalidConfig)
		}
		if _, err := hashutil.ParseHashAlgo(string(c.hashAlgo)); err != nil {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
		}
	case StoreRedis:
		if c.redisAddr == "" {
			return Config{}, fmt.Errorf("%w: redis store needs redisAddr", ErrInvalidConfig)
		}
	default:
		return Config{}, fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.store)
	}

	if _, err := zapcore.ParseLevel(c.logLevel); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}
	if c.logFormat != "json" && c.logFormat != "console" {
		return Config{}, fmt.Errorf("%w: logFormat must be json or console", ErrInvalidConfig)
	}

	return *c, nil
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) Timeout() time.Duration {
	return c.timeout
}

func (c Config) Jitter() time.Duration {
	return c.jitter
}

func (c Config) RandomSeed() int64 {
	return c.randomSeed
}

func (c Config) MaxAttempt() int {
	return c.maxAttempt
}

func (c Config) BackoffInitialDuration() time.Duration {
	return c.backoffInitialDuration
}

func (c Config) BackoffMultiplier() float64 {
	return c.backoffMultiplier
}

func (c Config) BackoffMaxDuration() time.Duration {
	return c.backoffMaxDuration
}

func (c Config) TopKeywords() int {
	return c.topKeywords
}

func (c Config) MaxSeedKeywords() int {
	return c.maxSeedKeywords
}

func (c Config) BodyPrefixRunes() int {
	return c.bodyPrefixRunes
}

func (c Config) LexiconFile() string {
	return c.lexiconFile
}

func (c Config) QuestionSource() qsource.Source {
	return c.questionSource
}

func (c Config) Provider() ProviderKind {
	return c.provider
}

func (c Config) GoogleEndpoint() string {
	return c.googleEndpoint
}

func (c Config) GoogleAPIKey() string {
	return c.googleAPIKey
}

func (c Config) GoogleEngineID() string {
	return c.googleEngineID
}

func (c Config) ProviderDelay() time.Duration {
	return c.providerDelay
}

func (c Config) Store() StoreKind {
	return c.store
}

func (c Config) OutputDir() string {
	return c.outputDir
}

func (c Config) HashAlgo() hashutil.HashAlgo {
	return c.hashAlgo
}

func (c Config) RedisAddr() string {
	return c.redisAddr
}

func (c Config) RedisPassword() string {
	return c.redisPassword
}

func (c Config) RedisDB() int {
	return c.redisDB
}

func (c Config) CacheTTL() time.Duration {
	return c.cacheTTL
}

func (c Config) LogLevel() string {
	return c.logLevel
}

func (c Config) LogFormat() string {
	return c.logFormat
}
