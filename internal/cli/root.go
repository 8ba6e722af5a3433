package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rohmanhakim/geo-analyzer/internal/config"
	"github.com/rohmanhakim/geo-analyzer/internal/qsource"
	"github.com/rohmanhakim/geo-analyzer/pkg/hashutil"
	"github.com/spf13/cobra"
)

var (
	cfgFile        string
	userAgent      string
	timeout        time.Duration
	maxAttempt     int
	jitter         time.Duration
	randomSeed     int64
	topKeywords    int
	questionSource string
	provider       string
	googleAPIKey   string
	googleEngineID string
	providerDelay  time.Duration
	storeKind      string
	outputDir      string
	hashAlgo       string
	redisAddr      string
	redisPassword  string
	redisDB        int
	cacheTTL       time.Duration
	lexiconFile    string
	logLevel       string
	logFormat      string
	metricsFile    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "geo-analyzer",
	Short: "Scores how discoverable a web page is for answer engines.",
	Long: `geo-analyzer fetches a web page, derives its seed keywords, gathers the
questions people search for around those keywords and measures how well the
page answers them.

The result combines a structure score (title, description, headings, on-page
questions) with the question coverage ratio into a single 0-100 GEO score.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/config.json)")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for HTTP requests")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "timeout for a single HTTP request")
	rootCmd.PersistentFlags().IntVar(&maxAttempt, "max-attempt", 0, "maximum fetch attempts for transient failures")
	rootCmd.PersistentFlags().DurationVar(&jitter, "jitter", 0, "random jitter added to each retry backoff")
	rootCmd.PersistentFlags().Int64Var(&randomSeed, "random-seed", 0, "seed for random number generation (0 for current time)")
	rootCmd.PersistentFlags().IntVar(&topKeywords, "top-keywords", 0, "number of seed keywords sent to the question source")
	rootCmd.PersistentFlags().StringVar(&questionSource, "question-source", "", "question source label: google, naver or community")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "question provider: template or google")
	rootCmd.PersistentFlags().StringVar(&googleAPIKey, "google-api-key", "", "Google Custom Search API key")
	rootCmd.PersistentFlags().StringVar(&googleEngineID, "google-engine-id", "", "Google Custom Search engine id")
	rootCmd.PersistentFlags().DurationVar(&providerDelay, "provider-delay", 0, "minimum spacing between two search requests to the question provider")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "result store: none, memory, file or redis")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "directory of the file store")
	rootCmd.PersistentFlags().StringVar(&hashAlgo, "hash-algo", "", "file name hash of the file store: blake3 or sha256")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis-addr", "", "address of the redis store")
	rootCmd.PersistentFlags().StringVar(&redisPassword, "redis-password", "", "password of the redis store")
	rootCmd.PersistentFlags().IntVar(&redisDB, "redis-db", 0, "database number of the redis store")
	rootCmd.PersistentFlags().DurationVar(&cacheTTL, "cache-ttl", 0, "how long a stored result stays fresh")
	rootCmd.PersistentFlags().StringVar(&lexiconFile, "lexicon-file", "", "JSON file with stop words and interrogative cues")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log encoding: console or json")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(versionCmd)
}

// InitConfigWithError reads in config file if set, otherwise builds the
// config from flags on top of the defaults.
func InitConfigWithError() (config.Config, error) {
	if cfgFile != "" {
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		return cfg, nil
	}

	configBuilder := config.WithDefault()

	// Override with CLI flag values where provided
	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}

	if timeout > 0 {
		configBuilder = configBuilder.WithTimeout(timeout)
	}

	if maxAttempt > 0 {
		configBuilder = configBuilder.WithMaxAttempt(maxAttempt)
	}

	if jitter > 0 {
		configBuilder = configBuilder.WithJitter(jitter)
	}

	if randomSeed != 0 {
		configBuilder = configBuilder.WithRandomSeed(randomSeed)
	}

	if topKeywords > 0 {
		configBuilder = configBuilder.WithTopKeywords(topKeywords)
	}

	if questionSource != "" {
		configBuilder = configBuilder.WithQuestionSource(qsource.Source(questionSource))
	}

	if provider != "" {
		configBuilder = configBuilder.WithProvider(config.ProviderKind(provider))
	}

	if googleAPIKey != "" || googleEngineID != "" {
		configBuilder = configBuilder.WithGoogleCredentials(googleAPIKey, googleEngineID)
	}

	if providerDelay > 0 {
		configBuilder = configBuilder.WithProviderDelay(providerDelay)
	}

	if storeKind != "" {
		configBuilder = configBuilder.WithStore(config.StoreKind(storeKind))
	}

	if outputDir != "" {
		configBuilder = configBuilder.WithOutputDir(outputDir)
	}

	if hashAlgo != "" {
		configBuilder = configBuilder.WithHashAlgo(hashutil.HashAlgo(hashAlgo))
	}

	if redisAddr != "" {
		configBuilder = configBuilder.WithRedis(redisAddr, redisPassword, redisDB)
	}

	if cacheTTL > 0 {
		configBuilder = configBuilder.WithCacheTTL(cacheTTL)
	}

	if lexiconFile != "" {
		configBuilder = configBuilder.WithLexiconFile(lexiconFile)
	}

	if logLevel != "" {
		configBuilder = configBuilder.WithLogLevel(logLevel)
	}

	if logFormat != "" {
		configBuilder = configBuilder.WithLogFormat(logFormat)
	}

	return configBuilder.Build()
}

func ResetFlags() {
	cfgFile = ""
	userAgent = ""
	timeout = 0
	maxAttempt = 0
	jitter = 0
	randomSeed = 0
	topKeywords = 0
	questionSource = ""
	provider = ""
	googleAPIKey = ""
	googleEngineID = ""
	providerDelay = 0
	storeKind = ""
	outputDir = ""
	hashAlgo = ""
	redisAddr = ""
	redisPassword = ""
	redisDB = 0
	cacheTTL = 0
	lexiconFile = ""
	logLevel = ""
	logFormat = ""
	metricsFile = ""
	targetURL = ""
	refresh = false
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetUserAgentForTest(agent string) {
	userAgent = agent
}

func SetTimeoutForTest(t time.Duration) {
	timeout = t
}

func SetMaxAttemptForTest(attempts int) {
	maxAttempt = attempts
}

func SetTopKeywordsForTest(n int) {
	topKeywords = n
}

func SetProviderForTest(p string, apiKey string, engineID string) {
	provider = p
	googleAPIKey = apiKey
	googleEngineID = engineID
}

func SetProviderDelayForTest(delay time.Duration) {
	providerDelay = delay
}

func SetStoreForTest(kind string, dir string) {
	storeKind = kind
	outputDir = dir
}

func SetRedisForTest(addr string, db int) {
	redisAddr = addr
	redisDB = db
}

func SetCacheTTLForTest(ttl time.Duration) {
	cacheTTL = ttl
}

func SetLexiconFileForTest(path string) {
	lexiconFile = path
}

func SetLogForTest(level string, format string) {
	logLevel = level
	logFormat = format
}
