package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/rohmanhakim/talk-parser/internal/config"
	"github.com/rohmanhakim/talk-parser/internal/metadata"
	"github.com/rohmanhakim/talk-parser/pkg/hashutil"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	language   string
	titles     []string
	baseURL    string
	outputDir  string
	format     string
	hashAlgo   string
	dryRun     bool
	userAgent  string
	timeout    time.Duration
	baseDelay  time.Duration
	jitter     time.Duration
	randomSeed int64
	maxAttempt int
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "talk-parser",
	Short: "Reconstructs wiki talk page discussions into topics and replies.",
	Long: `talk-parser turns the rendered HTML of a wiki talk page into a list of
topics, each holding its replies with their nesting depth and stable
content fingerprints, so a reader can tell which parts of a discussion
changed since the last visit.

Pages are read from a local file (parse) or retrieved from a content
backend by title (fetch). Results are written as JSON or Markdown.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := ExecuteArgs(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// ExecuteArgs runs the command tree with explicit arguments and streams.
func ExecuteArgs(ctx context.Context, args []string, stdout io.Writer, stderr io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/config.json)")
	rootCmd.PersistentFlags().StringVar(&language, "lang", "", "language code of the talk pages (default \"en\")")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "endpoint returning rendered page HTML, {lang} is substituted")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "output directory for artifacts, - for stdout (default \"output\")")
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "artifact format: json or markdown (default \"json\")")
	rootCmd.PersistentFlags().StringVar(&hashAlgo, "hash-algo", "", "hash used for artifact file names: sha256 or blake3 (default \"sha256\")")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "run the pipeline without writing output")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for HTTP requests")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "timeout for HTTP requests")
	rootCmd.PersistentFlags().DurationVar(&baseDelay, "base-delay", 0, "base delay between HTTP requests to the same host")
	rootCmd.PersistentFlags().DurationVar(&jitter, "jitter", 0, "random jitter added to base delay")
	rootCmd.PersistentFlags().Int64Var(&randomSeed, "random-seed", 0, "seed for random number generation (0 for current time)")
	rootCmd.PersistentFlags().IntVar(&maxAttempt, "max-attempt", 0, "maximum fetch attempts per page")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug events")

	rootCmd.AddCommand(parseCmd, fetchCmd, versionCmd)
}

// InitConfigWithError reads in the config file if set, otherwise builds the
// config from flags. pageTitles are only applied when no config file is used.
func InitConfigWithError(pageTitles []string) (config.Config, error) {
	if cfgFile != "" {
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		return cfg, nil
	}

	lang := language
	if lang == "" {
		lang = "en"
	}

	// Start with default config and apply overrides using method chaining
	configBuilder := config.WithDefault(lang).WithTitles(pageTitles)

	if baseURL != "" {
		configBuilder = configBuilder.WithBaseURL(baseURL)
	}

	if outputDir != "" {
		configBuilder = configBuilder.WithOutputDir(outputDir)
	}

	if format != "" {
		configBuilder = configBuilder.WithFormat(config.Format(format))
	}

	if hashAlgo != "" {
		configBuilder = configBuilder.WithHashAlgo(hashutil.HashAlgo(hashAlgo))
	}

	if dryRun {
		configBuilder = configBuilder.WithDryRun(dryRun)
	}

	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}

	if timeout > 0 {
		configBuilder = configBuilder.WithTimeout(timeout)
	}

	if baseDelay > 0 {
		configBuilder = configBuilder.WithBaseDelay(baseDelay)
	}

	if jitter > 0 {
		configBuilder = configBuilder.WithJitter(jitter)
	}

	if randomSeed != 0 {
		configBuilder = configBuilder.WithRandomSeed(randomSeed)
	}

	if maxAttempt > 0 {
		configBuilder = configBuilder.WithMaxAttempt(maxAttempt)
	}

	cfg, err := configBuilder.Build()
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newRecorder logs pipeline events as text lines on stderr.
func newRecorder(stderr io.Writer) metadata.Recorder {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	return metadata.NewRecorder("main", logger)
}

func ResetFlags() {
	cfgFile = ""
	language = ""
	titles = []string{}
	inputFile = ""
	baseURL = ""
	outputDir = ""
	format = ""
	hashAlgo = ""
	dryRun = false
	userAgent = ""
	timeout = 0
	baseDelay = 0
	jitter = 0
	randomSeed = 0
	maxAttempt = 0
	verbose = false
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetLanguageForTest(lang string) {
	language = lang
}

func SetOutputDirForTest(dir string) {
	outputDir = dir
}

func SetFormatForTest(f string) {
	format = f
}

func SetHashAlgoForTest(algo string) {
	hashAlgo = algo
}

func SetDryRunForTest(dry bool) {
	dryRun = dry
}

func SetUserAgentForTest(agent string) {
	userAgent = agent
}

func SetTimeoutForTest(t time.Duration) {
	timeout = t
}

func SetBaseDelayForTest(delay time.Duration) {
	baseDelay = delay
}

func SetMaxAttemptForTest(attempts int) {
	maxAttempt = attempts
}
