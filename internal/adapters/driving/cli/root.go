// Package cli provides the cobra command tree for the tap.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/tap-twitter/internal/adapters/driven/auth"
	"github.com/custodia-labs/tap-twitter/internal/adapters/driven/config/file"
	"github.com/custodia-labs/tap-twitter/internal/adapters/driven/oauth"
	"github.com/custodia-labs/tap-twitter/internal/adapters/driven/schema"
	"github.com/custodia-labs/tap-twitter/internal/adapters/driven/singer"
	"github.com/custodia-labs/tap-twitter/internal/adapters/driven/sink"
	"github.com/custodia-labs/tap-twitter/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tap-twitter/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/tap-twitter/internal/connectors/twitter"
	"github.com/custodia-labs/tap-twitter/internal/core/domain"
	"github.com/custodia-labs/tap-twitter/internal/core/ports/driven"
	"github.com/custodia-labs/tap-twitter/internal/core/services"
	"github.com/custodia-labs/tap-twitter/internal/logger"
	"github.com/custodia-labs/tap-twitter/internal/metrics"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configPath   string
	catalogPath  string
	discoverMode bool
	dryRun       bool
	outputPath   string
	dbPath       string
	metricsAddr  string
	verbose      bool
)

// newFetcher builds the page fetcher for a run. Tests replace it.
var newFetcher = func(cfg *twitter.Config, tokens driven.TokenProvider, m *metrics.Metrics) driven.PageFetcher {
	return twitter.NewClient(tokens, cfg.APIURL).WithMetrics(m)
}

var rootCmd = &cobra.Command{
	Use:   "tap-twitter",
	Short: "Extract tweets and users from the Twitter API v2",
	Long: `tap-twitter searches recent tweets from the configured accounts, denormalises
each tweet's author and media, looks up the accounts themselves, and writes
Singer SCHEMA, RECORD and STATE messages to stdout.

Use --discover to print the catalog, and --catalog to select streams.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runTap,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "path to the JSON or TOML config file")
	flags.StringVar(&catalogPath, "catalog", "", "path to a catalog selecting the streams to extract")
	flags.BoolVar(&discoverMode, "discover", false, "print the catalog and exit")
	flags.StringVarP(&outputPath, "output", "o", "", "write messages to this file instead of stdout")
	flags.StringVar(&dbPath, "db", "", "also upsert records into this SQLite database")
	flags.BoolVar(&dryRun, "dry-run", false, "extract into memory and print record counts instead of messages")
	flags.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090) while the run lasts")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runTap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if configPath == "" {
		return fmt.Errorf("%w: --config is required", domain.ErrInvalidInput)
	}
	if dryRun && (outputPath != "" || dbPath != "") {
		return fmt.Errorf("%w: --dry-run cannot be combined with --output or --db", domain.ErrInvalidInput)
	}
	if err := auth.LoadDotEnv(".env"); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}

	store, err := file.NewConfigStore(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg, err := twitter.ParseConfig(store)
	if err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	catalogService := services.NewCatalogService(twitter.Sources(cfg))
	if discoverMode {
		return writeCatalog(cmd.OutOrStdout(), catalogService)
	}

	if len(cfg.UserIDs) == 0 {
		logger.Warn("%s is empty; the search query will be rejected by the API", twitter.KeyUserIDs)
	}

	var catalog *domain.Catalog
	if catalogPath != "" {
		if catalog, err = readCatalog(catalogPath); err != nil {
			return err
		}
	}
	sources := catalogService.Select(catalog)
	if len(sources) == 0 {
		logger.Warn("no streams selected")
		return nil
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	logger.Info("Starting run %s", runID)

	var sinks []driven.RecordSink
	var dryRunStore *memory.RecordStore
	if dryRun {
		dryRunStore = memory.NewRecordStore()
		sinks = append(sinks, dryRunStore)
	} else {
		out := cmd.OutOrStdout()
		if outputPath != "" {
			f, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			out = f
		}
		sinks = append(sinks, singer.NewWriter(out))
	}

	if dbPath != "" {
		recordStore, err := sqlite.NewRecordStore(ctx, dbPath, runID)
		if err != nil {
			return fmt.Errorf("opening record store: %w", err)
		}
		defer recordStore.Close()
		sinks = append(sinks, recordStore)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	if metricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, metricsAddr, registry); err != nil {
				logger.Error("metrics server: %v", err)
			}
		}()
	}

	extractor := services.NewExtractor(
		newFetcher(cfg, newTokenProvider(store), m),
		sink.NewMulti(sinks...),
		schema.NewValidator(),
		m,
		runID,
	)

	err = extractWithProgress(ctx, extractor, sources)

	if metricsAddr != "" {
		if summaryErr := metrics.WriteSummary(cmd.ErrOrStderr(), registry); summaryErr != nil {
			logger.Error("metrics summary: %v", summaryErr)
		}
	}
	if err != nil {
		return err
	}

	if dryRunStore != nil {
		writeDryRunSummary(cmd.ErrOrStderr(), dryRunStore, sources)
	}
	return nil
}

// writeDryRunSummary prints the record count of each extracted stream.
func writeDryRunSummary(w io.Writer, store *memory.RecordStore, sources []driven.RecordSource) {
	for _, source := range sources {
		stream := source.Definition().Name
		fmt.Fprintf(w, "%s: %d records\n", stream, len(store.Records(stream)))
	}
}

// newTokenProvider prefers a configured bearer token and falls back to
// exchanging the app's API key and secret.
func newTokenProvider(store driven.ConfigStore) driven.TokenProvider {
	bearer := auth.NewBearerTokenProvider(store.GetString(twitter.KeyBearerToken))
	if bearer.IsAuthenticated() {
		return bearer
	}
	exchange := oauth.NewClientCredentialsProvider(
		store.GetString(twitter.KeyAPIKey), store.GetString(twitter.KeyAPISecret), "")
	if exchange.IsAuthenticated() {
		logger.Debug("Using app-only token exchange")
		return exchange
	}
	logger.Warn("no bearer_token or api_key/api_secret configured")
	return bearer
}

// writeCatalog prints the discovered catalog as indented JSON.
func writeCatalog(w io.Writer, catalogService *services.CatalogService) error {
	catalog, err := catalogService.Discover()
	if err != nil {
		return fmt.Errorf("discovering streams: %w", err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(catalog)
}

// readCatalog loads a catalog file.
func readCatalog(path string) (*domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	var catalog domain.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("%w: catalog %s: %w", domain.ErrInvalidInput, path, err)
	}
	if len(catalog.Streams) == 0 {
		return nil, fmt.Errorf("%w: catalog %s has no streams", domain.ErrInvalidInput, path)
	}
	return &catalog, nil
}

// contextOrBackground guards against commands executed without a context.
func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
