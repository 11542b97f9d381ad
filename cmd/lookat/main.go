package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/lookat"
	"github.com/fwojciec/lookat/bloom"
	"github.com/fwojciec/lookat/fuzzy"
	"github.com/fwojciec/lookat/gofeed"
	"github.com/fwojciec/lookat/goquery"
	"github.com/fwojciec/lookat/ingest"
	"github.com/fwojciec/lookat/mongo"
	lookprom "github.com/fwojciec/lookat/prometheus"
	"github.com/fwojciec/lookat/regex"
	lookslog "github.com/fwojciec/lookat/slog"
	"github.com/fwojciec/lookat/sqlite"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when neither --db nor LOOKAT_DB is set.
	DBPath string

	// Open store connections, closed by Close.
	DB    *sqlite.DB
	Mongo *mongo.DB

	// Services for end-to-end testing. Left nil, they are built from the
	// selected store.
	CategoryService  lookat.CategoryService
	ArticleService   lookat.ArticleService
	IngestionService lookat.IngestionService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Mongo != nil {
		if err := m.Mongo.Close(); err != nil {
			return err
		}
	}
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("lookat"),
		kong.Description("Aggregate and deduplicate articles from RSS and Atom feeds"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'lookat --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	logger := newLogger(stderr, cli.Verbose, cli.LogFormat)
	deps.Logger = logger

	if err := m.openStore(ctx, cli, stderr); err != nil {
		return err
	}
	defer m.Close()

	deps.Categories = m.CategoryService
	deps.Articles = m.ArticleService

	var flags *PipelineFlags
	switch cmd {
	case "run":
		flags = &cli.Run.PipelineFlags
	case "watch":
		flags = &cli.Watch.PipelineFlags
	}
	if flags != nil {
		deps.Registry = prometheus.NewRegistry()
		metrics := lookprom.NewMetrics(deps.Registry)
		progress := ingest.MultiProgress(metrics.Progress(), lookslog.NewProgressLogger(logger))

		deps.Ingestion = m.IngestionService
		if deps.Ingestion == nil {
			svc, err := m.newIngestionService(ctx, *flags, logger, progress)
			if err != nil {
				fmt.Fprintf(stderr, "error: %s\n", lookat.ErrorMessage(err))
				return err
			}
			deps.Ingestion = svc
		}
	}

	return kongCtx.Run(deps)
}

// openStore connects the selected store unless services were injected.
func (m *Main) openStore(ctx context.Context, cli *CLI, stderr io.Writer) error {
	if m.CategoryService != nil && m.ArticleService != nil {
		return nil
	}

	switch cli.Store {
	case "mongo":
		m.Mongo = mongo.NewDB(cli.MongoURI, cli.MongoDatabase)
		if err := m.Mongo.Open(ctx); err != nil {
			fmt.Fprintf(stderr, "Hint: Set LOOKAT_MONGO_URI to point at a running MongoDB server\n")
			return fmt.Errorf("failed to open MongoDB at %q: %w", cli.MongoURI, err)
		}
		m.CategoryService = mongo.NewCategoryService(m.Mongo)
		m.ArticleService = mongo.NewArticleService(m.Mongo)
	default:
		path := cli.DB
		if path == "" {
			path = m.DBPath
		}
		m.DB = sqlite.NewDB(path)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set LOOKAT_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", path, err)
		}
		m.CategoryService = sqlite.NewCategoryService(m.DB)
		m.ArticleService = sqlite.NewArticleService(m.DB)
	}
	return nil
}

// newIngestionService wires the ingestion pipeline over the open store.
func (m *Main) newIngestionService(ctx context.Context, flags PipelineFlags, logger *slog.Logger, progress ingest.ProgressFunc) (lookat.IngestionService, error) {
	cfg := flags.DedupConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	articles := m.ArticleService
	if flags.Bloom {
		filtered := bloom.NewArticleService(articles, bloom.NewFilter(bloom.DefaultExpectedLinks, bloom.DefaultFalsePositiveRate))
		n, err := filtered.Warm(ctx, bloom.DefaultWarmPageSize)
		if err != nil {
			return nil, err
		}
		logger.Debug("link filter warmed", "links", n)
		articles = filtered
	}
	articles = lookslog.NewLoggingArticleService(articles, logger)

	var normalizer lookat.Normalizer = regex.NewNormalizer()
	if flags.Normalizer == "goquery" {
		normalizer = goquery.NewNormalizer()
	}

	detector := ingest.NewDetector(articles, fuzzy.NewScorer())
	detector.Config = cfg

	fetcher := lookslog.NewLoggingFetcher(gofeed.NewFetcher(gofeed.WithTimeout(flags.FetchTimeout)), logger)

	ingestor := ingest.NewIngestor(fetcher, normalizer, articles, lookslog.NewLoggingDetector(detector, logger))
	ingestor.FetchTimeout = flags.FetchTimeout
	ingestor.Concurrency = flags.Concurrency
	ingestor.Progress = progress
	if flags.RateLimit > 0 {
		ingestor.Limiter = ingest.NewHostLimiter(flags.RateLimit, 1)
	}

	runner := ingest.NewRunner(m.CategoryService, ingestor)
	runner.Concurrency = flags.CategoryConcurrency
	runner.Progress = progress

	return lookslog.NewLoggingIngestionService(runner, logger), nil
}

// newLogger builds the process logger writing to w.
func newLogger(w io.Writer, verbose bool, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "lookat.db"
	}
	dir := filepath.Join(home, ".lookat")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "lookat.db")
}
