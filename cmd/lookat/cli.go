package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/lookat"
	"github.com/prometheus/client_golang/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	Categories lookat.CategoryService
	Articles   lookat.ArticleService
	Ingestion  lookat.IngestionService
	Registry   *prometheus.Registry
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB            string `name:"db" env:"LOOKAT_DB" help:"SQLite database path (default ~/.lookat/lookat.db)"`
	Store         string `env:"LOOKAT_STORE" enum:"sqlite,mongo" default:"sqlite" help:"Article store backend"`
	MongoURI      string `name:"mongo-uri" env:"LOOKAT_MONGO_URI" default:"mongodb://localhost:27017" help:"MongoDB connection URI"`
	MongoDatabase string `name:"mongo-database" env:"LOOKAT_MONGO_DATABASE" default:"lookat" help:"MongoDB database name"`
	Verbose       bool   `short:"v" help:"Enable debug logging"`
	LogFormat     string `enum:"text,json" default:"text" help:"Log output format"`

	Run        RunCmd        `cmd:"" help:"Run one ingestion pass over all categories"`
	Watch      WatchCmd      `cmd:"" help:"Run ingestion on a fixed interval"`
	Categories CategoriesCmd `cmd:"" help:"List categories and their sources"`
	Import     ImportCmd     `cmd:"" help:"Create categories from a YAML or OPML file"`
	Export     ExportCmd     `cmd:"" help:"Write categories as YAML or OPML"`
	Articles   ArticlesCmd   `cmd:"" help:"List recently stored articles"`
}

// PipelineFlags tune the ingestion pipeline.
type PipelineFlags struct {
	Normalizer           string        `enum:"regex,goquery" default:"regex" help:"Content normalizer"`
	FetchTimeout         time.Duration `default:"30s" help:"Timeout for a single feed download"`
	Concurrency          int           `short:"c" default:"4" help:"Sources fetched concurrently per category"`
	CategoryConcurrency  int           `default:"1" help:"Categories processed concurrently"`
	RateLimit            float64       `default:"2" help:"Requests per second per feed host (0 disables)"`
	TitleThreshold       int           `default:"80" help:"Title similarity that alone marks a duplicate"`
	TitleFloor           int           `default:"60" help:"Minimum title similarity for the description rule"`
	DescriptionThreshold int           `default:"70" help:"Description similarity required above the title floor"`
	DedupWindow          time.Duration `default:"24h" help:"How far back stored articles are compared"`
	DedupLimit           int           `default:"100" help:"Maximum stored articles compared per item"`
	Bloom                bool          `default:"true" negatable:"" help:"Keep an in-memory filter of stored links"`
}

// DedupConfig returns the dedup tunables set by the flags.
func (f PipelineFlags) DedupConfig() lookat.DedupConfig {
	return lookat.DedupConfig{
		TitleThreshold:       f.TitleThreshold,
		TitleFloor:           f.TitleFloor,
		DescriptionThreshold: f.DescriptionThreshold,
		Window:               f.DedupWindow,
		Limit:                f.DedupLimit,
	}
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	PipelineFlags `embed:""`

	JSON bool `help:"Print the run report as JSON"`
}

// WatchCmd is the "watch" subcommand.
type WatchCmd struct {
	PipelineFlags `embed:""`

	Interval    time.Duration `default:"10m" help:"Time between runs"`
	MetricsAddr string        `help:"Serve Prometheus metrics on this address (e.g. :9090)"`
}

// CategoriesCmd is the "categories" subcommand.
type CategoriesCmd struct{}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	File   string `arg:"" type:"existingfile" help:"Seed file to import"`
	Format string `enum:"auto,yaml,opml" default:"auto" help:"Seed file format (auto detects by extension)"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Format string `enum:"yaml,opml" default:"yaml" help:"Output format"`
	Output string `short:"o" type:"path" help:"Write to file instead of stdout"`
}

// ArticlesCmd is the "articles" subcommand.
type ArticlesCmd struct {
	Category string `help:"Only show articles of this category"`
	Limit    int    `short:"n" default:"20" help:"Maximum number of articles"`
	JSON     bool   `help:"Print articles as JSON"`
}
