package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aluiziolira/go-fill-catalogue/config"
	"github.com/aluiziolira/go-fill-catalogue/feed"
	"github.com/aluiziolira/go-fill-catalogue/filter"
	"github.com/aluiziolira/go-fill-catalogue/logging"
	"github.com/aluiziolira/go-fill-catalogue/models"
	"github.com/aluiziolira/go-fill-catalogue/pipeline"
	"github.com/aluiziolira/go-fill-catalogue/render"
	"github.com/aluiziolira/go-fill-catalogue/scraper"
)

func main() {
	defaultCfg := config.DefaultConfig()
	sourceDefault := defaultCfg.Source
	if value, ok := config.EnvString("CATALOGUE_SOURCE"); ok {
		sourceDefault = value
	}
	parallelDefault := defaultCfg.Parallelism
	if value, ok, err := config.EnvInt("CATALOGUE_PARALLEL"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid CATALOGUE_PARALLEL: %v\n", err)
		os.Exit(1)
	} else if ok {
		parallelDefault = value
	}
	outputDefault := defaultCfg.OutputFile
	if value, ok := config.EnvString("CATALOGUE_OUTPUT"); ok {
		outputDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("CATALOGUE_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	fs := flag.CommandLine
	source := fs.String("source", sourceDefault, "Catalogue source: http(s) URL, or a .json, .yaml or .html file")
	maxPages := fs.Int("pages", defaultCfg.MaxPages, "Maximum catalogue pages to follow for a remote source")
	parallelism := fs.Int("parallel", parallelDefault, "Concurrent requests and pipeline workers")
	delayMs := fs.Int("delay", 0, "Delay between requests (milliseconds)")
	randomDelayMs := fs.Int("random-delay", 0, "Random jitter added to delay (milliseconds)")
	maxRetries := fs.Int("max-retries", defaultCfg.MaxRetries, "Maximum retry attempts per URL")
	retryBackoffMs := fs.Int("retry-backoff", int(defaultCfg.RetryBackoff/time.Millisecond), "Initial retry backoff (milliseconds)")
	retryBackoffMaxMs := fs.Int("retry-backoff-max", int(defaultCfg.RetryBackoffMax/time.Millisecond), "Maximum retry backoff (milliseconds)")
	respectRobots := fs.Bool("respect-robots", defaultCfg.RespectRobotsTxt, "Respect robots.txt directives")
	outputFile := fs.String("output", outputDefault, `Output file path ("-" for stdout)`)
	outputFormat := fs.String("format", defaultCfg.OutputFormat, "Output format: table, csv, json, or dual")
	markdownFile := fs.String("markdown", "", "Also write the visible listings as Markdown snippets to this file")
	showOptions := fs.Bool("options", false, "Print the available filter choices and exit")
	verbose := fs.Bool("v", false, "Enable verbose logging")
	metricsAddr := fs.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	criteriaFlags := registerCriteriaFlags(fs)

	flag.Parse()

	logging.Setup(*verbose, os.Stderr)

	cfg := defaultCfg
	cfg.Source = *source
	cfg.MaxPages = *maxPages
	cfg.Parallelism = *parallelism
	cfg.Delay = time.Duration(*delayMs) * time.Millisecond
	cfg.RandomDelay = time.Duration(*randomDelayMs) * time.Millisecond
	cfg.MaxRetries = *maxRetries
	cfg.RetryBackoff = time.Duration(*retryBackoffMs) * time.Millisecond
	cfg.RetryBackoffMax = time.Duration(*retryBackoffMaxMs) * time.Millisecond
	cfg.RespectRobotsTxt = *respectRobots
	cfg.OutputFile = *outputFile
	cfg.OutputFormat = strings.ToLower(*outputFormat)
	cfg.MarkdownFile = *markdownFile
	cfg.Verbose = *verbose
	cfg.MetricsAddr = *metricsAddr
	if criteriaFlags.emptyPolicy != "" {
		cfg.EmptySelection = strings.ToLower(criteriaFlags.emptyPolicy)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	criteria, err := criteriaFlags.build(fs, cfg.EmptySelection)
	if err != nil {
		slog.Error("invalid filter", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, criteria, *showOptions); err != nil {
		slog.Error("catalogue filter failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, criteria filter.Criteria, showOptions bool) error {
	slog.Info("loading catalogue",
		slog.String("source", cfg.Source),
		slog.Bool("remote", cfg.IsRemote()),
	)

	var s *scraper.Scraper
	metrics := scraper.NewMetrics()
	if cfg.IsRemote() {
		var err error
		s, err = scraper.NewScraper(cfg)
		if err != nil {
			return fmt.Errorf("initialising scraper: %w", err)
		}
		metrics = s.Metrics
	}

	if cfg.MetricsAddr != "" {
		server := &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown failed", slog.Any("error", err))
			}
		}()
	}

	startTime := time.Now()
	listings, result, ingest, err := load(ctx, cfg, s)
	if err != nil {
		return err
	}
	loadDuration := time.Since(startTime)

	if showOptions {
		printOptions(os.Stdout, listings)
		return nil
	}

	passStart := time.Now()
	pass := filter.Apply(listings, criteria)
	metrics.ObservePass(pass, time.Since(passStart))
	visible := pass.Visible(listings)

	if err := writeListings(cfg, visible); err != nil {
		return err
	}

	if cfg.MarkdownFile != "" {
		if err := os.WriteFile(cfg.MarkdownFile, []byte(render.MarkdownAll(visible)), 0o644); err != nil {
			return fmt.Errorf("write markdown: %w", err)
		}
	}

	summaryOut := io.Writer(os.Stdout)
	if cfg.OutputFile == "-" {
		summaryOut = os.Stderr
	}
	printSummary(summaryOut, cfg, len(listings), pass, result, ingest, loadDuration)
	return nil
}

// load runs the source through the ingest pipeline and returns the
// validated, de-duplicated listings in source order.
func load(ctx context.Context, cfg *config.Config, s *scraper.Scraper) ([]*models.Listing, *models.ScrapeResult, map[string]interface{}, error) {
	collected := pipeline.NewMemoryWriter()
	p := pipeline.NewPipeline(ctx, collected, cfg)
	p.Start(cfg.Parallelism)
	if cfg.Verbose {
		p.StartMetricsReporting(10 * time.Second)
	}

	var result *models.ScrapeResult
	var loadErr error
	if s != nil {
		result, loadErr = s.Run(ctx, p)
	} else {
		var listings []*models.Listing
		listings, loadErr = feed.LoadListings(cfg.Source)
		if loadErr == nil {
			loadErr = p.ProcessAll(listings)
		}
	}

	if err := p.Close(); err != nil && loadErr == nil {
		loadErr = fmt.Errorf("pipeline shutdown failed: %w", err)
	}
	if loadErr != nil {
		return nil, result, nil, loadErr
	}
	return collected.Listings(), result, p.GetMetrics(), nil
}

func writeListings(cfg *config.Config, listings []*models.Listing) error {
	writer, err := createWriter(cfg.OutputFormat, cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	if err := writer.Write(listings); err != nil {
		writer.Close()
		return fmt.Errorf("write listings: %w", err)
	}
	if err := writer.Validate(); err != nil {
		writer.Close()
		return fmt.Errorf("output validation failed: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close writer: %w", err)
	}
	return nil
}

func createWriter(format, filename string) (pipeline.OutputWriter, error) {
	switch format {
	case "table":
		return pipeline.NewTableWriter(filename)
	case "json":
		return pipeline.NewJSONWriter(filename)
	case "csv":
		return pipeline.NewCSVWriter(filename)
	case "dual":
		return pipeline.NewDualWriter(pipeline.DualPaths(filename))
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func printOptions(w io.Writer, listings []*models.Listing) {
	fmt.Fprintln(w, "Series:")
	for _, s := range filter.SeriesOptions(listings)[1:] {
		fmt.Fprintf(w, "  %s\n", s)
	}
	fmt.Fprintln(w, "Audience:")
	for _, a := range filter.AudienceOptions(listings)[1:] {
		fmt.Fprintf(w, "  %s\n", a)
	}
	fmt.Fprintln(w, "Speaker counts:")
	for _, n := range filter.SpeakerCountOptions(listings) {
		fmt.Fprintf(w, "  %d\n", n)
	}
	fmt.Fprintln(w, "Filled by:")
	for _, name := range filter.FilledByOptions(listings)[1:] {
		fmt.Fprintf(w, "  %s\n", name)
	}
}

func printSummary(w io.Writer, cfg *config.Config, total int, pass filter.Result, result *models.ScrapeResult, ingest map[string]interface{}, duration time.Duration) {
	separator := "--------------------------------------------------"
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "Filter complete")
	fmt.Fprintf(w, "  Listings:      %d\n", total)
	fmt.Fprintf(w, "  Scripts shown: %d\n", pass.ScriptsShown)
	fmt.Fprintf(w, "  Fills shown:   %d\n", pass.FillsShown)

	if len(pass.Rejections) > 0 {
		criteria := make([]string, 0, len(pass.Rejections))
		for c := range pass.Rejections {
			criteria = append(criteria, string(c))
		}
		sort.Strings(criteria)
		fmt.Fprintln(w, "  Hidden by:")
		for _, c := range criteria {
			fmt.Fprintf(w, "    %-14s %d\n", c, pass.Rejections[filter.Criterion(c)])
		}
	}

	if valErrors, ok := ingest["validation_errors"].(map[string]int); ok && len(valErrors) > 0 {
		fmt.Fprintf(w, "  Dropped:       %v\n", valErrors)
	}
	if result != nil {
		fmt.Fprintf(w, "  Pages:         %d\n", result.PageCount)
		fmt.Fprintf(w, "  Requests:      %d\n", result.RequestCount)
		fmt.Fprintf(w, "  Errors:        %d\n", result.ErrorCount)
		fmt.Fprintf(w, "  Retries:       %d\n", result.RetryCount)
		if len(result.ErrorsByType) > 0 {
			fmt.Fprintf(w, "  Error types:   %v\n", result.ErrorsByType)
		}
	}
	fmt.Fprintf(w, "  Load time:     %v\n", duration)
	if cfg.OutputFile != "-" {
		fmt.Fprintf(w, "  Output file:   %s\n", cfg.OutputFile)
	}
	if cfg.MarkdownFile != "" {
		fmt.Fprintf(w, "  Markdown:      %s\n", cfg.MarkdownFile)
	}
	fmt.Fprintln(w, separator)
}
