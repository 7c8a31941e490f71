package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aluiziolira/go-fill-catalogue/config"
	"github.com/aluiziolira/go-fill-catalogue/feed"
	"github.com/aluiziolira/go-fill-catalogue/logging"
	"github.com/aluiziolira/go-fill-catalogue/models"
	"github.com/aluiziolira/go-fill-catalogue/render"
)

func main() {
	defaultCfg := config.DefaultConfig()
	sourceDefault := defaultCfg.Source
	if value, ok := config.EnvString("CATALOGUE_SOURCE"); ok {
		sourceDefault = value
	}

	source := flag.String("source", sourceDefault, "JSON feed or YAML source to build from")
	outDir := flag.String("out", ".", "Directory for index.html and all-fills.html")
	title := flag.String("title", "Script Catalogue", "Page title")
	author := flag.String("author", defaultCfg.Author, "Credited with a crown on self-recorded fills")
	stylesheets := flag.String("css", "", "Comma-separated stylesheet URLs")
	scripts := flag.String("js", "", "Comma-separated script URLs")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	flag.Parse()

	logging.Setup(*verbose, os.Stderr)

	opts := render.Options{
		Title:       *title,
		Author:      *author,
		Stylesheets: splitCSV(*stylesheets),
		Scripts:     splitCSV(*scripts),
	}
	if err := build(*source, *outDir, opts, time.Now()); err != nil {
		slog.Error("build failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func build(source, outDir string, opts render.Options, now time.Time) error {
	all, err := feed.LoadScripts(source)
	if err != nil {
		return err
	}
	published := feed.Published(all, now)
	slog.Info("building catalogue",
		slog.String("source", source),
		slog.Int("scripts", len(all)),
		slog.Int("published", len(published)),
	)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	pages := []struct {
		name  string
		write func(io.Writer, []*models.Script, render.Options) error
	}{
		{"index.html", render.Index},
		{"all-fills.html", render.AllFills},
	}
	for _, page := range pages {
		path := filepath.Join(outDir, page.name)
		if err := writePage(path, func(w io.Writer) error {
			return page.write(w, published, opts)
		}); err != nil {
			return err
		}
		slog.Info("wrote page", slog.String("path", path))
	}
	return nil
}

func writePage(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	buf := bufio.NewWriter(f)
	if err := write(buf); err != nil {
		f.Close()
		return err
	}
	if err := buf.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
