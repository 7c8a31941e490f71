// Package feed reads and writes the catalogue's JSON feed and the YAML source
// document it is generated from.
package feed

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aluiziolira/go-fill-catalogue/models"
	"github.com/aluiziolira/go-fill-catalogue/parser"
)

// DateLayout is the date format used throughout the feed.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Decode reads a JSON feed.
func Decode(r io.Reader) (*models.Feed, error) {
	var f models.Feed
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return &f, nil
}

// LoadFile reads a JSON feed from disk.
func LoadFile(path string) (*models.Feed, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feed: %w", err)
	}
	defer file.Close()

	return Decode(file)
}

// LoadSource reads the YAML source document. Dates are normalised to
// DateLayout so the feed never carries times of day.
func LoadSource(path string) (*models.Feed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}

	var f models.Feed
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for _, s := range f.Scripts {
		if s == nil {
			continue
		}
		if s.Published, err = normaliseDate(s.Published); err != nil {
			return nil, fmt.Errorf("script %q published: %w", s.Title, err)
		}
		if s.Finished, err = normaliseDate(s.Finished); err != nil {
			return nil, fmt.Errorf("script %q finished: %w", s.Title, err)
		}
		for _, fill := range s.Fills {
			if fill == nil {
				continue
			}
			if fill.Date, err = normaliseDate(fill.Date); err != nil {
				return nil, fmt.Errorf("script %q fill %q date: %w", s.Title, fill.Title, err)
			}
		}
	}

	return &f, nil
}

// LoadScripts reads a JSON feed or, for .yaml/.yml paths, the YAML source.
func LoadScripts(path string) ([]*models.Script, error) {
	var (
		f   *models.Feed
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err = LoadSource(path)
	default:
		f, err = LoadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return nonNil(f.Scripts), nil
}

// LoadListings reads listings from a local catalogue file: a JSON feed, the
// YAML source, or a rendered .html page.
func LoadListings(path string) ([]*models.Listing, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open page: %w", err)
		}
		defer file.Close()
		return parser.ParsePage(file)
	case ".json", ".yaml", ".yml":
		scripts, err := LoadScripts(path)
		if err != nil {
			return nil, err
		}
		return parser.FromScripts(scripts), nil
	default:
		return nil, fmt.Errorf("unsupported catalogue file %q: want .json, .yaml, .yml or .html", path)
	}
}

func normaliseDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	t, err := ParseDate(value)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}

// ParseDate accepts a feed date with or without a time of day.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}

// PublicOnly drops scripts that have no publication date.
func PublicOnly(scripts []*models.Script) []*models.Script {
	out := make([]*models.Script, 0, len(scripts))
	for _, s := range scripts {
		if s != nil && s.Published != "" {
			out = append(out, s)
		}
	}
	return out
}

// Published keeps scripts published on or before now, newest first. Scripts
// with an unreadable date are dropped.
func Published(scripts []*models.Script, now time.Time) []*models.Script {
	type dated struct {
		script    *models.Script
		published time.Time
	}

	var kept []dated
	for _, s := range PublicOnly(scripts) {
		t, err := ParseDate(s.Published)
		if err != nil || t.After(now) {
			continue
		}
		kept = append(kept, dated{script: s, published: t})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].published.After(kept[j].published)
	})

	out := make([]*models.Script, len(kept))
	for i, d := range kept {
		out[i] = d.script
	}
	return out
}

// WriteFile writes scripts as an indented JSON feed.
func WriteFile(path string, scripts []*models.Script) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(models.Feed{Scripts: nonNil(scripts)}, "", "    ")
	if err != nil {
		return fmt.Errorf("encode feed: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write feed %q: %w", path, err)
	}
	return nil
}

// PrivatePath is the default location of the private feed next to out.
func PrivatePath(out string) string {
	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + "-private" + ext
}

// Convert turns the YAML source into a public feed (published scripts only)
// and a private feed (everything). An empty privateOut uses PrivatePath.
func Convert(in, publicOut, privateOut string) (public, private int, err error) {
	source, err := LoadSource(in)
	if err != nil {
		return 0, 0, err
	}
	if privateOut == "" {
		privateOut = PrivatePath(publicOut)
	}

	all := nonNil(source.Scripts)
	published := PublicOnly(all)

	if err := WriteFile(publicOut, published); err != nil {
		return 0, 0, err
	}
	if err := WriteFile(privateOut, all); err != nil {
		return 0, 0, err
	}
	return len(published), len(all), nil
}

func nonNil(scripts []*models.Script) []*models.Script {
	out := make([]*models.Script, 0, len(scripts))
	for _, s := range scripts {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
