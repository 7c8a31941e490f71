package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds catalogue filter configuration.
type Config struct {
	// Source is an http(s) URL or a local .json, .yaml/.yml or .html file.
	Source             string
	MaxPages           int
	Parallelism        int
	Delay              time.Duration
	RandomDelay        time.Duration
	Timeout            time.Duration
	MaxRetries         int
	RetryBackoff       time.Duration
	RetryBackoffMax    time.Duration
	PipelineBufferSize int
	BatchSize          int
	DedupeMaxSize      int
	OutputFile         string
	OutputFormat       string // table, csv, json, or dual
	MarkdownFile       string
	UserAgent          string
	Verbose            bool
	RespectRobotsTxt   bool
	MetricsAddr        string
	// EmptySelection is "none" (an empty multi-select hides everything) or
	// "all" (an empty multi-select is ignored).
	EmptySelection string
	// Author is credited with a crown on fills they recorded themselves.
	Author string
}

// DefaultConfig returns defaults suited to a local feed file.
func DefaultConfig() *Config {
	return &Config{
		Source:             "script-data.json",
		MaxPages:           10,
		Parallelism:        4,
		Delay:              0,
		RandomDelay:        0,
		Timeout:            10 * time.Second,
		MaxRetries:         2,
		RetryBackoff:       200 * time.Millisecond,
		RetryBackoffMax:    2 * time.Second,
		PipelineBufferSize: 256,
		BatchSize:          64,
		DedupeMaxSize:      10000,
		OutputFile:         "-",
		OutputFormat:       "table",
		UserAgent:          "go-fill-catalogue/1.0 (+https://github.com/aluiziolira/go-fill-catalogue)",
		Verbose:            false,
		RespectRobotsTxt:   true,
		EmptySelection:     "none",
		Author:             "lilellia",
	}
}

// IsRemote reports whether Source must be fetched over HTTP.
func (c *Config) IsRemote() bool {
	return strings.HasPrefix(c.Source, "http://") || strings.HasPrefix(c.Source, "https://")
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return fmt.Errorf("source cannot be empty")
	}
	if c.IsRemote() {
		parsedURL, err := url.Parse(c.Source)
		if err != nil {
			return fmt.Errorf("invalid source URL: %w", err)
		}
		if parsedURL.Host == "" {
			return fmt.Errorf("source URL must include a host")
		}
	}

	if c.MaxPages <= 0 {
		return fmt.Errorf("max pages must be positive")
	}
	if c.Parallelism <= 0 {
		return fmt.Errorf("parallelism must be positive")
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	if c.RandomDelay < 0 {
		return fmt.Errorf("random delay cannot be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("retry backoff cannot be negative")
	}
	if c.RetryBackoffMax < 0 {
		return fmt.Errorf("retry backoff max cannot be negative")
	}
	if c.RetryBackoffMax > 0 && c.RetryBackoff > c.RetryBackoffMax {
		return fmt.Errorf("retry backoff (%s) cannot exceed retry backoff max (%s)", c.RetryBackoff, c.RetryBackoffMax)
	}
	if c.PipelineBufferSize <= 0 {
		return fmt.Errorf("pipeline buffer size must be positive")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if c.DedupeMaxSize <= 0 {
		return fmt.Errorf("dedupe max size must be positive")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	switch c.OutputFormat {
	case "table", "json":
	case "csv", "dual":
		if c.OutputFile == "-" {
			return fmt.Errorf("%s output needs a file path, not stdout", c.OutputFormat)
		}
	default:
		return fmt.Errorf("output format must be table, csv, json, or dual")
	}
	if c.EmptySelection != "none" && c.EmptySelection != "all" {
		return fmt.Errorf("empty selection must be none or all")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	return nil
}

// EnvString returns the trimmed value of an environment variable.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// EnvInt parses an integer environment variable.
func EnvInt(key string) (int, bool, error) {
	value, ok := EnvString(key)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return n, true, nil
}
