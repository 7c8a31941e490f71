package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "negative parallelism",
			mutate: func(cfg *Config) {
				cfg.Parallelism = -1
			},
			wantErr: "parallelism",
		},
		{
			name: "zero max pages",
			mutate: func(cfg *Config) {
				cfg.MaxPages = 0
			},
			wantErr: "max pages",
		},
		{
			name: "empty source",
			mutate: func(cfg *Config) {
				cfg.Source = "  "
			},
			wantErr: "source",
		},
		{
			name: "url without host",
			mutate: func(cfg *Config) {
				cfg.Source = "http://"
			},
			wantErr: "host",
		},
		{
			name: "negative timeout",
			mutate: func(cfg *Config) {
				cfg.Timeout = -1 * time.Second
			},
			wantErr: "timeout",
		},
		{
			name: "backoff above cap",
			mutate: func(cfg *Config) {
				cfg.RetryBackoff = 3 * time.Second
				cfg.RetryBackoffMax = time.Second
			},
			wantErr: "retry backoff",
		},
		{
			name: "zero batch size",
			mutate: func(cfg *Config) {
				cfg.BatchSize = 0
			},
			wantErr: "batch size",
		},
		{
			name: "unknown format",
			mutate: func(cfg *Config) {
				cfg.OutputFormat = "xml"
			},
			wantErr: "output format",
		},
		{
			name: "csv to stdout",
			mutate: func(cfg *Config) {
				cfg.OutputFormat = "csv"
				cfg.OutputFile = "-"
			},
			wantErr: "file path",
		},
		{
			name: "dual to stdout",
			mutate: func(cfg *Config) {
				cfg.OutputFormat = "dual"
				cfg.OutputFile = "-"
			},
			wantErr: "file path",
		},
		{
			name: "unknown empty selection policy",
			mutate: func(cfg *Config) {
				cfg.EmptySelection = "some"
			},
			wantErr: "empty selection",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	if cfg.IsRemote() {
		t.Fatalf("default source should be a local file")
	}

	cfg.Source = "https://example.test/script-data.json"
	if !cfg.IsRemote() {
		t.Fatalf("https source should be remote")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("remote source should validate, got %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CATALOGUE_TEST_STRING", "  feed.json ")
	t.Setenv("CATALOGUE_TEST_BLANK", "   ")
	t.Setenv("CATALOGUE_TEST_INT", "8")
	t.Setenv("CATALOGUE_TEST_BAD", "eight")

	if v, ok := EnvString("CATALOGUE_TEST_STRING"); !ok || v != "feed.json" {
		t.Fatalf("EnvString = %q, %v", v, ok)
	}
	if _, ok := EnvString("CATALOGUE_TEST_BLANK"); ok {
		t.Fatalf("blank value should be treated as unset")
	}
	if _, ok := EnvString("CATALOGUE_TEST_MISSING"); ok {
		t.Fatalf("missing value should be unset")
	}
	if n, ok, err := EnvInt("CATALOGUE_TEST_INT"); err != nil || !ok || n != 8 {
		t.Fatalf("EnvInt = %d, %v, %v", n, ok, err)
	}
	if _, _, err := EnvInt("CATALOGUE_TEST_BAD"); err == nil || !strings.Contains(err.Error(), "CATALOGUE_TEST_BAD") {
		t.Fatalf("expected parse error naming the variable, got %v", err)
	}
}
