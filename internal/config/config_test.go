package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout %v, got %v", DefaultTimeout, cfg.Timeout)
	}
	if cfg.MaxRetries != DefaultMaxRetries {
		t.Errorf("expected default max retries %d, got %d", DefaultMaxRetries, cfg.MaxRetries)
	}
	if cfg.RetryDelay != DefaultRetryDelay {
		t.Errorf("expected default retry delay %v, got %v", DefaultRetryDelay, cfg.RetryDelay)
	}
	if cfg.BatchSize != DefaultBatchSize {
		t.Errorf("expected default batch size %d, got %d", DefaultBatchSize, cfg.BatchSize)
	}
	if !cfg.SaveToDB {
		t.Error("saving to the database should be enabled by default")
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid defaults", func(c *Config) {}, nil},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, ErrInvalidMaxRetries},
		{"negative retry delay", func(c *Config) { c.RetryDelay = -time.Second }, ErrInvalidRetryDelay},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, ErrInvalidBatchSize},
		{"conflicting formats", func(c *Config) { c.JSONReport = true; c.MarkdownReport = true }, ErrConflictingReportFormats},
		{"negative body size", func(c *Config) { c.MaxBodySize = -1 }, ErrInvalidMaxBodySize},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSourceListFallback(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	sources := cfg.SourceList()
	if len(sources) != 1 || sources[0] != DefaultSourceURL {
		t.Errorf("expected default source fallback, got %v", sources)
	}

	cfg.Sources = []string{"https://example.com/holidays"}
	sources = cfg.SourceList()
	if len(sources) != 1 || sources[0] != "https://example.com/holidays" {
		t.Errorf("expected configured sources, got %v", sources)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("valid file", func(t *testing.T) {
		t.Parallel()

		content := `
defaults:
  userAgent: "custom-agent/1.0"
sources:
  "https://example.com/holidays":
    cookie: "session=abc"
    maxRetries: 5
    headers:
      X-Custom: "value"
`
		path := filepath.Join(t.TempDir(), ".holidayscan")
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("failed to load config file: %v", err)
		}

		sc := cf.GetSourceConfig("https://example.com/holidays")
		if sc.Cookie != "session=abc" {
			t.Errorf("unexpected cookie: %q", sc.Cookie)
		}
		if sc.MaxRetries != 5 {
			t.Errorf("unexpected max retries: %d", sc.MaxRetries)
		}
		if sc.UserAgent != "custom-agent/1.0" {
			t.Errorf("defaults should apply when source doesn't override, got %q", sc.UserAgent)
		}
		if sc.Headers["X-Custom"] != "value" {
			t.Errorf("unexpected headers: %v", sc.Headers)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".holidayscan")
		if err := os.WriteFile(path, []byte("sources: [not a map"), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

func TestGetSourceConfigUnknownSource(t *testing.T) {
	t.Parallel()

	cf := &File{
		Defaults: SourceConfig{UserAgent: "default-agent"},
		Sources:  map[string]SourceConfig{},
	}

	sc := cf.GetSourceConfig("https://unknown.example.com")
	if sc.UserAgent != "default-agent" {
		t.Errorf("unknown source should get defaults, got %q", sc.UserAgent)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "my-config.yaml")
		if err := os.WriteFile(path, []byte("sources:"), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit missing path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing")); got != "" {
			t.Errorf("expected empty result for missing explicit path, got %q", got)
		}
	})
}
