package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-portfolio/internal/runtimeconfig"
)

func TestConfigValidate_DefaultsAreValid(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_Errors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{"page size", func(c *runtimeconfig.Config) { c.Gallery.PageSize = 0 }, runtimeconfig.ErrPageSizeInvalid},
		{"policy", func(c *runtimeconfig.Config) { c.Gallery.CategoryPolicy = "random" }, runtimeconfig.ErrCategoryPolicyUnknown},
		{"fixed without categories", func(c *runtimeconfig.Config) { c.Gallery.CategoryPolicy = "fixed" }, runtimeconfig.ErrFixedCategoriesRequired},
		{"order", func(c *runtimeconfig.Config) { c.Gallery.CategoryOrder = "newest" }, runtimeconfig.ErrCategoryOrderUnknown},
		{"format", func(c *runtimeconfig.Config) { c.Gallery.ImageFormat = "tiff" }, runtimeconfig.ErrImageFormatInvalid},
		{"source kind", func(c *runtimeconfig.Config) { c.Source.Kind = "ftp" }, runtimeconfig.ErrSourceKindUnknown},
		{"feed url", func(c *runtimeconfig.Config) { c.Source.Kind = "feed" }, runtimeconfig.ErrFeedURLRequired},
		{"markdown dir", func(c *runtimeconfig.Config) {
			c.Source.Kind = "markdown"
			c.Source.MarkdownDir = " "
		}, runtimeconfig.ErrMarkdownDirRequired},
		{"storage driver", func(c *runtimeconfig.Config) {
			c.Source.Kind = "database"
			c.Storage.Driver = ""
		}, runtimeconfig.ErrStorageDriverRequired},
		{"watch", func(c *runtimeconfig.Config) { c.Source.Watch = true }, runtimeconfig.ErrWatchRequiresMarkdown},
		{"logging provider", func(c *runtimeconfig.Config) { c.Logging.Provider = "" }, runtimeconfig.ErrLoggingProviderRequired},
		{"unknown provider", func(c *runtimeconfig.Config) { c.Logging.Provider = "syslog" }, runtimeconfig.ErrLoggingProviderUnknown},
		{"level", func(c *runtimeconfig.Config) { c.Logging.Level = "loud" }, runtimeconfig.ErrLoggingLevelInvalid},
		{"gologger format", func(c *runtimeconfig.Config) {
			c.Logging.Provider = "gologger"
			c.Logging.Format = "xml"
		}, runtimeconfig.ErrLoggingFormatInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLoad_MergesYAMLOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	data := []byte(`
gallery:
  page_size: 12
  category_policy: fixed
  categories: [Banners, Apparel]
source:
  kind: feed
  feed_url: https://cms.example.com/portfolio.json
  feed_timeout: 3s
logging:
  level: debug
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := runtimeconfig.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gallery.PageSize != 12 || len(cfg.Gallery.Categories) != 2 {
		t.Fatalf("unexpected gallery config %+v", cfg.Gallery)
	}
	if cfg.Source.FeedTimeout != 3*time.Second {
		t.Fatalf("expected 3s feed timeout, got %s", cfg.Source.FeedTimeout)
	}
	if cfg.Gallery.LightboxWidth != 1600 || cfg.HTTP.Addr != ":8080" {
		t.Fatal("expected untouched sections to keep defaults")
	}
}

func TestLoad_BlankPathReturnsDefaults(t *testing.T) {
	cfg, err := runtimeconfig.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gallery.PageSize != 9 {
		t.Fatalf("expected default page size, got %d", cfg.Gallery.PageSize)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := runtimeconfig.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
