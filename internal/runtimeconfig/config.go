package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrPageSizeInvalid = errors.New("portfolio config: gallery page size must be at least 1")
var ErrCategoryPolicyUnknown = errors.New("portfolio config: gallery category policy is invalid")
var ErrCategoryOrderUnknown = errors.New("portfolio config: gallery category order is invalid")
var ErrFixedCategoriesRequired = errors.New("portfolio config: fixed category policy requires categories")
var ErrImageFormatInvalid = errors.New("portfolio config: image format is invalid")
var ErrSourceKindUnknown = errors.New("portfolio config: source kind is invalid")
var ErrFeedURLRequired = errors.New("portfolio config: feed url is required for the feed source")
var ErrMarkdownDirRequired = errors.New("portfolio config: markdown directory is required for the markdown source")
var ErrStorageDriverRequired = errors.New("portfolio config: storage driver is required for the database source")
var ErrWatchRequiresMarkdown = errors.New("portfolio config: watching is only supported for the markdown source")
var ErrLoggingProviderRequired = errors.New("portfolio config: logging provider is required")
var ErrLoggingProviderUnknown = errors.New("portfolio config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("portfolio config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("portfolio config: logging format is invalid")

// Source kinds.
const (
	SourceMemory   = "memory"
	SourceFeed     = "feed"
	SourceMarkdown = "markdown"
	SourceDatabase = "database"
)

// Category policies.
const (
	CategoryPolicyDynamic = "dynamic"
	CategoryPolicyFixed   = "fixed"
)

// Config aggregates the settings of the portfolio module.
type Config struct {
	Gallery GalleryConfig `yaml:"gallery"`
	Source  SourceConfig  `yaml:"source"`
	Storage StorageConfig `yaml:"storage"`
	Media   MediaConfig   `yaml:"media"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
}

// GalleryConfig controls filtering, pagination and lightbox renditions.
type GalleryConfig struct {
	PageSize       int      `yaml:"page_size"`
	CategoryPolicy string   `yaml:"category_policy"`
	CategoryOrder  string   `yaml:"category_order"`
	Categories     []string `yaml:"categories"`
	ThumbnailWidth int      `yaml:"thumbnail_width"`
	LightboxWidth  int      `yaml:"lightbox_width"`
	ImageFormat    string   `yaml:"image_format"`
}

// SourceConfig selects where gallery items come from.
type SourceConfig struct {
	Kind          string            `yaml:"kind"`
	FeedURL       string            `yaml:"feed_url"`
	FeedTimeout   time.Duration     `yaml:"feed_timeout"`
	FeedHeaders   map[string]string `yaml:"feed_headers"`
	MarkdownDir   string            `yaml:"markdown_dir"`
	IncludeDrafts bool              `yaml:"include_drafts"`
	Watch         bool              `yaml:"watch"`
}

// StorageConfig configures the SQL item repository.
type StorageConfig struct {
	Driver   string        `yaml:"driver"`
	DSN      string        `yaml:"dsn"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// MediaConfig configures URL resolution, preloading and renditions.
type MediaConfig struct {
	BaseURL            string        `yaml:"base_url"`
	AssetDir           string        `yaml:"asset_dir"`
	PreloadConcurrency int           `yaml:"preload_concurrency"`
	PreloadTimeout     time.Duration `yaml:"preload_timeout"`
	CacheMaxAge        int           `yaml:"cache_max_age"`
}

// HTTPConfig configures the JSON API and asset server.
type HTTPConfig struct {
	Addr        string        `yaml:"addr"`
	APIPrefix   string        `yaml:"api_prefix"`
	AssetPrefix string        `yaml:"asset_prefix"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider   string   `yaml:"provider"`
	Level      string   `yaml:"level"`
	Format     string   `yaml:"format"`
	AddSource  bool     `yaml:"add_source"`
	Focus      []string `yaml:"focus"`
	File       string   `yaml:"file"`
	MaxSizeMB  int      `yaml:"max_size_mb"`
	MaxBackups int      `yaml:"max_backups"`
	MaxAgeDays int      `yaml:"max_age_days"`
}

// DefaultConfig returns a configuration that serves an empty in-memory gallery
// on :8080.
func DefaultConfig() Config {
	return Config{
		Gallery: GalleryConfig{
			PageSize:       9,
			CategoryPolicy: CategoryPolicyDynamic,
			CategoryOrder:  "first_seen",
			ThumbnailWidth: 480,
			LightboxWidth:  1600,
			ImageFormat:    "jpg",
		},
		Source: SourceConfig{
			Kind:        SourceMemory,
			FeedTimeout: 10 * time.Second,
			MarkdownDir: "content/portfolio",
		},
		Storage: StorageConfig{
			Driver:   "sqlite",
			DSN:      "file:portfolio.db?cache=shared",
			CacheTTL: time.Minute,
		},
		Media: MediaConfig{
			BaseURL:            "http://localhost:8080",
			AssetDir:           "assets",
			PreloadConcurrency: 4,
			PreloadTimeout:     10 * time.Second,
			CacheMaxAge:        86400,
		},
		HTTP: HTTPConfig{
			Addr:        ":8080",
			APIPrefix:   "/api",
			AssetPrefix: "/assets",
			ReadTimeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Load reads a YAML file over DefaultConfig and validates the result. A blank
// path returns the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("portfolio config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("portfolio config: parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate reports the first inconsistent setting.
func (cfg Config) Validate() error {
	if cfg.Gallery.PageSize < 1 {
		return fmt.Errorf("%w: %d", ErrPageSizeInvalid, cfg.Gallery.PageSize)
	}
	switch normalize(cfg.Gallery.CategoryPolicy) {
	case "", CategoryPolicyDynamic:
	case CategoryPolicyFixed:
		if len(cfg.Gallery.Categories) == 0 {
			return ErrFixedCategoriesRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrCategoryPolicyUnknown, cfg.Gallery.CategoryPolicy)
	}
	switch normalize(cfg.Gallery.CategoryOrder) {
	case "", "first_seen", "alphabetical":
	default:
		return fmt.Errorf("%w: %s", ErrCategoryOrderUnknown, cfg.Gallery.CategoryOrder)
	}
	switch normalize(cfg.Gallery.ImageFormat) {
	case "", "jpg", "png", "gif":
	default:
		return fmt.Errorf("%w: %s", ErrImageFormatInvalid, cfg.Gallery.ImageFormat)
	}

	kind := normalize(cfg.Source.Kind)
	switch kind {
	case "", SourceMemory:
	case SourceFeed:
		if strings.TrimSpace(cfg.Source.FeedURL) == "" {
			return ErrFeedURLRequired
		}
	case SourceMarkdown:
		if strings.TrimSpace(cfg.Source.MarkdownDir) == "" {
			return ErrMarkdownDirRequired
		}
	case SourceDatabase:
		if strings.TrimSpace(cfg.Storage.Driver) == "" {
			return ErrStorageDriverRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrSourceKindUnknown, cfg.Source.Kind)
	}
	if cfg.Source.Watch && kind != SourceMarkdown {
		return ErrWatchRequiresMarkdown
	}

	provider := normalize(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
