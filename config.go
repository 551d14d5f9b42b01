package portfolio

import "github.com/goliatone/go-portfolio/internal/runtimeconfig"

var (
	ErrPageSizeInvalid         = runtimeconfig.ErrPageSizeInvalid
	ErrCategoryPolicyUnknown   = runtimeconfig.ErrCategoryPolicyUnknown
	ErrCategoryOrderUnknown    = runtimeconfig.ErrCategoryOrderUnknown
	ErrFixedCategoriesRequired = runtimeconfig.ErrFixedCategoriesRequired
	ErrImageFormatInvalid      = runtimeconfig.ErrImageFormatInvalid
	ErrSourceKindUnknown       = runtimeconfig.ErrSourceKindUnknown
	ErrFeedURLRequired         = runtimeconfig.ErrFeedURLRequired
	ErrMarkdownDirRequired     = runtimeconfig.ErrMarkdownDirRequired
	ErrStorageDriverRequired   = runtimeconfig.ErrStorageDriverRequired
	ErrWatchRequiresMarkdown   = runtimeconfig.ErrWatchRequiresMarkdown
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

// Source kinds.
const (
	SourceMemory   = runtimeconfig.SourceMemory
	SourceFeed     = runtimeconfig.SourceFeed
	SourceMarkdown = runtimeconfig.SourceMarkdown
	SourceDatabase = runtimeconfig.SourceDatabase
)

// Category policies.
const (
	CategoryPolicyDynamic = runtimeconfig.CategoryPolicyDynamic
	CategoryPolicyFixed   = runtimeconfig.CategoryPolicyFixed
)

type (
	Config        = runtimeconfig.Config
	GalleryConfig = runtimeconfig.GalleryConfig
	SourceConfig  = runtimeconfig.SourceConfig
	StorageConfig = runtimeconfig.StorageConfig
	MediaConfig   = runtimeconfig.MediaConfig
	HTTPConfig    = runtimeconfig.HTTPConfig
	LoggingConfig = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML config file over the defaults. A blank path returns
// the defaults.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
