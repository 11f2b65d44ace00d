package config

// SourceConfig holds per-source configuration for a single page URL.
// This allows customizing fetch behavior per site, such as sending a
// cookie a site requires before serving the table.
type SourceConfig struct {
	// Cookie is an HTTP cookie to send when fetching this source.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this
	// source.
	Headers map[string]string `yaml:"headers,omitempty"`

	// UserAgent overrides the global User-Agent for this source.
	UserAgent string `yaml:"userAgent,omitempty"`

	// MaxRetries overrides the global retry count for this source.
	// If zero, the global MaxRetries is used.
	MaxRetries int `yaml:"maxRetries,omitempty"`
}

// File represents the structure of the .holidayscan configuration file.
type File struct {
	// Sources maps page URLs to their per-source configurations.
	Sources map[string]SourceConfig `yaml:"sources,omitempty"`

	// Defaults contains default source configuration applied to all
	// sources unless overridden in the per-source configuration.
	Defaults SourceConfig `yaml:"defaults,omitempty"`
}

// GetSourceConfig returns the configuration for a specific page URL.
// It merges the per-source configuration with defaults.
func (cf *File) GetSourceConfig(pageURL string) SourceConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with per-source configuration if present
	if sourceConfig, ok := cf.Sources[pageURL]; ok {
		if sourceConfig.Cookie != "" {
			result.Cookie = sourceConfig.Cookie
		}
		if sourceConfig.UserAgent != "" {
			result.UserAgent = sourceConfig.UserAgent
		}
		if sourceConfig.MaxRetries != 0 {
			result.MaxRetries = sourceConfig.MaxRetries
		}
		if len(sourceConfig.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range sourceConfig.Headers {
				result.Headers[k] = v
			}
		}
	}

	return result
}
