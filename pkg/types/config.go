package types

import "time"

// HTTPConfig holds shared HTTP settings used by the search sources.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "citation-helper/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on HTTP 429 (0 selects the default).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// SourceConfig holds the settings common to one search source.
type SourceConfig struct {
	// BaseURL overrides the API endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// MaxResults is the page size requested from the API.
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// RequestsPerSecond limits the request rate against the API.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// CatalogConfig configures the Google Books catalog source.
type CatalogConfig struct {
	SourceConfig `yaml:",inline" mapstructure:",squash"`

	// APIKey is optional; Google Books allows anonymous queries at lower quotas.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// ArchiveConfig configures The National Archives Discovery source.
type ArchiveConfig struct {
	SourceConfig `yaml:",inline" mapstructure:",squash"`
}

// HistoryConfig controls the search history database.
type HistoryConfig struct {
	// Enabled turns history recording on.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// AppConfig groups all configuration blocks.
type AppConfig struct {
	HTTP    HTTPConfig    `json:"http" yaml:"http" mapstructure:"http"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Archive ArchiveConfig `json:"archive" yaml:"archive" mapstructure:"archive"`
	History HistoryConfig `json:"history" yaml:"history" mapstructure:"history"`
}
