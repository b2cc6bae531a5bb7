package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/citation-helper/pkg/types"
)

// setDefaults registers every configuration key so that environment
// variables (CITATION_HELPER_HTTP_TIMEOUT, ...) are seen by Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("http.timeout", 15*time.Second)
	v.SetDefault("http.user_agent", "citation-helper/"+version)
	v.SetDefault("http.max_retries", 3)

	v.SetDefault("catalog.base_url", "")
	v.SetDefault("catalog.api_key", "")
	v.SetDefault("catalog.max_results", 20)
	v.SetDefault("catalog.requests_per_second", 2.0)

	v.SetDefault("archive.base_url", "")
	v.SetDefault("archive.max_results", 15)
	v.SetDefault("archive.requests_per_second", 2.0)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", defaultHistoryPath())

	v.SetDefault("secrets_dir", ".secrets/")
}

// loadConfig resolves the typed configuration from v.
func loadConfig(v *viper.Viper) (types.AppConfig, error) {
	var cfg types.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	if v.GetBool("no_history") {
		cfg.History.Enabled = false
	}
	if cfg.HTTP.Timeout <= 0 {
		return cfg, fmt.Errorf("http.timeout must be positive, got %v", cfg.HTTP.Timeout)
	}
	return cfg, nil
}

func defaultHistoryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".citation-helper", "history.db")
	}
	return filepath.Join(dir, "citation-helper", "history.db")
}
