// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citation-helper CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/citation-helper/internal/secrets"
	"github.com/pdiddy/citation-helper/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// appConfig is the configuration resolved before any subcommand runs.
	appConfig types.AppConfig

	// logger is replaced in PersistentPreRunE once --verbose is known.
	logger = zap.NewNop()
)

// rootCmd is the base command for the citation-helper CLI.
var rootCmd = &cobra.Command{
	Use:   "citation-helper",
	Short: "Search book and archive catalogues and build citations",
	Long: `citation-helper searches the Google Books catalog or The National Archives
Discovery catalogue, lists the matching works, and turns a chosen result into a
footnote or bibliography reference that can be copied to the clipboard.

A typical session saves the results of a search and then cites one of them:

  citation-helper search --mode catalog --save results.yaml ada lovelace
  citation-helper cite --from results.yaml --index 0 --town London --copy`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		logger = l

		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		s, err := secrets.Load(viper.GetString("secrets_dir"), logger)
		if err != nil {
			return err
		}
		if keys := s.Keys(); len(keys) > 0 {
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		cfg.Catalog.APIKey = s.Or(secrets.GoogleBooksAPIKey, cfg.Catalog.APIKey)

		appConfig = cfg
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./citation-helper.yaml or ~/.config/citation-helper/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log requests and decisions to stderr")
	rootCmd.PersistentFlags().Bool("no-history", false, "do not record this search in the history database")
	_ = viper.BindPFlag("no_history", rootCmd.PersistentFlags().Lookup("no-history"))

	setDefaults(viper.GetViper())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citation-helper")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citation-helper"))
		}
	}

	// A .env file in the working directory may carry CITATION_HELPER_*
	// variables such as the catalog API key; real environment values win.
	_ = godotenv.Load()

	viper.SetEnvPrefix("CITATION_HELPER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds a console logger on stderr. Only warnings and errors are
// shown unless verbose is set.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Sampling = nil
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
