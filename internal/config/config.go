package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Sources  SourcesConfig
	Report   ReportConfig
	Matching MatchingConfig
	UI       UIConfig
	Accounts []AccountConfig
	Rules    []TagRule
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// SourcesConfig points at the directory of exported CSVs. Files are matched
// to accounts by name: sources/<account>.csv.
type SourcesConfig struct {
	Path string
}

// ReportConfig holds report output settings.
type ReportConfig struct {
	Path string
}

// MatchingConfig tunes the reconcile engine. Changing either value changes
// which pairs match, so they are configuration, not constants.
type MatchingConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	DateWindowDays      int     `mapstructure:"date_window_days"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat     string `mapstructure:"date_format"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
}

// AccountConfig declares an account and the CSV shape its institution
// exports. Type is "general" or "credit"; Format names an ingest format spec.
type AccountConfig struct {
	Name   string
	Type   string
	Format string
}

// TagRule attaches a tag to transactions whose description contains the
// match string (case-insensitive).
type TagRule struct {
	Match string
	Tag   string
}

// Load reads configuration from file and env. Env var overrides use prefix LEDGERSIFT_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "ledgersift", "ledgersift.db"))
	v.SetDefault("sources.path", "sources")
	v.SetDefault("report.path", "report")
	v.SetDefault("matching.similarity_threshold", 0.90)
	v.SetDefault("matching.date_window_days", 7)
	v.SetDefault("ui.date_format", "02/01")
	v.SetDefault("ui.currency_symbol", "$")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("LEDGERSIFT_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "ledgersift"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("LEDGERSIFT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
