package config

import (
	"fmt"
	"path/filepath"
	"strings"

	internal "github.com/campusapps/courseplanner/planner"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config stores all configuration of the search core.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Search  SearchConfig  `mapstructure:"search"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SearchConfig stores query engine defaults.
type SearchConfig struct {
	// DefaultLimit is the result cap applied when the UI does not ask
	// for a specific limit.
	DefaultLimit int `mapstructure:"defaultLimit"`

	// BrowseOnEmptyQuery controls whether an empty query matches the
	// whole catalog (browse mode) or short-circuits to no results.
	BrowseOnEmptyQuery bool `mapstructure:"browseOnEmptyQuery"`
}

// LoggingConfig stores logger settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetDefault("search.defaultLimit", internal.DefaultResultLimit)
	viper.SetDefault("search.browseOnEmptyQuery", true)
	viper.SetDefault("logging.level", "info")

	viper.AutomaticEnv()                                   // Read in environment variables that match
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // e.g. search.defaultLimit becomes SEARCH_DEFAULTLIMIT

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; defaults will be used.
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if level, err := zerolog.ParseLevel(AppConfig.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	return &AppConfig, nil
}
