package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/dpwgc/staffdb"
)

type Config struct {
	DB     DBConfig     `mapstructure:"db"`
	Sort   SortConfig   `mapstructure:"sort"`
	Search SearchConfig `mapstructure:"search"`
	Log    LogConfig    `mapstructure:"log"`
}

type DBConfig struct {
	Path  string `mapstructure:"path"`
	Table string `mapstructure:"table"`
}

type SortConfig struct {
	Algorithm string `mapstructure:"algorithm"`
}

type SearchConfig struct {
	FuzzyDistance int `mapstructure:"fuzzy_distance"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func Default() Config {
	return Config{
		DB:     DBConfig{Path: "staffdb.db", Table: "employees"},
		Sort:   SortConfig{Algorithm: staffdb.QuickSortName},
		Search: SearchConfig{FuzzyDistance: staffdb.HybridFuzzyDistance},
		Log:    LogConfig{Level: "debug"},
	}
}

// Load reads configuration from a file and environment variables.
// With an empty path it looks for staffdb.yaml in the working directory
// and silently continues without one. Environment variables use the
// prefix "STAFFDB" with dots replaced by underscores, so "db.path"
// becomes "STAFFDB_DB_PATH".
func Load(path string) (*Config, error) {
	def := Default()

	v := viper.New()
	v.SetDefault("db.path", def.DB.Path)
	v.SetDefault("db.table", def.DB.Table)
	v.SetDefault("sort.algorithm", def.Sort.Algorithm)
	v.SetDefault("search.fuzzy_distance", def.Search.FuzzyDistance)
	v.SetDefault("log.level", def.Log.Level)

	v.SetEnvPrefix("STAFFDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("staffdb")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.DB.Path == "" {
		return errors.New("config: db.path is empty")
	}
	if c.DB.Table == "" {
		return errors.New("config: db.table is empty")
	}
	known := false
	for _, name := range staffdb.Algorithms() {
		if strings.EqualFold(name, c.Sort.Algorithm) {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("config: unknown sort.algorithm %q", c.Sort.Algorithm)
	}
	if c.Search.FuzzyDistance < 0 {
		return fmt.Errorf("config: search.fuzzy_distance must not be negative, got %d", c.Search.FuzzyDistance)
	}
	return nil
}
