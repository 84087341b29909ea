// Package config resolves csteams settings from, in increasing priority:
// defaults, an optional csteams.yaml, an optional .env file, CSTEAMS_*
// environment variables and command-line flags bound by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/pable/go-cs-teams/internal/logger"
	"github.com/pable/go-cs-teams/internal/normalize"
)

const (
	envPrefix = "csteams"
	fileName  = "csteams"
)

const (
	DefaultDB            = "~/.csteams/matches.db"
	DefaultModel         = "claude-haiku-4-5-20251001"
	DefaultLeaderboard   = 5
	DefaultOpponentLimit = 5
	DefaultLogLevel      = "info"
)

type Config struct {
	Data            string            `mapstructure:"data"`
	Sheet           string            `mapstructure:"sheet"`
	DB              string            `mapstructure:"db"`
	LogLevel        string            `mapstructure:"log_level"`
	LeaderboardSize int               `mapstructure:"leaderboard_size"`
	OpponentLimit   int               `mapstructure:"opponent_limit"`
	Aliases         map[string]string `mapstructure:"aliases"`
	AnthropicModel  string            `mapstructure:"anthropic_model"`
}

// New returns a viper instance with defaults and environment lookup set up.
// Callers bind their flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("data", "")
	v.SetDefault("sheet", "")
	v.SetDefault("db", DefaultDB)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("leaderboard_size", DefaultLeaderboard)
	v.SetDefault("opponent_limit", DefaultOpponentLimit)
	v.SetDefault("anthropic_model", DefaultModel)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads cfgFile, or searches the working directory and ~/.csteams when
// cfgFile is empty. A missing searched-for file is not an error.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	// .env only seeds variables that are not already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if cfgFile != "" {
		path, err := homedir.Expand(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("expand config path: %w", err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(fileName)
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".csteams"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Configured aliases extend the built-in table and override any built-in
	// spelling that folds to the same key.
	aliases := normalize.DefaultAliases()
	maps.DeleteFunc(aliases, func(alias, _ string) bool {
		for configured := range cfg.Aliases {
			if strings.EqualFold(strings.TrimSpace(alias), strings.TrimSpace(configured)) {
				return true
			}
		}
		return false
	})
	maps.Copy(aliases, cfg.Aliases)
	cfg.Aliases = aliases

	for _, p := range []*string{&cfg.DB, &cfg.Data} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return nil, fmt.Errorf("expand path %q: %w", *p, err)
		}
		*p = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no command could run with.
func (c *Config) Validate() error {
	if c.LeaderboardSize <= 0 {
		return fmt.Errorf("leaderboard_size must be positive, got %d", c.LeaderboardSize)
	}
	if c.OpponentLimit <= 0 {
		return fmt.Errorf("opponent_limit must be positive, got %d", c.OpponentLimit)
	}
	if c.DB == "" {
		return errors.New("db path is empty")
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := normalize.NewAliasTable(c.Aliases); err != nil {
		return fmt.Errorf("aliases: %w", err)
	}
	return nil
}

// AliasTable builds the team-name correction table. Validate has already
// rejected tables that fail to build.
func (c *Config) AliasTable() normalize.AliasTable {
	return normalize.MustAliasTable(c.Aliases)
}
