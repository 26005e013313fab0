package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	ListenAddr       string
	Authority        string
	JournalPath      string
	JournalEnabled   bool
	PostgresDSN      string
	SnapshotInterval time.Duration
	LogLevel         string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FIXEDRATIO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen", ":8080")
	v.SetDefault("journal", "./data/journal.jsonl")
	v.SetDefault("journal-enabled", true)
	v.SetDefault("snapshot-interval", 30*time.Second)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		ListenAddr:       v.GetString("listen"),
		Authority:        v.GetString("authority"),
		JournalPath:      v.GetString("journal"),
		JournalEnabled:   v.GetBool("journal-enabled"),
		PostgresDSN:      v.GetString("pg-dsn"),
		SnapshotInterval: v.GetDuration("snapshot-interval"),
		LogLevel:         v.GetString("log-level"),
	}

	if cfg.Authority == "" {
		return Config{}, fmt.Errorf("authority is required")
	}
	if cfg.SnapshotInterval <= 0 {
		return Config{}, fmt.Errorf("snapshot-interval must be positive")
	}

	return cfg, nil
}
