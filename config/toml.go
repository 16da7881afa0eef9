package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Every field is optional; set fields
// override the environment.
type FileConfig struct {
	Server     ServerSection     `toml:"server"`
	Store      StoreSection      `toml:"store"`
	Grid       GridSection       `toml:"grid"`
	Extraction ExtractionSection `toml:"extraction"`
	Events     EventsSection     `toml:"events"`
}

type ServerSection struct {
	Port           *string  `toml:"port"`
	CORSOrigins    []string `toml:"cors-allowed-origins"`
	ContextTimeout *string  `toml:"context-timeout"`
	LogLevel       *string  `toml:"log-level"`
}

type StoreSection struct {
	Backend       *string `toml:"backend"`
	DatabaseURL   *string `toml:"database-url"`
	SQLitePath    *string `toml:"sqlite-path"`
	RedisAddr     *string `toml:"redis-addr"`
	RedisPassword *string `toml:"redis-password"`
	RedisDB       *int    `toml:"redis-db"`
}

type GridSection struct {
	Granularity *int    `toml:"granularity-minutes"`
	DayStart    *string `toml:"day-start"`
	DayEnd      *string `toml:"day-end"`
	Timezone    *string `toml:"timezone"`
	Tolerance   *int    `toml:"match-tolerance-minutes"`
}

type ExtractionSection struct {
	URL     *string `toml:"url"`
	APIKey  *string `toml:"api-key"`
	Model   *string `toml:"model"`
	Timeout *string `toml:"timeout"`
}

type EventsSection struct {
	Sources     []string `toml:"sources"`
	RefreshCron *string  `toml:"refresh-cron"`
}

// LoadFile reads a TOML config from the given path. Missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var fc FileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return FileConfig{}, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return fc, nil
}

func (fc FileConfig) apply(cfg *Config) error {
	setString(&cfg.Port, fc.Server.Port)
	setString(&cfg.LogLevel, fc.Server.LogLevel)
	if fc.Server.CORSOrigins != nil {
		cfg.CORSAllowedOrigins = fc.Server.CORSOrigins
	}
	if err := setDuration(&cfg.ContextTimeout, fc.Server.ContextTimeout, "server.context-timeout"); err != nil {
		return err
	}

	if fc.Store.Backend != nil {
		cfg.StoreBackend = strings.ToLower(*fc.Store.Backend)
	}
	setString(&cfg.DBUrl, fc.Store.DatabaseURL)
	setString(&cfg.SQLitePath, fc.Store.SQLitePath)
	setString(&cfg.RedisAddr, fc.Store.RedisAddr)
	setString(&cfg.RedisPassword, fc.Store.RedisPassword)
	setInt(&cfg.RedisDB, fc.Store.RedisDB)

	setInt(&cfg.GridGranularity, fc.Grid.Granularity)
	setString(&cfg.GridDayStart, fc.Grid.DayStart)
	setString(&cfg.GridDayEnd, fc.Grid.DayEnd)
	setString(&cfg.Timezone, fc.Grid.Timezone)
	setInt(&cfg.MatchTolerance, fc.Grid.Tolerance)

	setString(&cfg.ExtractionURL, fc.Extraction.URL)
	setString(&cfg.ExtractionAPIKey, fc.Extraction.APIKey)
	setString(&cfg.ExtractionModel, fc.Extraction.Model)
	if err := setDuration(&cfg.ExtractionTimeout, fc.Extraction.Timeout, "extraction.timeout"); err != nil {
		return err
	}

	if fc.Events.Sources != nil {
		cfg.EventSources = fc.Events.Sources
	}
	setString(&cfg.EventRefreshCron, fc.Events.RefreshCron)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string, key string) error {
	if v == nil {
		return nil
	}
	d, err := parseDuration(*v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
