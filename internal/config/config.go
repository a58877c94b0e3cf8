package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"yieldRadar/internal/model"
)

// ServeConfig holds configuration for the HTTP screener.
type ServeConfig struct {
	Listen       string
	Chain        string
	APIURL       string
	FetchTimeout time.Duration
	LogLevel     string
}

// LoadServe merges config file, environment variables, and flags into
// ServeConfig.
func LoadServe(cfgFile string, flags *pflag.FlagSet) (ServeConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return ServeConfig{}, err
	}

	v.SetDefault("listen", ":8080")
	v.SetDefault("chain", "Base")
	v.SetDefault("fetch-timeout", 30*time.Second)
	v.SetDefault("log-level", "info")

	cfg := ServeConfig{
		Listen:       v.GetString("listen"),
		Chain:        v.GetString("chain"),
		APIURL:       v.GetString("api-url"),
		FetchTimeout: v.GetDuration("fetch-timeout"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}

// TopConfig holds configuration for the one-shot terminal view.
type TopConfig struct {
	Chain        string
	APIURL       string
	FetchTimeout time.Duration
	Query        string
	MinTVL       float64
	StableOnly   bool
	Sort         string
	Limit        int
	LogLevel     string
}

// View converts the flag values into pipeline view settings.
func (c TopConfig) View() model.ViewConfig {
	return model.ViewConfig{
		Query:      c.Query,
		MinTVL:     c.MinTVL,
		StableOnly: c.StableOnly,
		SortKey:    model.SortKey(strings.ToLower(c.Sort)),
		Limit:      c.Limit,
	}.Normalize()
}

// LoadTop merges config file, environment variables, and flags into
// TopConfig.
func LoadTop(cfgFile string, flags *pflag.FlagSet) (TopConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return TopConfig{}, err
	}

	v.SetDefault("chain", "Base")
	v.SetDefault("fetch-timeout", 30*time.Second)
	v.SetDefault("min-tvl", float64(model.DefaultMinTVL))
	v.SetDefault("sort", string(model.SortByScore))
	v.SetDefault("limit", model.DefaultLimit)
	v.SetDefault("log-level", "warn")

	cfg := TopConfig{
		Chain:        v.GetString("chain"),
		APIURL:       v.GetString("api-url"),
		FetchTimeout: v.GetDuration("fetch-timeout"),
		Query:        v.GetString("query"),
		MinTVL:       v.GetFloat64("min-tvl"),
		StableOnly:   v.GetBool("stable-only"),
		Sort:         v.GetString("sort"),
		Limit:        v.GetInt("limit"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}

// ExportConfig holds configuration for the snapshot export.
type ExportConfig struct {
	Chain        string
	APIURL       string
	FetchTimeout time.Duration
	Out          string
	PGDSN        string
	LogLevel     string
}

// LoadExport merges config file, environment variables, and flags into
// ExportConfig.
func LoadExport(cfgFile string, flags *pflag.FlagSet) (ExportConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return ExportConfig{}, err
	}

	v.SetDefault("chain", "Base")
	v.SetDefault("fetch-timeout", 30*time.Second)
	v.SetDefault("log-level", "info")

	cfg := ExportConfig{
		Chain:        v.GetString("chain"),
		APIURL:       v.GetString("api-url"),
		FetchTimeout: v.GetDuration("fetch-timeout"),
		Out:          v.GetString("out"),
		PGDSN:        v.GetString("pg-dsn"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}

// newViper builds the shared viper instance: env first, then an
// optional config file, then flag overrides.
func newViper(cfgFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("YIELDRADAR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}
