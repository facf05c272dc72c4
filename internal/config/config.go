package config

import (
	"fmt"
	"time"

	"github.com/example/tablebook/internal/catalog"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config carries server settings plus optional overrides for the booking
// catalog. Zero-value catalog fields fall back to catalog.Default.
type Config struct {
	ListenAddr string `mapstructure:"listen_addr"`
	BaseURL    string `mapstructure:"base_url"`

	// Availability seeding
	Seed    int64 `mapstructure:"seed"`
	AllFree bool  `mapstructure:"all_free"`

	// Background availability churn
	ChurnEnabled  bool          `mapstructure:"churn_enabled"`
	ChurnInterval time.Duration `mapstructure:"churn_interval"`
	ChurnKeys     int           `mapstructure:"churn_keys_per_tick"`

	// Catalog overrides
	WindowStart time.Time        `mapstructure:"window_start"`
	WindowEnd   time.Time        `mapstructure:"window_end"`
	Regions     []catalog.Region `mapstructure:"regions"`
	TimeSlots   []string         `mapstructure:"time_slots"`
}

// Load initializes and reads the configuration using Viper. An empty cfgFile
// uses defaults plus any TABLEBOOK_* environment overrides.
func Load(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	viper.SetEnvPrefix("tablebook")
	viper.AutomaticEnv()

	viper.SetDefault("listen_addr", ":8080")
	viper.SetDefault("base_url", "http://localhost:8080")
	viper.SetDefault("seed", 42)
	viper.SetDefault("all_free", false)
	viper.SetDefault("churn_enabled", false)
	viper.SetDefault("churn_interval", "5s")
	viper.SetDefault("churn_keys_per_tick", 5)
	viper.SetDefault("window_start", "2024-07-24")
	viper.SetDefault("window_end", "2024-07-31")

	if cfgFile != "" {
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	decodeHook := viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			dc.DecodeHook,
			mapstructure.StringToTimeHookFunc(catalog.DateFormat),
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := viper.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if cfg.WindowEnd.Before(cfg.WindowStart) {
		return nil, fmt.Errorf("window_end must not be before window_start")
	}
	if cfg.ChurnEnabled && cfg.ChurnInterval < time.Second {
		return nil, fmt.Errorf("churn_interval must be >= 1s")
	}

	return &cfg, nil
}

// Catalog assembles the booking catalog from the config, falling back to the
// stock regions and time slots when none are configured.
func (c *Config) Catalog() catalog.Catalog {
	cat := catalog.Default()
	if len(c.Regions) > 0 {
		cat.Regions = c.Regions
	}
	if len(c.TimeSlots) > 0 {
		cat.TimeSlots = c.TimeSlots
	}
	if !c.WindowStart.IsZero() {
		cat.Window.Start = c.WindowStart
	}
	if !c.WindowEnd.IsZero() {
		cat.Window.End = c.WindowEnd
	}
	return cat
}
