package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"campusplan/internal/clock"
	"campusplan/internal/timeline"
)

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// GeneratorConfig points at the remote suggestion-generation service.
type GeneratorConfig struct {
	// URL is the service base URL, e.g. "http://localhost:5000".
	URL string `yaml:"url" json:"url"`
	// TimeoutSeconds bounds each generation request.
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA display timezone, e.g. "America/Chicago".
	Timezone string `yaml:"timezone" json:"timezone"`

	// DayStart / DayEnd bound the rendered timeline window ("HH:MM").
	DayStart string `yaml:"day_start" json:"day_start"`
	DayEnd   string `yaml:"day_end" json:"day_end"`

	// Timeline presentation constants.
	PixelsPerMinute float64 `yaml:"pixels_per_minute" json:"pixels_per_minute"`
	MinEventHeight  float64 `yaml:"min_event_height" json:"min_event_height"`
	VerticalGap     float64 `yaml:"vertical_gap" json:"vertical_gap"`
	OverlayInset    float64 `yaml:"overlay_inset" json:"overlay_inset"`

	// ActivityType and DurationMinutes are the default pass-through
	// generation preferences when a request omits them.
	ActivityType    string `yaml:"activity_type" json:"activity_type"`
	DurationMinutes int    `yaml:"duration_minutes" json:"duration_minutes"`

	// TickCron drives the "now" indicator broadcast. Cron syntax.
	TickCron string `yaml:"tick_cron" json:"tick_cron"`

	Generator GeneratorConfig `yaml:"generator" json:"generator"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:          "127.0.0.1:8080",
		Timezone:        "America/Chicago",
		DayStart:        "07:00",
		DayEnd:          "23:00",
		PixelsPerMinute: 1.0,
		MinEventHeight:  18,
		VerticalGap:     2,
		OverlayInset:    14,
		ActivityType:    "gym",
		DurationMinutes: 60,
		TickCron:        "* * * * *",
		Generator: GeneratorConfig{
			URL:            "http://127.0.0.1:5000",
			TimeoutSeconds: 15,
		},
	}
}

// Normalize fills missing or zero values with defaults so partially
// filled configs from older versions still behave.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if _, err := clock.Parse(c.DayStart); err != nil {
		c.DayStart = def.DayStart
	}
	if _, err := clock.Parse(c.DayEnd); err != nil {
		c.DayEnd = def.DayEnd
	}
	start, _ := clock.Parse(c.DayStart)
	end, _ := clock.Parse(c.DayEnd)
	if end <= start {
		c.DayStart = def.DayStart
		c.DayEnd = def.DayEnd
	}
	if c.PixelsPerMinute <= 0 {
		c.PixelsPerMinute = def.PixelsPerMinute
	}
	if c.MinEventHeight <= 0 {
		c.MinEventHeight = def.MinEventHeight
	}
	if c.VerticalGap < 0 {
		c.VerticalGap = def.VerticalGap
	}
	if c.OverlayInset <= 0 {
		c.OverlayInset = def.OverlayInset
	}
	if c.ActivityType == "" {
		c.ActivityType = def.ActivityType
	}
	if c.DurationMinutes <= 0 {
		c.DurationMinutes = def.DurationMinutes
	}
	if c.TickCron == "" {
		c.TickCron = def.TickCron
	}
	if c.Generator.TimeoutSeconds <= 0 {
		c.Generator.TimeoutSeconds = def.Generator.TimeoutSeconds
	}
}

// TimelineConfig derives the layout engine configuration. Normalize
// guarantees the day window parses.
func (c *Config) TimelineConfig() timeline.Config {
	start, _ := clock.Parse(c.DayStart)
	end, _ := clock.Parse(c.DayEnd)
	return timeline.Config{
		DayStartMinute: start,
		DayEndMinute:   end,
		PxPerMinute:    c.PixelsPerMinute,
		MinHeight:      c.MinEventHeight,
		VerticalGap:    c.VerticalGap,
		OverlayInset:   c.OverlayInset,
	}
}

// Load loads configuration from the given YAML path. A missing file is
// first-run: a default config is written with 0600 perms and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes the configuration atomically: temp file in the same
// directory, chmod 0600, then rename over the target.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".campusplan-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save for convenience:
//
//	cfg, _ := config.Load(path)
//	// ... mutate cfg ...
//	if err := cfg.Save(path); err != nil { ... }
func (c *Config) Save(path string) error {
	return Save(path, c)
}
