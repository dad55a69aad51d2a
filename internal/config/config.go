// Package config holds folio's settings.
//
// Settings come from three layers, lowest priority first: built-in
// defaults, an optional TOML or YAML file, and FOLIO_* environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dshills/folio/internal/config/loader"
	"github.com/dshills/folio/internal/layout"
	"github.com/dshills/folio/internal/logging"
	"github.com/dshills/folio/internal/renderer"
	"github.com/dshills/folio/internal/renderer/surface"
	"github.com/dshills/folio/internal/watch"
	"github.com/dshills/folio/internal/zoom"
)

// Config is the complete folio configuration.
type Config struct {
	Zoom     ZoomConfig     `toml:"zoom" yaml:"zoom"`
	Render   RenderConfig   `toml:"render" yaml:"render"`
	Terminal TerminalConfig `toml:"terminal" yaml:"terminal"`
	Watch    WatchConfig    `toml:"watch" yaml:"watch"`
	Logging  LoggingConfig  `toml:"logging" yaml:"logging"`
}

// ZoomConfig bounds and steps the preview scale.
type ZoomConfig struct {
	Min       float64 `toml:"min" yaml:"min" env:"FOLIO_ZOOM_MIN"`
	Max       float64 `toml:"max" yaml:"max" env:"FOLIO_ZOOM_MAX"`
	InFactor  float64 `toml:"in_factor" yaml:"in_factor" env:"FOLIO_ZOOM_IN_FACTOR"`
	OutFactor float64 `toml:"out_factor" yaml:"out_factor" env:"FOLIO_ZOOM_OUT_FACTOR"`
}

// RenderConfig controls painting.
type RenderConfig struct {
	// Background is a #RGB or #RRGGBB color.
	Background string `toml:"background" yaml:"background" env:"FOLIO_RENDER_BACKGROUND"`
}

// TerminalConfig maps document units onto terminal cells.
type TerminalConfig struct {
	UnitsPerColumn float64 `toml:"units_per_column" yaml:"units_per_column" env:"FOLIO_TERMINAL_UNITS_PER_COLUMN"`
	UnitsPerRow    float64 `toml:"units_per_row" yaml:"units_per_row" env:"FOLIO_TERMINAL_UNITS_PER_ROW"`
}

// WatchConfig controls layout file reloading.
type WatchConfig struct {
	// DebounceMS is the quiet period in milliseconds before a reload.
	DebounceMS int `toml:"debounce_ms" yaml:"debounce_ms" env:"FOLIO_WATCH_DEBOUNCE_MS"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level" env:"FOLIO_LOG_LEVEL"`
}

// Default returns the built-in configuration.
func Default() Config {
	z := zoom.DefaultOptions()
	t := surface.DefaultTerminalOptions()
	return Config{
		Zoom: ZoomConfig{
			Min:       z.Min,
			Max:       z.Max,
			InFactor:  z.InFactor,
			OutFactor: z.OutFactor,
		},
		Render: RenderConfig{
			Background: layout.ColorWhite.String(),
		},
		Terminal: TerminalConfig{
			UnitsPerColumn: t.UnitsPerColumn,
			UnitsPerRow:    t.UnitsPerRow,
		},
		Watch: WatchConfig{
			DebounceMS: int(watch.DefaultDebounce / time.Millisecond),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds a configuration from defaults, the file at path (if path is
// non-empty) and the environment, then validates it. A named file that
// does not exist is an error.
func Load(path string) (Config, error) {
	return LoadWithFS(loader.DefaultFS(), path)
}

// LoadWithFS is Load with a custom file system.
func LoadWithFS(fsys loader.FileSystem, path string) (Config, error) {
	cfg := Default()

	if path != "" {
		l, err := loader.ForPath(fsys, path)
		if err != nil {
			return Config{}, err
		}
		found, err := l.LoadFrom(path, &cfg)
		if err != nil {
			return Config{}, err
		}
		if !found {
			return Config{}, fmt.Errorf("config file %s: %w", path, ErrFileNotFound)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overlays FOLIO_* environment variables onto c.
// Unset variables leave the current values in place.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	return nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.ZoomOptions().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	if _, err := layout.ParseColor(c.Render.Background); err != nil {
		return fmt.Errorf("%w: render.background: %w", ErrValidationFailed, err)
	}
	if c.Terminal.UnitsPerColumn <= 0 || c.Terminal.UnitsPerRow <= 0 {
		return fmt.Errorf("%w: terminal units per cell must be positive", ErrValidationFailed)
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("%w: watch.debounce_ms must not be negative", ErrValidationFailed)
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("%w: unknown log level %q", ErrValidationFailed, c.Logging.Level)
	}
	return nil
}

// ZoomOptions returns the zoom controller settings.
func (c Config) ZoomOptions() zoom.Options {
	return zoom.Options{
		Min:       c.Zoom.Min,
		Max:       c.Zoom.Max,
		InFactor:  c.Zoom.InFactor,
		OutFactor: c.Zoom.OutFactor,
	}
}

// RenderOptions returns the renderer settings. The background is assumed
// valid; an unparsable value falls back to white.
func (c Config) RenderOptions() renderer.Options {
	opts := renderer.DefaultOptions()
	if bg, err := layout.ParseColor(c.Render.Background); err == nil {
		opts.Background = bg
	}
	return opts
}

// TerminalOptions returns the terminal surface settings.
func (c Config) TerminalOptions() surface.TerminalOptions {
	return surface.TerminalOptions{
		UnitsPerColumn: c.Terminal.UnitsPerColumn,
		UnitsPerRow:    c.Terminal.UnitsPerRow,
	}
}

// Debounce returns the watcher quiet period.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}

// LogLevel returns the parsed logging level.
func (c Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}
