// Package config loads autotone settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"image-autotone/internal/autotone"
)

// Config holds the settings for an autotone run.
type Config struct {
	Shadows       string  `yaml:"shadows"`
	Highlights    string  `yaml:"highlights"`
	ShadowClip    float64 `yaml:"shadow_clip"`
	HighlightClip float64 `yaml:"highlight_clip"`
	Workers       int     `yaml:"workers"`
	Metrics       bool    `yaml:"metrics"`
	Log           Log     `yaml:"log"`
}

// Log selects logger verbosity and output format.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// Default returns the node defaults with info-level JSON logging.
func Default() Config {
	return Config{
		Shadows:       autotone.DefaultShadows,
		Highlights:    autotone.DefaultHighlights,
		ShadowClip:    autotone.DefaultShadowClip,
		HighlightClip: autotone.DefaultHighlightClip,
		Log: Log{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode unmarshals YAML into cfg, rejecting unknown keys.
func Decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return cfg.Validate()
}

// Validate checks colors, clip fractions, workers and logging settings.
func (c Config) Validate() error {
	if _, err := c.Options(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Options converts the config to transform options.
func (c Config) Options() (autotone.Options, error) {
	shadows, err := autotone.ParseColor(c.Shadows)
	if err != nil {
		return autotone.Options{}, fmt.Errorf("shadows: %w", err)
	}
	highlights, err := autotone.ParseColor(c.Highlights)
	if err != nil {
		return autotone.Options{}, fmt.Errorf("highlights: %w", err)
	}

	opts := autotone.Options{
		Shadows:       shadows,
		Highlights:    highlights,
		ShadowClip:    c.ShadowClip,
		HighlightClip: c.HighlightClip,
		Workers:       c.Workers,
	}
	if err := opts.Validate(); err != nil {
		return autotone.Options{}, err
	}
	return opts, nil
}

// Params returns the node parameter map for the configured values.
func (c Config) Params() map[string]interface{} {
	return map[string]interface{}{
		"shadows":        c.Shadows,
		"highlights":     c.Highlights,
		"shadow_clip":    c.ShadowClip,
		"highlight_clip": c.HighlightClip,
	}
}
