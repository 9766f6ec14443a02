// SPDX-License-Identifier: EPL-2.0

// Package config loads audconv settings from YAML and the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ik5/audconv/convert"
)

// Environment variables that override the file.
const (
	EnvFFmpeg   = "AUDCONV_FFMPEG"
	EnvFFprobe  = "AUDCONV_FFPROBE"
	EnvLogLevel = "AUDCONV_LOG_LEVEL"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete audconv configuration.
type Config struct {
	FFmpeg   FFmpegConfig   `yaml:"ffmpeg"`
	LogLevel string         `yaml:"log_level"`
	Timeout  time.Duration  `yaml:"timeout"` // 0 means no limit
	Defaults DefaultsConfig `yaml:"defaults"`
}

// FFmpegConfig locates the external executables.
type FFmpegConfig struct {
	Path      string `yaml:"path"`
	ProbePath string `yaml:"probe_path"`
	Disabled  bool   `yaml:"disabled"`
}

// DefaultsConfig seeds the conversion options.
type DefaultsConfig struct {
	BitRate             int    `yaml:"bit_rate"`
	BitDepthRule        string `yaml:"bit_depth_rule"`
	EraseExistingOutput bool   `yaml:"erase_existing_output"`
}

func Default() Config {
	return Config{
		FFmpeg: FFmpegConfig{
			Path:      "ffmpeg",
			ProbePath: "ffprobe",
		},
		LogLevel: "info",
		Defaults: DefaultsConfig{
			BitRate:             convert.DefaultBitRate,
			BitDepthRule:        "lte",
			EraseExistingOutput: true,
		},
	}
}

// Load reads path over Default, applies the environment and validates the
// result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML data over Default without consulting the environment.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := decode(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// ApplyEnv overrides settings from the AUDCONV_* variables that are set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvFFmpeg); v != "" {
		c.FFmpeg.Path = v
	}
	if v := os.Getenv(EnvFFprobe); v != "" {
		c.FFmpeg.ProbePath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %w", ErrInvalidConfig, err)
	}
	if _, err := convert.ParseBitDepthRule(c.Defaults.BitDepthRule); err != nil {
		return fmt.Errorf("%w: defaults.bit_depth_rule: %w", ErrInvalidConfig, err)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfig)
	}
	if c.Defaults.BitRate < 0 {
		return fmt.Errorf("%w: defaults.bit_rate must not be negative", ErrInvalidConfig)
	}
	if !c.FFmpeg.Disabled && (strings.TrimSpace(c.FFmpeg.Path) == "" || strings.TrimSpace(c.FFmpeg.ProbePath) == "") {
		return fmt.Errorf("%w: ffmpeg.path and ffmpeg.probe_path are required unless ffmpeg is disabled", ErrInvalidConfig)
	}
	return nil
}

// Level returns the parsed log level, info when it does not parse.
func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// NewLogger returns a logger writing text to stderr at the configured
// level.
func (c Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(c.Level())
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}

// Options returns conversion options seeded from Defaults.
func (c Config) Options() *convert.Options {
	o := convert.NewOptions()
	if rule, err := convert.ParseBitDepthRule(c.Defaults.BitDepthRule); err == nil {
		o.BitDepthRule = rule
	}
	if c.Defaults.BitRate > 0 {
		o.SetBitRate(c.Defaults.BitRate)
	}
	o.EraseExistingOutput = c.Defaults.EraseExistingOutput
	return o
}
