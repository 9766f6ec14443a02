// SPDX-License-Identifier: EPL-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audconv/convert"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "audconv.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "ffmpeg", cfg.FFmpeg.Path)
	assert.Equal(t, "ffprobe", cfg.FFmpeg.ProbePath)
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
	assert.Zero(t, cfg.Timeout)

	opts := cfg.Options()
	assert.Equal(t, convert.LessThanOrEqual, opts.BitDepthRule)
	assert.Equal(t, convert.DefaultBitRate, opts.BitRate())
	assert.True(t, opts.EraseExistingOutput)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
ffmpeg:
  path: /usr/local/bin/ffmpeg
log_level: debug
timeout: 90s
defaults:
  bit_rate: 500000
  bit_depth_rule: any
  erase_existing_output: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/usr/local/bin/ffmpeg", cfg.FFmpeg.Path)
	assert.Equal(t, "ffprobe", cfg.FFmpeg.ProbePath)
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
	assert.Equal(t, 90*time.Second, cfg.Timeout)

	opts := cfg.Options()
	assert.Equal(t, convert.Any, opts.BitDepthRule)
	assert.Equal(t, convert.MaxBitRate, opts.BitRate())
	assert.False(t, opts.EraseExistingOutput)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv(EnvFFmpeg, "/opt/ffmpeg")
	t.Setenv(EnvFFprobe, "/opt/ffprobe")
	t.Setenv(EnvLogLevel, "warn")

	path := writeConfig(t, "log_level: error\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/ffmpeg", cfg.FFmpeg.Path)
	assert.Equal(t, "/opt/ffprobe", cfg.FFmpeg.ProbePath)
	assert.Equal(t, logrus.WarnLevel, cfg.Level())

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "/opt/ffmpeg", cfg.FFmpeg.Path)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	tests := []struct {
		name string
		body string
	}{
		{"unknown field", "ffmpeg:\n  binary: ffmpeg\n"},
		{"bad yaml", "log_level: [\n"},
		{"bad level", "log_level: loud\n"},
		{"bad rule", "defaults:\n  bit_depth_rule: more\n"},
		{"negative timeout", "timeout: -1s\n"},
		{"negative bit rate", "defaults:\n  bit_rate: -5\n"},
		{"empty ffmpeg", "ffmpeg:\n  path: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Parse([]byte("ffmpeg:\n  path: \"\"\n  disabled: true\n"))
	require.NoError(t, err)
	assert.True(t, cfg.FFmpeg.Disabled)
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "trace"

	assert.Equal(t, logrus.TraceLevel, cfg.NewLogger().GetLevel())

	cfg.LogLevel = "nonsense"
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
}
