// SPDX-License-Identifier: EPL-2.0

package audconv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audconv/codec"
	"github.com/ik5/audconv/config"
	"github.com/ik5/audconv/convert"
	"github.com/ik5/audconv/format"
	"github.com/ik5/audconv/internal/audiotest"
)

func nativeOnly() config.Config {
	cfg := config.Default()
	cfg.FFmpeg.Disabled = true
	cfg.LogLevel = "error"
	return cfg
}

func TestServices_NativeOnly(t *testing.T) {
	t.Parallel()

	cfg := nativeOnly()
	prober, router := Services(cfg, cfg.NewLogger())

	chain, ok := prober.(codec.Chain)
	require.True(t, ok)
	assert.Len(t, chain, 1)

	backends := router.Backends()
	require.Len(t, backends, 1)
	assert.Equal(t, "native", backends[0].Name())
}

func TestServices_MissingFFmpeg(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.LogLevel = "error"
	cfg.FFmpeg.Path = "audconv-no-such-ffmpeg"

	_, router := Services(cfg, cfg.NewLogger())
	assert.Len(t, router.Backends(), 1)
}

func TestConvertWith_Native(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := audiotest.WriteSineWAV(t, dir, "in.wav", 44100, 2, 16, 4410)
	dst := filepath.Join(dir, "out.aiff")

	opts := convert.NewOptions()
	opts.SampleRate = 8000
	opts.Channels = 1

	require.NoError(t, ConvertWith(context.Background(), nativeOnly(), src, dst, opts))

	info, err := Probe(context.Background(), nativeOnly(), dst)
	require.NoError(t, err)
	assert.Equal(t, format.AIFF, info.Format)
	assert.Equal(t, 8000.0, info.SampleRate)
	assert.Equal(t, 1, info.Channels)
	assert.Equal(t, 16, info.BitDepth)
}

func TestConvertWith_DefaultOptions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := audiotest.WriteSineWAV(t, dir, "in.wav", 22050, 1, 24, 2205)
	dst := filepath.Join(dir, "out.caf")

	require.NoError(t, ConvertWith(context.Background(), nativeOnly(), src, dst, nil))

	info, err := Probe(context.Background(), nativeOnly(), dst)
	require.NoError(t, err)
	assert.Equal(t, 22050.0, info.SampleRate)
	assert.Equal(t, 1, info.Channels)
	assert.Equal(t, 24, info.BitDepth)
}

func TestConvertWith_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()
	cfg := nativeOnly()

	err := ConvertWith(ctx, cfg, filepath.Join(dir, "missing.wav"), filepath.Join(dir, "out.wav"), nil)
	require.ErrorIs(t, err, convert.ErrNotFound)

	src := audiotest.WriteSineWAV(t, dir, "in.wav", 8000, 1, 16, 800)

	// no native encoder for m4a
	dst := filepath.Join(dir, "out.m4a")
	err = ConvertWith(ctx, cfg, src, dst, nil)
	require.ErrorIs(t, err, convert.ErrCodec)
	assert.ErrorIs(t, err, codec.ErrNoBackend)
	assert.NoFileExists(t, dst)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = ConvertWith(cancelled, cfg, src, filepath.Join(dir, "late.wav"), nil)
	require.ErrorIs(t, err, convert.ErrCancelled)
	assert.NoFileExists(t, filepath.Join(dir, "late.wav"))
}
