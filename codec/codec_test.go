// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audconv/convert"
	"github.com/ik5/audconv/format"
)

type stubProber struct {
	info  convert.StreamInfo
	err   error
	calls int
}

func (p *stubProber) Probe(context.Context, string) (convert.StreamInfo, error) {
	p.calls++
	return p.info, p.err
}

func TestChain_FirstSuccessWins(t *testing.T) {
	t.Parallel()

	skip := &stubProber{err: fmt.Errorf("no probe for m4a: %w", ErrSkip)}
	hit := &stubProber{info: convert.StreamInfo{SampleRate: 44100, Channels: 2}}
	never := &stubProber{}

	info, err := Chain{skip, hit, never}.Probe(context.Background(), "a.m4a")
	require.NoError(t, err)
	assert.Equal(t, 44100.0, info.SampleRate)
	assert.Equal(t, 1, skip.calls)
	assert.Equal(t, 1, hit.calls)
	assert.Zero(t, never.calls)
}

func TestChain_HardErrorStops(t *testing.T) {
	t.Parallel()

	missing := &stubProber{err: fmt.Errorf("open: %w", convert.ErrNotFound)}
	next := &stubProber{}

	_, err := Chain{missing, next}.Probe(context.Background(), "gone.wav")
	require.ErrorIs(t, err, convert.ErrNotFound)
	assert.Zero(t, next.calls)
}

func TestChain_AllSkipped(t *testing.T) {
	t.Parallel()

	_, err := Chain{&stubProber{err: ErrSkip}}.Probe(context.Background(), "a.sd2")
	require.ErrorIs(t, err, ErrNoBackend)
	assert.ErrorIs(t, err, ErrSkip)

	_, err = Chain{}.Probe(context.Background(), "a.sd2")
	assert.ErrorIs(t, err, ErrNoBackend)
}

type stubBackend struct {
	name     string
	supports func(convert.Strategy, format.Kind, format.Kind) bool
	called   []convert.Strategy
}

func (b *stubBackend) Name() string { return b.name }

func (b *stubBackend) Supports(s convert.Strategy, src, dst format.Kind) bool {
	return b.supports(s, src, dst)
}

func (b *stubBackend) TranscodeToPCM(context.Context, string, string, convert.Resolved) error {
	b.called = append(b.called, convert.ToPCM)
	return nil
}

func (b *stubBackend) TranscodePCMToCompressed(context.Context, string, string, convert.Resolved) error {
	b.called = append(b.called, convert.PCMToCompressed)
	return nil
}

func (b *stubBackend) TranscodeCompressedToCompressed(context.Context, string, string, convert.Resolved) error {
	b.called = append(b.called, convert.CompressedToCompressed)
	return errors.New("c2c failed")
}

func TestRouter_Dispatch(t *testing.T) {
	t.Parallel()

	native := &stubBackend{name: "native", supports: func(s convert.Strategy, src, _ format.Kind) bool {
		return s == convert.ToPCM && src == format.WAV
	}}
	external := &stubBackend{name: "ffmpeg", supports: func(convert.Strategy, format.Kind, format.Kind) bool {
		return true
	}}

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	r := NewRouter(log, native, external)
	ctx := context.Background()

	require.NoError(t, r.TranscodeToPCM(ctx, "in.wav", "out.aiff", convert.Resolved{Format: format.AIFF}))
	require.NoError(t, r.TranscodeToPCM(ctx, "in.m4a", "out.wav", convert.Resolved{Format: format.WAV}))
	require.NoError(t, r.TranscodePCMToCompressed(ctx, "in.wav", "out.m4a", convert.Resolved{Format: format.M4A}))
	require.EqualError(t, r.TranscodeCompressedToCompressed(ctx, "in.mp3", "out.m4a", convert.Resolved{Format: format.M4A}), "c2c failed")

	assert.Equal(t, []convert.Strategy{convert.ToPCM}, native.called)
	assert.Equal(t, []convert.Strategy{convert.ToPCM, convert.PCMToCompressed, convert.CompressedToCompressed}, external.called)

	require.NotEmpty(t, hook.AllEntries())
	assert.Equal(t, "native", hook.AllEntries()[0].Data["backend"])
	assert.Len(t, r.Backends(), 2)
}

func TestRouter_NoBackend(t *testing.T) {
	t.Parallel()

	none := &stubBackend{name: "none", supports: func(convert.Strategy, format.Kind, format.Kind) bool { return false }}
	r := NewRouter(nil, none)

	err := r.TranscodePCMToCompressed(context.Background(), "in.wav", "out.sd2", convert.Resolved{Format: format.SD2})
	require.ErrorIs(t, err, ErrNoBackend)
	assert.Empty(t, none.called)
}
