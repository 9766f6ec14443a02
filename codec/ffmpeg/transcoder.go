// SPDX-License-Identifier: EPL-2.0

package ffmpeg

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audconv/codec"
	"github.com/ik5/audconv/convert"
	"github.com/ik5/audconv/format"
)

// Option customizes a Prober or Transcoder.
type Option func(*options)

type options struct {
	run Runner
	fs  convert.FileSystem
	log logrus.FieldLogger
}

func newOptions(opts []Option) options {
	o := options{
		run: Execute,
		fs:  convert.OSFileSystem{},
		log: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithRunner replaces Execute, mainly for tests.
func WithRunner(r Runner) Option {
	return func(o *options) { o.run = r }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.log = l }
}

func WithFileSystem(fs convert.FileSystem) Option {
	return func(o *options) { o.fs = fs }
}

// Transcoder converts files by running ffmpeg.
type Transcoder struct {
	bin string
	run Runner
	fs  convert.FileSystem
	log logrus.FieldLogger
}

// NewTranscoder returns a Transcoder running bin, "ffmpeg" when empty.
func NewTranscoder(bin string, opts ...Option) *Transcoder {
	o := newOptions(opts)
	if bin == "" {
		bin = "ffmpeg"
	}
	return &Transcoder{bin: bin, run: o.run, fs: o.fs, log: o.log}
}

func (t *Transcoder) Name() string { return "ffmpeg" }

// Supports reports whether ffmpeg has an encoder and muxer for dst. Any
// source is accepted since ffmpeg sniffs its input.
func (t *Transcoder) Supports(s convert.Strategy, _, dst format.Kind) bool {
	if s == convert.Unsupported {
		return false
	}
	if _, ok := muxers[dst]; !ok {
		return false
	}
	_, err := Codec(dst, convert.DefaultBitDepth)
	return err == nil
}

func (t *Transcoder) TranscodeToPCM(ctx context.Context, src, dst string, opts convert.Resolved) error {
	return t.transcode(ctx, convert.ToPCM, src, dst, opts)
}

func (t *Transcoder) TranscodePCMToCompressed(ctx context.Context, src, dst string, opts convert.Resolved) error {
	return t.transcode(ctx, convert.PCMToCompressed, src, dst, opts)
}

func (t *Transcoder) TranscodeCompressedToCompressed(ctx context.Context, src, dst string, opts convert.Resolved) error {
	return t.transcode(ctx, convert.CompressedToCompressed, src, dst, opts)
}

func (t *Transcoder) transcode(ctx context.Context, s convert.Strategy, src, dst string, opts convert.Resolved) error {
	staging := codec.StagingPath(dst)

	args, err := BuildArgs(t.bin, s, src, staging, opts)
	if err != nil {
		return err
	}

	log := t.log.WithFields(logrus.Fields{
		"function":    "Transcoder.transcode",
		"strategy":    s.String(),
		"source":      src,
		"destination": dst,
	})
	log.WithField("command", strings.Join(args, " ")).Debug("Running ffmpeg")

	res := t.run(ctx, args)
	if res.Err != nil {
		if rmErr := codec.Discard(t.fs, staging); rmErr != nil {
			log.WithField("error", rmErr.Error()).Warn("Failed to remove staging file")
		}
		return &ExecError{Args: args, Stderr: res.Stderr, Err: res.Err}
	}

	if err := codec.Commit(t.fs, staging, dst); err != nil {
		if rmErr := codec.Discard(t.fs, staging); rmErr != nil {
			log.WithField("error", rmErr.Error()).Warn("Failed to remove staging file")
		}
		return err
	}
	return nil
}
