// SPDX-License-Identifier: EPL-2.0

package native

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audconv/audio"
	"github.com/ik5/audconv/codec"
	"github.com/ik5/audconv/convert"
	"github.com/ik5/audconv/format"
	"github.com/ik5/audconv/formats/aiff"
	"github.com/ik5/audconv/formats/caf"
	"github.com/ik5/audconv/formats/mp3"
	"github.com/ik5/audconv/formats/vorbis"
	"github.com/ik5/audconv/formats/wav"
)

const defaultBufferSize = 8192

// Encoder accepts interleaved float32 samples and finalizes the container
// on Close.
type Encoder interface {
	audio.SampleWriter
	Close() error
}

// EncoderFunc creates an Encoder writing to w.
type EncoderFunc func(w io.WriteSeeker, sampleRate, bitDepth, channels int) (Encoder, error)

// Transcoder converts into PCM containers in process.
type Transcoder struct {
	decoders   *audio.Registry
	encoders   map[format.Kind]EncoderFunc
	fs         convert.FileSystem
	log        logrus.FieldLogger
	bufferSize int
}

// Option customizes a Transcoder.
type Option func(*Transcoder)

func WithLogger(l logrus.FieldLogger) Option {
	return func(t *Transcoder) { t.log = l }
}

func WithFileSystem(fs convert.FileSystem) Option {
	return func(t *Transcoder) { t.fs = fs }
}

// WithBufferSize sets the number of samples moved per chunk.
func WithBufferSize(n int) Option {
	return func(t *Transcoder) {
		if n > 0 {
			t.bufferSize = n
		}
	}
}

// WithDecoder registers or replaces the decoder for kind.
func WithDecoder(kind format.Kind, d audio.Decoder) Option {
	return func(t *Transcoder) { t.decoders.Register(kind, d) }
}

// WithEncoder registers or replaces the encoder for kind.
func WithEncoder(kind format.Kind, fn EncoderFunc) Option {
	return func(t *Transcoder) { t.encoders[kind] = fn }
}

func NewTranscoder(opts ...Option) *Transcoder {
	t := &Transcoder{
		decoders:   audio.NewRegistry(),
		encoders:   make(map[format.Kind]EncoderFunc),
		fs:         convert.OSFileSystem{},
		log:        logrus.StandardLogger(),
		bufferSize: defaultBufferSize,
	}

	t.decoders.Register(format.WAV, wav.Decoder{})
	t.decoders.Register(format.CAF, caf.Decoder{})
	t.decoders.Register(format.MP3, mp3.Decoder{})
	t.decoders.Register(format.OGG, vorbis.Decoder{})

	t.encoders[format.WAV] = func(w io.WriteSeeker, rate, bits, ch int) (Encoder, error) {
		return wav.NewEncoder(w, rate, bits, ch)
	}
	t.encoders[format.CAF] = func(w io.WriteSeeker, rate, bits, ch int) (Encoder, error) {
		return caf.NewEncoder(w, rate, bits, ch)
	}
	for _, k := range []format.Kind{format.AIF, format.AIFF, format.AIFC} {
		t.decoders.Register(k, aiff.Decoder{})
		t.encoders[k] = func(w io.WriteSeeker, rate, bits, ch int) (Encoder, error) {
			return aiff.NewEncoder(w, rate, bits, ch)
		}
	}

	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Transcoder) Name() string { return "native" }

// Supports reports whether the conversion can run in process. Only ToPCM
// between registered kinds qualifies.
func (t *Transcoder) Supports(s convert.Strategy, src, dst format.Kind) bool {
	if s != convert.ToPCM {
		return false
	}
	if _, ok := t.decoders.Get(src); !ok {
		return false
	}
	_, ok := t.encoders[dst]
	return ok
}

// TranscodeToPCM decodes src, conforms it to opts and writes dst. The data
// goes to a staging file first, so dst only appears once it is complete.
func (t *Transcoder) TranscodeToPCM(ctx context.Context, src, dst string, opts convert.Resolved) (err error) {
	srcKind := format.FromPath(src)
	log := t.log.WithFields(logrus.Fields{
		"function":    "Transcoder.TranscodeToPCM",
		"source":      src,
		"destination": dst,
		"format":      opts.Format,
	})

	dec, ok := t.decoders.Get(srcKind)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoDecoder, srcKind)
	}
	newEncoder, ok := t.encoders[opts.Format]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoEncoder, opts.Format)
	}

	if !opts.Interleaved {
		log.Debug("Non-interleaved layout requested, container stores interleaved frames")
	}

	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %w", convert.ErrNotFound, err)
		}
		return fmt.Errorf("native: %w", err)
	}
	defer in.Close()

	decoded, err := dec.Decode(in)
	if err != nil {
		return fmt.Errorf("native: decoding %s: %w", src, err)
	}
	defer decoded.Close()

	rate := int(math.Round(opts.SampleRate))
	source, err := audio.Conform(decoded, rate, opts.Channels)
	if err != nil {
		return fmt.Errorf("native: %w", err)
	}

	staging := codec.StagingPath(dst)
	out, err := os.OpenFile(staging, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("native: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		_ = out.Close()
		if rmErr := codec.Discard(t.fs, staging); rmErr != nil {
			log.WithField("error", rmErr.Error()).Warn("Failed to remove staging file")
		}
	}()

	enc, err := newEncoder(out, rate, opts.BitDepth, opts.Channels)
	if err != nil {
		return fmt.Errorf("native: %w", err)
	}

	frames, err := audio.Copy(ctx, enc, source, t.bufferSize)
	if err != nil {
		return fmt.Errorf("native: transcoding %s: %w", src, err)
	}
	if err = enc.Close(); err != nil {
		return fmt.Errorf("native: finalizing %s: %w", dst, err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("native: %w", err)
	}
	if err = codec.Commit(t.fs, staging, dst); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"frames":      frames,
		"sample_rate": rate,
		"channels":    opts.Channels,
		"bit_depth":   opts.BitDepth,
	}).Debug("Wrote PCM output")

	return nil
}

func (t *Transcoder) TranscodePCMToCompressed(context.Context, string, string, convert.Resolved) error {
	return ErrEncoderUnavailable
}

func (t *Transcoder) TranscodeCompressedToCompressed(context.Context, string, string, convert.Resolved) error {
	return ErrEncoderUnavailable
}
