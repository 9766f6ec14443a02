// SPDX-License-Identifier: EPL-2.0

// Package pcm adapts go-audio integer buffers to audio.Source and
// audio.SampleWriter. The wav and aiff format packages share it.
package pcm

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audconv/utils"
)

var ErrUnsupportedBitDepth = errors.New("unsupported PCM bit depth")

// Reader is the read side of a go-audio decoder.
type Reader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Writer is the write side of a go-audio encoder.
type Writer interface {
	Write(buf *goaudio.IntBuffer) error
	Close() error
}

// ValidBitDepth reports whether bits is a PCM word size the codecs handle.
func ValidBitDepth(bits int) bool {
	switch bits {
	case 8, 16, 24, 32:
		return true
	}
	return false
}

// Source reads integer samples from a go-audio decoder and normalizes
// them to float32.
type Source struct {
	dec        Reader
	sampleRate int
	channels   int
	bitDepth   int
	offset     int
	intBuf     *goaudio.IntBuffer
}

// NewSource wraps dec. offset is subtracted from every raw sample before
// scaling; unsigned 8-bit WAV data uses 128.
func NewSource(dec Reader, bitDepth, offset int) (*Source, error) {
	if !ValidBitDepth(bitDepth) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	f := dec.Format()
	if f == nil || f.NumChannels < 1 || f.SampleRate < 1 {
		return nil, errors.New("pcm: missing stream format")
	}

	return &Source{
		dec:        dec,
		sampleRate: f.SampleRate,
		channels:   f.NumChannels,
		bitDepth:   bitDepth,
		offset:     offset,
	}, nil
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BitDepth() int   { return s.bitDepth }
func (s *Source) Close() error    { return nil }
func (s *Source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, len(dst)),
			Format: s.dec.Format(),
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("pcm: decoding: %w", err)
		}
		return 0, io.EOF
	}

	for i := range n {
		dst[i] = utils.Dequantize(s.intBuf.Data[i]-s.offset, s.bitDepth)
	}

	if errors.Is(err, io.EOF) {
		return n, io.EOF
	}
	if err != nil {
		return n, fmt.Errorf("pcm: decoding: %w", err)
	}

	return n, nil
}

// Sink quantizes float32 samples and feeds them to a go-audio encoder.
type Sink struct {
	enc      Writer
	bitDepth int
	offset   int
	buf      *goaudio.IntBuffer
	frames   int64
}

// NewSink wraps enc. offset is added to every quantized sample.
func NewSink(enc Writer, sampleRate, channels, bitDepth, offset int) (*Sink, error) {
	if !ValidBitDepth(bitDepth) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	return &Sink{
		enc:      enc,
		bitDepth: bitDepth,
		offset:   offset,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// Frames is the number of frames written so far.
func (s *Sink) Frames() int64 { return s.frames }

func (s *Sink) WriteSamples(src []float32) error {
	if len(src)%s.buf.Format.NumChannels != 0 {
		return errors.New("pcm: partial frame")
	}
	if len(src) == 0 {
		return nil
	}

	if cap(s.buf.Data) < len(src) {
		s.buf.Data = make([]int, len(src))
	}
	s.buf.Data = s.buf.Data[:len(src)]

	for i, x := range src {
		s.buf.Data[i] = utils.Quantize(x, s.bitDepth) + s.offset
	}

	if err := s.enc.Write(s.buf); err != nil {
		return fmt.Errorf("pcm: encoding: %w", err)
	}
	s.frames += int64(len(src) / s.buf.Format.NumChannels)

	return nil
}

// Close finalizes the encoder headers. The underlying writer stays open.
func (s *Sink) Close() error {
	if err := s.enc.Close(); err != nil {
		return fmt.Errorf("pcm: finalizing headers: %w", err)
	}
	return nil
}

// Seekable returns r as an io.ReadSeeker, buffering it in memory when it
// cannot seek. go-audio decoders need to seek between chunks.
func Seekable(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("pcm: buffering input: %w", err)
	}
	return bytes.NewReader(data), nil
}
