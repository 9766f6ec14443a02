// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides synthetic audio sources and fixture files for
// tests.
package audiotest

import (
	"io"
	"math"
)

// Waveform returns the sample for frame on channel.
type Waveform func(frame, channel int) float32

// Source generates a fixed number of frames from a Waveform. It satisfies
// audio.Source without importing the audio package.
type Source struct {
	sampleRate int
	channels   int
	frames     int
	pos        int
	wave       Waveform
}

func NewSource(sampleRate, channels, frames int, wave Waveform) *Source {
	return &Source{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		wave:       wave,
	}
}

func Silence(sampleRate, channels, frames int) *Source {
	return Constant(sampleRate, channels, frames, 0)
}

func Constant(sampleRate, channels, frames int, value float32) *Source {
	return NewSource(sampleRate, channels, frames, func(int, int) float32 { return value })
}

// Sine produces a full scale tone of frequency Hz on every channel.
func Sine(sampleRate, channels, frames int, frequency float64) *Source {
	step := 2 * math.Pi * frequency / float64(sampleRate)
	return NewSource(sampleRate, channels, frames, func(frame, _ int) float32 {
		return float32(math.Sin(step * float64(frame)))
	})
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BufSize() int    { return 4096 }
func (s *Source) Close() error    { return nil }

// Reset rewinds to the first frame.
func (s *Source) Reset() { s.pos = 0 }

// ReadSamples fills whole frames of dst and reports io.EOF together with
// the last of them.
func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.pos >= s.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/s.channels, s.frames-s.pos)
	for f := range n {
		for c := range s.channels {
			dst[f*s.channels+c] = s.wave(s.pos+f, c)
		}
	}
	s.pos += n

	if s.pos >= s.frames {
		return n * s.channels, io.EOF
	}
	return n * s.channels, nil
}
