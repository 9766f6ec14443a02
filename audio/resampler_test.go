// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/ik5/audconv/internal/audiotest"
)

func drain(t *testing.T, src Source, bufSize int) []float32 {
	t.Helper()

	buf := make([]float32, bufSize)
	var samples []float32
	for {
		n, err := src.ReadSamples(buf)
		samples = append(samples, buf[:n]...)
		if err == io.EOF {
			return samples
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
}

// brokenSource fails every read and close with err.
type brokenSource struct {
	*audiotest.Source
	err error
}

func (s brokenSource) ReadSamples([]float32) (int, error) { return 0, s.err }
func (s brokenSource) Close() error                       { return s.err }

func TestResampler_SameRateIsExact(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSource(8000, 1, 100, func(sample, _ int) float32 {
		return float32(sample) / 100
	})
	samples := drain(t, NewResampler(src, 8000), 64)

	if len(samples) != 100 {
		t.Fatalf("got %d samples, want 100", len(samples))
	}
	for i, s := range samples {
		if want := float32(i) / 100; s != want {
			t.Fatalf("samples[%d] = %v, want %v", i, s, want)
		}
	}
}

// The output holds ceil(frames * to / from) frames.
func TestResampler_FrameCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to int
		channels int
		frames   int
		want     int
	}{
		{"CD to telephone", 44100, 8000, 1, 44100, 8000},
		{"telephone to 48k stereo", 8000, 48000, 2, 8000, 48000},
		{"48k to wideband, three channels", 48000, 16000, 3, 4800, 1600},
		{"octave up", 22050, 44100, 1, 1000, 2000},
		{"partial last frame", 8000, 6000, 1, 3, 3},
		{"two frames doubled", 8000, 16000, 1, 2, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := NewResampler(audiotest.Sine(tt.from, tt.channels, tt.frames, 440.0), tt.to)
			if r.SampleRate() != tt.to || r.Channels() != tt.channels {
				t.Fatalf("Resampler = %d Hz/%d ch, want %d Hz/%d ch", r.SampleRate(), r.Channels(), tt.to, tt.channels)
			}

			samples := drain(t, r, 1024*tt.channels)
			if got := len(samples) / tt.channels; got != tt.want {
				t.Errorf("resampled %d frames, want %d", got, tt.want)
			}
			for i, s := range samples {
				if s < -1.5 || s > 1.5 {
					t.Fatalf("samples[%d] = %v, outside [-1.5, 1.5]", i, s)
				}
			}
		})
	}
}

func TestResampler_HoldsChannelLevels(t *testing.T) {
	t.Parallel()

	levels := []float32{0.1, -0.4, 0.9}

	for _, rates := range [][2]int{{16000, 44100}, {44100, 11025}} {
		src := audiotest.NewSource(rates[0], len(levels), 2000, func(_ int, channel int) float32 {
			return levels[channel]
		})

		samples := drain(t, NewResampler(src, rates[1]), 30)
		if len(samples) == 0 {
			t.Fatalf("%d -> %d: no samples", rates[0], rates[1])
		}
		for i, s := range samples {
			if want := levels[i%len(levels)]; math.Abs(float64(s-want)) > 1e-5 {
				t.Fatalf("%d -> %d: samples[%d] = %v, want %v", rates[0], rates[1], i, s, want)
			}
		}
	}
}

func TestResampler_BufferSizeDoesNotMatter(t *testing.T) {
	t.Parallel()

	var want []float32
	for _, size := range []int{4096, 2, 6, 1022} {
		got := drain(t, NewResampler(audiotest.Sine(44100, 2, 5000, 997.0), 8000), size)
		if want == nil {
			want = got
			continue
		}
		if !slices.Equal(got, want) {
			t.Errorf("buffer of %d samples produced a different stream", size)
		}
	}
}

func TestResampler_EndOfStream(t *testing.T) {
	t.Parallel()

	for _, frames := range []int{0, 1, 100} {
		r := NewResampler(audiotest.Silence(44100, 1, frames), 8000)
		drain(t, r, 16)

		n, err := r.ReadSamples(make([]float32, 16))
		if err != io.EOF || n != 0 {
			t.Errorf("%d frames: ReadSamples() after end = (%d, %v), want (0, io.EOF)", frames, n, err)
		}
	}
}

func TestResampler_Errors(t *testing.T) {
	t.Parallel()

	r := NewResampler(audiotest.Silence(44100, 2, 1000), 8000)
	if _, err := r.ReadSamples(make([]float32, 7)); !errors.Is(err, ErrInvalidDstSize) {
		t.Errorf("ReadSamples(7) error = %v, want ErrInvalidDstSize", err)
	}
	if n, err := r.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = (%d, %v), want (0, nil)", n, err)
	}

	boom := errors.New("device unplugged")
	broken := NewResampler(brokenSource{Source: audiotest.Silence(44100, 1, 10), err: boom}, 8000)

	_, err := broken.ReadSamples(make([]float32, 8))
	if !errors.Is(err, boom) || !strings.HasPrefix(err.Error(), "resampler: reading source") {
		t.Errorf("ReadSamples() error = %v, want wrapped %v", err, boom)
	}

	err = broken.Close()
	if !errors.Is(err, boom) || !strings.HasPrefix(err.Error(), "resampler: closing source") {
		t.Errorf("Close() error = %v, want wrapped %v", err, boom)
	}
}

func BenchmarkResampler_48kTo16k(b *testing.B) {
	src := audiotest.Sine(48000, 2, 96000, 440.0)
	buf := make([]float32, 4096)

	b.ReportAllocs()

	for b.Loop() {
		src.Reset()
		r := NewResampler(src, 16000)
		for {
			if _, err := r.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
