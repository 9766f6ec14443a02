// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	goaudio "github.com/go-audio/audio"
)

type memCodec struct {
	format *goaudio.Format
	data   []int
	offset int
	closed bool
	err    error
}

func (m *memCodec) Format() *goaudio.Format { return m.format }

func (m *memCodec) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	n := copy(buf.Data, m.data[m.offset:])
	m.offset += n
	return n, nil
}

func (m *memCodec) Write(buf *goaudio.IntBuffer) error {
	m.data = append(m.data, buf.Data...)
	return m.err
}

func (m *memCodec) Close() error {
	m.closed = true
	return nil
}

func TestSource_Normalizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		bits   int
		offset int
		raw    []int
		want   []float32
	}{
		{"16 bit", 16, 0, []int{0, 16384, -32768}, []float32{0, 0.5, -1}},
		{"24 bit", 24, 0, []int{1 << 22, -(1 << 23)}, []float32{0.5, -1}},
		{"unsigned 8 bit", 8, 128, []int{128, 192, 0}, []float32{0, 0.5, -1}},
		{"signed 8 bit", 8, 0, []int{0, 64, -128}, []float32{0, 0.5, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			codec := &memCodec{format: &goaudio.Format{NumChannels: 1, SampleRate: 8000}, data: tt.raw}
			src, err := NewSource(codec, tt.bits, tt.offset)
			if err != nil {
				t.Fatalf("NewSource() error = %v", err)
			}

			buf := make([]float32, 16)
			n, err := src.ReadSamples(buf)
			if err != nil && err != io.EOF {
				t.Fatalf("ReadSamples() error = %v", err)
			}
			if n != len(tt.want) {
				t.Fatalf("ReadSamples() n = %d, want %d", n, len(tt.want))
			}
			for i, want := range tt.want {
				if math.Abs(float64(buf[i]-want)) > 1e-6 {
					t.Errorf("sample %d = %v, want %v", i, buf[i], want)
				}
			}

			if n, err := src.ReadSamples(buf); n != 0 || err != io.EOF {
				t.Errorf("second ReadSamples() = (%d, %v), want (0, io.EOF)", n, err)
			}
		})
	}
}

func TestSource_RejectsBitDepth(t *testing.T) {
	t.Parallel()

	codec := &memCodec{format: &goaudio.Format{NumChannels: 1, SampleRate: 8000}}
	if _, err := NewSource(codec, 12, 0); !errors.Is(err, ErrUnsupportedBitDepth) {
		t.Errorf("NewSource(12) error = %v, want ErrUnsupportedBitDepth", err)
	}
}

func TestSource_PropagatesDecodeError(t *testing.T) {
	t.Parallel()

	boom := errors.New("corrupt chunk")
	codec := &memCodec{format: &goaudio.Format{NumChannels: 2, SampleRate: 8000}, err: boom}
	src, err := NewSource(codec, 16, 0)
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}

	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want %v", err, boom)
	}
}

func TestSink_Quantizes(t *testing.T) {
	t.Parallel()

	codec := &memCodec{}
	sink, err := NewSink(codec, 8000, 2, 8, 128)
	if err != nil {
		t.Fatalf("NewSink() error = %v", err)
	}

	if err := sink.WriteSamples([]float32{0, 1, -1, 0.5}); err != nil {
		t.Fatalf("WriteSamples() error = %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	want := []int{128, 255, 1, 192}
	for i, v := range want {
		if codec.data[i] != v {
			t.Errorf("data[%d] = %d, want %d", i, codec.data[i], v)
		}
	}
	if sink.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", sink.Frames())
	}
	if !codec.closed {
		t.Error("Close() did not close the encoder")
	}
}

func TestSink_RejectsPartialFrame(t *testing.T) {
	t.Parallel()

	sink, err := NewSink(&memCodec{}, 8000, 2, 16, 0)
	if err != nil {
		t.Fatalf("NewSink() error = %v", err)
	}
	if err := sink.WriteSamples([]float32{0.1}); err == nil {
		t.Error("WriteSamples() accepted a partial frame")
	}
}

func TestSeekable(t *testing.T) {
	t.Parallel()

	rs, err := Seekable(io.MultiReader(strings.NewReader("RIFF")))
	if err != nil {
		t.Fatalf("Seekable() error = %v", err)
	}
	if _, err := rs.Seek(2, io.SeekStart); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	rest, _ := io.ReadAll(rs)
	if string(rest) != "FF" {
		t.Errorf("read %q after seek, want %q", rest, "FF")
	}
}
