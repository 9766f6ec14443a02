// SPDX-License-Identifier: EPL-2.0

package caf

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/ik5/audconv/audio"
	"github.com/ik5/audconv/convert"
	"github.com/ik5/audconv/format"
	"github.com/ik5/audconv/utils"
)

// header walks the chunks up to the start of the audio data. The returned
// size is the number of audio bytes, or -1 when the data chunk runs to
// the end of the file.
func header(r io.Reader) (AudioFormat, int64, error) {
	var fh FileHeader
	if err := binary.Read(r, binary.BigEndian, &fh); err != nil {
		return AudioFormat{}, 0, fmt.Errorf("%w: %w", ErrNotCafFile, err)
	}
	if fh.FileType != fileType {
		return AudioFormat{}, 0, ErrNotCafFile
	}

	var (
		desc    AudioFormat
		hasDesc bool
	)
	for {
		var ch ChunkHeader
		if err := binary.Read(r, binary.BigEndian, &ch); err != nil {
			return AudioFormat{}, 0, fmt.Errorf("reading chunk header: %w", err)
		}

		switch ch.ChunkType {
		case chunkDesc:
			if err := desc.decode(r); err != nil {
				return AudioFormat{}, 0, fmt.Errorf("reading desc chunk: %w", err)
			}
			hasDesc = true
		case chunkData:
			if !hasDesc {
				return AudioFormat{}, 0, ErrMissingDesc
			}
			var edits uint32
			if err := binary.Read(r, binary.BigEndian, &edits); err != nil {
				return AudioFormat{}, 0, fmt.Errorf("reading data chunk: %w", err)
			}
			if ch.ChunkSize < 0 {
				return desc, -1, nil
			}
			return desc, ch.ChunkSize - editCountSize, nil
		default:
			if _, err := io.CopyN(io.Discard, r, ch.ChunkSize); err != nil {
				return AudioFormat{}, 0, fmt.Errorf("skipping %s chunk: %w", ch.ChunkType[:], err)
			}
		}
	}
}

// Probe reads the desc chunk and derives the duration from the data chunk
// size.
func Probe(r io.Reader) (convert.StreamInfo, error) {
	desc, size, err := header(bufio.NewReader(r))
	if err != nil {
		return convert.StreamInfo{}, err
	}

	info := convert.StreamInfo{
		Format:     format.CAF,
		SampleRate: desc.SampleRate,
		Channels:   int(desc.ChannelsPerPacket),
	}
	if desc.IsPCM() {
		info.BitDepth = int(desc.BitsPerChannel)
	}
	if size > 0 && desc.BytesPerPacket > 0 && desc.FramesPerPacket > 0 && desc.SampleRate > 0 {
		frames := size / int64(desc.BytesPerPacket) * int64(desc.FramesPerPacket)
		info.Duration = time.Duration(float64(frames) * float64(time.Second) / desc.SampleRate)
	}

	return info, nil
}

type Decoder struct{}

// Decode reads interleaved linear PCM, integer or float, in either byte
// order.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	br := bufio.NewReader(r)

	desc, size, err := header(br)
	if err != nil {
		return nil, err
	}
	if !desc.IsPCM() {
		return nil, fmt.Errorf("%w: %s", ErrNotLinearPCM, desc.FormatID[:])
	}

	bits := int(desc.BitsPerChannel)
	switch {
	case desc.float() && (bits == 32 || bits == 64):
	case !desc.float() && (bits == 8 || bits == 16 || bits == 24 || bits == 32):
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bits)
	}

	var data io.Reader = br
	if size >= 0 {
		data = io.LimitReader(br, size)
	}

	var order binary.ByteOrder = binary.BigEndian
	if desc.littleEndian() {
		order = binary.LittleEndian
	}

	return &source{
		r:          data,
		order:      order,
		float:      desc.float(),
		bits:       bits,
		sampleRate: int(math.Round(desc.SampleRate)),
		channels:   int(desc.ChannelsPerPacket),
	}, nil
}

type source struct {
	r          io.Reader
	order      binary.ByteOrder
	float      bool
	bits       int
	sampleRate int
	channels   int
	buf        []byte
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 4096 }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	width := s.bits / 8
	need := len(dst) * width
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	m, err := io.ReadFull(s.r, s.buf)
	n := m / width

	for i := range n {
		dst[i] = s.sample(s.buf[i*width : (i+1)*width])
	}

	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return n, io.EOF
	case err != nil:
		return n, fmt.Errorf("caf: reading sample data: %w", err)
	}
	return n, nil
}

func (s *source) sample(b []byte) float32 {
	if s.float {
		if s.bits == 64 {
			return float32(math.Float64frombits(s.order.Uint64(b)))
		}
		return math.Float32frombits(s.order.Uint32(b))
	}

	var v int
	switch s.bits {
	case 8:
		v = int(int8(b[0]))
	case 16:
		v = int(int16(s.order.Uint16(b)))
	case 24:
		if s.order == binary.ByteOrder(binary.BigEndian) {
			v = int(int32(uint32(b[0])<<24|uint32(b[1])<<16|uint32(b[2])<<8) >> 8)
		} else {
			v = int(int32(uint32(b[2])<<24|uint32(b[1])<<16|uint32(b[0])<<8) >> 8)
		}
	case 32:
		v = int(int32(s.order.Uint32(b)))
	}
	return utils.Dequantize(v, s.bits)
}
