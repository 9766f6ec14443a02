// SPDX-License-Identifier: EPL-2.0

package caf

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audconv/utils"
)

// Encoder writes big-endian integer linear PCM into a CAF container.
type Encoder struct {
	w        io.WriteSeeker
	bw       *bufio.Writer
	channels int
	bits     int
	written  int64
	frames   int64
	scratch  []byte
	closed   bool
}

// dataSizeOffset is where the data chunk size lives: file header, desc
// chunk header and body, then the data chunk type.
const dataSizeOffset = fileHeaderSize + chunkHeaderSize + descSize + 4

// NewEncoder writes the CAF header to w. The data chunk size is written
// as -1 and patched by Close.
func NewEncoder(w io.WriteSeeker, sampleRate, bitDepth, channels int) (*Encoder, error) {
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
	if channels < 1 || sampleRate < 1 {
		return nil, errors.New("caf: channels and sample rate must be positive")
	}

	e := &Encoder{
		w:        w,
		bw:       bufio.NewWriterSize(w, 64*1024),
		channels: channels,
		bits:     bitDepth,
	}

	desc := AudioFormat{
		SampleRate:        float64(sampleRate),
		FormatID:          formatPCM,
		BytesPerPacket:    uint32(channels * bitDepth / 8),
		FramesPerPacket:   1,
		ChannelsPerPacket: uint32(channels),
		BitsPerChannel:    uint32(bitDepth),
	}

	hdr := []any{
		FileHeader{FileType: fileType, FileVersion: 1},
		ChunkHeader{ChunkType: chunkDesc, ChunkSize: descSize},
	}
	for _, v := range hdr {
		if err := binary.Write(e.bw, binary.BigEndian, v); err != nil {
			return nil, fmt.Errorf("writing caf header: %w", err)
		}
	}
	if err := desc.encode(e.bw); err != nil {
		return nil, fmt.Errorf("writing desc chunk: %w", err)
	}
	if err := binary.Write(e.bw, binary.BigEndian, ChunkHeader{ChunkType: chunkData, ChunkSize: -1}); err != nil {
		return nil, fmt.Errorf("writing data chunk: %w", err)
	}
	if err := binary.Write(e.bw, binary.BigEndian, uint32(0)); err != nil {
		return nil, fmt.Errorf("writing data chunk: %w", err)
	}

	return e, nil
}

// Frames is the number of frames written so far.
func (e *Encoder) Frames() int64 { return e.frames }

func (e *Encoder) WriteSamples(src []float32) error {
	if len(src)%e.channels != 0 {
		return errors.New("caf: partial frame")
	}

	width := e.bits / 8
	need := len(src) * width
	if cap(e.scratch) < need {
		e.scratch = make([]byte, need)
	}
	b := e.scratch[:need]

	for i, x := range src {
		v := utils.Quantize(x, e.bits)
		o := b[i*width:]
		switch e.bits {
		case 8:
			o[0] = byte(int8(v))
		case 16:
			binary.BigEndian.PutUint16(o, uint16(int16(v)))
		case 24:
			o[0], o[1], o[2] = byte(v>>16), byte(v>>8), byte(v)
		case 32:
			binary.BigEndian.PutUint32(o, uint32(int32(v)))
		}
	}

	n, err := e.bw.Write(b)
	e.written += int64(n)
	if err != nil {
		return fmt.Errorf("caf: writing sample data: %w", err)
	}
	e.frames += int64(len(src) / e.channels)

	return nil
}

// Close flushes buffered audio and patches the data chunk size. The
// underlying writer is not closed.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	if err := e.bw.Flush(); err != nil {
		return fmt.Errorf("caf: flushing sample data: %w", err)
	}

	if _, err := e.w.Seek(dataSizeOffset, io.SeekStart); err != nil {
		return fmt.Errorf("patching data size: %w", err)
	}
	if err := binary.Write(e.w, binary.BigEndian, e.written+editCountSize); err != nil {
		return fmt.Errorf("patching data size: %w", err)
	}
	if _, err := e.w.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("caf: seeking to end: %w", err)
	}

	return nil
}
