// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// WAVBytes builds a canonical 44-byte-header PCM WAV file. samples are
// interleaved raw integer values; 8-bit values are written as-is, so they
// must already be unsigned.
func WAVBytes(sampleRate, channels, bits int, samples []int) []byte {
	buf := new(bytes.Buffer)

	bytesPerSample := bits / 8
	blockAlign := channels * bytesPerSample
	dataSize := len(samples) * bytesPerSample

	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate*blockAlign))
	_ = binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(buf, binary.LittleEndian, uint16(bits))

	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(dataSize))

	for _, s := range samples {
		switch bits {
		case 8:
			buf.WriteByte(uint8(s))
		case 16:
			_ = binary.Write(buf, binary.LittleEndian, int16(s))
		case 24:
			v := uint32(int32(s))
			buf.Write([]byte{byte(v), byte(v >> 8), byte(v >> 16)})
		case 32:
			_ = binary.Write(buf, binary.LittleEndian, int32(s))
		}
	}

	return buf.Bytes()
}

// SineSamples returns frames of a 440 Hz tone at half scale for the given
// bit depth, identical on every channel.
func SineSamples(sampleRate, channels, bits, frames int) []int {
	scale := float64(int64(1)<<(bits-1)-1) / 2
	out := make([]int, 0, frames*channels)
	for f := range frames {
		v := int(math.Round(scale * math.Sin(2*math.Pi*440*float64(f)/float64(sampleRate))))
		if bits == 8 {
			v += 128
		}
		for range channels {
			out = append(out, v)
		}
	}
	return out
}

// WriteSineWAV writes a tone fixture named name under dir and returns its
// path.
func WriteSineWAV(tb testing.TB, dir, name string, sampleRate, channels, bits, frames int) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	data := WAVBytes(sampleRate, channels, bits, SineSamples(sampleRate, channels, bits, frames))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("writing fixture %s: %v", path, err)
	}
	return path
}
