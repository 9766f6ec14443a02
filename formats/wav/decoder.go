// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/audconv/audio"
	"github.com/ik5/audconv/internal/pcm"
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

// unsigned8Offset is the zero level of 8-bit WAV samples, which are stored
// unsigned.
const unsigned8Offset = 128

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := open(r)
	if err != nil {
		return nil, err
	}

	offset := 0
	if dec.BitDepth == 8 {
		offset = unsigned8Offset
	}

	src, err := pcm.NewSource(dec, int(dec.BitDepth), offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedBitDepth, err)
	}

	return src, nil
}

// open validates the RIFF/WAVE headers and leaves dec positioned before
// the PCM chunk.
func open(r io.Reader) (*gowav.Decoder, error) {
	rs, err := pcm.Seekable(r)
	if err != nil {
		return nil, fmt.Errorf("reading wav data: %w", err)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
		}
		return nil, ErrNotWavFile
	}

	switch dec.WavAudioFormat {
	case formatPCM, formatExtensible:
	default:
		return nil, fmt.Errorf("%w: format tag %#x", ErrUnsupportedWavLayout, dec.WavAudioFormat)
	}

	if !pcm.ValidBitDepth(int(dec.BitDepth)) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	return dec, nil
}
