// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	goaiff "github.com/go-audio/aiff"

	"github.com/ik5/audconv/audio"
	"github.com/ik5/audconv/internal/pcm"
)

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := open(r)
	if err != nil {
		return nil, err
	}

	// AIFF samples are signed at every depth
	src, err := pcm.NewSource(dec, int(dec.BitDepth), 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedAiffLayout, err)
	}

	return src, nil
}

func open(r io.Reader) (*goaiff.Decoder, error) {
	// go-audio requires io.ReadSeeker
	rs, err := pcm.Seekable(r)
	if err != nil {
		return nil, fmt.Errorf("reading aiff data: %w", err)
	}

	dec := goaiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	dec.ReadInfo()

	if !pcm.ValidBitDepth(int(dec.BitDepth)) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	if f := dec.Format(); f == nil || f.NumChannels < 1 {
		return nil, ErrUnsupportedAiffLayout
	}

	return dec, nil
}
