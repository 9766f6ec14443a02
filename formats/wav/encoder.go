// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/audconv/internal/pcm"
)

// NewEncoder returns a writer that stores float32 samples as integer PCM
// WAV data. Close patches the RIFF sizes; w itself is not closed.
func NewEncoder(w io.WriteSeeker, sampleRate, bitDepth, channels int) (*pcm.Sink, error) {
	if !pcm.ValidBitDepth(bitDepth) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	offset := 0
	if bitDepth == 8 {
		offset = unsigned8Offset
	}

	enc := gowav.NewEncoder(w, sampleRate, bitDepth, channels, formatPCM)
	return pcm.NewSink(enc, sampleRate, channels, bitDepth, offset)
}
