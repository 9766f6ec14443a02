// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	goaiff "github.com/go-audio/aiff"

	"github.com/ik5/audconv/internal/pcm"
)

// NewEncoder returns a writer that stores float32 samples as big-endian
// integer PCM in an AIFF container. Close patches the chunk sizes.
func NewEncoder(w io.WriteSeeker, sampleRate, bitDepth, channels int) (*pcm.Sink, error) {
	if !pcm.ValidBitDepth(bitDepth) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	enc := goaiff.NewEncoder(w, sampleRate, bitDepth, channels)
	return pcm.NewSink(enc, sampleRate, channels, bitDepth, 0)
}
