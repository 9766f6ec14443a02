// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"io"
	"time"

	"github.com/ik5/audconv/convert"
	"github.com/ik5/audconv/format"
)

// Probe reads the stream description from WAV headers without decoding
// any samples.
func Probe(r io.Reader) (convert.StreamInfo, error) {
	dec, err := open(r)
	if err != nil {
		return convert.StreamInfo{}, err
	}

	info := convert.StreamInfo{
		Format:     format.WAV,
		SampleRate: float64(dec.SampleRate),
		BitDepth:   int(dec.BitDepth),
		Channels:   int(dec.NumChans),
	}
	// the RIFF-size based duration of go-audio counts header bytes too
	if err := dec.FwdToPCM(); err == nil {
		frameSize := int64(dec.NumChans) * int64(dec.BitDepth/8)
		frames := dec.PCMLen() / frameSize
		info.Duration = time.Duration(frames) * time.Second / time.Duration(dec.SampleRate)
	}

	return info, nil
}
