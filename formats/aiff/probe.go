// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"io"

	"github.com/ik5/audconv/convert"
	"github.com/ik5/audconv/format"
)

// Probe reads the COMM chunk of an AIFF or AIFF-C file.
func Probe(r io.Reader) (convert.StreamInfo, error) {
	dec, err := open(r)
	if err != nil {
		return convert.StreamInfo{}, err
	}

	f := dec.Format()
	info := convert.StreamInfo{
		Format:     format.AIFF,
		SampleRate: float64(f.SampleRate),
		BitDepth:   int(dec.BitDepth),
		Channels:   f.NumChannels,
	}
	if d, err := dec.Duration(); err == nil {
		info.Duration = d
	}

	return info, nil
}
