// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"
	"time"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/audconv/convert"
	"github.com/ik5/audconv/format"
)

// Probe reads the Ogg Vorbis identification header. The duration is known
// only when r can seek to the last page.
func Probe(r io.Reader) (convert.StreamInfo, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return convert.StreamInfo{}, fmt.Errorf("vorbis: reading identification header: %w", err)
	}

	info := convert.StreamInfo{
		Format:     format.OGG,
		SampleRate: float64(dec.SampleRate()),
		Channels:   dec.Channels(),
	}
	if n := dec.Length(); n > 0 && dec.SampleRate() > 0 {
		info.Duration = time.Duration(n) * time.Second / time.Duration(dec.SampleRate())
	}

	return info, nil
}
