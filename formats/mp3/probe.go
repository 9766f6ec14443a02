// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"fmt"
	"io"
	"time"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audconv/convert"
	"github.com/ik5/audconv/format"
)

// Probe reports the decoded stream layout. The duration is only known when
// r can seek; the channel count is always the decoder's stereo output.
func Probe(r io.Reader) (convert.StreamInfo, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return convert.StreamInfo{}, fmt.Errorf("mp3: reading stream header: %w", err)
	}

	info := convert.StreamInfo{
		Format:     format.MP3,
		SampleRate: float64(dec.SampleRate()),
		Channels:   outputChannels,
	}
	if n := dec.Length(); n > 0 && dec.SampleRate() > 0 {
		frames := n / frameBytes
		info.Duration = time.Duration(frames) * time.Second / time.Duration(dec.SampleRate())
	}

	return info, nil
}
