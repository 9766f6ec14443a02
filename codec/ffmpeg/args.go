// SPDX-License-Identifier: EPL-2.0

package ffmpeg

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ik5/audconv/convert"
	"github.com/ik5/audconv/format"
)

// muxers maps each output kind to the ffmpeg muxer. The muxer is always
// passed explicitly because the output is written to a staging path whose
// extension ffmpeg does not recognize.
var muxers = map[format.Kind]string{
	format.WAV:  "wav",
	format.AIF:  "aiff",
	format.AIFF: "aiff",
	format.AIFC: "aiff",
	format.CAF:  "caf",
	format.MP3:  "mp3",
	format.M4A:  "ipod",
	format.MP4:  "mp4",
	format.M4V:  "mp4",
	format.MOV:  "mov",
	format.AAC:  "adts",
	format.TS:   "mpegts",
	format.OGG:  "ogg",
	format.AU:   "au",
	format.SND:  "au",
}

var compressedCodecs = map[format.Kind]string{
	format.MP3: "libmp3lame",
	format.M4A: "aac",
	format.MP4: "aac",
	format.M4V: "aac",
	format.MOV: "aac",
	format.AAC: "aac",
	format.TS:  "aac",
	format.OGG: "libvorbis",
	format.AU:  "pcm_s16be",
	format.SND: "pcm_s16be",
}

// Codec returns the ffmpeg audio encoder used for kind. bitDepth only
// matters for PCM containers.
func Codec(kind format.Kind, bitDepth int) (string, error) {
	if kind.IsPCM() {
		return pcmCodec(kind, bitDepth)
	}
	if c, ok := compressedCodecs[kind]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind)
}

func pcmCodec(kind format.Kind, bitDepth int) (string, error) {
	if bitDepth == 0 {
		bitDepth = convert.DefaultBitDepth
	}

	switch bitDepth {
	case 8:
		// 8-bit wav is unsigned
		if kind == format.WAV {
			return "pcm_u8", nil
		}
		return "pcm_s8", nil
	case 16, 24, 32:
	default:
		return "", fmt.Errorf("%w: %d-bit %s", ErrUnsupportedFormat, bitDepth, kind)
	}

	endian := "le"
	if kind.BigEndian() {
		endian = "be"
	}
	return "pcm_s" + strconv.Itoa(bitDepth) + endian, nil
}

// BuildArgs returns the complete command line, binary first, that
// converts src into dst for strategy s. CompressedToCompressed never
// changes the sample rate, so no -ar is emitted for it.
func BuildArgs(bin string, s convert.Strategy, src, dst string, opts convert.Resolved) ([]string, error) {
	if s == convert.Unsupported {
		return nil, fmt.Errorf("%w: strategy %s", ErrUnsupportedFormat, s)
	}

	muxer, ok := muxers[opts.Format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, opts.Format)
	}
	codecName, err := Codec(opts.Format, opts.BitDepth)
	if err != nil {
		return nil, err
	}

	args := []string{
		bin,
		"-hide_banner", "-nostdin",
		"-loglevel", "error",
		"-y",
		"-i", src,
		"-vn",
	}

	if s != convert.CompressedToCompressed && opts.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(int(math.Round(opts.SampleRate))))
	}
	if opts.Channels > 0 {
		args = append(args, "-ac", strconv.Itoa(opts.Channels))
	}

	args = append(args, "-c:a", codecName)

	if s.CompressedOutput() && opts.BitRate > 0 && !strings.HasPrefix(codecName, "pcm_") {
		args = append(args, "-b:a", strconv.Itoa(opts.BitRate))
	}

	args = append(args, "-f", muxer, dst)
	return args, nil
}
