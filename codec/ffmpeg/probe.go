// SPDX-License-Identifier: EPL-2.0

package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audconv/convert"
	"github.com/ik5/audconv/format"
)

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	BitRate    string `json:"bit_rate"`
}

type ffprobeStream struct {
	Index            int    `json:"index"`
	CodecName        string `json:"codec_name"`
	CodecType        string `json:"codec_type"`
	SampleFmt        string `json:"sample_fmt"`
	SampleRate       string `json:"sample_rate"`
	Channels         int    `json:"channels"`
	BitsPerSample    int    `json:"bits_per_sample"`
	BitsPerRawSample string `json:"bits_per_raw_sample"`
	Duration         string `json:"duration"`
}

// ParseProbe converts ffprobe JSON output into the description of its first
// audio stream. Format is left for the caller to fill in.
func ParseProbe(data []byte) (convert.StreamInfo, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return convert.StreamInfo{}, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	for _, s := range raw.Streams {
		if s.CodecType != "audio" {
			continue
		}

		info := convert.StreamInfo{
			SampleRate: parseFloat(s.SampleRate),
			Channels:   s.Channels,
			BitDepth:   bitDepth(s),
			// planar sample formats carry a trailing p: fltp, s16p
			Planar: strings.HasSuffix(s.SampleFmt, "p"),
		}

		d := parseFloat(s.Duration)
		if d == 0 {
			d = parseFloat(raw.Format.Duration)
		}
		info.Duration = time.Duration(math.Round(d * float64(time.Second)))

		return info, nil
	}

	return convert.StreamInfo{}, ErrNoAudioStream
}

// bitDepth prefers the raw sample size, which ffprobe reports for 24-bit
// audio stored in 32-bit words. Compressed codecs report 0 for both.
func bitDepth(s ffprobeStream) int {
	if n, err := strconv.Atoi(s.BitsPerRawSample); err == nil && n > 0 {
		return n
	}
	return s.BitsPerSample
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Prober reads stream descriptions with ffprobe.
type Prober struct {
	bin string
	run Runner
	log logrus.FieldLogger
}

// NewProber returns a Prober running bin, "ffprobe" when empty.
func NewProber(bin string, opts ...Option) *Prober {
	o := newOptions(opts)
	if bin == "" {
		bin = "ffprobe"
	}
	return &Prober{bin: bin, run: o.run, log: o.log}
}

func (p *Prober) Probe(ctx context.Context, path string) (convert.StreamInfo, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return convert.StreamInfo{}, fmt.Errorf("%w: %w", convert.ErrNotFound, err)
		}
		return convert.StreamInfo{}, fmt.Errorf("ffprobe: %w", err)
	}

	args := []string{
		p.bin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	}

	res := p.run(ctx, args)
	if res.Err != nil {
		if errors.Is(res.Err, ErrUnavailable) {
			return convert.StreamInfo{}, res.Err
		}
		return convert.StreamInfo{}, &ExecError{Args: args, Stderr: res.Stderr, Err: res.Err}
	}

	info, err := ParseProbe(res.Stdout)
	if err != nil {
		return convert.StreamInfo{}, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	info.Format = format.FromPath(path)

	p.log.WithFields(logrus.Fields{
		"function":    "Prober.Probe",
		"path":        path,
		"sample_rate": info.SampleRate,
		"channels":    info.Channels,
		"bit_depth":   info.BitDepth,
	}).Debug("Probed audio stream")

	return info, nil
}
