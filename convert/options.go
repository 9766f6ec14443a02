// SPDX-License-Identifier: EPL-2.0

package convert

import (
	"context"
	"fmt"
	"strings"

	"github.com/ik5/audconv/format"
)

// Bit rate bounds in bits per second. The value is a stereo bit rate; mono
// output gets half of it.
const (
	MinBitRate     = 64000
	MaxBitRate     = 320000
	DefaultBitRate = 128000
)

// DefaultBitDepth is used as the source bit depth when the source stream
// does not carry one (compressed input).
const DefaultBitDepth = 16

// BitDepthRule controls whether the bit depth may grow beyond the source's.
type BitDepthRule int

const (
	// LessThanOrEqual never produces more bits per sample than the source
	// has; converting 16-bit material to 24-bit gains nothing.
	LessThanOrEqual BitDepthRule = iota
	// Any allows every conversion.
	Any
)

func (r BitDepthRule) String() string {
	if r == Any {
		return "any"
	}
	return "less-than-or-equal"
}

// ParseBitDepthRule accepts "lte", "less-than-or-equal", "lessThanOrEqual"
// and "any" in any case.
func ParseBitDepthRule(s string) (BitDepthRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lte", "less-than-or-equal", "lessthanorequal":
		return LessThanOrEqual, nil
	case "any":
		return Any, nil
	}
	return LessThanOrEqual, fmt.Errorf("unknown bit depth rule %q", s)
}

// Options are the caller supplied conversion settings. Zero values mean
// "adopt the value of the source file". Fields may be set freely; clamping
// and defaulting happen in Resolve, except for the bit rate which is also
// clamped on every SetBitRate.
type Options struct {
	// Format of the output; empty means infer from the destination path.
	Format format.Kind
	// SampleRate in Hz.
	SampleRate float64
	// BitDepth is bits per sample, used only for PCM output.
	BitDepth     int
	BitDepthRule BitDepthRule
	// Channels is the output channel count, typically 1 or 2.
	Channels int
	// Interleaved selects the PCM sample layout; nil adopts the source.
	Interleaved *bool
	// EraseExistingOutput removes a file already present at the
	// destination instead of failing.
	EraseExistingOutput bool

	bitRate int
}

// NewOptions returns options that adopt everything from the source, use a
// 128 kbps bit rate for compressed output and overwrite existing files.
func NewOptions() *Options {
	return &Options{
		BitDepthRule:        LessThanOrEqual,
		EraseExistingOutput: true,
		bitRate:             DefaultBitRate,
	}
}

// NewPCMOptions returns options for a PCM destination.
func NewPCMOptions(kind format.Kind, sampleRate float64, bitDepth, channels int) (*Options, error) {
	if !kind.IsPCM() {
		return nil, fmt.Errorf("%w: %s is not a PCM format", ErrInvalidRequest, kind)
	}
	o := NewOptions()
	o.Format = kind
	o.SampleRate = sampleRate
	o.BitDepth = bitDepth
	o.Channels = channels
	return o, nil
}

// OptionsFromStream copies format, sample rate, bit depth and channel
// count verbatim from info.
func OptionsFromStream(info StreamInfo) *Options {
	o := NewOptions()
	o.Format = info.Format
	o.SampleRate = info.SampleRate
	o.BitDepth = info.BitDepth
	o.Channels = info.Channels
	return o
}

// OptionsFromFile probes path and returns options matching its stream.
func OptionsFromFile(ctx context.Context, p Prober, path string) (*Options, error) {
	info, err := p.Probe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("probing %s: %w", path, err)
	}
	if info.Format == "" {
		info.Format = format.FromPath(path)
	}
	return OptionsFromStream(info), nil
}

// ClampBitRate limits bps to [MinBitRate, MaxBitRate].
func ClampBitRate(bps int) int {
	return min(max(bps, MinBitRate), MaxBitRate)
}

// SetBitRate stores bps clamped to [MinBitRate, MaxBitRate].
func (o *Options) SetBitRate(bps int) *Options {
	o.bitRate = ClampBitRate(bps)
	return o
}

// BitRate returns the stored bit rate, DefaultBitRate when never set.
func (o *Options) BitRate() int {
	if o.bitRate == 0 {
		return DefaultBitRate
	}
	return o.bitRate
}

// SetInterleaved sets the PCM sample layout.
func (o *Options) SetInterleaved(v bool) *Options {
	o.Interleaved = &v
	return o
}

// clone returns a deep copy so a running conversion is unaffected by later
// changes to the caller's value.
func (o *Options) clone() Options {
	c := *o
	if o.Interleaved != nil {
		v := *o.Interleaved
		c.Interleaved = &v
	}
	return c
}

// Resolved is the fully defaulted parameter set handed to a Transcoder.
type Resolved struct {
	Format     format.Kind
	SampleRate float64
	// BitDepth is set only for ToPCM.
	BitDepth    int
	Channels    int
	Interleaved bool
	// BitRate is set only for strategies producing compressed output and
	// is already halved for mono.
	BitRate int
}

var validBitDepths = map[int]bool{8: true, 16: true, 24: true, 32: true}

// Resolve fills every unset option from src and applies the bit depth rule
// and bit rate limits for strategy s.
func (o Options) Resolve(s Strategy, src StreamInfo) (Resolved, error) {
	if o.Format == "" || !format.IsOutput(o.Format) {
		return Resolved{}, fmt.Errorf("%w: %q", ErrUnresolvedOutputFormat, o.Format)
	}
	if o.SampleRate < 0 || o.Channels < 0 || o.BitDepth < 0 {
		return Resolved{}, fmt.Errorf("%w: negative option value", ErrInvalidRequest)
	}

	r := Resolved{
		Format:      o.Format,
		SampleRate:  o.SampleRate,
		Channels:    o.Channels,
		Interleaved: !src.Planar,
	}
	if r.SampleRate == 0 {
		r.SampleRate = src.SampleRate
	}
	if r.Channels == 0 {
		r.Channels = src.Channels
	}
	if o.Interleaved != nil {
		r.Interleaved = *o.Interleaved
	}

	if r.SampleRate <= 0 {
		return Resolved{}, fmt.Errorf("%w: sample rate", ErrUnresolvedParameter)
	}
	if r.Channels <= 0 {
		return Resolved{}, fmt.Errorf("%w: channel count", ErrUnresolvedParameter)
	}

	switch {
	case s == ToPCM:
		r.BitDepth = resolveBitDepth(o.BitDepth, src.BitDepth, o.BitDepthRule)
		if !validBitDepths[r.BitDepth] {
			return Resolved{}, fmt.Errorf("%w: bit depth %d", ErrUnresolvedParameter, r.BitDepth)
		}
	case s.CompressedOutput():
		r.BitRate = ClampBitRate(o.BitRate())
		if r.Channels == 1 {
			r.BitRate /= 2
		}
	}

	return r, nil
}

func resolveBitDepth(requested, source int, rule BitDepthRule) int {
	if source <= 0 {
		source = DefaultBitDepth
	}
	depth := requested
	if depth == 0 {
		depth = source
	}
	if rule == LessThanOrEqual && depth > source {
		depth = source
	}
	return depth
}
