// SPDX-License-Identifier: EPL-2.0

package convert

import "github.com/ik5/audconv/format"

// Strategy is the conversion path chosen for a source/destination pair.
type Strategy int

const (
	Unsupported Strategy = iota
	// ToPCM covers PCM to PCM and compressed to PCM.
	ToPCM
	PCMToCompressed
	// CompressedToCompressed cannot change the sample rate.
	CompressedToCompressed
)

// Classify picks the strategy for converting src into dst. The first
// matching rule wins:
//
//   - PCM-capable dst: ToPCM, whatever the source is
//   - PCM src, compressed dst: PCMToCompressed
//   - compressed src, compressed dst: CompressedToCompressed
//   - anything else: Unsupported
func Classify(src, dst format.Kind) Strategy {
	switch {
	case dst.IsPCM():
		return ToPCM
	case src.IsPCM() && dst.IsCompressed():
		return PCMToCompressed
	case src.IsCompressed() && dst.IsCompressed():
		return CompressedToCompressed
	}
	return Unsupported
}

// CompressedOutput reports whether s produces a compressed file.
func (s Strategy) CompressedOutput() bool {
	return s == PCMToCompressed || s == CompressedToCompressed
}

func (s Strategy) String() string {
	switch s {
	case ToPCM:
		return "to-pcm"
	case PCMToCompressed:
		return "pcm-to-compressed"
	case CompressedToCompressed:
		return "compressed-to-compressed"
	}
	return "unsupported"
}
