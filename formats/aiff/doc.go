// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding and
// encoding on top of github.com/go-audio/aiff.
//
// AIFF stores big-endian signed PCM. Decoder accepts 8, 16, 24 and 32-bit
// files and yields float32 samples in [-1, 1]; NewEncoder writes the same
// depths. Probe reads rate, depth, channel count and duration from the
// COMM chunk.
//
//	src, err := aiff.Decoder{}.Decode(file)
//
//	enc, err := aiff.NewEncoder(out, 44100, 16, 2)
//	_, err = audio.Copy(ctx, enc, src, 4096)
//	err = enc.Close()
//
// Files typically use the .aif, .aiff or .aifc extensions. Compressed
// AIFF-C encodings are not decoded.
package aiff
