// SPDX-License-Identifier: EPL-2.0

// Package caf reads and writes linear PCM in Apple's Core Audio Format.
//
// The encoder emits a caff header, a desc chunk and a single data chunk of
// interleaved big-endian integer samples; the data size is patched when
// the encoder is closed. The decoder accepts integer or float linear PCM
// in either byte order and skips chunks it does not know. Probe reads the
// stream description of any CAF file, including compressed ones, in which
// case the bit depth is reported as 0.
package caf
