// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis audio with github.com/jfreymuth/oggvorbis.
//
// Samples come out interleaved as float32 in [-1, 1] with the stream's own
// channel count. Probe reads rate and channels from the identification
// header; Vorbis has no PCM word size, so the probed bit depth is 0.
package vorbis
