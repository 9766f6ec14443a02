// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III audio with
// github.com/hajimehoshi/go-mp3.
//
// The decoder always yields 2 interleaved channels at the file's sample
// rate, also for mono files. Probe reports the same layout and, for
// seekable inputs, the duration. MP3 carries no PCM word size, so the
// probed bit depth is 0.
package mp3
