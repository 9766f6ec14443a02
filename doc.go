// SPDX-License-Identifier: EPL-2.0

// Package audconv converts audio files between container formats.
//
// The conversion logic lives in the convert package: a Planner validates
// the request, picks a strategy and resolves the output parameters against
// the source file. This package wires a Planner to the default codec
// backends, the pure Go native backend first and ffmpeg as the fallback
// when it is installed.
//
// # Quick Start
//
//	opts := convert.NewOptions()
//	opts.SampleRate = 8000
//	opts.Channels = 1
//
//	if err := audconv.Convert(ctx, "take.wav", "take-8k.aiff", opts); err != nil {
//	    log.Fatal(err)
//	}
//
// # Supported Formats
//
// Natively, without external tools:
//   - WAV, AIFF and CAF, 8/16/24/32-bit PCM, read and written
//   - MP3 and Ogg Vorbis, read only
//
// Everything else, and every compressed output, goes through ffmpeg.
//
// # Configuration
//
// NewPlanner and ConvertWith take a config.Config, usually from
// config.Load. Convert uses config.Default with the AUDCONV_* environment
// variables applied.
package audconv
