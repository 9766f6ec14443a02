// SPDX-License-Identifier: EPL-2.0

// Package ffmpeg implements convert.Prober and convert.Transcoder by
// running the ffprobe and ffmpeg executables.
//
// BuildArgs turns a strategy and resolved options into a complete ffmpeg
// argument list, and ParseProbe maps ffprobe JSON output to a
// convert.StreamInfo. Both are pure and exported so they can be tested
// without the binaries installed. Every process runs through a Runner,
// Execute by default.
package ffmpeg
