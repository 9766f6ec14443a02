// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes integer PCM WAV files through
// github.com/go-audio/wav.
//
// Decoder accepts 8, 16, 24 and 32-bit PCM (plain or WAVE_FORMAT_EXTENSIBLE
// headers) and yields float32 samples in [-1, 1]. 8-bit data is unsigned
// on disk and is recentred on read and write.
//
//	src, err := wav.Decoder{}.Decode(file)
//
// NewEncoder writes the same depths:
//
//	enc, err := wav.NewEncoder(out, 48000, 24, 2)
//	frames, err := audio.Copy(ctx, enc, src, 4096)
//	err = enc.Close()
//
// Probe reads rate, depth, channel count and duration from the headers.
package wav
