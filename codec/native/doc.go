// SPDX-License-Identifier: EPL-2.0

// Package native implements convert.Prober and convert.Transcoder without
// any external process.
//
// Sources are read with the decoders from the formats packages (wav, aiff,
// caf, mp3, ogg vorbis), conformed to the requested rate and channel count
// with audio.Conform and written as integer PCM to wav, aiff or caf.
// Compressed output is not available natively; those calls fail with
// ErrEncoderUnavailable so a codec.Router can fall through to another
// backend.
package native
