// SPDX-License-Identifier: EPL-2.0

// Package format defines the closed set of audio container tags understood
// by audconv and splits them into PCM-capable and compressed containers.
//
// Tags are plain lowercase file extensions:
//
//	format.FromPath("Song.MP3")   // format.MP3
//	format.FromPath("take.wav")   // format.WAV
//	format.FromPath("noext")      // format.Unknown
//
// Every tag other than Unknown belongs to exactly one category:
//
//	format.WAV.IsPCM()        // true
//	format.M4A.IsCompressed() // true
//
// Unknown is only valid as an input; it never names a destination.
package format
