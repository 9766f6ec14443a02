// SPDX-License-Identifier: EPL-2.0

// Package convert decides how an audio file is converted and runs the
// conversion through pluggable codec services.
//
// A Planner takes a Request (source path, destination path, Options),
// validates it, classifies the source/destination pair into one of three
// strategies and hands the work to a Transcoder:
//
//	planner := convert.NewPlanner(transcoder, prober)
//
//	opts := convert.NewOptions()
//	opts.SampleRate = 48000
//	opts.BitDepth = 24
//
//	planner.Convert(ctx, convert.Request{
//	    Source:      "take.mp3",
//	    Destination: "take.wav",
//	    Options:     opts,
//	}, func(err error) {
//	    // err is nil on success
//	})
//
// # Strategies
//
// The destination format decides first. Any PCM-capable destination (wav,
// aif, aiff, aifc, caf) uses ToPCM. A compressed destination uses
// PCMToCompressed when the source is PCM and CompressedToCompressed when
// the source is compressed. CompressedToCompressed cannot change the
// sample rate; asking for one fails with ErrUnsupportedSampleRateChange.
//
// # Options
//
// Every option left at its zero value adopts the value probed from the
// source. The bit rate is clamped to [64000, 320000] whenever it is set and
// again when resolved, and halved for mono output. Under LessThanOrEqual
// the bit depth never exceeds the source's.
//
// # Failure handling
//
// Validation errors are delivered through the same callback as transcode
// errors. When a transcode fails or is cancelled, a partially written
// destination is removed before the callback fires. Failing to remove it
// is logged and never replaces the original error.
package convert
