// SPDX-License-Identifier: EPL-2.0

// Package audio provides the streaming PCM primitives used by the native
// transcoder.
//
// Every decoder and processing stage implements Source and yields
// interleaved float32 samples in [-1, 1]:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// ReadSamples counts float32 values, not frames, and dst must hold whole
// frames. A read may return data together with io.EOF.
//
// # Stages
//
// Resampler changes the sample rate with Catmull-Rom cubic interpolation,
// low-passing the input when downsampling. ChannelMixer changes the
// channel count. Conform chains the two so a source matches a target rate
// and layout:
//
//	src, _ := audio.Conform(decoded, 48000, 2)
//	frames, err := audio.Copy(ctx, encoder, src, 4096)
//
// # Registry
//
// Registry maps a container kind to the Decoder that reads it:
//
//	registry := audio.NewRegistry()
//	registry.Register(format.WAV, wav.Decoder{})
//	decoder, ok := registry.Get(format.WAV)
package audio
