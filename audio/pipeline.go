// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Conform returns a Source producing sampleRate Hz with the given channel
// count. Stages that would not change anything are skipped, so a source
// that already matches is returned as is. Channels are reduced before
// resampling and added after it, so the resampler always runs on the
// smaller layout.
func Conform(src Source, sampleRate, channels int) (Source, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if channels <= 0 {
		return nil, ErrInvalidChannels
	}

	out := src
	if channels < out.Channels() {
		out = NewChannelMixer(out, channels)
	}
	if sampleRate != out.SampleRate() {
		out = NewResampler(out, sampleRate)
	}
	if channels > out.Channels() {
		out = NewChannelMixer(out, channels)
	}

	return out, nil
}

// Copy drains src into w in chunks of bufferSize values and returns the
// number of frames written. ctx is checked between chunks.
func Copy(ctx context.Context, w SampleWriter, src Source, bufferSize int) (int64, error) {
	channels := src.Channels()
	if channels <= 0 {
		return 0, ErrInvalidChannels
	}

	bufferSize -= bufferSize % channels
	if bufferSize <= 0 {
		bufferSize = 1024 * channels
	}
	buf := make([]float32, bufferSize)

	var frames int64
	for {
		if err := ctx.Err(); err != nil {
			return frames, fmt.Errorf("copy: cancelled after %d frames: %w", frames, err)
		}

		n, err := src.ReadSamples(buf)
		if n > 0 {
			if werr := w.WriteSamples(buf[:n]); werr != nil {
				return frames, fmt.Errorf("copy: writing samples: %w", werr)
			}
			frames += int64(n / channels)
		}

		if errors.Is(err, io.EOF) {
			return frames, nil
		}

		if err != nil {
			return frames, fmt.Errorf("copy: reading samples: %w", err)
		}
	}
}

// ReadAll collects every remaining sample of src.
func ReadAll(src Source, bufferSize int) ([]float32, error) {
	var all sliceWriter
	if _, err := Copy(context.Background(), &all, src, bufferSize); err != nil {
		return nil, err
	}
	return all, nil
}

type sliceWriter []float32

func (s *sliceWriter) WriteSamples(src []float32) error {
	*s = append(*s, src...)
	return nil
}
