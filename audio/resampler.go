// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audconv/utils"
)

// Resampler streams from src to a target sample rate using cubic
// interpolation. Works on interleaved samples and preserves the channel
// count. Downsampling runs every input frame through a one-pole low-pass
// first.
type Resampler struct {
	src      Source
	srcRate  int
	dstRate  int
	channels int

	// window holds frames t-1, t0, t+1, t+2; output is interpolated
	// between window[1] and window[2] at fraction acc/dstRate.
	window [4][]float32
	real   [4]bool
	acc    int

	in      []float32
	inPos   int
	inLen   int
	srcDone bool
	primed  bool

	lowpass     bool
	alpha       float32
	filterState []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()

	r := &Resampler{
		src:         src,
		srcRate:     src.SampleRate(),
		dstRate:     dstRate,
		channels:    channels,
		in:          make([]float32, 1024*channels),
		lowpass:     src.SampleRate() > dstRate,
		alpha:       0.5,
		filterState: make([]float32, channels),
	}
	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("resampler: closing source: %w", err)
	}
	return nil
}

// nextFrame copies the next source frame into dst. It reports false once
// the source is exhausted.
func (r *Resampler) nextFrame(dst []float32) (bool, error) {
	for r.inLen-r.inPos < r.channels {
		if r.srcDone {
			return false, nil
		}

		n, err := r.src.ReadSamples(r.in)
		r.inPos, r.inLen = 0, n-n%r.channels
		if err == io.EOF {
			r.srcDone = true
		} else if err != nil {
			return false, fmt.Errorf("resampler: reading source: %w", err)
		}
	}

	copy(dst, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels

	if r.lowpass {
		// y[n] = alpha * x[n] + (1-alpha) * y[n-1]
		for c := range r.channels {
			dst[c] = r.alpha*dst[c] + (1-r.alpha)*r.filterState[c]
			r.filterState[c] = dst[c]
		}
	}

	return true, nil
}

func (r *Resampler) prime() error {
	r.primed = true

	ok, err := r.nextFrame(r.filterState)
	if err != nil || !ok {
		return err
	}
	// the first frame seeds the filter so it starts without a transient
	copy(r.window[0], r.filterState)
	copy(r.window[1], r.filterState)
	r.real[0], r.real[1] = true, true

	for i := 2; i < len(r.window); i++ {
		ok, err := r.nextFrame(r.window[i])
		if err != nil {
			return err
		}
		if !ok {
			copy(r.window[i], r.window[i-1])
		}
		r.real[i] = ok
	}

	return nil
}

// advance slides the window one source frame forward.
func (r *Resampler) advance() error {
	w := r.window
	r.window = [4][]float32{w[1], w[2], w[3], w[0]}
	r.real = [4]bool{r.real[1], r.real[2], r.real[3], false}

	ok, err := r.nextFrame(r.window[3])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.window[3], r.window[2])
	}
	r.real[3] = ok

	return nil
}

// ReadSamples produces samples at the target rate. len(dst) must be a
// multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	for written < len(dst) {
		for r.acc >= r.dstRate {
			r.acc -= r.dstRate
			if err := r.advance(); err != nil {
				return written, err
			}
		}

		if !r.real[1] {
			return written, io.EOF
		}

		alpha := float32(r.acc) / float32(r.dstRate)
		utils.InterpolateFrame(dst[written:written+r.channels],
			r.window[0], r.window[1], r.window[2], r.window[3], alpha)

		written += r.channels
		r.acc += r.srcRate
	}

	return written, nil
}
