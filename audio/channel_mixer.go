// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMixer changes the channel count of a Source. Downmixing to mono
// averages every input channel, upmixing from mono duplicates it, and any
// other N to M mapping folds input channel i into output channel i%M
// (averaging) or repeats input channel o%N into output channel o.
type ChannelMixer struct {
	src Source
	out int
	tmp []float32
}

func NewChannelMixer(src Source, channels int) *ChannelMixer {
	return &ChannelMixer{
		src: src,
		out: channels,
		tmp: make([]float32, 4096),
	}
}

// NewMonoMixer averages every channel of src into one.
func NewMonoMixer(src Source) *ChannelMixer {
	return NewChannelMixer(src, 1)
}

func (m *ChannelMixer) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMixer) Channels() int   { return m.out }
func (m *ChannelMixer) BufSize() int    { return m.src.BufSize() }
func (m *ChannelMixer) Close() error {
	err := m.src.Close()
	if err != nil {
		return fmt.Errorf("channel mixer: closing source: %w", err)
	}

	return nil
}

func (m *ChannelMixer) ReadSamples(dst []float32) (int, error) {
	if m.out <= 0 {
		return 0, ErrInvalidChannels
	}
	if len(dst)%m.out != 0 {
		return 0, ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}

	in := m.src.Channels()
	if in == m.out {
		return m.src.ReadSamples(dst)
	}

	maxFrames := len(dst) / m.out
	samplesNeeded := maxFrames * in

	// Grow tmp buffer if needed (but don't shrink to avoid thrashing)
	if cap(m.tmp) < samplesNeeded {
		m.tmp = make([]float32, max(samplesNeeded, 8192))
	}
	tmp := m.tmp[:samplesNeeded]

	n, err := m.src.ReadSamples(tmp)
	if n == 0 {
		return 0, err
	}
	frames := n / in

	switch {
	case m.out == 1:
		downmixMono(dst, tmp, frames, in)
	case in == 1:
		for f := range frames {
			base := f * m.out
			for c := range m.out {
				dst[base+c] = tmp[f]
			}
		}
	case in > m.out:
		m.fold(dst, tmp, frames, in)
	default:
		for f := range frames {
			for c := range m.out {
				dst[f*m.out+c] = tmp[f*in+c%in]
			}
		}
	}

	return frames * m.out, err
}

func downmixMono(dst, tmp []float32, frames, channels int) {
	invChannels := float32(1.0) / float32(channels)

	// Unrolled loop for common cases
	switch channels {
	case 2:
		for f := range frames {
			idx := f << 1
			dst[f] = (tmp[idx] + tmp[idx+1]) * 0.5
		}
	case 4:
		for f := range frames {
			idx := f << 2
			sum := tmp[idx] + tmp[idx+1] + tmp[idx+2] + tmp[idx+3]
			dst[f] = sum * 0.25
		}
	default:
		for f := range frames {
			sum := float32(0)
			baseIdx := f * channels
			for c := range channels {
				sum += tmp[baseIdx+c]
			}
			dst[f] = sum * invChannels
		}
	}
}

// fold averages input channels sharing the same index modulo the output
// channel count.
func (m *ChannelMixer) fold(dst, tmp []float32, frames, in int) {
	counts := make([]float32, m.out)
	for c := range in {
		counts[c%m.out]++
	}

	for f := range frames {
		out := dst[f*m.out : (f+1)*m.out]
		clear(out)
		for c := range in {
			out[c%m.out] += tmp[f*in+c]
		}
		for c := range out {
			out[c] /= counts[c]
		}
	}
}
