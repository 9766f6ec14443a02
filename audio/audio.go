// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"slices"
	"sync"

	"github.com/ik5/audconv/format"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// SampleWriter consumes interleaved float32 samples, typically an encoder.
type SampleWriter interface {
	WriteSamples(src []float32) error
}

// Registry maps container kinds to decoders.
type Registry struct {
	codecs map[format.Kind]Decoder

	mtx sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[format.Kind]Decoder),
	}
}

func (r *Registry) Register(kind format.Kind, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[kind] = d
}

func (r *Registry) Get(kind format.Kind) (Decoder, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	d, ok := r.codecs[kind]
	return d, ok
}

// Kinds lists the registered kinds in sorted order.
func (r *Registry) Kinds() []format.Kind {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	out := make([]format.Kind, 0, len(r.codecs))
	for k := range r.codecs {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
