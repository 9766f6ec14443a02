// SPDX-License-Identifier: EPL-2.0

package native

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"sync"

	"github.com/ik5/audconv/convert"
	"github.com/ik5/audconv/format"
	"github.com/ik5/audconv/formats/aiff"
	"github.com/ik5/audconv/formats/caf"
	"github.com/ik5/audconv/formats/mp3"
	"github.com/ik5/audconv/formats/vorbis"
	"github.com/ik5/audconv/formats/wav"
)

// ProbeFunc reads the stream description from the start of a file.
type ProbeFunc func(r io.Reader) (convert.StreamInfo, error)

// Prober reads stream descriptions with the registered ProbeFuncs, chosen
// by the file extension.
type Prober struct {
	probes map[format.Kind]ProbeFunc

	mtx sync.RWMutex
}

// NewProber returns a Prober with every built in format registered.
func NewProber() *Prober {
	p := &Prober{probes: make(map[format.Kind]ProbeFunc)}

	p.Register(format.WAV, wav.Probe)
	for _, k := range []format.Kind{format.AIF, format.AIFF, format.AIFC} {
		p.Register(k, aiff.Probe)
	}
	p.Register(format.CAF, caf.Probe)
	p.Register(format.MP3, mp3.Probe)
	p.Register(format.OGG, vorbis.Probe)

	return p
}

func (p *Prober) Register(kind format.Kind, fn ProbeFunc) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	p.probes[kind] = fn
}

// Kinds lists the kinds with a registered ProbeFunc.
func (p *Prober) Kinds() []format.Kind {
	p.mtx.RLock()
	defer p.mtx.RUnlock()

	out := make([]format.Kind, 0, len(p.probes))
	for k := range p.probes {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func (p *Prober) lookup(kind format.Kind) (ProbeFunc, bool) {
	p.mtx.RLock()
	defer p.mtx.RUnlock()

	fn, ok := p.probes[kind]
	return fn, ok
}

// Probe implements convert.Prober. The returned Format is always the kind
// of path's extension.
func (p *Prober) Probe(ctx context.Context, path string) (convert.StreamInfo, error) {
	if err := ctx.Err(); err != nil {
		return convert.StreamInfo{}, err
	}

	kind := format.FromPath(path)
	fn, ok := p.lookup(kind)
	if !ok {
		return convert.StreamInfo{}, fmt.Errorf("%w: %s", ErrNoProbe, kind)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return convert.StreamInfo{}, fmt.Errorf("%w: %w", convert.ErrNotFound, err)
		}
		return convert.StreamInfo{}, fmt.Errorf("native: %w", err)
	}
	defer f.Close()

	info, err := fn(f)
	if err != nil {
		return convert.StreamInfo{}, fmt.Errorf("native: probing %s: %w", path, err)
	}
	info.Format = kind

	return info, nil
}
