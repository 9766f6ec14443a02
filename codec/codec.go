// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audconv/convert"
	"github.com/ik5/audconv/format"
)

var (
	// ErrSkip is wrapped by backends that do not handle an input, so a
	// Chain can try the next one.
	ErrSkip = errors.New("codec: input not handled by backend")

	// ErrNoBackend reports that no backend accepted the work.
	ErrNoBackend = errors.New("codec: no backend available")
)

// Chain is a Prober that tries each member in order.
type Chain []convert.Prober

func (c Chain) Probe(ctx context.Context, path string) (convert.StreamInfo, error) {
	var skipped []error
	for _, p := range c {
		info, err := p.Probe(ctx, path)
		if err == nil {
			return info, nil
		}
		if !errors.Is(err, ErrSkip) {
			return convert.StreamInfo{}, err
		}
		skipped = append(skipped, err)
	}

	return convert.StreamInfo{}, fmt.Errorf("%w: probing %s: %w", ErrNoBackend, path, errors.Join(skipped...))
}

// Backend is a Transcoder that can tell up front which conversions it
// handles.
type Backend interface {
	convert.Transcoder
	Name() string
	Supports(s convert.Strategy, src, dst format.Kind) bool
}

// Router dispatches each transcode to the first supporting backend.
type Router struct {
	backends []Backend
	log      logrus.FieldLogger
}

func NewRouter(log logrus.FieldLogger, backends ...Backend) *Router {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Router{backends: backends, log: log}
}

// Backends lists the configured backends in priority order.
func (r *Router) Backends() []Backend {
	return append([]Backend(nil), r.backends...)
}

func (r *Router) pick(s convert.Strategy, src string, dst format.Kind) (Backend, error) {
	srcKind := format.FromPath(src)
	for _, b := range r.backends {
		if b.Supports(s, srcKind, dst) {
			r.log.WithFields(logrus.Fields{
				"function": "Router.pick",
				"backend":  b.Name(),
				"strategy": s.String(),
				"source":   srcKind,
				"output":   dst,
			}).Debug("Selected transcoder backend")
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %s from %s to %s", ErrNoBackend, s, srcKind, dst)
}

func (r *Router) TranscodeToPCM(ctx context.Context, src, dst string, opts convert.Resolved) error {
	b, err := r.pick(convert.ToPCM, src, opts.Format)
	if err != nil {
		return err
	}
	return b.TranscodeToPCM(ctx, src, dst, opts)
}

func (r *Router) TranscodePCMToCompressed(ctx context.Context, src, dst string, opts convert.Resolved) error {
	b, err := r.pick(convert.PCMToCompressed, src, opts.Format)
	if err != nil {
		return err
	}
	return b.TranscodePCMToCompressed(ctx, src, dst, opts)
}

func (r *Router) TranscodeCompressedToCompressed(ctx context.Context, src, dst string, opts convert.Resolved) error {
	b, err := r.pick(convert.CompressedToCompressed, src, opts.Format)
	if err != nil {
		return err
	}
	return b.TranscodeCompressedToCompressed(ctx, src, dst, opts)
}
