// SPDX-License-Identifier: EPL-2.0

package convert

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync/atomic"
	"time"

	"github.com/ik5/audconv/format"
	"github.com/sirupsen/logrus"
)

// Request describes a single conversion.
type Request struct {
	Source      string
	Destination string
	// Options may be nil, which means NewOptions().
	Options *Options
}

// Callback receives the terminal outcome of Convert; err is nil on success.
type Callback func(err error)

// job is the conversion a Planner owns while it is in flight.
type job struct {
	src, dst string
	srcKind  format.Kind
	opts     Options
	strategy Strategy
	started  time.Time
}

// Planner validates a Request, picks a Strategy, resolves the options
// against the source file and hands the work to a Transcoder. A Planner
// runs one conversion at a time; independent planners share nothing.
type Planner struct {
	transcoder Transcoder
	prober     Prober
	fs         FileSystem
	log        logrus.FieldLogger
	inputs     []format.Kind

	inflight atomic.Pointer[job]
}

// PlannerOption customizes a Planner.
type PlannerOption func(*Planner)

// WithFileSystem replaces the os backed file system.
func WithFileSystem(fs FileSystem) PlannerOption {
	return func(p *Planner) { p.fs = fs }
}

// WithLogger sets the logger, logrus.StandardLogger() by default.
func WithLogger(l logrus.FieldLogger) PlannerOption {
	return func(p *Planner) { p.log = l }
}

// WithInputKinds restricts the accepted source kinds. The default is
// format.InputKinds().
func WithInputKinds(kinds ...format.Kind) PlannerOption {
	return func(p *Planner) { p.inputs = slices.Clone(kinds) }
}

// NewPlanner returns a Planner delegating to t and p.
func NewPlanner(t Transcoder, p Prober, opts ...PlannerOption) *Planner {
	pl := &Planner{
		transcoder: t,
		prober:     p,
		fs:         OSFileSystem{},
		log:        logrus.StandardLogger(),
		inputs:     format.InputKinds(),
	}
	for _, opt := range opts {
		opt(pl)
	}
	return pl
}

// Busy reports whether a conversion is in flight.
func (p *Planner) Busy() bool { return p.inflight.Load() != nil }

// Convert starts converting req and returns immediately. onComplete is
// called exactly once: synchronously for validation failures, otherwise
// from the goroutine running the conversion after any cleanup of the
// destination has been attempted.
func (p *Planner) Convert(ctx context.Context, req Request, onComplete Callback) {
	if onComplete == nil {
		onComplete = func(error) {}
	}

	if p.Busy() {
		onComplete(newError(ErrPlannerBusy, OpValidate, req.Destination, nil))
		return
	}

	j, err := p.prepare(req)
	if err != nil {
		p.log.WithFields(logrus.Fields{
			"function":    "Planner.Convert",
			"source":      req.Source,
			"destination": req.Destination,
			"error":       err.Error(),
		}).Debug("Conversion request rejected")
		onComplete(err)
		return
	}

	if !p.inflight.CompareAndSwap(nil, j) {
		onComplete(newError(ErrPlannerBusy, OpValidate, req.Destination, nil))
		return
	}

	p.log.WithFields(logrus.Fields{
		"function":    "Planner.Convert",
		"source":      j.src,
		"destination": j.dst,
		"strategy":    j.strategy.String(),
		"from":        j.srcKind.String(),
		"to":          j.opts.Format.String(),
	}).Info("Starting conversion")

	go p.execute(ctx, j, onComplete)
}

// Start is Convert with the outcome delivered on a channel. The channel is
// buffered and receives exactly one value.
func (p *Planner) Start(ctx context.Context, req Request) <-chan error {
	done := make(chan error, 1)
	p.Convert(ctx, req, func(err error) { done <- err })
	return done
}

// Run converts req and blocks until it is finished.
func (p *Planner) Run(ctx context.Context, req Request) error {
	return <-p.Start(ctx, req)
}

// prepare runs the validation sequence. Checks are ordered so the same
// request always fails with the same error.
func (p *Planner) prepare(req Request) (*job, error) {
	if req.Source == "" {
		return nil, newError(ErrMissingInput, OpValidate, "", nil)
	}
	if req.Destination == "" {
		return nil, newError(ErrMissingOutput, OpValidate, "", nil)
	}
	if samePath(req.Source, req.Destination) {
		return nil, newError(ErrInvalidRequest, OpValidate, req.Destination,
			errors.New("source and destination are the same file"))
	}

	opts := NewOptions()
	if req.Options != nil {
		*opts = req.Options.clone()
	}

	srcKind := format.FromPath(req.Source)
	if !slices.Contains(p.inputs, srcKind) {
		return nil, newError(ErrUnsupportedInputFormat, OpValidate, req.Source,
			fmt.Errorf("format %q", srcKind))
	}

	if p.fs.Exists(req.Destination) {
		if !opts.EraseExistingOutput {
			return nil, newError(ErrOutputExists, OpValidate, req.Destination, nil)
		}
		p.log.WithFields(logrus.Fields{
			"function":    "Planner.prepare",
			"destination": req.Destination,
		}).Warn("Removing existing file at destination")
		if err := p.fs.Remove(req.Destination); err != nil {
			p.log.WithFields(logrus.Fields{
				"function":    "Planner.prepare",
				"destination": req.Destination,
				"error":       err.Error(),
			}).Error("Failed to remove existing destination")
		}
	}

	if opts.Format == "" {
		opts.Format = format.FromPath(req.Destination)
	}
	if !format.IsOutput(opts.Format) {
		return nil, newError(ErrUnresolvedOutputFormat, OpValidate, req.Destination,
			fmt.Errorf("format %q", opts.Format))
	}

	strategy := Classify(srcKind, opts.Format)
	if strategy == Unsupported {
		return nil, newError(ErrAmbiguousConversion, OpValidate, req.Source,
			fmt.Errorf("%s to %s", srcKind, opts.Format))
	}
	if strategy == CompressedToCompressed && opts.SampleRate != 0 {
		return nil, newError(ErrUnsupportedSampleRateChange, OpValidate, req.Destination,
			fmt.Errorf("requested %g Hz", opts.SampleRate))
	}
	if opts.SampleRate < 0 || opts.Channels < 0 || opts.BitDepth < 0 {
		return nil, newError(ErrInvalidRequest, OpValidate, req.Destination,
			errors.New("negative option value"))
	}

	return &job{
		src:      req.Source,
		dst:      req.Destination,
		srcKind:  srcKind,
		opts:     *opts,
		strategy: strategy,
		started:  time.Now(),
	}, nil
}

func (p *Planner) execute(ctx context.Context, j *job, onComplete Callback) {
	err := p.run(ctx, j)
	p.completionProxy(j, err, onComplete)
}

func (p *Planner) run(ctx context.Context, j *job) error {
	if err := ctx.Err(); err != nil {
		return newError(ErrCancelled, OpProbe, j.src, err)
	}

	info, err := p.prober.Probe(ctx, j.src)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return newError(ErrCancelled, OpProbe, j.src, ctx.Err())
		case errors.Is(err, ErrNotFound):
			return newError(ErrNotFound, OpProbe, j.src, err)
		}
		return newError(ErrCodec, OpProbe, j.src, err)
	}

	resolved, err := j.opts.Resolve(j.strategy, info)
	if err != nil {
		kind := ErrUnresolvedParameter
		switch {
		case errors.Is(err, ErrInvalidRequest):
			kind = ErrInvalidRequest
		case errors.Is(err, ErrUnresolvedOutputFormat):
			kind = ErrUnresolvedOutputFormat
		}
		return newError(kind, OpResolve, j.src, err)
	}

	p.log.WithFields(logrus.Fields{
		"function":     "Planner.run",
		"strategy":     j.strategy.String(),
		"sample_rate":  resolved.SampleRate,
		"bit_depth":    resolved.BitDepth,
		"channels":     resolved.Channels,
		"interleaved":  resolved.Interleaved,
		"bit_rate":     resolved.BitRate,
		"source_rate":  info.SampleRate,
		"source_depth": info.BitDepth,
	}).Debug("Resolved conversion parameters")

	// a finished transcode stands even when ctx ends right after it
	if err = p.dispatch(ctx, j, resolved); err != nil {
		if ctx.Err() != nil {
			return newError(ErrCancelled, OpTranscode, j.dst, errors.Join(ctx.Err(), err))
		}
		return newError(ErrCodec, OpTranscode, j.dst, err)
	}
	return nil
}

func (p *Planner) dispatch(ctx context.Context, j *job, r Resolved) error {
	switch j.strategy {
	case ToPCM:
		return p.transcoder.TranscodeToPCM(ctx, j.src, j.dst, r)
	case PCMToCompressed:
		return p.transcoder.TranscodePCMToCompressed(ctx, j.src, j.dst, r)
	case CompressedToCompressed:
		return p.transcoder.TranscodeCompressedToCompressed(ctx, j.src, j.dst, r)
	}
	return fmt.Errorf("%w: %s", ErrAmbiguousConversion, j.strategy)
}

// completionProxy removes a partially written destination when err is
// non-nil, then releases the job and reports err. A failed removal is only
// logged; the caller always receives the conversion error.
func (p *Planner) completionProxy(j *job, err error, onComplete Callback) {
	fields := logrus.Fields{
		"function":    "Planner.completionProxy",
		"destination": j.dst,
		"strategy":    j.strategy.String(),
		"elapsed":     time.Since(j.started).String(),
	}

	if err != nil && p.fs.Exists(j.dst) {
		p.log.WithFields(fields).Warn("Deleting destination after failed conversion")
		if rmErr := p.fs.Remove(j.dst); rmErr != nil {
			cleanup := newError(ErrIO, OpCleanup, j.dst, rmErr)
			p.log.WithFields(fields).WithField("error", cleanup.Error()).Error("Failed to remove destination")
		}
	}

	p.inflight.Store(nil)

	if err != nil {
		p.log.WithFields(fields).WithField("error", err.Error()).Info("Conversion failed")
	} else {
		p.log.WithFields(fields).Info("Conversion completed")
	}
	onComplete(err)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
