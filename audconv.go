// SPDX-License-Identifier: EPL-2.0

package audconv

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audconv/codec"
	"github.com/ik5/audconv/codec/ffmpeg"
	"github.com/ik5/audconv/codec/native"
	"github.com/ik5/audconv/config"
	"github.com/ik5/audconv/convert"
)

// Services returns the default prober and transcoder for cfg. ffmpeg is
// only added when it is enabled and both executables resolve.
func Services(cfg config.Config, log logrus.FieldLogger) (convert.Prober, *codec.Router) {
	prober := codec.Chain{native.NewProber()}
	backends := []codec.Backend{native.NewTranscoder(native.WithLogger(log))}

	if cfg.FFmpeg.Disabled {
		return prober, codec.NewRouter(log, backends...)
	}

	ffmpegPath, err := ffmpeg.LookPath(cfg.FFmpeg.Path)
	if err != nil {
		log.WithFields(logrus.Fields{
			"function": "Services",
			"error":    err.Error(),
		}).Debug("ffmpeg not found, compressed output unavailable")
		return prober, codec.NewRouter(log, backends...)
	}
	backends = append(backends, ffmpeg.NewTranscoder(ffmpegPath, ffmpeg.WithLogger(log)))

	probePath, err := ffmpeg.LookPath(cfg.FFmpeg.ProbePath)
	if err != nil {
		log.WithFields(logrus.Fields{
			"function": "Services",
			"error":    err.Error(),
		}).Debug("ffprobe not found, probing natively only")
	} else {
		prober = append(prober, ffmpeg.NewProber(probePath, ffmpeg.WithLogger(log)))
	}

	return prober, codec.NewRouter(log, backends...)
}

// NewPlanner builds a Planner on the default services for cfg, logging
// through cfg.NewLogger unless opts say otherwise.
func NewPlanner(cfg config.Config, opts ...convert.PlannerOption) *convert.Planner {
	log := cfg.NewLogger()
	prober, router := Services(cfg, log)

	return convert.NewPlanner(router, prober, append([]convert.PlannerOption{convert.WithLogger(log)}, opts...)...)
}

// Probe describes the audio stream in path using the default services.
func Probe(ctx context.Context, cfg config.Config, path string) (convert.StreamInfo, error) {
	prober, _ := Services(cfg, cfg.NewLogger())
	return prober.Probe(ctx, path)
}

// ConvertWith converts src to dst and blocks until it is done. A nil opts
// uses cfg.Options. cfg.Timeout, when set, bounds the conversion.
func ConvertWith(ctx context.Context, cfg config.Config, src, dst string, opts *convert.Options) error {
	if opts == nil {
		opts = cfg.Options()
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	return NewPlanner(cfg).Run(ctx, convert.Request{
		Source:      src,
		Destination: dst,
		Options:     opts,
	})
}

// Convert is ConvertWith using config.Default and the environment.
func Convert(ctx context.Context, src, dst string, opts *convert.Options) error {
	cfg := config.Default()
	cfg.ApplyEnv()
	return ConvertWith(ctx, cfg, src, dst, opts)
}
