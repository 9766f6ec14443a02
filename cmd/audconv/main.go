// SPDX-License-Identifier: EPL-2.0

// Command audconv converts an audio file into another container, sample
// rate, bit depth or channel layout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ik5/audconv"
	"github.com/ik5/audconv/config"
	"github.com/ik5/audconv/convert"
	"github.com/ik5/audconv/format"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// cliFlags holds everything parsed from the command line.
type cliFlags struct {
	configPath string
	logLevel   string
	ffmpeg     string
	ffprobe    string
	timeout    time.Duration
	probe      bool
	version    bool

	format      string
	rate        float64
	bits        int
	bitRule     string
	channels    int
	interleaved optionalBool
	bitRate     int
	noOverwrite bool

	args []string
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, error) {
	var f cliFlags

	fs := flag.NewFlagSet("audconv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: audconv [flags] <source> <destination>")
		fmt.Fprintln(stderr, "       audconv -probe <source>")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}

	fs.StringVar(&f.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&f.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	fs.StringVar(&f.ffmpeg, "ffmpeg", "", "ffmpeg executable")
	fs.StringVar(&f.ffprobe, "ffprobe", "", "ffprobe executable")
	fs.DurationVar(&f.timeout, "timeout", 0, "abort the conversion after this long")
	fs.BoolVar(&f.probe, "probe", false, "print the source stream description and exit")
	fs.BoolVar(&f.version, "version", false, "print the version and exit")

	fs.StringVar(&f.format, "format", "", "output format, inferred from the destination when empty")
	fs.Float64Var(&f.rate, "rate", 0, "output sample rate in Hz, 0 keeps the source rate")
	fs.IntVar(&f.bits, "bits", 0, "output bit depth for PCM formats, 0 keeps the source depth")
	fs.StringVar(&f.bitRule, "bit-rule", "", "bit depth rule: lte or any")
	fs.IntVar(&f.channels, "channels", 0, "output channel count, 0 keeps the source count")
	fs.Var(&f.interleaved, "interleaved", "PCM sample layout, true or false; unset keeps the source layout")
	fs.IntVar(&f.bitRate, "bitrate", 0, "bit rate for compressed output in bits per second")
	fs.BoolVar(&f.noOverwrite, "no-overwrite", false, "fail when the destination exists")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	f.args = fs.Args()

	switch {
	case f.version:
	case f.probe && len(f.args) != 1:
		return nil, errors.New("-probe takes exactly one source file")
	case !f.probe && len(f.args) != 2:
		fs.Usage()
		return nil, errors.New("source and destination are required")
	}

	return &f, nil
}

// loadConfig applies the flags on top of the configuration file.
func (f *cliFlags) loadConfig() (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}

	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.ffmpeg != "" {
		cfg.FFmpeg.Path = f.ffmpeg
	}
	if f.ffprobe != "" {
		cfg.FFmpeg.ProbePath = f.ffprobe
	}
	if f.timeout != 0 {
		cfg.Timeout = f.timeout
	}

	return cfg, cfg.Validate()
}

func (f *cliFlags) options(cfg config.Config) (*convert.Options, error) {
	opts := cfg.Options()

	if f.format != "" {
		kind := format.FromExtension(f.format)
		if !format.IsOutput(kind) {
			return nil, fmt.Errorf("unknown output format %q", f.format)
		}
		opts.Format = kind
	}
	if f.bitRule != "" {
		rule, err := convert.ParseBitDepthRule(f.bitRule)
		if err != nil {
			return nil, err
		}
		opts.BitDepthRule = rule
	}
	if f.bitRate > 0 {
		opts.SetBitRate(f.bitRate)
	}
	if f.interleaved.set {
		opts.SetInterleaved(f.interleaved.value)
	}
	if f.noOverwrite {
		opts.EraseExistingOutput = false
	}

	opts.SampleRate = f.rate
	opts.BitDepth = f.bits
	opts.Channels = f.channels

	return opts, nil
}

// streamReport is the -probe output.
type streamReport struct {
	Format     string  `yaml:"format"`
	SampleRate float64 `yaml:"sample_rate"`
	BitDepth   int     `yaml:"bit_depth"`
	Channels   int     `yaml:"channels"`
	Planar     bool    `yaml:"planar"`
	Duration   string  `yaml:"duration"`
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "audconv: %v\n", err)
		return 1
	}
	if f.version {
		fmt.Fprintln(stdout, "audconv v"+version)
		return 0
	}

	cfg, err := f.loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "audconv: %v\n", err)
		return 1
	}

	if f.probe {
		info, err := audconv.Probe(ctx, cfg, f.args[0])
		if err != nil {
			fmt.Fprintf(stderr, "audconv: %v\n", err)
			return 1
		}

		out, err := yaml.Marshal(streamReport{
			Format:     info.Format.String(),
			SampleRate: info.SampleRate,
			BitDepth:   info.BitDepth,
			Channels:   info.Channels,
			Planar:     info.Planar,
			Duration:   info.Duration.String(),
		})
		if err != nil {
			fmt.Fprintf(stderr, "audconv: %v\n", err)
			return 1
		}
		_, _ = stdout.Write(out)
		return 0
	}

	opts, err := f.options(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "audconv: %v\n", err)
		return 1
	}

	if err := audconv.ConvertWith(ctx, cfg, f.args[0], f.args[1], opts); err != nil {
		fmt.Fprintf(stderr, "audconv: %v\n", err)
		return 1
	}
	return 0
}

// optionalBool is a flag.Value that remembers whether it was set.
type optionalBool struct {
	set   bool
	value bool
}

func (b *optionalBool) String() string {
	if !b.set {
		return ""
	}
	return strconv.FormatBool(b.value)
}

func (b *optionalBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("invalid boolean %q", s)
	}
	b.set, b.value = true, v
	return nil
}

func (b *optionalBool) IsBoolFlag() bool { return true }
