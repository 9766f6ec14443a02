// SPDX-License-Identifier: EPL-2.0

package audconv_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ik5/audconv"
	"github.com/ik5/audconv/config"
	"github.com/ik5/audconv/convert"
	"github.com/ik5/audconv/internal/audiotest"
)

func Example() {
	dir, err := os.MkdirTemp("", "audconv-example")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(dir)

	// one second of 44.1 kHz stereo
	src := filepath.Join(dir, "take.wav")
	data := audiotest.WAVBytes(44100, 2, 16, audiotest.SineSamples(44100, 2, 16, 44100))
	if err := os.WriteFile(src, data, 0o644); err != nil {
		fmt.Println(err)
		return
	}

	cfg := config.Default()
	cfg.FFmpeg.Disabled = true
	cfg.LogLevel = "error"

	opts := cfg.Options()
	opts.SampleRate = 16000
	opts.Channels = 1

	dst := filepath.Join(dir, "take-16k.wav")
	if err := audconv.ConvertWith(context.Background(), cfg, src, dst, opts); err != nil {
		fmt.Println(err)
		return
	}

	info, err := audconv.Probe(context.Background(), cfg, dst)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%s %.0f Hz, %d ch, %d bit, %v\n", info.Format, info.SampleRate, info.Channels, info.BitDepth, info.Duration)
	// Output: wav 16000 Hz, 1 ch, 16 bit, 1s
}

func Example_planner() {
	cfg := config.Default()
	cfg.FFmpeg.Disabled = true
	cfg.LogLevel = "error"

	planner := audconv.NewPlanner(cfg)

	// validation failures are reported before any file is touched
	err := planner.Run(context.Background(), convert.Request{Source: "in.wav"})
	fmt.Println(err)
	// Output: validate : output file can't be empty
}
