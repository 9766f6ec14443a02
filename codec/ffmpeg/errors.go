// SPDX-License-Identifier: EPL-2.0

package ffmpeg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ik5/audconv/codec"
)

var (
	ErrUnsupportedFormat = errors.New("ffmpeg: output format is not supported")
	ErrNoAudioStream     = errors.New("ffmpeg: no audio stream")
	ErrUnavailable       = fmt.Errorf("ffmpeg: executable not available: %w", codec.ErrSkip)
)

// ExecError reports a failed ffmpeg or ffprobe invocation.
type ExecError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *ExecError) Error() string {
	name := "ffmpeg"
	if len(e.Args) > 0 {
		name = e.Args[0]
	}

	msg := fmt.Sprintf("%s: %v", name, e.Err)
	if line := lastLine(e.Stderr); line != "" {
		msg += ": " + line
	}
	return msg
}

func (e *ExecError) Unwrap() error { return e.Err }

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
