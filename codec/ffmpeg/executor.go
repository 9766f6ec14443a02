// SPDX-License-Identifier: EPL-2.0

package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
)

// ExecResult holds the outcome of a single process invocation.
type ExecResult struct {
	Stdout []byte
	Stderr string
	Err    error
}

// Runner runs args[0] with the remaining arguments.
type Runner func(ctx context.Context, args []string) ExecResult

// Execute is the Runner backed by os/exec. The process is killed when ctx
// is done. A missing executable is reported as ErrUnavailable.
func Execute(ctx context.Context, args []string) ExecResult {
	if len(args) == 0 {
		return ExecResult{Err: fmt.Errorf("ffmpeg: empty command")}
	}

	// #nosec G204 - binary comes from configuration, arguments are built internally
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		// the executable itself is gone, ffmpeg never ran
		err = fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return ExecResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.String(),
		Err:    err,
	}
}

// LookPath resolves name the way exec.CommandContext would, wrapping a
// failure in ErrUnavailable.
func LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return path, nil
}
