// SPDX-License-Identifier: EPL-2.0

package convert

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/ik5/audconv/format"
)

// StreamInfo is the stream description read from an existing audio file.
type StreamInfo struct {
	Format     format.Kind
	SampleRate float64
	// BitDepth is 0 for compressed streams without a PCM word size.
	BitDepth int
	Channels int
	// Planar is set when channels are stored non-interleaved.
	Planar   bool
	Duration time.Duration
}

// Prober reads the stream description of an audio file. Implementations
// return an error matching ErrNotFound when path does not exist.
type Prober interface {
	Probe(ctx context.Context, path string) (StreamInfo, error)
}

// Transcoder performs the byte level work of a conversion. Each method
// blocks until dst is complete or the conversion failed; the planner
// calls them from a background goroutine.
type Transcoder interface {
	TranscodeToPCM(ctx context.Context, src, dst string, opts Resolved) error
	TranscodePCMToCompressed(ctx context.Context, src, dst string, opts Resolved) error
	TranscodeCompressedToCompressed(ctx context.Context, src, dst string, opts Resolved) error
}

// FileSystem is the set of file operations the planner and the codec
// services need.
type FileSystem interface {
	Exists(path string) bool
	Remove(path string) error
	Rename(oldPath, newPath string) error
}

// OSFileSystem implements FileSystem on top of the os package.
type OSFileSystem struct{}

func (OSFileSystem) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

func (OSFileSystem) Remove(path string) error { return os.Remove(path) }

func (OSFileSystem) Rename(oldPath, newPath string) error { return os.Rename(oldPath, newPath) }
