// SPDX-License-Identifier: EPL-2.0

package convert

import (
	"context"
	"errors"
	"os"
	"sync"
)

type transcodeCall struct {
	strategy Strategy
	src, dst string
	opts     Resolved
}

// fakeTranscoder records calls, optionally writes the destination and
// returns err. When block is non-nil it waits for block to close or ctx to
// end before finishing.
type fakeTranscoder struct {
	mu    sync.Mutex
	calls []transcodeCall

	write bool
	err   error
	block chan struct{}
	// started is closed once the first call begins.
	started chan struct{}
	once    sync.Once
	// finish runs after the destination is written, before returning.
	finish func()
}

func (f *fakeTranscoder) do(ctx context.Context, s Strategy, src, dst string, opts Resolved) error {
	f.mu.Lock()
	f.calls = append(f.calls, transcodeCall{strategy: s, src: src, dst: dst, opts: opts})
	f.mu.Unlock()

	if f.started != nil {
		f.once.Do(func() { close(f.started) })
	}

	if f.write {
		if err := os.WriteFile(dst, []byte("partial"), 0o644); err != nil {
			return err
		}
	}

	if f.finish != nil {
		f.finish()
	}

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.err
}

func (f *fakeTranscoder) TranscodeToPCM(ctx context.Context, src, dst string, opts Resolved) error {
	return f.do(ctx, ToPCM, src, dst, opts)
}

func (f *fakeTranscoder) TranscodePCMToCompressed(ctx context.Context, src, dst string, opts Resolved) error {
	return f.do(ctx, PCMToCompressed, src, dst, opts)
}

func (f *fakeTranscoder) TranscodeCompressedToCompressed(ctx context.Context, src, dst string, opts Resolved) error {
	return f.do(ctx, CompressedToCompressed, src, dst, opts)
}

func (f *fakeTranscoder) Calls() []transcodeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]transcodeCall(nil), f.calls...)
}

type fakeProber struct {
	mu    sync.Mutex
	info  StreamInfo
	err   error
	calls int
}

func (p *fakeProber) Probe(_ context.Context, _ string) (StreamInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.info, p.err
}

func (p *fakeProber) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// stuckFS is an OSFileSystem whose Remove always fails.
type stuckFS struct{ OSFileSystem }

var errStuck = errors.New("device busy")

func (stuckFS) Remove(string) error { return errStuck }
