// SPDX-License-Identifier: EPL-2.0

package native

import (
	"errors"
	"fmt"

	"github.com/ik5/audconv/codec"
)

var (
	ErrNoProbe            = fmt.Errorf("native: no prober for format: %w", codec.ErrSkip)
	ErrNoDecoder          = errors.New("native: no decoder for format")
	ErrNoEncoder          = errors.New("native: no encoder for format")
	ErrEncoderUnavailable = errors.New("native: compressed encoding is not available")
)
