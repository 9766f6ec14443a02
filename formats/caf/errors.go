// SPDX-License-Identifier: EPL-2.0

package caf

import "errors"

var (
	ErrNotCafFile          = errors.New("not a CAF file")
	ErrMissingDesc         = errors.New("CAF file has no desc chunk before its data")
	ErrNotLinearPCM        = errors.New("CAF stream is not linear PCM")
	ErrUnsupportedBitDepth = errors.New("unsupported CAF bit depth")
)
