// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ik5/audconv/convert"
)

// StagingPath returns a unique sibling of dst that a backend writes to
// before renaming it into place.
func StagingPath(dst string) string {
	return dst + "." + uuid.NewString() + ".part"
}

// Commit moves a finished staging file to dst.
func Commit(fs convert.FileSystem, staging, dst string) error {
	if err := fs.Rename(staging, dst); err != nil {
		return fmt.Errorf("codec: committing %s: %w", dst, err)
	}
	return nil
}

// Discard removes a staging file, ignoring one that was never created.
func Discard(fs convert.FileSystem, staging string) error {
	if !fs.Exists(staging) {
		return nil
	}
	return fs.Remove(staging)
}
