// SPDX-License-Identifier: MIT

package mlio

import (
	"errors"

	"github.com/ManuGH/mlkit/internal/fsutil"
	mlog "github.com/ManuGH/mlkit/internal/log"
)

// GetSize returns the size in bytes of the regular file at path, or the
// sum of the sizes of a directory's immediate entries. Subdirectories are
// not descended into.
func (x *IO) GetSize(path string) (int64, error) {
	if err := x.checkPath(OpGetSize, path); err != nil {
		return 0, err
	}

	n, err := fsutil.Size(path)
	if err != nil {
		if errors.Is(err, fsutil.ErrNotFileOrDir) {
			return 0, x.fail(OpGetSize, path, ErrInvalidPath, err)
		}
		return 0, x.fail(OpGetSize, path, ErrIO, err)
	}

	x.done(OpGetSize, path).
		Int64(mlog.FieldSize, n).
		Str("human", fsutil.FormatSize(n)).
		Msg("size computed")
	return n, nil
}
