// SPDX-License-Identifier: MIT

package mlio

import (
	"github.com/ManuGH/mlkit/internal/fsutil"
	mlog "github.com/ManuGH/mlkit/internal/log"
	"github.com/ManuGH/mlkit/internal/metrics"
)

// CreateDirectories creates each path, with missing parents, in order.
// Existing directories are left alone. With verbose set, every path is
// logged; otherwise the call is silent on success. It stops at the first
// path that cannot be created (for example because a file is in the way).
func (x *IO) CreateDirectories(paths []string, verbose bool) error {
	for _, path := range paths {
		if err := x.checkPath(OpCreateDirectories, path); err != nil {
			return err
		}
		created, err := fsutil.MkdirAll(path)
		if err != nil {
			return x.fail(OpCreateDirectories, path, ErrIO, err)
		}
		if verbose {
			msg := "directory already exists"
			if created {
				msg = "directory created"
			}
			x.logger.Info().
				Str(mlog.FieldOp, OpCreateDirectories).
				Str(mlog.FieldPath, path).
				Bool("created", created).
				Msg(msg)
		}
	}
	metrics.RecordOperation(OpCreateDirectories)
	return nil
}
