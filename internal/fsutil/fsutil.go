// SPDX-License-Identifier: MIT

// Package fsutil holds the filesystem primitives behind the mlio helpers.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/google/renameio/v2"
)

// ErrNotFileOrDir is returned by Size when nothing usable lives at the path.
var ErrNotFileOrDir = errors.New("path is neither a regular file nor a directory")

// DirPerm is the mode used for directories created by MkdirAll.
const DirPerm fs.FileMode = 0o755

// Kind describes what lives at a path.
type Kind int

const (
	KindMissing Kind = iota
	KindFile
	KindDir
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	case KindOther:
		return "other"
	default:
		return "missing"
	}
}

// Stat reports the kind of path, following symlinks.
// A missing path (including one below a regular file) is not an error;
// any other stat failure is.
func Stat(path string) (Kind, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return KindMissing, nil
		}
		return KindMissing, err
	}
	switch {
	case info.Mode().IsRegular():
		return KindFile, nil
	case info.IsDir():
		return KindDir, nil
	default:
		return KindOther, nil
	}
}

// MkdirAll creates path and any missing parents. created is false when the
// directory already existed.
func MkdirAll(path string) (created bool, err error) {
	kind, err := Stat(path)
	if err != nil {
		return false, err
	}
	if kind == KindDir {
		return false, nil
	}
	if err := os.MkdirAll(path, DirPerm); err != nil {
		return false, err
	}
	return true, nil
}

// Size returns the size of a regular file, or the summed sizes of the
// immediate entries of a directory. Subdirectories contribute their own
// entry size, not their contents.
func Size(path string) (int64, error) {
	kind, err := Stat(path)
	if err != nil {
		return 0, err
	}

	switch kind {
	case KindFile:
		info, err := os.Stat(path)
		if err != nil {
			return 0, err
		}
		return info.Size(), nil
	case KindDir:
		entries, err := os.ReadDir(path)
		if err != nil {
			return 0, fmt.Errorf("read dir: %w", err)
		}
		var total int64
		for _, e := range entries {
			info, err := os.Stat(filepath.Join(path, e.Name()))
			if err != nil {
				return 0, fmt.Errorf("stat entry %s: %w", e.Name(), err)
			}
			total += info.Size()
		}
		return total, nil
	default:
		return 0, fmt.Errorf("%w: %s (%s)", ErrNotFileOrDir, path, kind)
	}
}

// FormatSize renders n bytes for humans, e.g. "1.2 MB".
func FormatSize(n int64) string {
	if n < 0 {
		return "-" + humanize.Bytes(uint64(-n))
	}
	return humanize.Bytes(uint64(n))
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteFileAtomic replaces path with whatever write produces. The content is
// written to a temp file in the same directory, fsynced, then renamed over
// path, so readers see either the old or the new file. The parent directory
// must exist. It returns the number of bytes written.
func WriteFileAtomic(path string, perm fs.FileMode, write func(io.Writer) error) (int64, error) {
	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(perm))
	if err != nil {
		return 0, fmt.Errorf("create pending file: %w", err)
	}
	// No-op once CloseAtomicallyReplace succeeded.
	defer func() { _ = pendingFile.Cleanup() }()

	cw := &countingWriter{w: pendingFile}
	if err := write(cw); err != nil {
		return cw.n, fmt.Errorf("write pending file: %w", err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return cw.n, fmt.Errorf("atomically replace file: %w", err)
	}
	return cw.n, nil
}
