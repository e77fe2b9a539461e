// SPDX-License-Identifier: MIT

package mlio

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification. Every error returned by this
// package is an *OpError that matches exactly one of them via errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrMalformedConfig = errors.New("malformed config")
	ErrInvalidPath     = errors.New("invalid path")
	ErrIO              = errors.New("i/o error")
	ErrDeserialization = errors.New("deserialization failed")
	ErrInvalidArgument = errors.New("invalid argument")
)

// OpError wraps an underlying error with the operation, its kind and the
// path involved.
type OpError struct {
	Op   string
	Kind error // one of the sentinels above
	Path string
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %v", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

// Unwrap exposes both the kind and the cause, so errors.Is works against
// the sentinels as well as against fs.ErrNotExist and friends.
func (e *OpError) Unwrap() []error {
	if e == nil {
		return nil
	}
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindName returns a stable label for the sentinel err matches, for use in
// metrics and log fields.
func KindName(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrMalformedConfig):
		return "malformed_config"
	case errors.Is(err, ErrInvalidPath):
		return "invalid_path"
	case errors.Is(err, ErrDeserialization):
		return "deserialization"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrIO):
		return "io"
	default:
		return "unknown"
	}
}
