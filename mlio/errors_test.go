// SPDX-License-Identifier: MIT

package mlio

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpError_Error(t *testing.T) {
	err := &OpError{Op: OpLoadJSON, Kind: ErrNotFound, Path: "/x.json", Err: fs.ErrNotExist}
	assert.Equal(t, "load_json: not found (path=/x.json): file does not exist", err.Error())

	var nilErr *OpError
	assert.Equal(t, "<nil>", nilErr.Error())
	assert.Nil(t, nilErr.Unwrap())
}

func TestOpError_IsMatchesKindAndCause(t *testing.T) {
	var err error = &OpError{Op: OpReadConfig, Kind: ErrNotFound, Err: fs.ErrNotExist}
	wrapped := fmt.Errorf("outer: %w", err)

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.True(t, errors.Is(wrapped, fs.ErrNotExist))
	assert.False(t, errors.Is(wrapped, ErrIO))

	var oe *OpError
	assert.True(t, errors.As(wrapped, &oe))
	assert.Equal(t, OpReadConfig, oe.Op)
}

func TestKindName(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&OpError{Kind: ErrNotFound}, "not_found"},
		{&OpError{Kind: ErrMalformedConfig}, "malformed_config"},
		{&OpError{Kind: ErrInvalidPath}, "invalid_path"},
		{&OpError{Kind: ErrIO}, "io"},
		{&OpError{Kind: ErrDeserialization}, "deserialization"},
		{&OpError{Kind: ErrInvalidArgument}, "invalid_argument"},
		{errors.New("other"), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindName(tt.err))
	}
}
