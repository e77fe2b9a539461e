// SPDX-License-Identifier: MIT

// Package testutil holds helpers shared by package tests.
package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// RepoRoot returns the repository root by walking up to the nearest go.mod.
func RepoRoot() (string, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("cannot determine caller")
	}
	dir := filepath.Dir(file)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", errors.New("go.mod not found")
}

// MustRepoRoot returns the repo root or fails the test.
func MustRepoRoot(t *testing.T) string {
	t.Helper()
	root, err := RepoRoot()
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}
	return root
}

// RepoFile returns the path of a checked-in file relative to the repo root
// and fails the test if it does not exist.
func RepoFile(t *testing.T, elem ...string) string {
	t.Helper()
	p := filepath.Join(append([]string{MustRepoRoot(t)}, elem...)...)
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("repo file: %v", err)
	}
	return p
}
