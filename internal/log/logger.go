// SPDX-License-Identifier: MIT

// Package log provides the process-wide structured logger.
//
// Configure must run once at process start, before the first helper call.
// Close flushes and releases the log file (if any) at process exit. Until
// Configure is called, Base returns an info-level JSON logger on stdout.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config captures options for configuring the global logger.
type Config struct {
	Level   string    // optional log level ("debug", "info", etc.)
	Format  string    // "json" (default) or "console"
	Output  io.Writer // optional writer (defaults to os.Stdout)
	File    string    // optional file path; log lines are appended and Output is ignored
	Service string    // optional service name attached to every log entry
	Version string    // optional version attached to every log entry
}

var (
	mu      sync.RWMutex
	base    zerolog.Logger
	logFile *os.File
	ready   bool
)

// Configure replaces the global logger. Calling it again closes any file
// opened by the previous call.
func Configure(cfg Config) error {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return fmt.Errorf("parse log level %q: %w", cfg.Level, err)
		}
		level = parsed
	} else if env := os.Getenv("LOG_LEVEL"); env != "" {
		if parsed, err := zerolog.ParseLevel(env); err == nil {
			level = parsed
		}
	}

	var (
		writer = cfg.Output
		f      *os.File
	)
	if cfg.File != "" {
		// #nosec G304 -- log file path is provided by the operator
		opened, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		f = opened
		writer = opened
	}
	if writer == nil {
		writer = os.Stdout
	}
	if strings.EqualFold(cfg.Format, "console") {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC3339, NoColor: f != nil}
	}

	service := cfg.Service
	if service == "" {
		service = os.Getenv("LOG_SERVICE")
		if service == "" {
			service = "mlkit"
		}
	}

	ctx := zerolog.New(writer).Level(level).With().
		Timestamp().
		Str("service", service)
	if cfg.Version != "" {
		ctx = ctx.Str("version", cfg.Version)
	}

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
	}
	zerolog.TimeFieldFormat = time.RFC3339
	base = ctx.Logger()
	logFile = f
	ready = true
	return nil
}

// Close releases the log file opened by Configure and resets the logger
// to the stdout default.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	var err error
	if logFile != nil {
		err = logFile.Close()
		logFile = nil
	}
	ready = false
	return err
}

func logger() zerolog.Logger {
	mu.RLock()
	if ready {
		l := base
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	return zerolog.New(os.Stdout).Level(zerolog.InfoLevel).With().
		Timestamp().
		Str("service", "mlkit").
		Logger()
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return logger().With().Str(FieldComponent, component).Logger()
}
