// SPDX-License-Identifier: MIT

// Command mlkit exposes the mlio configuration and artifact helpers on the
// command line.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ManuGH/mlkit/internal/config"
	"github.com/ManuGH/mlkit/internal/log"
	"github.com/ManuGH/mlkit/internal/metrics"
	"github.com/ManuGH/mlkit/internal/version"
	"github.com/ManuGH/mlkit/mlio"
	"github.com/prometheus/client_golang/prometheus"
)

// Exit codes.
const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type cli struct {
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdout, stderr io.Writer) int {
	c := &cli{stdout: stdout, stderr: stderr}

	if len(args) == 0 {
		c.printUsage()
		return exitUsage
	}

	switch args[0] {
	case "-h", "--help", "help":
		c.printUsage()
		return exitOK
	case "version", "--version":
		fmt.Fprintln(stdout, version.String())
		return exitOK
	case "config":
		return c.runConfig(args[1:])
	case "init":
		return c.runInit(args[1:])
	case "yaml":
		return c.runYAML(args[1:])
	case "json":
		return c.runJSON(args[1:])
	case "size":
		return c.runSize(args[1:])
	case "artifact":
		return c.runArtifact(args[1:])
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		c.printUsage()
		return exitUsage
	}
}

func (c *cli) printUsage() {
	fmt.Fprintln(c.stderr, "Usage:")
	fmt.Fprintln(c.stderr, "  mlkit version")
	fmt.Fprintln(c.stderr, "  mlkit config validate [--file|-f config.yaml]")
	fmt.Fprintln(c.stderr, "  mlkit config dump [--file|-f config.yaml] [--format=yaml|json]")
	fmt.Fprintln(c.stderr, "  mlkit init [--file|-f config.yaml] [-q]")
	fmt.Fprintln(c.stderr, "  mlkit yaml [-key a.b] FILE")
	fmt.Fprintln(c.stderr, "  mlkit json FILE")
	fmt.Fprintln(c.stderr, "  mlkit size [-h] PATH...")
	fmt.Fprintln(c.stderr, "  mlkit artifact inspect FILE")
	fmt.Fprintln(c.stderr)
	fmt.Fprintf(c.stderr, "Without --file the configuration is read from $%s (if set).\n", config.EnvConfigPath)
}

func resolveConfigPath(flagValue string) string {
	if p := strings.TrimSpace(flagValue); p != "" {
		return p
	}
	return strings.TrimSpace(os.Getenv(config.EnvConfigPath))
}

func displayPath(p string) string {
	if p == "" {
		return "<defaults>"
	}
	return p
}

// setup loads the effective configuration, configures the process logger
// and builds the IO used by the command. Callers must call log.Close when
// err is nil.
func (c *cli) setup(configPath string) (config.AppConfig, *mlio.IO, error) {
	cfg, err := config.NewLoader(configPath).Load()
	if err != nil {
		return cfg, nil, fmt.Errorf("configuration error in %s:\n  %w", displayPath(configPath), err)
	}

	codec, err := mlio.ParseCodec(cfg.ArtifactCompression)
	if err != nil {
		return cfg, nil, err
	}

	if err := log.Configure(log.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  c.stderr,
		File:    cfg.LogFile,
		Version: version.Version,
	}); err != nil {
		return cfg, nil, fmt.Errorf("configure logging: %w", err)
	}
	logger := log.WithComponent("cli")
	logger.Debug().
		Str(log.FieldConfig, displayPath(configPath)).
		Str(log.FieldLogFile, cfg.LogFile).
		Str(log.FieldMetrics, cfg.MetricsFile).
		Msg("logger configured")

	x := mlio.New(
		mlio.WithLogger(log.WithComponent("mlio")),
		mlio.WithCodec(codec),
	)
	return cfg, x, nil
}

// withIO runs fn against a configured IO and maps its error to an exit code.
// When a metrics file is configured it is written after fn, whether or not
// fn failed.
func (c *cli) withIO(configPath string, fn func(cfg config.AppConfig, x *mlio.IO) error) int {
	cfg, x, err := c.setup(configPath)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return exitFail
	}
	defer func() { _ = log.Close() }()

	code := exitOK
	if err := fn(cfg, x); err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		code = exitFail
	}
	if cfg.MetricsFile != "" {
		if err := flushMetrics(cfg.MetricsFile); err != nil {
			fmt.Fprintf(c.stderr, "Error: %v\n", err)
			code = exitFail
		}
	}
	return code
}

func flushMetrics(path string) error {
	if err := metrics.WriteTextfile(path); err != nil {
		return err
	}
	totals, err := metrics.OperationTotals(prometheus.DefaultGatherer)
	if err != nil {
		return err
	}
	var ok, failed float64
	for key, n := range totals {
		if key.Outcome == metrics.OutcomeFailure {
			failed += n
		} else {
			ok += n
		}
	}
	logger := log.WithComponent("cli")
	logger.Debug().
		Str(log.FieldMetrics, path).
		Float64("succeeded", ok).
		Float64("failed", failed).
		Msg("metrics written")
	return nil
}
