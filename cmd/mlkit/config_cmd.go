// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"strings"

	"github.com/ManuGH/mlkit/internal/config"
	"github.com/ManuGH/mlkit/mlio"
	"gopkg.in/yaml.v3"
)

func (c *cli) runConfig(args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		c.printConfigUsage()
		return exitOK
	}

	switch args[0] {
	case "validate":
		return c.runConfigValidate(args[1:])
	case "dump":
		return c.runConfigDump(args[1:])
	default:
		fmt.Fprintf(c.stderr, "Unknown subcommand: %s\n\n", args[0])
		c.printConfigUsage()
		return exitUsage
	}
}

func (c *cli) printConfigUsage() {
	fmt.Fprintln(c.stderr, "Usage:")
	fmt.Fprintln(c.stderr, "  mlkit config validate [--file|-f config.yaml]")
	fmt.Fprintln(c.stderr, "  mlkit config dump [--file|-f config.yaml] [--format=yaml|json]")
}

func (c *cli) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("mlkit "+name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

func fileFlag(fs *flag.FlagSet) *string {
	var file string
	fs.StringVar(&file, "file", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")
	return &file
}

func (c *cli) runConfigValidate(args []string) int {
	fs := c.newFlagSet("config validate")
	file := fileFlag(fs)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	configPath := resolveConfigPath(*file)
	if configPath == "" {
		fmt.Fprintf(c.stderr, "Error: --file is required (%s is not set)\n", config.EnvConfigPath)
		return exitUsage
	}

	loader := config.NewLoader(configPath)
	if _, err := loader.Load(); err != nil {
		fmt.Fprintf(c.stderr, "Configuration error in %s:\n  %v\n", configPath, err)
		return exitFail
	}

	fmt.Fprintf(c.stdout, "✓ %s is valid\n", configPath)
	for _, key := range loader.EnvOverrides() {
		fmt.Fprintf(c.stdout, "  overridden by $%s\n", key)
	}
	return exitOK
}

func (c *cli) runConfigDump(args []string) int {
	fs := c.newFlagSet("config dump")
	file := fileFlag(fs)
	var format string
	fs.StringVar(&format, "format", "yaml", "output format: yaml or json")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	configPath := resolveConfigPath(*file)
	cfg, err := config.NewLoader(configPath).Load()
	if err != nil {
		fmt.Fprintf(c.stderr, "Configuration error in %s:\n  %v\n", displayPath(configPath), err)
		return exitFail
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(c.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			fmt.Fprintf(c.stderr, "Failed to encode YAML: %v\n", err)
			return exitFail
		}
		_ = enc.Close()
		return exitOK
	case "json":
		enc := json.NewEncoder(c.stdout)
		enc.SetIndent("", mlio.JSONIndent)
		if err := enc.Encode(cfg); err != nil {
			fmt.Fprintf(c.stderr, "Failed to encode JSON: %v\n", err)
			return exitFail
		}
		return exitOK
	default:
		fmt.Fprintf(c.stderr, "Error: unsupported format %q (use yaml or json)\n", format)
		return exitUsage
	}
}
