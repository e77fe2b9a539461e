// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ManuGH/mlkit/internal/config"
	"github.com/ManuGH/mlkit/internal/fsutil"
	"github.com/ManuGH/mlkit/mlio"
	"gopkg.in/yaml.v3"
)

// runInit creates the artifacts root and every configured directory.
func (c *cli) runInit(args []string) int {
	fs := c.newFlagSet("init")
	file := fileFlag(fs)
	var quiet bool
	fs.BoolVar(&quiet, "q", false, "do not log each directory")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	return c.withIO(resolveConfigPath(*file), func(cfg config.AppConfig, x *mlio.IO) error {
		dirs := append([]string{cfg.ArtifactsRoot}, cfg.Directories...)
		if err := x.CreateDirectories(dirs, !quiet); err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "✓ %d directories ready under %s\n", len(dirs), cfg.ArtifactsRoot)
		return nil
	})
}

func (c *cli) runYAML(args []string) int {
	fs := c.newFlagSet("yaml")
	var key string
	fs.StringVar(&key, "key", "", "dotted key to print instead of the whole document")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(c.stderr, "Usage: mlkit yaml [-key a.b] FILE")
		return exitUsage
	}

	return c.withIO(resolveConfigPath(""), func(_ config.AppConfig, x *mlio.IO) error {
		box, err := x.ReadConfig(fs.Arg(0))
		if err != nil {
			return err
		}

		var out any = box.Map()
		if key != "" {
			v, ok := box.Lookup(key)
			if !ok {
				return fmt.Errorf("%s: %w", key, mlio.ErrMissingKey)
			}
			out = v
		}

		enc := yaml.NewEncoder(c.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		return enc.Close()
	})
}

func (c *cli) runJSON(args []string) int {
	fs := c.newFlagSet("json")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(c.stderr, "Usage: mlkit json FILE")
		return exitUsage
	}

	return c.withIO(resolveConfigPath(""), func(_ config.AppConfig, x *mlio.IO) error {
		doc, err := x.LoadJSON(fs.Arg(0))
		if err != nil {
			return err
		}
		enc := json.NewEncoder(c.stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", mlio.JSONIndent)
		return enc.Encode(doc)
	})
}

// runSize prints one line per path. Failures are reported and the
// remaining paths are still measured.
func (c *cli) runSize(args []string) int {
	fs := c.newFlagSet("size")
	var human bool
	fs.BoolVar(&human, "h", false, "print sizes in human-readable form")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(c.stderr, "Usage: mlkit size [-h] PATH...")
		return exitUsage
	}

	return c.withIO(resolveConfigPath(""), func(_ config.AppConfig, x *mlio.IO) error {
		var failed int
		for _, p := range fs.Args() {
			n, err := x.GetSize(p)
			if err != nil {
				fmt.Fprintf(c.stderr, "Error: %v\n", err)
				failed++
				continue
			}
			if human {
				fmt.Fprintf(c.stdout, "%s\t%s\n", fsutil.FormatSize(n), p)
			} else {
				fmt.Fprintf(c.stdout, "%d\t%s\n", n, p)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d paths failed", failed, fs.NArg())
		}
		return nil
	})
}

func (c *cli) runArtifact(args []string) int {
	if len(args) == 0 || args[0] != "inspect" {
		fmt.Fprintln(c.stderr, "Usage: mlkit artifact inspect FILE")
		return exitUsage
	}
	fs := c.newFlagSet("artifact inspect")
	if err := fs.Parse(args[1:]); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(c.stderr, "Usage: mlkit artifact inspect FILE")
		return exitUsage
	}

	return c.withIO(resolveConfigPath(""), func(_ config.AppConfig, x *mlio.IO) error {
		info, err := x.InspectArtifact(fs.Arg(0))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "id:             %s\n", info.ID)
		fmt.Fprintf(c.stdout, "type:           %s\n", info.Type)
		fmt.Fprintf(c.stdout, "created_at:     %s\n", info.CreatedAt.UTC().Format(time.RFC3339))
		fmt.Fprintf(c.stdout, "codec:          %s\n", info.Codec)
		fmt.Fprintf(c.stdout, "format_version: %d\n", info.FormatVersion)
		fmt.Fprintf(c.stdout, "size:           %s (%d bytes)\n", fsutil.FormatSize(info.Size), info.Size)
		return nil
	})
}
