// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ManuGH/mlkit/internal/log"
	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	ConsumedEnvKeys map[string]struct{} // Mechanical tracking of consumed keys
}

// NewLoader creates a new configuration loader. An empty configPath skips
// the file layer.
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath:      configPath,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envList(key string, defaultVal []string) []string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseList(key, defaultVal)
}

// EnvOverrides lists, sorted, the consumed environment variables that were
// set to a non-empty value during the last Load.
func (l *Loader) EnvOverrides() []string {
	var keys []string
	for key := range l.ConsumedEnvKeys {
		if strings.TrimSpace(os.Getenv(key)) != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Load loads configuration with precedence: ENV > File > Defaults
// It enforces Strict Validated Order: Parse File (Strict) -> Apply Env -> Resolve -> Validate
func (l *Loader) Load() (AppConfig, error) {
	cfg := AppConfig{}

	// 1. Set defaults
	setDefaults(&cfg)

	// 2. Load from file (if provided)
	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		mergeFileConfig(&cfg, fileCfg)
	}

	// 3. Override with environment variables (highest priority)
	l.mergeEnvConfig(&cfg)

	// 4. Absolute paths only from here on
	if err := resolvePaths(&cfg); err != nil {
		return cfg, fmt.Errorf("resolve paths: %w", err)
	}

	// 5. Validate
	if err := Validate(cfg); err != nil {
		return cfg, err
	}

	logger := log.WithComponent("config")
	logger.Debug().
		Str(log.FieldConfig, l.configPath).
		Str("artifacts_root", cfg.ArtifactsRoot).
		Int("directories", len(cfg.Directories)).
		Msg("configuration loaded")
	return cfg, nil
}

func setDefaults(cfg *AppConfig) {
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.ArtifactsRoot = DefaultArtifactsRoot
	cfg.ArtifactCompression = DefaultArtifactCompression
}

// loadFile parses path strictly: unknown keys and extra documents fail.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("%w: %s (only YAML supported)", ErrUnsupportedFormat, ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // Reject unknown fields

	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("strict config parse error: %w: %v", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	// Strict: Ensure no multiple documents or trailing content
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}

	return &fileCfg, nil
}

func mergeFileConfig(dst *AppConfig, src *FileConfig) {
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.LogFormat != "" {
		dst.LogFormat = src.LogFormat
	}
	if src.LogFile != "" {
		dst.LogFile = expandEnv(src.LogFile)
	}
	if src.MetricsFile != "" {
		dst.MetricsFile = expandEnv(src.MetricsFile)
	}
	if src.ArtifactsRoot != "" {
		dst.ArtifactsRoot = expandEnv(src.ArtifactsRoot)
	}
	if len(src.Directories) > 0 {
		dirs := make([]string, 0, len(src.Directories))
		for _, d := range src.Directories {
			dirs = append(dirs, expandEnv(d))
		}
		dst.Directories = dirs
	}
	if src.Artifacts.Compression != "" {
		dst.ArtifactCompression = src.Artifacts.Compression
	}
}

func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.LogLevel = l.envString(EnvLogLevel, cfg.LogLevel)
	cfg.LogFormat = l.envString(EnvLogFormat, cfg.LogFormat)
	cfg.LogFile = l.envString(EnvLogFile, cfg.LogFile)
	cfg.MetricsFile = l.envString(EnvMetricsFile, cfg.MetricsFile)
	cfg.ArtifactsRoot = l.envString(EnvArtifactsRoot, cfg.ArtifactsRoot)
	cfg.Directories = l.envList(EnvDirectories, cfg.Directories)
	cfg.ArtifactCompression = l.envString(EnvArtifactCompression, cfg.ArtifactCompression)

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	cfg.ArtifactCompression = strings.ToLower(strings.TrimSpace(cfg.ArtifactCompression))
}

func resolvePaths(cfg *AppConfig) error {
	if strings.TrimSpace(cfg.ArtifactsRoot) == "" {
		// left for Validate to report
		return nil
	}
	root, err := filepath.Abs(cfg.ArtifactsRoot)
	if err != nil {
		return err
	}
	cfg.ArtifactsRoot = root

	for i, d := range cfg.Directories {
		if d == "" || filepath.IsAbs(d) {
			continue
		}
		cfg.Directories[i] = filepath.Join(root, d)
	}
	return nil
}
