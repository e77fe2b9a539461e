// SPDX-License-Identifier: MIT

// Package config provides configuration management for the mlkit CLI.
//
// Values are resolved with precedence ENV > File > Defaults by Loader and
// checked by Validate.
package config

// Environment variables. EnvConfigPath names the default config file for the
// CLI; the rest are read by Loader.
const (
	EnvConfigPath          = "MLKIT_CONFIG"
	EnvLogLevel            = "MLKIT_LOG_LEVEL"
	EnvLogFormat           = "MLKIT_LOG_FORMAT"
	EnvLogFile             = "MLKIT_LOG_FILE"
	EnvMetricsFile         = "MLKIT_METRICS_FILE"
	EnvArtifactsRoot       = "MLKIT_ARTIFACTS_ROOT"
	EnvDirectories         = "MLKIT_DIRECTORIES"
	EnvArtifactCompression = "MLKIT_ARTIFACT_COMPRESSION"
)

// Defaults.
const (
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "json"
	DefaultArtifactsRoot       = "artifacts"
	DefaultArtifactCompression = "none"
)

// FileConfig is the on-disk YAML shape. Zero values mean "not set".
type FileConfig struct {
	LogLevel      string              `yaml:"logLevel,omitempty"`
	LogFormat     string              `yaml:"logFormat,omitempty"`
	LogFile       string              `yaml:"logFile,omitempty"`
	MetricsFile   string              `yaml:"metricsFile,omitempty"`
	ArtifactsRoot string              `yaml:"artifactsRoot,omitempty"`
	Directories   []string            `yaml:"directories,omitempty"`
	Artifacts     ArtifactsFileConfig `yaml:"artifacts,omitempty"`
}

// ArtifactsFileConfig groups artifact serialization settings.
type ArtifactsFileConfig struct {
	Compression string `yaml:"compression,omitempty"`
}

// AppConfig is the effective configuration after defaults, file and env
// have been merged.
type AppConfig struct {
	LogLevel  string `yaml:"logLevel" json:"logLevel"`
	LogFormat string `yaml:"logFormat" json:"logFormat"`
	LogFile   string `yaml:"logFile,omitempty" json:"logFile,omitempty"`
	// MetricsFile receives the Prometheus text exposition after each CLI command.
	MetricsFile   string `yaml:"metricsFile,omitempty" json:"metricsFile,omitempty"`
	ArtifactsRoot string `yaml:"artifactsRoot" json:"artifactsRoot"`
	// Directories are absolute; relative entries were resolved under ArtifactsRoot.
	Directories         []string `yaml:"directories,omitempty" json:"directories,omitempty"`
	ArtifactCompression string   `yaml:"artifactCompression" json:"artifactCompression"`
}
