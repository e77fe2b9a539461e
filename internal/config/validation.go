// SPDX-License-Identifier: MIT

package config

import (
	"fmt"

	"github.com/ManuGH/mlkit/internal/validate"
)

// Validate validates an AppConfig using the centralized validation package
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.LogLevel("LogLevel", cfg.LogLevel)
	v.OneOf("LogFormat", cfg.LogFormat, []string{"json", "console"})
	v.Path("LogFile", cfg.LogFile)
	v.Path("MetricsFile", cfg.MetricsFile)

	v.NotEmpty("ArtifactsRoot", cfg.ArtifactsRoot)
	v.Path("ArtifactsRoot", cfg.ArtifactsRoot)

	for i, d := range cfg.Directories {
		field := fmt.Sprintf("Directories[%d]", i)
		v.NotEmpty(field, d)
		v.Path(field, d)
	}

	v.OneOf("ArtifactCompression", cfg.ArtifactCompression, []string{"none", "zstd"})

	return v.Err()
}
