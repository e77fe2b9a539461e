// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	FieldComponent = "component"
	FieldOp        = "op"

	// Path fields
	FieldPath    = "path"
	FieldConfig  = "config_path"
	FieldLogFile = "log_file"
	FieldMetrics = "metrics_file"

	// Payload fields
	FieldBytes = "bytes"
	FieldSize  = "size"
	FieldCodec = "codec"
	FieldType  = "type"
	FieldID    = "artifact_id"
	FieldKeys  = "keys"
)
