package ir

// Version constants for the record schema and the tool.
const (
	// IRVersion is the record schema version.
	IRVersion = "1"

	// ToolVersion is the dyadic tool version.
	ToolVersion = "0.1.0"
)
