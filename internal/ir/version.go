package ir

// Version constants for the IR schema and engine.
const (
	// IRVersion is the rule declaration schema version.
	IRVersion = "1"

	// EngineVersion is the converge engine version.
	EngineVersion = "0.1.0"
)
