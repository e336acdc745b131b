package config

const (
	// MaxMessageLength is the maximum length for a single chat message.
	// Bounded to keep prompts inside provider context limits and to
	// reject pathological payloads before the quota check.
	MaxMessageLength = 8000

	// MaxUserIDLength is the maximum length for a user identifier.
	// Identifiers are opaque upstream subjects; anything longer
	// indicates a malformed token or header.
	MaxUserIDLength = 255
)
