package codexlog

import "strings"

// Verbosity levels for diagnostic entries.
//
// Connection and merge-outcome diagnostics are always written; chat
// snapshots and render decisions are only written at LevelVerbose because
// they are high-volume and only useful for deep debugging.
const (
	LevelStandard = "standard"
	LevelVerbose  = "verbose"
)

// ParseLevel converts a string level to the corresponding constant.
// Unrecognized input falls back to LevelStandard.
func ParseLevel(level string) string {
	switch strings.ToLower(level) {
	case LevelVerbose:
		return LevelVerbose
	default:
		return LevelStandard
	}
}

// ValidLevels returns the list of valid verbosity level strings.
func ValidLevels() []string {
	return []string{LevelStandard, LevelVerbose}
}
