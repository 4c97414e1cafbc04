package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agmente/agmente/internal/codexlog"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "logging.level")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidDebugLevels returns the list of valid process debug log levels
func ValidDebugLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the configuration for invalid values and returns all
// failures found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if c.Endpoint.URL != "" &&
		!strings.HasPrefix(c.Endpoint.URL, "ws://") && !strings.HasPrefix(c.Endpoint.URL, "wss://") {
		errs = append(errs, ValidationError{
			Field:   "endpoint.url",
			Value:   c.Endpoint.URL,
			Message: "must be a ws:// or wss:// URL",
		})
	}

	if c.Endpoint.ConnectTimeoutSeconds < 0 {
		errs = append(errs, ValidationError{
			Field:   "endpoint.connect_timeout_seconds",
			Value:   c.Endpoint.ConnectTimeoutSeconds,
			Message: "must not be negative",
		})
	}

	if !slices.Contains(codexlog.ValidLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(codexlog.ValidLevels(), ", ")),
		})
	}

	if !slices.Contains(ValidDebugLevels(), strings.ToLower(c.Logging.DebugLevel)) {
		errs = append(errs, ValidationError{
			Field:   "logging.debug_level",
			Value:   c.Logging.DebugLevel,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidDebugLevels(), ", ")),
		})
	}

	return errs
}
