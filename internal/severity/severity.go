// Package severity provides severity level constants for issues reported
// while validating documentation payloads.
//
// The levels are ordered from least to most severe:
// Message < Warning < Error
//
// Only SeverityError affects whether a validation pass succeeds. Warnings and
// messages are reported as data; escalating them is a caller decision.
package severity

// Severity indicates the severity level of an issue.
type Severity int

const (
	// SeverityError indicates a structural mismatch that fails validation.
	SeverityError Severity = iota

	// SeverityWarning indicates a suspicious but tolerated finding, such as an
	// undocumented property or an empty collection.
	SeverityWarning

	// SeverityMessage indicates an informational note about a relaxation or
	// fallback that was applied.
	SeverityMessage
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityMessage:
		return "message"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Parse converts a severity name back to its level. The second return value
// is false for unknown names.
func Parse(name string) (Severity, bool) {
	switch name {
	case "error":
		return SeverityError, true
	case "warning":
		return SeverityWarning, true
	case "message", "info":
		return SeverityMessage, true
	}
	return SeverityError, false
}

// MarshalText implements encoding.TextMarshaler so severities render by name
// in JSON and YAML output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
