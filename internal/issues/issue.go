// Package issues provides the issue type reported while validating
// documentation payloads against resource schemas.
package issues

import (
	"fmt"

	"github.com/erraggy/docschema/internal/pathutil"
	"github.com/erraggy/docschema/internal/severity"
)

// Issue represents a single finding produced by a validation pass.
type Issue struct {
	// Severity indicates the severity level of the issue
	Severity severity.Severity `json:"severity" yaml:"severity"`
	// Code is the stable identifier of the finding
	Code Code `json:"code" yaml:"code"`
	// Message is a human-readable description of the issue
	Message string `json:"message" yaml:"message"`
	// Path is the breadcrumb to the offending value (e.g., "value[2].address.city")
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	// Value is a short preview of the offending value (optional). It is not
	// part of an issue's identity when duplicates are collapsed.
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
	// Source identifies the documentation file or block the payload came from (optional)
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	// Line is the 1-based line number in the source file (0 if unknown)
	Line int `json:"line,omitempty" yaml:"line,omitempty"`
}

// New creates an issue with the given severity, code and message.
func New(sev severity.Severity, code Code, path, message string) Issue {
	return Issue{Severity: sev, Code: code, Path: path, Message: message}
}

// Errorf creates an error-level issue with a formatted message.
func Errorf(code Code, path, format string, args ...any) Issue {
	return New(severity.SeverityError, code, path, fmt.Sprintf(format, args...))
}

// Warningf creates a warning-level issue with a formatted message.
func Warningf(code Code, path, format string, args ...any) Issue {
	return New(severity.SeverityWarning, code, path, fmt.Sprintf(format, args...))
}

// Messagef creates an informational issue with a formatted message.
func Messagef(code Code, path, format string, args ...any) Issue {
	return New(severity.SeverityMessage, code, path, fmt.Sprintf(format, args...))
}

// IsError reports whether the issue fails validation.
func (i Issue) IsError() bool {
	return i.Severity == severity.SeverityError
}

// IsWarning reports whether the issue is a warning.
func (i Issue) IsWarning() bool {
	return i.Severity == severity.SeverityWarning
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error severity
// - "⚠" for Warning severity
// - "ℹ" for Message severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityMessage:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	msg := i.Message
	if i.Value != "" {
		msg += " (got " + i.Value + ")"
	}
	if i.Path == "" {
		return fmt.Sprintf("%s [%s] %s", symbol, i.Code, msg)
	}
	return fmt.Sprintf("%s [%s] %s: %s", symbol, i.Code, i.Path, msg)
}

// Location returns the source location in IDE-friendly format.
// Returns "file:line" if both are set, "file" if only the file is known,
// or the breadcrumb path otherwise.
func (i Issue) Location() string {
	switch {
	case i.Source != "" && i.Line > 0:
		return fmt.Sprintf("%s:%d", i.Source, i.Line)
	case i.Source != "":
		return i.Source
	default:
		return i.Path
	}
}

// WithValue returns a copy of the issue carrying a preview of the offending value.
func (i Issue) WithValue(preview string) Issue {
	i.Value = preview
	return i
}

// WithPrefix returns a copy of the issue whose path is nested under prefix.
func (i Issue) WithPrefix(prefix string) Issue {
	i.Path = pathutil.JoinPath(prefix, i.Path)
	return i
}

// Count returns the number of errors, warnings and messages in list.
func Count(list []Issue) (errs, warnings, messages int) {
	for _, is := range list {
		switch is.Severity {
		case severity.SeverityError:
			errs++
		case severity.SeverityWarning:
			warnings++
		case severity.SeverityMessage:
			messages++
		}
	}
	return errs, warnings, messages
}

// HasErrors reports whether any issue in list is an error.
func HasErrors(list []Issue) bool {
	for _, is := range list {
		if is.IsError() {
			return true
		}
	}
	return false
}
