package severity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityString(t *testing.T) {
	tests := []struct {
		name     string
		severity Severity
		expected string
	}{
		{"error level", SeverityError, "error"},
		{"warning level", SeverityWarning, "warning"},
		{"message level", SeverityMessage, "message"},

		// Edge cases: Invalid severity values
		{"unknown negative", Severity(-1), "unknown"},
		{"unknown large value", Severity(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.severity.String())
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in     string
		want   Severity
		wantOK bool
	}{
		{"error", SeverityError, true},
		{"warning", SeverityWarning, true},
		{"message", SeverityMessage, true},
		{"info", SeverityMessage, true},
		{"fatal", SeverityError, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Parse(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestMarshalText verifies severities render by name.
func TestMarshalText(t *testing.T) {
	for _, sev := range []Severity{SeverityError, SeverityWarning, SeverityMessage} {
		b, err := sev.MarshalText()
		assert.NoError(t, err)
		assert.Equal(t, sev.String(), string(b))
	}
}
