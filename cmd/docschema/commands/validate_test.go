package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupValidateFlags(t *testing.T) {
	fs, flags := SetupValidateFlags()

	t.Run("default values", func(t *testing.T) {
		assert.False(t, flags.Strict, "expected Strict to be false by default")
		assert.False(t, flags.Relaxed, "expected Relaxed to be false by default")
		assert.False(t, flags.NoWarnings, "expected NoWarnings to be false by default")
		assert.False(t, flags.Quiet, "expected Quiet to be false by default")
		assert.False(t, flags.Collection)
		assert.False(t, flags.Truncated)
		assert.Empty(t, flags.Docs)
		assert.Equal(t, FormatText, flags.Format)
	})

	t.Run("parse flags", func(t *testing.T) {
		args := []string{
			"--type", "microsoft.graph.user", "-d", "docs", "--docs", "more,extra",
			"--collection", "--truncated", "--optional", "mail,photo", "--nullable", "manager",
			"-e", "expected.json", "--strict", "payload.json",
		}
		require.NoError(t, fs.Parse(args))

		assert.Equal(t, "microsoft.graph.user", flags.ResourceType)
		assert.Equal(t, []string{"docs", "more", "extra"}, flags.Docs)
		assert.True(t, flags.Collection)
		assert.True(t, flags.Truncated)
		assert.Equal(t, []string{"mail", "photo"}, flags.Optional)
		assert.Equal(t, []string{"manager"}, flags.Nullable)
		assert.Equal(t, "expected.json", flags.Expected)
		assert.True(t, flags.Strict)
		assert.Equal(t, "payload.json", fs.Arg(0))
	})
}

func TestHandleValidate_NoArgs(t *testing.T) {
	captureOutput(t)
	assert.Error(t, HandleValidate([]string{}))
}

func TestHandleValidate_Help(t *testing.T) {
	_, errOut := captureOutput(t)
	assert.NoError(t, HandleValidate([]string{"--help"}))
	assert.Contains(t, errOut.String(), "Usage: docschema validate")
}

func TestHandleValidate_InvalidFormat(t *testing.T) {
	captureOutput(t)
	clearSettingsEnv(t)
	assert.Error(t, HandleValidate([]string{"--format", "invalid", "test.json"}))
}

func TestHandleValidate_UnknownFlag(t *testing.T) {
	captureOutput(t)
	assert.Error(t, HandleValidate([]string{"--bogus", "test.json"}))
}

func TestHandleValidate(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		args      []string
		wantValid bool
		wantCodes []string
	}{
		{
			name:      "conforming truncated payload",
			payload:   `{"id": "1", "displayName": "Adele"}`,
			args:      []string{"--type", "microsoft.graph.user", "--docs", docsDir, "--truncated"},
			wantValid: true,
			wantCodes: []string{},
		},
		{
			name:      "wrong type",
			payload:   `{"id": 7}`,
			args:      []string{"--type", "microsoft.graph.user", "--docs", docsDir, "--truncated"},
			wantValid: false,
			wantCodes: []string{"ExpectedTypeDifferent"},
		},
		{
			name:      "strict turns warnings into failures",
			payload:   `{"id": "1", "nickname": "Meg"}`,
			args:      []string{"--type", "microsoft.graph.user", "--docs", docsDir, "--truncated", "--strict"},
			wantValid: false,
			wantCodes: []string{"AdditionalPropertyDetected"},
		},
		{
			name:      "collection",
			payload:   `{"value": [{"id": "1"}, {"id": 2}]}`,
			args:      []string{"--type", "microsoft.graph.user", "--docs", docsDir, "--collection", "--truncated"},
			wantValid: false,
			wantCodes: []string{"ExpectedTypeDifferent"},
		},
		{
			name:      "undocumented resource falls back to the payload",
			payload:   `{"id": "1"}`,
			args:      []string{"--type", "test.unknown"},
			wantValid: true,
			wantCodes: []string{"MissingResource"},
		},
		{
			name:      "not JSON",
			payload:   `{"id": `,
			wantValid: false,
			wantCodes: []string{"JsonParserException"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearSettingsEnv(t)
			out, _ := captureOutput(t)
			path := writeFile(t, "payload.json", tt.payload)

			err := HandleValidate(append(tt.args, "--format", "json", path))
			if tt.wantValid {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrValidationFailed)
			}

			var report map[string]any
			require.NoError(t, json.Unmarshal(out.Bytes(), &report))
			assert.Equal(t, tt.wantValid, report["valid"])
			assert.Equal(t, path, report["payload"])
			assert.Equal(t, tt.wantCodes, reportCodes(t, report))
		})
	}
}

func TestHandleValidate_Response(t *testing.T) {
	clearSettingsEnv(t)
	out, _ := captureOutput(t)
	actual := writeFile(t, "actual.json", `{"id": "1", "displayName": "Adele"}`)
	expected := writeFile(t, "expected.json", `{"id": "string", "displayName": "string", "createdDateTime": "timestamp"}`)

	err := HandleValidate([]string{
		"--type", "microsoft.graph.user", "--docs", docsDir, "--truncated",
		"--expected", expected, "-f", "yaml", actual,
	})
	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, out.String(), "code: RequiredPropertiesMissing")
	assert.Contains(t, out.String(), "resourceType: microsoft.graph.user")
	assert.Contains(t, out.String(), "resources: 2")
}

func TestHandleValidate_Stdin(t *testing.T) {
	clearSettingsEnv(t)
	_, errOut := captureOutput(t)
	old := stdin
	stdin = strings.NewReader(`{"id": "1", "displayName": "Adele"}`)
	t.Cleanup(func() { stdin = old })

	require.NoError(t, HandleValidate([]string{"--type", "microsoft.graph.user", "--docs", docsDir, "--truncated", "-"}))
	assert.Contains(t, errOut.String(), "Payload: <stdin>\n")
	assert.Contains(t, errOut.String(), "Resource Type: microsoft.graph.user\n")
	assert.Contains(t, errOut.String(), "Documented Resources: 2\n")
	assert.Contains(t, errOut.String(), "✓ Validation passed\n")
}

func TestHandleValidate_MissingInputs(t *testing.T) {
	clearSettingsEnv(t)
	captureOutput(t)
	payload := writeFile(t, "payload.json", `{}`)

	assert.Error(t, HandleValidate([]string{payload + ".missing"}))
	assert.Error(t, HandleValidate([]string{"--expected", payload + ".missing", payload}))
	assert.Error(t, HandleValidate([]string{"--docs", "/nonexistent/docs", payload}))
}

func reportCodes(t *testing.T, report map[string]any) []string {
	t.Helper()
	list, ok := report["issues"].([]any)
	require.True(t, ok, "issues should be an array")
	codes := make([]string, 0, len(list))
	for _, item := range list {
		codes = append(codes, item.(map[string]any)["code"].(string))
	}
	return codes
}
