package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupCheckFlags(t *testing.T) {
	fs, flags := SetupCheckFlags()

	t.Run("default values", func(t *testing.T) {
		assert.False(t, flags.Strict)
		assert.False(t, flags.NoWarnings)
		assert.False(t, flags.Verbose)
		assert.Equal(t, FormatText, flags.Format)
	})

	t.Run("parse flags", func(t *testing.T) {
		require.NoError(t, fs.Parse([]string{"--strict", "-q", "--format", "yaml", "docs", "more"}))
		assert.True(t, flags.Strict)
		assert.True(t, flags.Quiet)
		assert.Equal(t, FormatYAML, flags.Format)
		assert.Equal(t, []string{"docs", "more"}, fs.Args())
	})
}

func TestHandleCheck_NoArgs(t *testing.T) {
	captureOutput(t)
	assert.Error(t, HandleCheck([]string{}))
}

func TestHandleCheck_Help(t *testing.T) {
	_, errOut := captureOutput(t)
	assert.NoError(t, HandleCheck([]string{"--help"}))
	assert.Contains(t, errOut.String(), "Usage: docschema check")
}

func TestHandleCheck_InvalidFormat(t *testing.T) {
	captureOutput(t)
	clearSettingsEnv(t)
	assert.Error(t, HandleCheck([]string{"--format", "invalid", docsDir}))
}

func TestHandleCheck_MissingPath(t *testing.T) {
	captureOutput(t)
	clearSettingsEnv(t)
	assert.Error(t, HandleCheck([]string{filepath.Join(t.TempDir(), "missing")}))
}

func TestHandleCheck_Text(t *testing.T) {
	clearSettingsEnv(t)
	_, errOut := captureOutput(t)

	err := HandleCheck([]string{docsDir})
	assert.ErrorIs(t, err, ErrValidationFailed)

	out := errOut.String()
	assert.Contains(t, out, "Files: 3\n")
	assert.Contains(t, out, "Resources: 2\n")
	assert.Contains(t, out, "Blocks: 2 (1 failed)\n")
	assert.Contains(t, out, filepath.Join(docsDir, "nested", "list-users.md")+":38: ✗ [ExpectedTypeDifferent]")
	assert.Contains(t, out, "✗ Validation failed: 1 error(s), 2 warning(s)\n")
}

func TestHandleCheck_Quiet(t *testing.T) {
	clearSettingsEnv(t)
	out, errOut := captureOutput(t)

	assert.ErrorIs(t, HandleCheck([]string{"-q", docsDir}), ErrValidationFailed)
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestHandleCheck_JSON(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		wantErrors   float64
		wantWarnings float64
		wantCodes    []string
	}{
		{
			name:         "all findings",
			args:         []string{"--format", "json", docsDir},
			wantErrors:   1,
			wantWarnings: 2,
			wantCodes:    []string{"NullPropertyValue", "ExpectedTypeDifferent", "AdditionalPropertyDetected"},
		},
		{
			name:         "no warnings",
			args:         []string{"--format", "json", "--no-warnings", docsDir},
			wantErrors:   1,
			wantWarnings: 0,
			wantCodes:    []string{"ExpectedTypeDifferent"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearSettingsEnv(t)
			out, _ := captureOutput(t)

			assert.ErrorIs(t, HandleCheck(tt.args), ErrValidationFailed)

			var report map[string]any
			require.NoError(t, json.Unmarshal(out.Bytes(), &report))
			assert.Equal(t, float64(3), report["files"])
			assert.Equal(t, float64(2), report["resources"])
			assert.Equal(t, float64(2), report["blocks"])
			assert.Equal(t, float64(1), report["failedBlocks"])
			assert.Equal(t, false, report["valid"])
			assert.Equal(t, tt.wantErrors, report["errorCount"])
			assert.Equal(t, tt.wantWarnings, report["warningCount"])

			list, ok := report["issues"].([]any)
			require.True(t, ok)
			codes := make([]string, 0, len(list))
			for _, item := range list {
				codes = append(codes, item.(map[string]any)["code"].(string))
			}
			assert.Equal(t, tt.wantCodes, codes)
		})
	}
}

func TestHandleCheck_ConformingDocs(t *testing.T) {
	clearSettingsEnv(t)
	_, errOut := captureOutput(t)

	assert.NoError(t, HandleCheck([]string{filepath.Join(docsDir, "user.md"), filepath.Join(docsDir, "directoryobject.md")}))
	assert.Contains(t, errOut.String(), "✓ Validation passed")
}
