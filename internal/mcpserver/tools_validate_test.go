package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/docschema/internal/config"
)

func newTools() *tools {
	return &tools{settings: config.Default()}
}

func boolPtr(b bool) *bool { return &b }

func codesOf(list []issueOutput) []string {
	out := make([]string, 0, len(list))
	for _, is := range list {
		out = append(out, is.Code)
	}
	return out
}

func TestValidateTool(t *testing.T) {
	tests := []struct {
		name      string
		input     validateInput
		wantValid bool
		wantCodes []string
	}{
		{
			name: "conforming truncated example",
			input: validateInput{
				Payload:      payloadInput{Content: `{"id": "1", "displayName": "Adele"}`},
				ResourceType: "microsoft.graph.user",
				Docs:         []string{docsDir},
				Truncated:    true,
			},
			wantValid: true,
			wantCodes: []string{},
		},
		{
			name: "wrong type",
			input: validateInput{
				Payload:      payloadInput{Content: `{"id": 7}`},
				ResourceType: "microsoft.graph.user",
				Docs:         []string{docsDir},
				Truncated:    true,
			},
			wantValid: false,
			wantCodes: []string{"ExpectedTypeDifferent"},
		},
		{
			name: "strict turns warnings into failures",
			input: validateInput{
				Payload:      payloadInput{Content: `{"id": "1", "nickname": "Meg"}`},
				ResourceType: "microsoft.graph.user",
				Docs:         []string{docsDir},
				Truncated:    true,
				Strict:       boolPtr(true),
			},
			wantValid: false,
			wantCodes: []string{"AdditionalPropertyDetected"},
		},
		{
			name: "no warnings",
			input: validateInput{
				Payload:      payloadInput{Content: `{"id": "1", "nickname": "Meg"}`},
				ResourceType: "microsoft.graph.user",
				Docs:         []string{docsDir},
				Truncated:    true,
				NoWarnings:   boolPtr(true),
			},
			wantValid: true,
			wantCodes: []string{},
		},
		{
			name: "collection",
			input: validateInput{
				Payload:      payloadInput{Content: `{"value": [{"id": "1"}, {"id": 2}]}`},
				ResourceType: "microsoft.graph.user",
				Docs:         []string{docsDir},
				IsCollection: true,
				Truncated:    true,
			},
			wantValid: false,
			wantCodes: []string{"ExpectedTypeDifferent"},
		},
		{
			name: "undocumented resource falls back to the payload",
			input: validateInput{
				Payload:      payloadInput{Content: `{"id": "1"}`},
				ResourceType: "test.unknown",
			},
			wantValid: true,
			wantCodes: []string{"MissingResource"},
		},
		{
			name: "not JSON",
			input: validateInput{
				Payload: payloadInput{Content: `{"id": `},
			},
			wantValid: false,
			wantCodes: []string{"JsonParserException"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, output, err := newTools().handleValidate(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.Nil(t, res)
			assert.Equal(t, tt.wantValid, output.Valid, "issues: %v", output.Issues)
			assert.Equal(t, tt.wantCodes, codesOf(output.Issues))
			assert.Equal(t, len(output.Issues), output.Returned)
		})
	}
}

func TestValidateTool_Response(t *testing.T) {
	input := validateInput{
		Payload:      payloadInput{Content: `{"id": "1", "displayName": "Adele"}`},
		Expected:     &payloadInput{Content: `{"id": "string", "displayName": "string", "createdDateTime": "timestamp"}`},
		ResourceType: "microsoft.graph.user",
		Docs:         []string{docsDir},
		Truncated:    true,
	}
	_, output, err := newTools().handleValidate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.False(t, output.Valid)
	assert.Equal(t, []string{"RequiredPropertiesMissing"}, codesOf(output.Issues))
	assert.Equal(t, "microsoft.graph.user", output.ResourceType)
	assert.Equal(t, 2, output.Resources)
}

func TestValidateTool_Pagination(t *testing.T) {
	input := validateInput{
		Payload:      payloadInput{Content: `{"a": 1, "b": 2, "c": 3}`},
		ResourceType: "microsoft.graph.user",
		Docs:         []string{docsDir},
		Truncated:    true,
		Offset:       1,
		Limit:        1,
	}
	_, output, err := newTools().handleValidate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.Equal(t, 3, output.WarningCount)
	require.Len(t, output.Issues, 1)
	assert.Equal(t, "b", output.Issues[0].Path)
}

func TestValidateTool_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input validateInput
	}{
		{"no payload", validateInput{}},
		{"missing docs", validateInput{Payload: payloadInput{Content: "{}"}, Docs: []string{"/nonexistent/docs"}}},
		{"bad expected", validateInput{Payload: payloadInput{Content: "{}"}, Expected: &payloadInput{File: "a", Content: "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := newTools().handleValidate(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.True(t, res.IsError)
		})
	}
}

func TestValidatorOptionsOverrideDefaults(t *testing.T) {
	tl := &tools{settings: &config.Config{TreatWarningsAsErrors: true, NoWarnings: true}}
	input := validateInput{
		Payload:      payloadInput{Content: `{"id": "1", "nickname": "Meg"}`},
		ResourceType: "microsoft.graph.user",
		Docs:         []string{docsDir},
		Truncated:    true,
	}

	_, output, err := tl.handleValidate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.Empty(t, output.Issues, "warnings are suppressed by the defaults")

	input.NoWarnings = boolPtr(false)
	_, output, err = tl.handleValidate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.False(t, output.Valid)
	assert.Equal(t, []string{"AdditionalPropertyDetected"}, codesOf(output.Issues))
}
