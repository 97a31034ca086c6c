package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferTool(t *testing.T) {
	input := inferInput{
		Example: payloadInput{Content: `{
			"id": "string",
			"created": "timestamp",
			"level": "low | high",
			"count": 1,
			"tags": ["string"]
		}`},
		ResourceType: "#test.thing",
		Optional:     []string{"tags"},
	}
	res, output, err := newTools().handleInfer(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, res)

	assert.Equal(t, "test.thing", output.ResourceType)
	assert.Empty(t, output.JSONSchema)
	assert.Equal(t, []propertyOutput{
		{Name: "count", Type: "Int64", OriginalValue: "1"},
		{Name: "created", Type: "String(DateTime)", OriginalValue: `"timestamp"`},
		{Name: "id", Type: "String", OriginalValue: `"string"`},
		{Name: "level", Type: "String(Enum(low | high))", OriginalValue: `"low | high"`},
		{Name: "tags", Type: "Collection(String)", Optional: true, OriginalValue: `["string"]`},
	}, output.Properties)
}

func TestInferTool_JSONSchema(t *testing.T) {
	input := inferInput{
		Example:      payloadInput{Content: `{"value": [{"id": "string", "size": 1.5}]}`},
		ResourceType: "test.file",
		IsCollection: true,
		JSONSchema:   true,
	}
	_, output, err := newTools().handleInfer(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	require.Len(t, output.Properties, 2)
	assert.Equal(t, "Double", output.Properties[1].Type)
	assert.Contains(t, output.JSONSchema, `"$schema": "https://json-schema.org/draft/2020-12/schema"`)
	assert.Contains(t, output.JSONSchema, `"title": "test.file"`)
	assert.Contains(t, output.JSONSchema, `"type": "number"`)
}

func TestInferTool_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input inferInput
	}{
		{"no example", inferInput{}},
		{"not JSON", inferInput{Example: payloadInput{Content: `{"id": `}}},
		{"scalar example", inferInput{Example: payloadInput{Content: `42`}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := newTools().handleInfer(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.True(t, res.IsError)
		})
	}
}
