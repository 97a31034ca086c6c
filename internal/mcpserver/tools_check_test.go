package mcpserver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckTool(t *testing.T) {
	res, output, err := newTools().handleCheck(context.Background(), &mcp.CallToolRequest{}, checkInput{Docs: []string{docsDir}})
	require.NoError(t, err)
	require.Nil(t, res)

	assert.False(t, output.Valid)
	assert.Equal(t, 3, output.Files)
	assert.Equal(t, 2, output.Resources)
	assert.Equal(t, 2, output.Blocks)
	assert.Equal(t, 1, output.FailedBlocks)
	assert.Equal(t, 1, output.ErrorCount)
	assert.Equal(t, 2, output.WarningCount)
	assert.Equal(t, []string{"NullPropertyValue", "ExpectedTypeDifferent", "AdditionalPropertyDetected"}, codesOf(output.Issues))
	for _, is := range output.Issues {
		assert.Equal(t, filepath.Join(docsDir, "nested", "list-users.md"), is.Source)
		assert.Equal(t, 38, is.Line)
	}
}

func TestCheckTool_Filters(t *testing.T) {
	tests := []struct {
		name       string
		input      checkInput
		wantBlocks int
		wantIssues int
	}{
		{"other resource", checkInput{Docs: []string{docsDir}, ResourceType: "microsoft.graph.directoryObject"}, 0, 0},
		{"case-insensitive resource", checkInput{Docs: []string{docsDir}, ResourceType: "#Microsoft.Graph.User"}, 2, 3},
		{"no warnings", checkInput{Docs: []string{docsDir}, NoWarnings: boolPtr(true)}, 2, 1},
		{"paginated", checkInput{Docs: []string{docsDir}, Offset: 2, Limit: 5}, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := newTools().handleCheck(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBlocks, output.Blocks)
			assert.Len(t, output.Issues, tt.wantIssues)
			assert.Equal(t, tt.wantIssues, output.Returned)
		})
	}
}

func TestCheckTool_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input checkInput
	}{
		{"no docs", checkInput{}},
		{"missing docs", checkInput{Docs: []string{"/nonexistent/docs"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := newTools().handleCheck(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.True(t, res.IsError)
		})
	}
}

func TestListResourcesTool(t *testing.T) {
	_, output, err := newTools().handleListResources(context.Background(), &mcp.CallToolRequest{}, listResourcesInput{Docs: []string{docsDir}})
	require.NoError(t, err)
	assert.Equal(t, 2, output.Total)
	assert.Equal(t, 2, output.Matched)
	require.Len(t, output.Resources, 2)
	assert.Equal(t, "microsoft.graph.directoryObject", output.Resources[0].Name)

	user := output.Resources[1]
	assert.Equal(t, "microsoft.graph.user", user.Name)
	assert.Equal(t, "microsoft.graph.directoryObject", user.BaseType)
	assert.Equal(t, "id", user.KeyProperty)
	assert.Equal(t, filepath.Join(docsDir, "user.md"), user.Source)
	assert.Positive(t, user.Properties)

	_, output, err = newTools().handleListResources(context.Background(), &mcp.CallToolRequest{}, listResourcesInput{Docs: []string{docsDir}, Name: "USER"})
	require.NoError(t, err)
	assert.Equal(t, 2, output.Total)
	assert.Equal(t, 1, output.Matched)

	res, _, err := newTools().handleListResources(context.Background(), &mcp.CallToolRequest{}, listResourcesInput{})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.IsError)
}
