package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const thingExample = `{
	"id": "string",
	"created": "timestamp",
	"level": "low | high",
	"count": 1,
	"tags": ["string"]
}`

func TestHandleInfer_Text(t *testing.T) {
	out, _ := captureOutput(t)
	path := writeFile(t, "thing.json", thingExample)

	require.NoError(t, HandleInfer([]string{"--type", "#test.thing", "--optional", "tags", "--nullable", "level", path}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "Resource: test.thing", lines[0])
	assert.Equal(t, []string{"PROPERTY", "TYPE", "FLAGS"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"count", "Int64", "-"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"created", "String(DateTime)", "-"}, strings.Fields(lines[4]))
	assert.Equal(t, []string{"id", "String", "-"}, strings.Fields(lines[5]))
	assert.Equal(t, "level", strings.Fields(lines[6])[0])
	assert.True(t, strings.HasSuffix(lines[6], "nullable"))
	assert.Equal(t, []string{"tags", "Collection(String)", "optional"}, strings.Fields(lines[7]))
}

func TestHandleInfer_JSON(t *testing.T) {
	out, _ := captureOutput(t)
	path := writeFile(t, "thing.json", thingExample)

	require.NoError(t, HandleInfer([]string{"-t", "test.thing", "--optional", "tags", "-f", "json", path}))

	var report struct {
		ResourceType string             `json:"resourceType"`
		Properties   []InferredProperty `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "test.thing", report.ResourceType)
	assert.Equal(t, []InferredProperty{
		{Name: "count", Type: "Int64", OriginalValue: "1"},
		{Name: "created", Type: "String(DateTime)", OriginalValue: `"timestamp"`},
		{Name: "id", Type: "String", OriginalValue: `"string"`},
		{Name: "level", Type: "String(Enum(low | high))", OriginalValue: `"low | high"`},
		{Name: "tags", Type: "Collection(String)", Optional: true, OriginalValue: `["string"]`},
	}, report.Properties)
}

func TestHandleInfer_JSONSchema(t *testing.T) {
	out, _ := captureOutput(t)
	path := writeFile(t, "files.json", `{"value": [{"id": "string", "size": 1.5}]}`)

	require.NoError(t, HandleInfer([]string{"--type", "test.file", "--collection", "--json-schema", path}))
	assert.Contains(t, out.String(), `"$schema": "https://json-schema.org/draft/2020-12/schema"`)
	assert.Contains(t, out.String(), `"title": "test.file"`)
	assert.Contains(t, out.String(), `"type": "number"`)
}

func TestHandleInfer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		args    []string
	}{
		{"no args", "", nil},
		{"not JSON", `{"id": `, nil},
		{"scalar example", `42`, nil},
		{"invalid format", `{}`, []string{"--format", "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureOutput(t)
			args := tt.args
			if tt.content != "" {
				args = append(args, writeFile(t, "example.json", tt.content))
			}
			assert.Error(t, HandleInfer(args))
		})
	}
}

func TestHandleInfer_Help(t *testing.T) {
	_, errOut := captureOutput(t)
	assert.NoError(t, HandleInfer([]string{"-h"}))
	assert.Contains(t, errOut.String(), "Usage: docschema infer")
}
