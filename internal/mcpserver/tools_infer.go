package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/docschema/annotation"
	"github.com/erraggy/docschema/schema"
	"github.com/erraggy/docschema/schemaexport"
)

type inferInput struct {
	Example      payloadInput `json:"example"                 jsonschema:"The JSON example whose values are type placeholders"`
	ResourceType string       `json:"resource_type,omitempty" jsonschema:"Name of the inferred resource"`
	IsCollection bool         `json:"is_collection,omitempty" jsonschema:"The example wraps members in a value array"`
	Optional     []string     `json:"optional,omitempty"      jsonschema:"Properties that may be absent"`
	Nullable     []string     `json:"nullable,omitempty"      jsonschema:"Properties that may be null"`
	JSONSchema   bool         `json:"json_schema,omitempty"   jsonschema:"Also return a JSON Schema 2020-12 document"`
}

type propertyOutput struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Optional      bool   `json:"optional,omitempty"`
	Nullable      bool   `json:"nullable,omitempty"`
	OriginalValue string `json:"original_value,omitempty"`
}

type inferOutput struct {
	ResourceType string           `json:"resource_type,omitempty"`
	Properties   []propertyOutput `json:"properties"`
	JSONSchema   string           `json:"json_schema,omitempty"`
}

func (t *tools) handleInfer(ctx context.Context, _ *mcp.CallToolRequest, input inferInput) (*mcp.CallToolResult, inferOutput, error) {
	if input.Example.isZero() {
		return errResult(errNoPayload), inferOutput{}, nil
	}
	example, _, err := input.Example.resolve(ctx)
	if err != nil {
		return errResult(err), inferOutput{}, nil
	}

	s, err := schema.FromExample(example, annotation.Annotation{
		ResourceType:       input.ResourceType,
		IsCollection:       input.IsCollection,
		OptionalProperties: input.Optional,
		NullableProperties: input.Nullable,
	}, nil)
	if err != nil {
		return errResult(err), inferOutput{}, nil
	}

	output := inferOutput{ResourceType: s.Name(), Properties: describeProperties(s)}
	if input.JSONSchema {
		e, err := schemaexport.New(nil)
		if err != nil {
			return errResult(err), inferOutput{}, nil
		}
		data, err := e.Export(s)
		if err != nil {
			return errResult(err), inferOutput{}, nil
		}
		output.JSONSchema = string(data)
	}
	return nil, output, nil
}

func describeProperties(s *schema.Schema) []propertyOutput {
	props := s.Properties()
	out := make([]propertyOutput, 0, len(props))
	for _, p := range props {
		out = append(out, propertyOutput{
			Name:          p.Name,
			Type:          p.Type.String(),
			Optional:      s.IsOptional(p.Name),
			Nullable:      s.IsNullable(p.Name),
			OriginalValue: p.OriginalValue,
		})
	}
	return out
}
