package mcpserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/docschema/annotation"
	"github.com/erraggy/docschema/docscan"
	"github.com/erraggy/docschema/internal/issues"
	"github.com/erraggy/docschema/registry"
	"github.com/erraggy/docschema/validator"
)

type validateInput struct {
	Payload      payloadInput  `json:"payload"                  jsonschema:"The JSON payload to validate"`
	Expected     *payloadInput `json:"expected,omitempty"       jsonschema:"A documented expected response; when set the payload is validated as the actual response"`
	ResourceType string        `json:"resource_type,omitempty"  jsonschema:"Resource the payload represents, e.g. microsoft.graph.user"`
	Docs         []string      `json:"docs,omitempty"           jsonschema:"Markdown files or directories declaring the resources"`
	IsCollection bool          `json:"is_collection,omitempty"  jsonschema:"The payload wraps a collection of resources in a value array"`
	Truncated    bool          `json:"truncated,omitempty"      jsonschema:"The payload may omit required properties"`
	ExpectError  bool          `json:"expect_error,omitempty"   jsonschema:"The payload is an error envelope"`
	Optional     []string      `json:"optional,omitempty"       jsonschema:"Top-level properties that may be absent"`
	Nullable     []string      `json:"nullable,omitempty"       jsonschema:"Top-level properties that may be null"`
	Relaxed      *bool         `json:"relaxed,omitempty"        jsonschema:"Accept less specific actual types with a message"`
	Strict       *bool         `json:"strict,omitempty"         jsonschema:"Treat warnings as errors"`
	NoWarnings   *bool         `json:"no_warnings,omitempty"    jsonschema:"Suppress warnings from output"`
	Offset       int           `json:"offset,omitempty"         jsonschema:"Skip the first N issues (for pagination)"`
	Limit        int           `json:"limit,omitempty"          jsonschema:"Maximum number of issues to return (default 100)"`
}

type issueOutput struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Path     string `json:"path,omitempty"`
	Message  string `json:"message"`
	Value    string `json:"value,omitempty"`
	Source   string `json:"source,omitempty"`
	Line     int    `json:"line,omitempty"`
}

type validateOutput struct {
	Valid        bool          `json:"valid"`
	ResourceType string        `json:"resource_type,omitempty"`
	HTTPStatus   int           `json:"http_status,omitempty"`
	Resources    int           `json:"resources"`
	ErrorCount   int           `json:"error_count"`
	WarningCount int           `json:"warning_count"`
	MessageCount int           `json:"message_count"`
	Returned     int           `json:"returned"`
	Issues       []issueOutput `json:"issues,omitempty"`
}

func (t *tools) handleValidate(ctx context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	payload, status, err := input.Payload.resolve(ctx)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}
	var expected string
	if input.Expected != nil && !input.Expected.isZero() {
		if expected, _, err = input.Expected.resolve(ctx); err != nil {
			return errResult(err), validateOutput{}, nil
		}
	}

	docs, err := loadDocs(ctx, input.Docs, t.settings)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}
	reg := buildRegistry(docs)

	v, err := validator.New(reg, t.validatorOptions(input.Relaxed, input.Strict, input.NoWarnings)...)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	ann := annotation.Annotation{
		ResourceType:       input.ResourceType,
		IsCollection:       input.IsCollection,
		Truncated:          input.Truncated,
		ExpectError:        input.ExpectError,
		OptionalProperties: input.Optional,
		NullableProperties: input.Nullable,
	}
	var result *validator.Result
	if expected != "" {
		ann.BlockType = annotation.BlockResponse
		result = v.ValidateResponse(expected, payload, ann)
	} else {
		ann.BlockType = annotation.BlockExample
		result = v.ValidateExample(payload, ann)
	}

	output := validateOutput{
		Valid:        result.Valid,
		ResourceType: result.ResourceType,
		HTTPStatus:   status,
		Resources:    reg.Len(),
		ErrorCount:   result.ErrorCount,
		WarningCount: result.WarningCount,
		MessageCount: result.MessageCount,
	}
	output.Issues = toIssueOutputs(paginate(result.Issues, input.Offset, input.Limit))
	output.Returned = len(output.Issues)
	return nil, output, nil
}

// validatorOptions layers per-call overrides on the configured defaults.
func (t *tools) validatorOptions(relaxed, strict, noWarnings *bool) []validator.Option {
	opts := t.settings.ValidatorOptions()
	if relaxed != nil {
		opts = append(opts, validator.WithRelaxedStringValidation(*relaxed))
	}
	if strict != nil {
		opts = append(opts, validator.WithTreatWarningsAsErrors(*strict))
	}
	if noWarnings != nil {
		opts = append(opts, validator.WithIncludeWarnings(!*noWarnings))
	}
	return opts
}

// buildRegistry registers the resources of docs. Resources that fail to
// build are left out; check_docs reports them.
func buildRegistry(docs []*docscan.Document) *registry.Registry {
	b, _ := registry.NewBuilder()
	for _, doc := range docs {
		b.Add(doc.Resources...)
	}
	reg, _ := b.Build()
	return reg
}

func toIssueOutputs(list []issues.Issue) []issueOutput {
	out := makeSlice[issueOutput](len(list))
	for _, is := range list {
		out = append(out, issueOutput{
			Severity: is.Severity.String(),
			Code:     string(is.Code),
			Path:     is.Path,
			Message:  is.Message,
			Value:    is.Value,
			Source:   is.Source,
			Line:     is.Line,
		})
	}
	return out
}

// errNoPayload is returned by tools that need a payload when none is given.
var errNoPayload = errors.New("a payload must be provided via file, url, or content")
