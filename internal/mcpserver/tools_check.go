package mcpserver

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/docschema/annotation"
	"github.com/erraggy/docschema/docscan"
)

var errNoDocs = errors.New("docs must name at least one Markdown file or directory")

type checkInput struct {
	Docs         []string `json:"docs"                    jsonschema:"Markdown files or directories to check"`
	ResourceType string   `json:"resource_type,omitempty" jsonschema:"Only report blocks annotated with this resource type"`
	Relaxed      *bool    `json:"relaxed,omitempty"       jsonschema:"Accept less specific actual types with a message"`
	Strict       *bool    `json:"strict,omitempty"        jsonschema:"Treat warnings as errors"`
	NoWarnings   *bool    `json:"no_warnings,omitempty"   jsonschema:"Suppress warnings from output"`
	Offset       int      `json:"offset,omitempty"        jsonschema:"Skip the first N issues (for pagination)"`
	Limit        int      `json:"limit,omitempty"         jsonschema:"Maximum number of issues to return (default 100)"`
}

type checkOutput struct {
	Valid        bool          `json:"valid"`
	Files        int           `json:"files"`
	Resources    int           `json:"resources"`
	Blocks       int           `json:"blocks"`
	FailedBlocks int           `json:"failed_blocks"`
	ErrorCount   int           `json:"error_count"`
	WarningCount int           `json:"warning_count"`
	Returned     int           `json:"returned"`
	Issues       []issueOutput `json:"issues,omitempty"`
}

func (t *tools) handleCheck(ctx context.Context, _ *mcp.CallToolRequest, input checkInput) (*mcp.CallToolResult, checkOutput, error) {
	if len(input.Docs) == 0 {
		return errResult(errNoDocs), checkOutput{}, nil
	}
	docs, err := loadDocs(ctx, input.Docs, t.settings)
	if err != nil {
		return errResult(err), checkOutput{}, nil
	}

	report, err := docscan.Check(ctx, docs, docscan.CheckOptions{
		ValidatorOptions: t.validatorOptions(input.Relaxed, input.Strict, input.NoWarnings),
		Concurrency:      t.settings.Concurrency,
	})
	if err != nil {
		return errResult(err), checkOutput{}, nil
	}

	output := checkOutput{
		Valid:     report.Valid(),
		Files:     report.Files,
		Resources: report.Resources,
	}
	found := slices.Concat(report.BuildIssues, report.ScanIssues)
	want := annotation.TrimTypeName(input.ResourceType)
	for _, b := range report.Blocks {
		if want != "" && !strings.EqualFold(b.Annotation.TypeName(), want) {
			continue
		}
		output.Blocks++
		if !b.Result.Valid {
			output.FailedBlocks++
		}
		output.ErrorCount += b.Result.ErrorCount
		output.WarningCount += b.Result.WarningCount
		found = append(found, b.Result.Issues...)
	}
	output.ErrorCount += len(report.BuildIssues) + len(report.ScanIssues)

	output.Issues = toIssueOutputs(paginate(found, input.Offset, input.Limit))
	output.Returned = len(output.Issues)
	return nil, output, nil
}

type listResourcesInput struct {
	Docs []string `json:"docs"           jsonschema:"Markdown files or directories declaring the resources"`
	Name string   `json:"name,omitempty" jsonschema:"Case-insensitive substring filter on the resource name"`
}

type resourceSummary struct {
	Name        string `json:"name"`
	BaseType    string `json:"base_type,omitempty"`
	KeyProperty string `json:"key_property,omitempty"`
	OpenType    bool   `json:"open_type,omitempty"`
	Properties  int    `json:"properties"`
	Source      string `json:"source,omitempty"`
}

type listResourcesOutput struct {
	Total     int               `json:"total"`
	Matched   int               `json:"matched"`
	Resources []resourceSummary `json:"resources,omitempty"`
}

func (t *tools) handleListResources(ctx context.Context, _ *mcp.CallToolRequest, input listResourcesInput) (*mcp.CallToolResult, listResourcesOutput, error) {
	if len(input.Docs) == 0 {
		return errResult(errNoDocs), listResourcesOutput{}, nil
	}
	docs, err := loadDocs(ctx, input.Docs, t.settings)
	if err != nil {
		return errResult(err), listResourcesOutput{}, nil
	}
	reg := buildRegistry(docs)

	output := listResourcesOutput{Total: reg.Len()}
	filter := strings.ToLower(input.Name)
	for _, name := range reg.Names() {
		if filter != "" && !strings.Contains(strings.ToLower(name), filter) {
			continue
		}
		s, _ := reg.Lookup(name)
		res, _ := reg.Resource(name)
		output.Resources = append(output.Resources, resourceSummary{
			Name:        name,
			BaseType:    s.BaseType(),
			KeyProperty: s.KeyProperty(),
			OpenType:    s.OpenType(),
			Properties:  s.Len(),
			Source:      res.SourceFile,
		})
	}
	output.Matched = len(output.Resources)
	return nil, output, nil
}
