// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes docschema capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/docschema"
	"github.com/erraggy/docschema/internal/config"
)

const serverInstructions = `docschema MCP server: infers schemas from API documentation examples and validates JSON payloads against them.

Documentation sets are Markdown files whose JSON code blocks carry an HTML comment annotation such as <!-- {"blockType": "resource", "@odata.type": "microsoft.graph.user"} -->. Pass the files or directories through the docs argument; scanned registries are cached per session and invalidated when a file changes.

Configuration: validator defaults come from .docschema.yaml in the server's working directory and DOCSCHEMA_* environment variables set in your MCP client config.

Key settings:
- DOCSCHEMA_RELAXED (default: false) - accept less specific actual types
- DOCSCHEMA_STRICT (default: false) - treat warnings as errors
- DOCSCHEMA_NO_WARNINGS (default: false) - suppress warnings
- DOCSCHEMA_CACHE_ENABLED (default: true) - disable registry caching entirely
- DOCSCHEMA_CACHE_TTL (default: 15m) - cache TTL for scanned documentation sets
- DOCSCHEMA_RESULT_LIMIT (default: 100) - default number of issues returned
- DOCSCHEMA_ALLOW_PRIVATE_IPS (default: false) - allow payload URLs on private networks`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled. settings supply the validator defaults; nil
// means config.Default().
func Run(ctx context.Context, settings *config.Config) error {
	if cfg.CacheEnabled {
		registryCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "docschema", Version: docschema.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server, settings)
	return server.Run(ctx, &mcp.StdioTransport{})
}

// tools holds the settings shared by every tool handler.
type tools struct {
	settings *config.Config
}

func registerAllTools(server *mcp.Server, settings *config.Config) {
	if settings == nil {
		settings = config.Default()
	}
	t := &tools{settings: settings}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_json",
		Description: "Validate a JSON payload against the schema of a documented resource. Provide the payload via file, url or content, the resource via resource_type, and the documentation set via docs (Markdown files or directories). Set expected to validate an actual response against a documented expected response instead. Use no_warnings to focus on errors, and offset/limit to paginate issues.",
	}, t.handleValidate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "infer_schema",
		Description: "Infer a schema from a JSON example whose values are type placeholders (\"string\", \"timestamp\", \"low | high\", 1, true). Returns the inferred properties with their types and optionality. Set json_schema=true to also return the schema as a JSON Schema 2020-12 document.",
	}, t.handleInfer)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_docs",
		Description: "Check a Markdown documentation set: register every resource declared in it and validate every annotated example and response block. Returns totals plus issues located by file and line. Use offset/limit to paginate; use resource_type to restrict results to one resource.",
	}, t.handleCheck)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_resources",
		Description: "List the resources declared in a Markdown documentation set with their base type, key property and property count. Use name to filter by a case-insensitive substring.",
	}, t.handleListResources)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ResultLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ResultLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// pathPattern matches absolute filesystem paths so they are not leaked to
// MCP clients in error messages.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
