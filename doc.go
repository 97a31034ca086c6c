// Package docschema infers schemas from the JSON examples of an API
// documentation set and validates example payloads against them.
//
// A documentation set declares resources with annotated JSON code blocks.
// Each resource example defines the resource's schema: the example's values
// are read as type placeholders ("string", "timestamp", "low | high", 1,
// true) and merged with the property tables of the same page. Every other
// annotated example or response block is then validated against the schema
// of the resource it names.
//
// # Overview
//
// The library consists of these packages:
//
//   - annotation: the metadata record attached to a code block
//   - schema: property types, type inference and per-resource schemas
//   - registry: builds and resolves the schemas of a documentation set
//   - validator: validates JSON payloads against registered schemas
//   - docscan: extracts annotated blocks and property tables from Markdown
//   - scenario: txtar regression archives of resources and payload checks
//   - schemaexport: renders registered schemas as JSON Schema 2020-12
//   - docerrors: structured error types shared by all packages
//   - logging: the pluggable logger used by all packages
//
// # Quick Start
//
// Register resources and validate an example:
//
//	import (
//		"github.com/erraggy/docschema/annotation"
//		"github.com/erraggy/docschema/registry"
//		"github.com/erraggy/docschema/schema"
//		"github.com/erraggy/docschema/validator"
//	)
//
//	reg, err := registry.RegisterAll([]schema.Resource{{
//		Name:    "microsoft.graph.user",
//		Example: `{"id": "string", "displayName": "string", "createdDateTime": "timestamp"}`,
//	}})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	v, err := validator.New(reg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	result := v.ValidateExample(`{"id": 42}`, annotation.Annotation{
//		ResourceType: "microsoft.graph.user",
//		Truncated:    true,
//	})
//	for _, issue := range result.Issues {
//		fmt.Println(issue)
//	}
//
// Check a whole Markdown documentation set:
//
//	s, _ := docscan.New()
//	files, _ := docscan.CollectFiles("docs")
//	docs, err := s.ScanFiles(ctx, files)
//	if err != nil {
//		log.Fatal(err)
//	}
//	report, err := docscan.Check(ctx, docs, docscan.CheckOptions{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%d errors, %d warnings\n", report.ErrorCount, report.WarningCount)
//
// # Type Inference
//
// Placeholder strings name the type of a property: "string", "timestamp" or
// "datetime", "url", "guid", "binary" and "stream", and enumerations written
// as "value1 | value2". Numbers infer Int64 or Double, and objects and
// arrays infer their members recursively. A null example value infers a
// non-specific type that accepts any value.
//
// Property tables refine the inferred types: a Type column overrides the
// inferred type, and a Required column or a leading "Optional." in the
// description marks the property optional.
//
// # Validation
//
// Findings carry a severity (error, warning or message), a stable code and
// the breadcrumb path of the offending value, e.g. "value[2].manager.id".
// Warnings do not fail validation unless TreatWarningsAsErrors is set.
// Examples marked truncated may omit required properties, and collection
// examples validate every member of the wrapping "value" array.
//
// # Command Line
//
// The docschema command wraps the packages:
//
//	docschema check docs/
//	docschema validate --type microsoft.graph.user --docs docs/ payload.json
//	docschema infer --type microsoft.graph.user example.json
//	docschema export --docs docs/ --out schemas/
//	docschema scenario testdata/
//	docschema mcp
//
// Settings are read from .docschema.yaml in the working directory and from
// DOCSCHEMA_* environment variables.
package docschema
