// Package schemaexport renders resource schemas as JSON Schema (draft
// 2020-12) documents, for use by tooling outside this module.
//
// The export is descriptive: it carries the property types, formats,
// required and nullable sets of a schema, but not the relaxations the
// validator applies (truncation, relaxed types, ignorable annotations).
// Every exported document is compiled with
// github.com/santhosh-tekuri/jsonschema/v6 before it is returned.
package schemaexport
