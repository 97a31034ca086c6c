// Package docscan extracts resource declarations and annotated payloads from
// Markdown documentation and checks them against each other.
//
// A code block takes part when an HTML comment holding an annotation object
// immediately precedes it:
//
//	<!-- { "blockType": "resource", "@odata.type": "microsoft.graph.user" } -->
//	```json
//	{ "id": "string", "displayName": "string" }
//	```
//
// Resource blocks declare schemas. Property tables (a header with a
// "Property" and a "Type" column, and optionally "Required" and
// "Description") add field descriptors to the most recent resource of the
// file; tables under a "Relationships" heading describe navigation
// properties. An "Optional" column is read as the negation of "Required".
// Example and response blocks are validated. Responses may be written as raw
// HTTP messages, in which case the JSON body is extracted; a response without
// a body, such as a 204, passes as is. An annotation that cannot be read is
// recorded as an InvalidAnnotation error at its line and the block after it
// is skipped; scanning continues.
//
// [Scanner.ScanFiles] parses files concurrently and [Check] registers every
// declared resource, then validates every example against the registry:
//
//	files, err := docscan.CollectFiles("docs")
//	if err != nil {
//		return err
//	}
//	scanner, _ := docscan.New()
//	docs, err := scanner.ScanFiles(ctx, files)
//	if err != nil {
//		return err
//	}
//	report, err := docscan.Check(ctx, docs, docscan.CheckOptions{})
package docscan
