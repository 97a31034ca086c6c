// Package docerrors provides structured error types for docschema.
//
// Import path: github.com/erraggy/docschema/docerrors
//
// Validation findings are never returned as Go errors; they are reported as
// issues on a validation result. The types in this package cover the
// exceptional cases around that engine: unreadable input, schema sources that
// cannot be turned into a schema, resource limits and bad configuration.
//
// # Error Types
//
//   - [ParseError]: JSON/YAML/Markdown input that cannot be decoded
//   - [BuildError]: a resource declaration or example that cannot become a schema
//   - [ResourceLimitError]: resource exhaustion (nesting depth, file size)
//   - [ConfigError]: invalid configuration or options
//   - [ScanError]: failure reading a documentation file
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrBuild]: Matches any [BuildError]
//   - [ErrResourceLimit]: Matches any [ResourceLimitError]
//   - [ErrConfig]: Matches any [ConfigError]
//   - [ErrScan]: Matches any [ScanError]
//
// # Usage
//
//	reg, err := registry.RegisterAll(resources)
//	if err != nil {
//	    var buildErr *docerrors.BuildError
//	    if errors.As(err, &buildErr) {
//	        log.Printf("resource %s: %s", buildErr.Resource, buildErr.Message)
//	    }
//	}
package docerrors
