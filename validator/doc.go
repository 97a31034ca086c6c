// Package validator checks JSON payloads from API documentation against
// resource schemas.
//
// # Overview
//
// A [Validator] walks a parsed payload against a [schema.Schema], resolving
// named nested types through a [registry.Registry], and reports findings as
// issues. Structural mismatches never surface as Go errors; every mismatch
// becomes an [Issue] with a stable code and a breadcrumb path such as
// "value[2].address.city".
//
// # Entry Points
//
//   - [Validator.ValidateSchema] validates one object against a given schema.
//   - [Validator.ValidateExample] validates a documentation example, resolving
//     its schema from the annotation's resource type.
//   - [Validator.ValidateResponse] validates an actual response against an
//     expected response from the documentation.
//
// # Algorithm
//
// Each call parses the payload, checks for an error envelope ({"error": ...}),
// unwraps collections, dispatches on the "@odata.type" discriminator, checks
// every present property and finally reports the declared properties that
// never appeared. The rules for a present property are:
//
//   - same simple kind: accepted; strings are checked against their format
//     (date-time, absolute URL, enumerated values)
//   - a less specific actual kind (a Double for an Int64, a plain string for a
//     Guid): an error, or an informational message in relaxed mode
//   - null: a warning unless the property is nullable
//   - array/non-array mismatch: an error
//   - nested objects: validated against the named resource or the inline
//     shape from the example
//   - undeclared properties: a warning, unless ignorable, an allowed
//     annotation on a declared property, or the schema is an open type
//
// Truncated payloads may omit properties; when an expected response is
// available only the properties it shows are still required.
//
// # Severity
//
// Errors fail validation. Warnings and messages do not, unless the caller
// opts in with [WithTreatWarningsAsErrors]. [WithIncludeWarnings] silences
// warnings entirely.
//
// # Example
//
//	reg, _ := registry.RegisterAll(resources)
//	v, err := validator.New(reg, validator.WithRelaxedStringValidation(true))
//	if err != nil {
//		log.Fatal(err)
//	}
//	result := v.ValidateExample(payload, annotation.Annotation{
//		ResourceType: "microsoft.graph.user",
//		IsCollection: true,
//	})
//	for _, issue := range result.Issues {
//		fmt.Println(issue)
//	}
package validator
