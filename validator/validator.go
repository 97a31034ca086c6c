package validator

import (
	"fmt"
	"slices"

	"github.com/erraggy/docschema/annotation"
	"github.com/erraggy/docschema/internal/issues"
	"github.com/erraggy/docschema/internal/jsonvalue"
	"github.com/erraggy/docschema/internal/severity"
	"github.com/erraggy/docschema/logging"
	"github.com/erraggy/docschema/registry"
	"github.com/erraggy/docschema/schema"
)

// Severity indicates the severity level of a validation issue
type Severity = severity.Severity

const (
	// SeverityError indicates a structural mismatch that fails validation
	SeverityError = severity.SeverityError
	// SeverityWarning indicates a suspicious but tolerated difference
	SeverityWarning = severity.SeverityWarning
	// SeverityMessage indicates an informational finding
	SeverityMessage = severity.SeverityMessage
)

// Issue is a single validation finding.
type Issue = issues.Issue

// Result contains the findings of one validation call.
type Result struct {
	// Valid is true if no errors were found. With TreatWarningsAsErrors,
	// warnings also make the result invalid.
	Valid bool
	// ResourceType is the resource the payload was validated against, if any
	ResourceType string
	// Issues contains all findings in report order
	Issues []Issue
	// ErrorCount is the number of errors
	ErrorCount int
	// WarningCount is the number of warnings
	WarningCount int
	// MessageCount is the number of informational messages
	MessageCount int
}

// Errors returns the error-level findings.
func (r *Result) Errors() []Issue {
	return r.filter(severity.SeverityError)
}

// Warnings returns the warning-level findings.
func (r *Result) Warnings() []Issue {
	return r.filter(severity.SeverityWarning)
}

// Codes returns the code of every finding, in report order.
func (r *Result) Codes() []issues.Code {
	codes := make([]issues.Code, 0, len(r.Issues))
	for _, is := range r.Issues {
		codes = append(codes, is.Code)
	}
	return codes
}

func (r *Result) filter(sev severity.Severity) []Issue {
	var out []Issue
	for _, is := range r.Issues {
		if is.Severity == sev {
			out = append(out, is)
		}
	}
	return out
}

// Validator checks JSON payloads against the schemas of a registry.
// A Validator is safe for concurrent use once configured.
type Validator struct {
	// Registry resolves named resource types. Nil behaves as an empty registry.
	Registry *registry.Registry
	// Logger receives diagnostics. Nil discards them.
	Logger logging.Logger
	// MaxDepth limits object nesting in a payload.
	MaxDepth int
	// RelaxedStringValidation accepts less specific actual types with a message.
	RelaxedStringValidation bool
	// IgnorableProperties are never reported as additional properties, at any
	// depth. Nil means DefaultIgnorableProperties.
	IgnorableProperties []string
	// TreatWarningsAsErrors makes warnings fail validation.
	TreatWarningsAsErrors bool
	// IncludeWarnings determines whether warnings are reported.
	IncludeWarnings bool
}

// New creates a Validator over reg with default settings.
func New(reg *registry.Registry, opts ...Option) (*Validator, error) {
	v := &Validator{
		Registry:        reg,
		MaxDepth:        DefaultMaxDepth,
		IncludeWarnings: true,
	}
	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("validator: invalid options: %w", err)
		}
	}
	return v, nil
}

// ValidateSchema validates a single JSON object against s. The registry is
// consulted only for nested named types.
func (v *Validator) ValidateSchema(jsonText string, s *schema.Schema, opts Options) *Result {
	if s == nil {
		return v.finish([]Issue{issues.Errorf(issues.CodeResourceTypeNotFound, "", "no schema to validate against")}, "")
	}
	root, found := parse(jsonText)
	if found != nil {
		return v.finish(found, s.Name())
	}
	w := v.walker()
	obj, ok := jsonvalue.Object(root)
	if !ok {
		return v.finish([]Issue{rootShapeIssue(root)}, s.Name())
	}
	return v.finish(w.container(obj, s, v.seed(opts), "", 0), s.Name())
}

// ValidateExample validates a documentation example described by ann. The
// schema is resolved from ann.ResourceType, falling back to a schema inferred
// from the example itself.
func (v *Validator) ValidateExample(jsonText string, ann annotation.Annotation) *Result {
	root, found := parse(jsonText)
	if found != nil {
		return v.finish(found, ann.TypeName())
	}
	if done, found := checkErrorEnvelope(root, ann); done {
		return v.finish(found, ann.TypeName())
	}

	s, found := v.Registry.ResolveAnnotated(ann, jsonText)
	if s == nil {
		return v.finish(found, ann.TypeName())
	}

	opts := v.seed(Options{
		AllowTruncatedResponses: ann.Truncated,
		CollectionPropertyName:  ann.CollectionPropertyName(),
		OptionalProperties:      ann.OptionalProperties,
		NullableProperties:      ann.NullableProperties,
	})
	found = append(found, v.payload(root, s, ann, opts)...)
	return v.finish(found, s.Name())
}

// ValidateResponse validates an actual response against an expected response
// from the documentation. The expected example supplies the fallback schema
// and, for truncated responses, the set of properties that must still appear.
func (v *Validator) ValidateResponse(expectedJSON, actualJSON string, ann annotation.Annotation) *Result {
	if _, found := parse(expectedJSON); found != nil {
		for i := range found {
			found[i] = found[i].WithPrefix("expected")
		}
		return v.finish(found, ann.TypeName())
	}
	root, found := parse(actualJSON)
	if found != nil {
		return v.finish(found, ann.TypeName())
	}
	if done, found := checkErrorEnvelope(root, ann); done {
		return v.finish(found, ann.TypeName())
	}

	s, found := v.Registry.ResolveAnnotated(ann, expectedJSON)
	if s == nil {
		return v.finish(found, ann.TypeName())
	}

	opts := Options{
		AllowTruncatedResponses: ann.Truncated,
		CollectionPropertyName:  ann.CollectionPropertyName(),
		OptionalProperties:      ann.OptionalProperties,
		NullableProperties:      ann.NullableProperties,
	}
	if expected, err := schema.FromExample(expectedJSON, ann, s); err == nil {
		opts.ExpectedSchema = expected
		opts.RequiredPropertyNames = expected.PropertyNames()
	} else {
		v.log().Debug("expected response has no usable shape", "resource", s.Name(), "error", err)
	}

	found = append(found, v.payload(root, s, ann, v.seed(opts))...)
	return v.finish(found, s.Name())
}

// payload validates a parsed payload in collection or single-object mode.
func (v *Validator) payload(root any, s *schema.Schema, ann annotation.Annotation, opts Options) []Issue {
	w := v.walker()
	if ann.IsCollection {
		return w.collection(root, s, ann, opts)
	}
	obj, ok := jsonvalue.Object(root)
	if !ok {
		return []Issue{rootShapeIssue(root)}
	}
	return w.container(obj, s, opts, "", 0)
}

// seed fills validator-level defaults into caller options.
func (v *Validator) seed(opts Options) Options {
	if opts.IgnorablePropertyTypes == nil {
		opts.IgnorablePropertyTypes = v.ignorable()
	}
	opts.RelaxedStringValidation = opts.RelaxedStringValidation || v.RelaxedStringValidation
	return opts
}

func (v *Validator) ignorable() []string {
	if v.IgnorableProperties != nil {
		return v.IgnorableProperties
	}
	return DefaultIgnorableProperties
}

func (v *Validator) walker() *walker {
	depth := v.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	return &walker{registry: v.Registry, logger: v.log(), maxDepth: depth}
}

func (v *Validator) log() logging.Logger {
	return logging.OrNop(v.Logger)
}

// finish applies the caller escalation policy and counts the findings.
func (v *Validator) finish(found []Issue, resourceType string) *Result {
	if !v.IncludeWarnings {
		found = slices.DeleteFunc(found, func(is Issue) bool { return is.IsWarning() })
	}
	errs, warnings, messages := issues.Count(found)
	result := &Result{
		Valid:        errs == 0 && !(v.TreatWarningsAsErrors && warnings > 0),
		ResourceType: resourceType,
		Issues:       found,
		ErrorCount:   errs,
		WarningCount: warnings,
		MessageCount: messages,
	}
	v.log().Debug("validated payload",
		"resource", resourceType,
		"valid", result.Valid,
		"errors", errs,
		"warnings", warnings)
	return result
}

// parse decodes a payload; a failure is the single terminal finding.
func parse(jsonText string) (any, []Issue) {
	root, err := jsonvalue.Parse(jsonText)
	if err != nil {
		return nil, []Issue{issues.Errorf(issues.CodeJSONParserException, "", "invalid JSON: %v", err)}
	}
	return root, nil
}

// checkErrorEnvelope reports whether validation ends at the error envelope
// check, with the findings to report.
func checkErrorEnvelope(root any, ann annotation.Annotation) (bool, []Issue) {
	obj, _ := jsonvalue.Object(root)
	envelope, hasError := obj["error"]
	switch {
	case hasError && !ann.ExpectError:
		code, message := "", ""
		if e, ok := jsonvalue.Object(envelope); ok {
			code, _ = jsonvalue.StringField(e, "code")
			message, _ = jsonvalue.StringField(e, "message")
		}
		return true, []Issue{issues.Errorf(issues.CodeJSONErrorObject, "error",
			"payload is an error response: code %q, message %q", code, message)}
	case ann.ExpectError && !hasError:
		return true, []Issue{issues.Errorf(issues.CodeJSONErrorObjectExpected, "",
			"an error response was expected but the payload has no error object")}
	case ann.ExpectError:
		return true, nil
	}
	return false, nil
}

func rootShapeIssue(root any) Issue {
	if _, ok := jsonvalue.Array(root); ok {
		return issues.Errorf(issues.CodeExpectedNonArrayValue, "",
			"expected a single object but the payload is an array; is the example a collection?")
	}
	return issues.Errorf(issues.CodeExpectedObjectValue, "",
		"expected an object but the payload is %s", jsonvalue.KindOf(root))
}
