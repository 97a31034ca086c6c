package validator

import (
	"slices"

	"github.com/erraggy/docschema/docerrors"
	"github.com/erraggy/docschema/logging"
	"github.com/erraggy/docschema/schema"
)

// DefaultMaxDepth is the default limit on object nesting in a payload.
const DefaultMaxDepth = 100

// DefaultIgnorableProperties are instance and property annotations that may
// appear on any payload without being documented.
var DefaultIgnorableProperties = []string{
	"@odata.context",
	"@odata.count",
	"@odata.deltaLink",
	"@odata.editLink",
	"@odata.etag",
	"@odata.id",
	"@odata.nextLink",
	"@odata.readLink",
	"@odata.associationLink",
	"@odata.navigationLink",
	"@odata.mediaContentType",
	"@odata.mediaEditLink",
	"@odata.mediaEtag",
	"@odata.mediaReadLink",
}

// Options is the per-call, per-nesting-level validation configuration.
// A value is owned by one level of the walk; descending into a property
// derives a new value with ForProperty.
type Options struct {
	// AllowTruncatedResponses tolerates missing properties. When
	// RequiredPropertyNames is set, only those names are still required.
	AllowTruncatedResponses bool
	// RequiredPropertyNames overrides the required set of a truncated payload.
	// Nil means no override; an empty non-nil slice requires nothing.
	RequiredPropertyNames []string
	// CollectionPropertyName is the property wrapping collection members.
	CollectionPropertyName string
	// ExpectedSchema is the shape of an expected response, used to derive
	// RequiredPropertyNames for nested properties.
	ExpectedSchema *schema.Schema
	// RelaxedStringValidation accepts a less specific actual type with an
	// informational message instead of an error.
	RelaxedStringValidation bool
	// IgnorablePropertyTypes lists property names, and annotation suffixes,
	// that are never reported as additional. Nil uses the validator default.
	IgnorablePropertyTypes []string
	// OptionalProperties may be absent at this level only.
	OptionalProperties []string
	// NullableProperties may be null at this level only.
	NullableProperties []string
}

// ForProperty derives the options for the value of property name. The
// truncation flag, collection property, relaxed flag and ignorable set carry
// over. ExpectedSchema and RequiredPropertyNames are recomputed from the
// expected schema's property called name (its inline members, or the inline
// members of its element type), or cleared when there is no such property.
func (o Options) ForProperty(name string) Options {
	child := Options{
		AllowTruncatedResponses: o.AllowTruncatedResponses,
		CollectionPropertyName:  o.CollectionPropertyName,
		RelaxedStringValidation: o.RelaxedStringValidation,
		IgnorablePropertyTypes:  o.IgnorablePropertyTypes,
	}
	if o.ExpectedSchema == nil {
		return child
	}
	p, ok := o.ExpectedSchema.Property(name)
	if !ok {
		return child
	}

	typ := p.Type
	if elem, ok := typ.ElementType(); ok {
		typ = elem
	}
	if !typ.HasInlineMembers() {
		return child
	}
	expected := schema.FromMembers(typ.CustomTypeName(), typ.InlineMembers())
	child.ExpectedSchema = expected
	child.RequiredPropertyNames = expected.PropertyNames()
	return child
}

func (o Options) requiredOverride(name string) bool {
	return slices.Contains(o.RequiredPropertyNames, name)
}

// Option is a function that configures a Validator.
type Option func(*Validator) error

// WithLogger sets the logger for validation diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(v *Validator) error {
		v.Logger = l
		return nil
	}
}

// WithMaxDepth sets the limit on object nesting in a payload.
// Default: DefaultMaxDepth
func WithMaxDepth(depth int) Option {
	return func(v *Validator) error {
		if depth < 1 {
			return &docerrors.ConfigError{
				Option:  "MaxDepth",
				Value:   depth,
				Message: "must be at least 1",
			}
		}
		v.MaxDepth = depth
		return nil
	}
}

// WithRelaxedStringValidation accepts less specific actual types with an
// informational message.
// Default: false
func WithRelaxedStringValidation(enabled bool) Option {
	return func(v *Validator) error {
		v.RelaxedStringValidation = enabled
		return nil
	}
}

// WithIgnorableProperties replaces the ignorable property list.
// Default: DefaultIgnorableProperties
func WithIgnorableProperties(names ...string) Option {
	return func(v *Validator) error {
		v.IgnorableProperties = append([]string{}, names...)
		return nil
	}
}

// WithTreatWarningsAsErrors makes warnings fail validation.
// Default: false
func WithTreatWarningsAsErrors(enabled bool) Option {
	return func(v *Validator) error {
		v.TreatWarningsAsErrors = enabled
		return nil
	}
}

// WithIncludeWarnings enables or disables warnings in results.
// Default: true
func WithIncludeWarnings(enabled bool) Option {
	return func(v *Validator) error {
		v.IncludeWarnings = enabled
		return nil
	}
}
