package schema

// Resource is a named resource declaration collected from the documentation
// set: an example payload plus the field descriptors documented for it.
type Resource struct {
	// Name is the fully qualified resource name, e.g. "microsoft.graph.user".
	Name string `yaml:"name" json:"name"`
	// BaseType names the resource this one derives from, if any.
	BaseType string `yaml:"baseType,omitempty" json:"baseType,omitempty"`
	// Example is the JSON text of the resource example.
	Example string `yaml:"example,omitempty" json:"example,omitempty"`
	// Fields are the documented field descriptors.
	Fields []FieldDescriptor `yaml:"fields,omitempty" json:"fields,omitempty"`
	// OpenType allows properties that are not declared.
	OpenType bool `yaml:"openType,omitempty" json:"openType,omitempty"`
	// KeyPropertyName is the resource key, e.g. "id".
	KeyPropertyName string `yaml:"keyProperty,omitempty" json:"keyProperty,omitempty"`
	// OptionalProperties may be absent from payloads.
	OptionalProperties []string `yaml:"optionalProperties,omitempty" json:"optionalProperties,omitempty"`
	// NullableProperties may be null in payloads.
	NullableProperties []string `yaml:"nullableProperties,omitempty" json:"nullableProperties,omitempty"`
	// SourceFile is where the declaration was found, for diagnostics.
	SourceFile string `yaml:"-" json:"-"`
}

// FieldDescriptor documents one field of a resource, typically a row of a
// property table.
type FieldDescriptor struct {
	// Name is the property name. Dotted names ("address.city") describe
	// members of nested objects.
	Name string `yaml:"name" json:"name"`
	// Type is the declared textual type, parsed with ParseTypeName.
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
	// Required is nil when the documentation does not say.
	Required *bool `yaml:"required,omitempty" json:"required,omitempty"`
	// Description is the documented description.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	// Navigable marks a navigation property, absent from payloads unless expanded.
	Navigable bool `yaml:"navigable,omitempty" json:"navigable,omitempty"`
}

// Lookup finds a resource declaration by name. It is used to walk base types.
type Lookup func(name string) (Resource, bool)
