package schema

import "strings"

// PropertyDefinition describes one declared or observed field. Values are
// copied, never updated in place; reconciling a declared and an observed
// definition of the same field is the validator's job.
type PropertyDefinition struct {
	// Name is the JSON property name.
	Name string
	// Type is the expected shape of the value.
	Type PropertyType
	// Required is nil when the documentation does not say.
	Required *bool
	// OriginalValue is the literal text the type was inferred from, if any.
	OriginalValue string
	// Description is the documented description, if any.
	Description string
}

// IsRequired reports whether the documentation explicitly marks the field required.
func (p PropertyDefinition) IsRequired() bool {
	return p.Required != nil && *p.Required
}

// IsExplicitlyOptional reports whether the documentation explicitly marks the
// field as not required.
func (p PropertyDefinition) IsExplicitlyOptional() bool {
	return p.Required != nil && !*p.Required
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool { return &b }

// IsAnnotationName reports whether a property name is an instance annotation
// ("@odata.etag") or a property annotation ("photo@odata.mediaReadLink").
func IsAnnotationName(name string) bool {
	return strings.Contains(name, "@")
}

// SplitAnnotation splits "base@suffix" into its parts. ok is false when name
// carries no annotation suffix or has no base property.
func SplitAnnotation(name string) (base, suffix string, ok bool) {
	i := strings.IndexByte(name, '@')
	if i <= 0 {
		return "", "", false
	}
	return name[:i], name[i:], true
}

// findMember returns the index of the member called name, or -1.
func findMember(members []PropertyDefinition, name string) int {
	for i := range members {
		if members[i].Name == name {
			return i
		}
	}
	return -1
}
