package schema

import (
	"slices"
	"strings"
)

// Kind is the base classification of a property type.
type Kind int

const (
	// KindBoolean is a JSON true/false value.
	KindBoolean Kind = iota + 1
	// KindInt64 is an integral number.
	KindInt64
	// KindDouble is any number.
	KindDouble
	// KindString is a string, optionally constrained by a StringFormat.
	KindString
	// KindDateTimeOffset is an ISO-8601 timestamp carried as a string.
	KindDateTimeOffset
	// KindGuid is a UUID carried as a string.
	KindGuid
	// KindStream is a media stream reference carried as a string.
	KindStream
	// KindBinary is base64 encoded binary content.
	KindBinary
	// KindGenericObject is an object, or any value, with no known shape.
	KindGenericObject
	// KindGenericCollection is an array with no known element type.
	KindGenericCollection
	// KindObject is an object with a named type and/or inline members.
	KindObject
	// KindCollection is an array with a known element type.
	KindCollection
)

var kindNames = map[Kind]string{
	KindBoolean:           "Boolean",
	KindInt64:             "Int64",
	KindDouble:            "Double",
	KindString:            "String",
	KindDateTimeOffset:    "DateTimeOffset",
	KindGuid:              "Guid",
	KindStream:            "Stream",
	KindBinary:            "Binary",
	KindGenericObject:     "Object",
	KindGenericCollection: "Collection",
	KindObject:            "Object",
	KindCollection:        "Collection",
}

// String returns the documentation name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// FormatKind classifies the textual format of a string property.
type FormatKind int

const (
	// FormatGeneric accepts any string.
	FormatGeneric FormatKind = iota
	// FormatDateTime requires an ISO-8601 date-time.
	FormatDateTime
	// FormatURL requires an absolute URL.
	FormatURL
	// FormatEnum requires one of an enumerated set of values.
	FormatEnum
)

// StringFormat constrains the value of a string property.
type StringFormat struct {
	Kind   FormatKind
	Values []string // enumerated members, FormatEnum only
}

// String returns a short description of the format.
func (f StringFormat) String() string {
	switch f.Kind {
	case FormatDateTime:
		return "DateTime"
	case FormatURL:
		return "Url"
	case FormatEnum:
		return "Enum(" + strings.Join(f.Values, " | ") + ")"
	default:
		return "Generic"
	}
}

// PropertyType describes the shape of one field independently of any value.
// The zero value is not a valid type; use the constructors.
type PropertyType struct {
	kind        Kind
	elem        *PropertyType
	customType  string
	members     []PropertyDefinition
	format      StringFormat
	nonSpecific bool
	// mixed marks the element type of an array whose members share no type.
	mixed bool
}

// Simple returns a primitive or generic type of the given kind.
func Simple(k Kind) PropertyType {
	return PropertyType{kind: k}
}

// StringOf returns a string type constrained by format.
func StringOf(format StringFormat) PropertyType {
	format.Values = slices.Clone(format.Values)
	return PropertyType{kind: KindString, format: format}
}

// CollectionOf returns a collection whose members have type elem.
func CollectionOf(elem PropertyType) PropertyType {
	e := elem
	return PropertyType{kind: KindCollection, elem: &e}
}

// ObjectOf returns an object type. customType names a resource in the
// registry; members is the inline shape captured from an example. Both may be
// set when inference could not yet decide which applies.
func ObjectOf(customType string, members []PropertyDefinition) PropertyType {
	if customType == "" && members == nil {
		return Simple(KindGenericObject)
	}
	return PropertyType{kind: KindObject, customType: customType, members: slices.Clone(members)}
}

// Unspecified is the type inferred from a null example value. No shape is
// assumed from it, so any value satisfies it.
func Unspecified() PropertyType {
	return PropertyType{kind: KindGenericObject, nonSpecific: true}
}

// mixedType is inferred for array members of unrelated types. Like
// Unspecified it accepts any value, but later members never narrow it.
func mixedType() PropertyType {
	return PropertyType{kind: KindGenericObject, nonSpecific: true, mixed: true}
}

// Kind returns the base kind.
func (t PropertyType) Kind() Kind { return t.kind }

// IsCollection reports whether the type is an array type.
func (t PropertyType) IsCollection() bool {
	return t.kind == KindCollection || t.kind == KindGenericCollection
}

// IsObject reports whether the type is an object type.
func (t PropertyType) IsObject() bool {
	return t.kind == KindObject || t.kind == KindGenericObject
}

// IsSimple reports whether the type is neither a collection nor an object.
func (t PropertyType) IsSimple() bool {
	return t.kind != 0 && !t.IsCollection() && !t.IsObject()
}

// IsNonSpecific reports whether the type was inferred from a null literal, or
// from array members of unrelated types.
func (t PropertyType) IsNonSpecific() bool { return t.nonSpecific }

// ElementType returns the member type of a collection. Generic collections
// report false.
func (t PropertyType) ElementType() (PropertyType, bool) {
	if t.kind != KindCollection || t.elem == nil {
		return PropertyType{}, false
	}
	return *t.elem, true
}

// CustomTypeName returns the named resource type of an object, or of the
// members of a collection of objects.
func (t PropertyType) CustomTypeName() string {
	if t.kind == KindCollection && t.elem != nil {
		return t.elem.CustomTypeName()
	}
	return t.customType
}

// InlineMembers returns a copy of the inline members of an object type.
func (t PropertyType) InlineMembers() []PropertyDefinition {
	return slices.Clone(t.members)
}

// HasInlineMembers reports whether the object carries an inline shape.
func (t PropertyType) HasInlineMembers() bool { return t.members != nil }

// Format returns the string format; FormatGeneric for non-strings.
func (t PropertyType) Format() StringFormat {
	f := t.format
	f.Values = slices.Clone(f.Values)
	return f
}

// withMembers returns a copy of t with replaced inline members.
func (t PropertyType) withMembers(members []PropertyDefinition) PropertyType {
	t.members = members
	return t
}

// String renders the type the way documentation tables spell it.
func (t PropertyType) String() string {
	switch t.kind {
	case KindCollection:
		if t.elem == nil {
			return "Collection"
		}
		return "Collection(" + t.elem.String() + ")"
	case KindObject:
		if t.customType != "" {
			return t.customType
		}
		return "Object"
	case KindString:
		if t.format.Kind != FormatGeneric {
			return "String(" + t.format.String() + ")"
		}
	}
	return t.kind.String()
}

// Equal reports whether two types have the same shape. Inline members are
// compared by name and type; descriptions are ignored.
func (t PropertyType) Equal(o PropertyType) bool {
	if t.kind != o.kind || t.customType != o.customType || t.nonSpecific != o.nonSpecific || t.mixed != o.mixed {
		return false
	}
	if t.format.Kind != o.format.Kind || !slices.Equal(t.format.Values, o.format.Values) {
		return false
	}
	if (t.elem == nil) != (o.elem == nil) || (t.elem != nil && !t.elem.Equal(*o.elem)) {
		return false
	}
	return slices.EqualFunc(t.members, o.members, func(a, b PropertyDefinition) bool {
		return a.Name == b.Name && a.Type.Equal(b.Type)
	})
}

// IsLessSpecificThan reports whether t is a widening of other: a value of
// type other always satisfies t, but not the reverse.
//
//	Double          < Int64
//	String          < DateTimeOffset, Guid, Binary, Stream
//	Object          < any named or inline object
//	Collection      < any typed collection
func (t PropertyType) IsLessSpecificThan(other PropertyType) bool {
	switch t.kind {
	case KindDouble:
		return other.kind == KindInt64
	case KindString:
		if t.format.Kind != FormatGeneric {
			return false
		}
		switch other.kind {
		case KindDateTimeOffset, KindGuid, KindBinary, KindStream:
			return true
		}
		return false
	case KindGenericObject:
		return other.kind == KindObject
	case KindGenericCollection:
		return other.kind == KindCollection
	case KindCollection:
		if t.elem == nil || other.kind != KindCollection || other.elem == nil {
			return false
		}
		if t.elem.kind == KindGenericCollection {
			return other.elem.kind != KindGenericCollection
		}
		return t.elem.IsLessSpecificThan(*other.elem)
	}
	return false
}

// ParseTypeName converts a declared textual type, as written in property
// tables ("String", "Int32", "Collection(microsoft.graph.user)",
// "Edm.DateTimeOffset"), into a PropertyType. Unrecognised names are treated
// as named resource types.
func ParseTypeName(text string) PropertyType {
	name := strings.TrimSpace(text)
	name = strings.Trim(name, "`")
	name = strings.TrimPrefix(name, "#")
	if name == "" {
		return Unspecified()
	}

	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "collection(") && strings.HasSuffix(lower, ")") {
		inner := name[len("collection(") : len(name)-1]
		if strings.TrimSpace(inner) == "" {
			return Simple(KindGenericCollection)
		}
		return CollectionOf(ParseTypeName(inner))
	}
	if strings.HasSuffix(name, "[]") {
		return CollectionOf(ParseTypeName(strings.TrimSuffix(name, "[]")))
	}

	switch strings.TrimPrefix(lower, "edm.") {
	case "string", "date", "timeofday", "duration":
		return Simple(KindString)
	case "int", "int16", "int32", "int64", "integer", "byte", "sbyte", "long":
		return Simple(KindInt64)
	case "double", "single", "float", "decimal", "number":
		return Simple(KindDouble)
	case "bool", "boolean":
		return Simple(KindBoolean)
	case "datetimeoffset", "datetime", "timestamp":
		return Simple(KindDateTimeOffset)
	case "guid", "uuid":
		return Simple(KindGuid)
	case "stream":
		return Simple(KindStream)
	case "binary":
		return Simple(KindBinary)
	case "object", "json", "complextype", "entity":
		return Simple(KindGenericObject)
	case "collection", "array":
		return Simple(KindGenericCollection)
	}
	return ObjectOf(name, nil)
}
