package schema

import (
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/docschema/annotation"
	"github.com/erraggy/docschema/docerrors"
	"github.com/erraggy/docschema/internal/jsonvalue"
	"github.com/erraggy/docschema/internal/pathutil"
)

// DiscriminatorProperty is the property whose value names the concrete type
// of a polymorphic object.
const DiscriminatorProperty = "@odata.type"

// previewLimit bounds OriginalValue captured during inference.
const previewLimit = 120

// memberHints supplies the declared type of a field, when the container
// already knows one.
type memberHints func(name string) (PropertyType, bool)

func noHints(string) (PropertyType, bool) { return PropertyType{}, false }

// hintsFromMembers exposes a member list as hints.
func hintsFromMembers(members []PropertyDefinition) memberHints {
	if len(members) == 0 {
		return noHints
	}
	return func(name string) (PropertyType, bool) {
		if i := findMember(members, name); i >= 0 {
			return members[i].Type, true
		}
		return PropertyType{}, false
	}
}

// hintsFromSchema exposes a schema's properties as hints.
func hintsFromSchema(s *Schema) memberHints {
	if s == nil {
		return noHints
	}
	return func(name string) (PropertyType, bool) {
		p, ok := s.Property(name)
		return p.Type, ok
	}
}

// InferType infers the shape of a decoded JSON value. String values are
// inspected as documentation templates (see SniffFormat), so InferType is
// meant for documentation examples, not for live payloads.
func InferType(v any) (PropertyType, error) {
	return inferType(v, "", nil)
}

func inferType(v any, path string, hint *PropertyType) (PropertyType, error) {
	switch jsonvalue.KindOf(v) {
	case jsonvalue.KindNull:
		return Unspecified(), nil
	case jsonvalue.KindBool:
		return Simple(KindBoolean), nil
	case jsonvalue.KindInteger:
		return Simple(KindInt64), nil
	case jsonvalue.KindNumber:
		return Simple(KindDouble), nil
	case jsonvalue.KindString:
		return StringOf(SniffFormat(v.(string))), nil
	case jsonvalue.KindObject:
		return inferObject(v.(map[string]any), path, hint)
	case jsonvalue.KindArray:
		return inferArray(v.([]any), path, hint)
	default:
		return PropertyType{}, &docerrors.BuildError{
			Property: path,
			Message:  fmt.Sprintf("unsupported JSON token %T", v),
		}
	}
}

func inferObject(obj map[string]any, path string, hint *PropertyType) (PropertyType, error) {
	if disc, ok := jsonvalue.StringField(obj, DiscriminatorProperty); ok && annotation.TrimTypeName(disc) != "" {
		return ObjectOf(annotation.TrimTypeName(disc), nil), nil
	}

	hints := noHints
	customType := ""
	if hint != nil && hint.kind == KindObject {
		hints = hintsFromMembers(hint.members)
		customType = hint.customType
	}

	members, err := inferMembers(obj, path, hints)
	if err != nil {
		return PropertyType{}, err
	}
	return PropertyType{kind: KindObject, customType: customType, members: members}, nil
}

func inferArray(arr []any, path string, hint *PropertyType) (PropertyType, error) {
	var elemHint *PropertyType
	if hint != nil {
		if hint.IsCollection() && len(arr) == 0 {
			return *hint, nil
		}
		if e, ok := hint.ElementType(); ok {
			elemHint = &e
		}
	}
	if len(arr) == 0 {
		return CollectionOf(Simple(KindGenericCollection)), nil
	}

	elem, err := inferType(arr[0], pathutil.IndexPath(path, 0), elemHint)
	if err != nil {
		return PropertyType{}, err
	}
	if elem.IsCollection() {
		return CollectionOf(Simple(KindGenericCollection)), nil
	}
	for i := 1; i < len(arr); i++ {
		next, err := inferType(arr[i], pathutil.IndexPath(path, i), elemHint)
		if err != nil {
			return PropertyType{}, err
		}
		elem = widen(elem, next)
	}
	return CollectionOf(elem), nil
}

// widen folds a later collection member into the element type inferred from
// the first member, so every member of the example satisfies the result.
// Numbers widen to the less specific kind, strings with differing formats
// become generic, and object members missing from some elements become
// optional. Members with no common type leave the element unconstrained.
func widen(acc, next PropertyType) PropertyType {
	switch {
	case acc.mixed || next.mixed:
		return mixedType()
	case acc.nonSpecific:
		return next
	case next.nonSpecific:
		return acc
	case acc.kind == KindObject && next.kind == KindObject:
		if acc.customType != "" && next.customType != "" {
			return acc
		}
		if acc.customType != next.customType {
			return mixedType()
		}
		return acc.withMembers(unionMembers(acc.members, next.members))
	case acc.kind == KindString && next.kind == KindString:
		if acc.format.Kind != next.format.Kind || !slices.Equal(acc.format.Values, next.format.Values) {
			return Simple(KindString)
		}
		return acc
	case next.IsLessSpecificThan(acc):
		return next
	case acc.Equal(next), acc.IsLessSpecificThan(next):
		return acc
	}
	return mixedType()
}

func unionMembers(a, b []PropertyDefinition) []PropertyDefinition {
	out := make([]PropertyDefinition, 0, len(a)+len(b))
	for _, m := range a {
		if i := findMember(b, m.Name); i >= 0 {
			m.Type = widen(m.Type, b[i].Type)
		} else if m.Required == nil {
			m.Required = BoolPtr(false)
		}
		out = append(out, m)
	}
	for _, m := range b {
		if findMember(a, m.Name) >= 0 {
			continue
		}
		if m.Required == nil {
			m.Required = BoolPtr(false)
		}
		out = append(out, m)
	}
	slices.SortFunc(out, func(x, y PropertyDefinition) int { return strings.Compare(x.Name, y.Name) })
	return out
}

// inferMembers infers one definition per non-annotation property of obj, in
// name order.
func inferMembers(obj map[string]any, path string, hints memberHints) ([]PropertyDefinition, error) {
	names := make([]string, 0, len(obj))
	for name := range obj {
		if IsAnnotationName(name) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)

	members := make([]PropertyDefinition, 0, len(names))
	for _, name := range names {
		var hint *PropertyType
		if h, ok := hints(name); ok {
			hint = &h
		}
		t, err := inferType(obj[name], pathutil.JoinPath(path, name), hint)
		if err != nil {
			return nil, err
		}
		members = append(members, PropertyDefinition{
			Name:          name,
			Type:          t,
			OriginalValue: jsonvalue.Preview(obj[name], previewLimit),
		})
	}
	return members, nil
}

// SniffFormat derives a string format from the textual template an example
// uses for a value: "timestamp" or "datetime" mark a date-time, "url" marks an
// absolute URL, and "a | b | c" lists the allowed values. Literal values are
// never parsed; anything else is FormatGeneric.
func SniffFormat(template string) StringFormat {
	t := strings.ToLower(strings.TrimSpace(template))
	switch t {
	case "timestamp", "datetime", "date-time", "datetimeoffset",
		"string (timestamp)", "string (datetime)", "string (date-time)":
		return StringFormat{Kind: FormatDateTime}
	case "url", "uri", "string (url)", "string (uri)":
		return StringFormat{Kind: FormatURL}
	}

	if strings.Contains(template, "|") {
		var values []string
		for _, part := range strings.Split(template, "|") {
			if v := strings.TrimSpace(part); v != "" {
				values = append(values, v)
			}
		}
		if len(values) > 1 {
			return StringFormat{Kind: FormatEnum, Values: values}
		}
	}
	return StringFormat{Kind: FormatGeneric}
}
