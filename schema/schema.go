package schema

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/erraggy/docschema/annotation"
	"github.com/erraggy/docschema/docerrors"
	"github.com/erraggy/docschema/internal/jsonvalue"
	"github.com/erraggy/docschema/internal/pathutil"
)

// Schema is the expected field set of one named or ad hoc resource shape.
//
// A Schema is read-only once built, except for its child map, which the
// registry populates through RegisterChild while linking subtypes. The child
// map is guarded, so concurrent lookups during registration are safe.
type Schema struct {
	name        string
	baseType    string
	keyProperty string
	openType    bool
	properties  map[string]PropertyDefinition
	optional    map[string]struct{}
	nullable    map[string]struct{}

	mu       sync.RWMutex
	children map[string]*Schema
}

func newSchema(name string) *Schema {
	return &Schema{
		name:       annotation.TrimTypeName(name),
		properties: make(map[string]PropertyDefinition),
		optional:   make(map[string]struct{}),
		nullable:   make(map[string]struct{}),
		children:   make(map[string]*Schema),
	}
}

// FromResource builds the schema of a declared resource. The example is
// inferred first, then the field descriptors are overlaid, then every
// ancestor reachable through BaseType is folded in; properties already
// present in a derived resource win. lookup may be nil when the resource has
// no base type. Missing or cyclic base types end the walk without error.
func FromResource(res Resource, lookup Lookup) (*Schema, error) {
	s := newSchema(res.Name)
	s.baseType = annotation.TrimTypeName(res.BaseType)
	s.keyProperty = res.KeyPropertyName
	s.openType = res.OpenType

	if err := s.addOwn(res); err != nil {
		return nil, err
	}

	seen := map[string]bool{s.name: true}
	base := s.baseType
	for base != "" && lookup != nil && !seen[base] {
		seen[base] = true
		parent, ok := lookup(base)
		if !ok {
			break
		}
		inherited := newSchema(parent.Name)
		if err := inherited.addOwn(parent); err != nil {
			return nil, &docerrors.BuildError{
				Resource: s.name,
				Message:  fmt.Sprintf("base type %s", base),
				Cause:    err,
			}
		}
		s.fold(inherited)
		s.openType = s.openType || parent.OpenType
		if s.keyProperty == "" {
			s.keyProperty = parent.KeyPropertyName
		}
		base = annotation.TrimTypeName(parent.BaseType)
	}
	return s, nil
}

// addOwn fills s from the resource's own example and descriptors.
func (s *Schema) addOwn(res Resource) error {
	if strings.TrimSpace(res.Example) != "" {
		v, err := jsonvalue.Parse(res.Example)
		if err != nil {
			return &docerrors.BuildError{Resource: s.name, Message: "invalid example", Cause: err}
		}
		obj, ok := exampleObject(v)
		if !ok {
			return &docerrors.BuildError{
				Resource: s.name,
				Message:  fmt.Sprintf("example must be an object, got %s", jsonvalue.KindOf(v)),
			}
		}
		members, err := inferMembers(obj, "", noHints)
		if err != nil {
			return withResource(err, s.name)
		}
		for _, m := range members {
			s.properties[m.Name] = m
		}
	}

	for _, fd := range res.Fields {
		s.applyDescriptor(fd)
	}
	s.markOptional(res.OptionalProperties...)
	s.markNullable(res.NullableProperties...)
	return nil
}

func (s *Schema) applyDescriptor(fd FieldDescriptor) {
	name := strings.TrimSpace(fd.Name)
	if name == "" {
		return
	}
	if strings.Contains(name, ".") {
		parts := strings.Split(name, ".")
		p, ok := s.properties[parts[0]]
		if !ok {
			return
		}
		p.Type = backfill(p.Type, parts[1:], fd)
		s.properties[p.Name] = p
		return
	}

	p, ok := s.properties[name]
	if !ok {
		if strings.TrimSpace(fd.Type) == "" {
			// may describe an inherited property
			if fd.Navigable || (fd.Required != nil && !*fd.Required) {
				s.markOptional(name)
			}
			return
		}
		p = PropertyDefinition{Name: name, Type: ParseTypeName(fd.Type)}
	} else if strings.TrimSpace(fd.Type) != "" {
		p.Type = overlayType(p.Type, ParseTypeName(fd.Type))
	}
	if fd.Description != "" {
		p.Description = fd.Description
	}
	if fd.Required != nil {
		p.Required = BoolPtr(*fd.Required)
		if !*fd.Required {
			s.markOptional(name)
		}
	} else if fd.Navigable {
		s.markOptional(name)
	}
	s.properties[name] = p
}

// overlayType combines an inferred type with a declared one. The declared
// type wins, but inline shape and string formats seen in the example are kept
// where the declaration does not contradict them.
func overlayType(inferred, declared PropertyType) PropertyType {
	switch {
	case declared.kind == KindObject && inferred.kind == KindObject && inferred.customType == "":
		return PropertyType{kind: KindObject, customType: declared.customType, members: inferred.members}
	case declared.kind == KindCollection && inferred.kind == KindCollection &&
		declared.elem != nil && inferred.elem != nil:
		return CollectionOf(overlayType(*inferred.elem, *declared.elem))
	case declared.kind == KindString && declared.format.Kind == FormatGeneric && inferred.kind == KindString:
		return inferred
	case declared.nonSpecific:
		return inferred
	}
	return declared
}

// backfill applies a dotted descriptor to the nested member named by path.
func backfill(t PropertyType, path []string, fd FieldDescriptor) PropertyType {
	if t.kind == KindCollection && t.elem != nil {
		return CollectionOf(backfill(*t.elem, path, fd))
	}
	if t.kind != KindObject || len(path) == 0 {
		return t
	}
	members := slices.Clone(t.members)
	i := findMember(members, path[0])
	if i < 0 {
		return t
	}
	if len(path) > 1 {
		members[i].Type = backfill(members[i].Type, path[1:], fd)
		return t.withMembers(members)
	}
	if fd.Description != "" {
		members[i].Description = fd.Description
	}
	if strings.TrimSpace(fd.Type) != "" {
		members[i].Type = overlayType(members[i].Type, ParseTypeName(fd.Type))
	}
	if fd.Required != nil {
		members[i].Required = BoolPtr(*fd.Required)
	}
	return t.withMembers(members)
}

// fold adds every ancestor property not already declared by s.
func (s *Schema) fold(ancestor *Schema) {
	for name, p := range ancestor.properties {
		if _, ok := s.properties[name]; ok {
			continue
		}
		s.properties[name] = p
		if _, ok := ancestor.optional[name]; ok {
			s.optional[name] = struct{}{}
		}
		if _, ok := ancestor.nullable[name]; ok {
			s.nullable[name] = struct{}{}
		}
	}
}

// FromExample infers an ad hoc schema from one JSON example described by ann.
// For collection examples the members of the designated collection property
// (or of a top-level array) are inferred and merged. container, when not nil,
// supplies declared types for fields of the same name.
func FromExample(jsonText string, ann annotation.Annotation, container *Schema) (*Schema, error) {
	s := newSchema(ann.TypeName())
	s.openType = ann.OpenType
	s.keyProperty = ann.KeyProperty
	s.baseType = annotation.TrimTypeName(ann.BaseType)

	v, err := jsonvalue.Parse(jsonText)
	if err != nil {
		return nil, &docerrors.BuildError{Resource: s.name, Message: "invalid example", Cause: err}
	}
	if ann.IsCollection {
		if obj, ok := jsonvalue.Object(v); ok {
			if inner, ok := obj[ann.CollectionPropertyName()]; ok {
				v = inner
			}
		}
	}

	var members []PropertyDefinition
	switch jsonvalue.KindOf(v) {
	case jsonvalue.KindObject:
		members, err = inferMembers(v.(map[string]any), "", hintsFromSchema(container))
	case jsonvalue.KindArray:
		members, err = inferElementMembers(v.([]any), hintsFromSchema(container))
	default:
		err = &docerrors.BuildError{
			Message: fmt.Sprintf("example must be an object or array, got %s", jsonvalue.KindOf(v)),
		}
	}
	if err != nil {
		return nil, withResource(err, s.name)
	}

	for _, m := range members {
		s.properties[m.Name] = m
		if m.IsExplicitlyOptional() {
			s.optional[m.Name] = struct{}{}
		}
	}
	s.markOptional(ann.OptionalProperties...)
	s.markNullable(ann.NullableProperties...)
	return s, nil
}

// FromMembers returns an ad hoc schema over the inline members of an object.
// Members explicitly marked as not required are optional.
func FromMembers(name string, members []PropertyDefinition) *Schema {
	s := newSchema(name)
	for _, m := range members {
		s.properties[m.Name] = m
		if m.IsExplicitlyOptional() {
			s.optional[m.Name] = struct{}{}
		}
	}
	return s
}

// inferElementMembers merges the members of every object in a collection
// example. Members missing from some elements become optional.
func inferElementMembers(arr []any, hints memberHints) ([]PropertyDefinition, error) {
	var merged []PropertyDefinition
	first := true
	for i, item := range arr {
		obj, ok := jsonvalue.Object(item)
		if !ok {
			continue
		}
		members, err := inferMembers(obj, pathutil.IndexPath("", i), hints)
		if err != nil {
			return nil, err
		}
		if first {
			merged, first = members, false
			continue
		}
		merged = unionMembers(merged, members)
	}
	return merged, nil
}

func exampleObject(v any) (map[string]any, bool) {
	if obj, ok := jsonvalue.Object(v); ok {
		return obj, true
	}
	if arr, ok := jsonvalue.Array(v); ok && len(arr) > 0 {
		return jsonvalue.Object(arr[0])
	}
	return nil, false
}

func withResource(err error, name string) error {
	var be *docerrors.BuildError
	if errors.As(err, &be) && be.Resource == "" {
		copied := *be
		copied.Resource = name
		return &copied
	}
	return err
}

func (s *Schema) markOptional(names ...string) {
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			s.optional[n] = struct{}{}
		}
	}
}

func (s *Schema) markNullable(names ...string) {
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			s.nullable[n] = struct{}{}
		}
	}
}

// Name returns the resource name; empty for anonymous schemas.
func (s *Schema) Name() string { return s.name }

// BaseType returns the declared base type name.
func (s *Schema) BaseType() string { return s.baseType }

// KeyProperty returns the key property name, if documented.
func (s *Schema) KeyProperty() string { return s.keyProperty }

// OpenType reports whether undeclared properties are allowed.
func (s *Schema) OpenType() bool { return s.openType }

// Property returns the expected property called name. Names are case-sensitive.
func (s *Schema) Property(name string) (PropertyDefinition, bool) {
	p, ok := s.properties[name]
	return p, ok
}

// Len returns the number of expected properties.
func (s *Schema) Len() int { return len(s.properties) }

// PropertyNames returns the expected property names in sorted order.
func (s *Schema) PropertyNames() []string {
	return slices.Sorted(maps.Keys(s.properties))
}

// Properties returns the expected properties sorted by name.
func (s *Schema) Properties() []PropertyDefinition {
	out := make([]PropertyDefinition, 0, len(s.properties))
	for _, name := range s.PropertyNames() {
		out = append(out, s.properties[name])
	}
	return out
}

// IsOptional reports whether name may be absent.
func (s *Schema) IsOptional(name string) bool {
	_, ok := s.optional[name]
	return ok
}

// IsNullable reports whether name may be null without a warning.
func (s *Schema) IsNullable(name string) bool {
	_, ok := s.nullable[name]
	return ok
}

// OptionalPropertyNames returns the optional property names in sorted order.
func (s *Schema) OptionalPropertyNames() []string {
	return slices.Sorted(maps.Keys(s.optional))
}

// NullablePropertyNames returns the nullable property names in sorted order.
func (s *Schema) NullablePropertyNames() []string {
	return slices.Sorted(maps.Keys(s.nullable))
}

// RegisterChild records child as a subtype of s, keyed by the child's
// resource name. Registering s under itself, or an anonymous schema, is a
// no-op.
func (s *Schema) RegisterChild(child *Schema) {
	if child == nil || child == s || child.name == "" || child.name == s.name {
		return
	}
	s.mu.Lock()
	s.children[child.name] = child
	s.mu.Unlock()
}

// Child returns the registered subtype called name.
func (s *Schema) Child(name string) (*Schema, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.children[annotation.TrimTypeName(name)]
	return c, ok
}

// Children returns the registered subtype names in sorted order.
func (s *Schema) Children() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.children))
}

// DispatchKind says how a discriminator value selects a schema.
type DispatchKind int

const (
	// DispatchSelf means the payload is an instance of the schema itself.
	DispatchSelf DispatchKind = iota
	// DispatchChild means the payload names a registered subtype.
	DispatchChild
	// DispatchUnknown means the payload names a type that is neither the
	// schema nor one of its registered subtypes.
	DispatchUnknown
)

// String returns the dispatch kind name.
func (k DispatchKind) String() string {
	switch k {
	case DispatchSelf:
		return "self"
	case DispatchChild:
		return "child"
	default:
		return "unknown"
	}
}

// Dispatch is the outcome of resolving a discriminator against a schema.
type Dispatch struct {
	Kind DispatchKind
	// Target is the schema to validate against: s itself for DispatchSelf and
	// DispatchUnknown, the subtype for DispatchChild.
	Target *Schema
	// TypeName is the discriminator value without a leading '#'.
	TypeName string
}

// Dispatch resolves a discriminator value. An empty value, or the schema's
// own name, selects s.
func (s *Schema) Dispatch(discriminator string) Dispatch {
	name := annotation.TrimTypeName(discriminator)
	if name == "" || name == s.name {
		return Dispatch{Kind: DispatchSelf, Target: s, TypeName: name}
	}
	if c, ok := s.Child(name); ok {
		return Dispatch{Kind: DispatchChild, Target: c, TypeName: name}
	}
	return Dispatch{Kind: DispatchUnknown, Target: s, TypeName: name}
}
