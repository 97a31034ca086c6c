package validator

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/erraggy/docschema/annotation"
	"github.com/erraggy/docschema/internal/issues"
	"github.com/erraggy/docschema/internal/jsonvalue"
	"github.com/erraggy/docschema/internal/pathutil"
	"github.com/erraggy/docschema/logging"
	"github.com/erraggy/docschema/registry"
	"github.com/erraggy/docschema/schema"
)

// walker is the state of one validation pass. It is not shared between calls.
type walker struct {
	registry *registry.Registry
	logger   logging.Logger
	maxDepth int
}

// collection validates a collection payload: the designated wrapper property
// of an object, or a top-level array.
func (w *walker) collection(root any, s *schema.Schema, ann annotation.Annotation, opts Options) []Issue {
	prop := ann.CollectionPropertyName()
	path := prop

	arr, isArray := jsonvalue.Array(root)
	if !isArray {
		obj, ok := jsonvalue.Object(root)
		if !ok {
			return []Issue{issues.Errorf(issues.CodeExpectedObjectValue, "",
				"expected a collection but the payload is %s", jsonvalue.KindOf(root))}
		}
		inner, ok := obj[prop]
		if !ok {
			return []Issue{issues.Errorf(issues.CodeMissingCollectionProperty, "",
				"collection property %q was not found", prop)}
		}
		if arr, ok = jsonvalue.Array(inner); !ok {
			return []Issue{issues.Errorf(issues.CodeExpectedArrayValue, path,
				"collection property must be an array, found %s", jsonvalue.KindOf(inner))}
		}
	} else {
		path = ""
	}

	var found []Issue
	switch {
	case len(arr) == 0 && !ann.IsEmpty:
		found = append(found, issues.Warningf(issues.CodeCollectionArrayEmpty, path,
			"collection is empty; mark the example isEmpty if that is intended"))
	case len(arr) > 0 && ann.IsEmpty:
		found = append(found, issues.Warningf(issues.CodeCollectionArrayNotEmpty, path,
			"collection was expected to be empty but has %d members", len(arr)))
	}

	var members []Issue
	for i, item := range arr {
		itemPath := pathutil.IndexPath(path, i)
		obj, ok := jsonvalue.Object(item)
		if !ok {
			members = append(members, issues.Errorf(issues.CodeExpectedTypeDifferent, itemPath,
				"collection members must be objects, found %s", jsonvalue.KindOf(item)))
			continue
		}
		members = append(members, w.container(obj, s, opts, itemPath, 0)...)
	}
	return append(found, issues.Dedupe(members)...)
}

// container validates one object against s: discriminator dispatch, every
// present property, then missing property accounting.
func (w *walker) container(obj map[string]any, s *schema.Schema, opts Options, path string, depth int) []Issue {
	if depth > w.maxDepth {
		return []Issue{issues.Errorf(issues.CodeNestingTooDeep, path,
			"object nesting exceeds the limit of %d", w.maxDepth)}
	}

	var found []Issue
	if disc, ok := jsonvalue.StringField(obj, schema.DiscriminatorProperty); ok {
		d := s.Dispatch(disc)
		switch d.Kind {
		case schema.DispatchChild:
			w.logger.Debug("dispatching to subtype", "base", s.Name(), "subtype", d.TypeName, "path", path)
		case schema.DispatchUnknown:
			found = append(found, issues.Messagef(issues.CodeUnknownDiscriminator, path,
				"type %q is not a documented subtype of %q; validating against %q", d.TypeName, s.Name(), s.Name()))
		}
		s = d.Target
	}

	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		propPath := pathutil.JoinPath(path, name)
		expected, ok := s.Property(name)
		if !ok {
			found = append(found, w.additional(name, s, opts, propPath)...)
			continue
		}
		nullable := s.IsNullable(name) || slices.Contains(opts.NullableProperties, name)
		found = append(found, w.value(expected.Type, obj[name], nullable, opts.ForProperty(name), propPath, depth)...)
	}

	return append(found, w.missing(obj, s, opts, path)...)
}

// value validates one property value against its expected type.
func (w *walker) value(expected schema.PropertyType, actual any, nullable bool, opts Options, path string, depth int) []Issue {
	if expected.IsNonSpecific() {
		return nil
	}

	kind := jsonvalue.KindOf(actual)
	if kind == jsonvalue.KindNull {
		if nullable {
			return nil
		}
		return []Issue{issues.Warningf(issues.CodeNullPropertyValue, path,
			"value is null; expected %s", expected)}
	}

	switch {
	case expected.IsCollection():
		arr, ok := jsonvalue.Array(actual)
		if !ok {
			return []Issue{issues.Errorf(issues.CodeExpectedArrayValue, path,
				"expected %s but found %s", expected, kind)}
		}
		return w.elements(expected, arr, opts, path, depth)
	case kind == jsonvalue.KindArray:
		return []Issue{issues.Errorf(issues.CodeExpectedNonArrayValue, path,
			"expected %s but found an array", expected)}
	case expected.IsObject():
		obj, ok := jsonvalue.Object(actual)
		if !ok {
			return []Issue{issues.Errorf(issues.CodeExpectedObjectValue, path,
				"expected %s but found %s", expected, kind)}
		}
		return w.object(expected, obj, opts, path, depth)
	case kind == jsonvalue.KindObject:
		return []Issue{issues.Errorf(issues.CodeExpectedTypeDifferent, path,
			"expected %s but found an object", expected)}
	}
	return checkSimple(expected, actual, opts.RelaxedStringValidation, path)
}

// elements validates the members of an array value. Named and inline object
// members are validated as containers; other members get a per-element type
// check. Repeated findings collapse to the first offending member.
func (w *walker) elements(expected schema.PropertyType, arr []any, opts Options, path string, depth int) []Issue {
	elem, ok := expected.ElementType()
	if !ok || len(arr) == 0 || elem.Kind() == schema.KindGenericCollection {
		return nil
	}

	var found []Issue
	for i, item := range arr {
		if _, isArray := jsonvalue.Array(item); isArray && !elem.IsCollection() && !elem.IsNonSpecific() {
			found = append(found, issues.Errorf(issues.CodeExpectedNonArrayValue, pathutil.IndexPath(path, i),
				"expected %s but found a nested array", elem))
			continue
		}
		found = append(found, w.value(elem, item, false, opts, pathutil.IndexPath(path, i), depth)...)
	}
	return issues.Dedupe(found)
}

// object validates a nested object value: a named type is resolved through
// the registry, an inline shape becomes an ad hoc schema.
func (w *walker) object(expected schema.PropertyType, obj map[string]any, opts Options, path string, depth int) []Issue {
	name := expected.CustomTypeName()
	switch {
	case name != "":
		s, ok := w.registry.Lookup(name)
		if !ok {
			s, ok = w.registry.LookupFold(name)
		}
		if ok {
			return w.container(obj, s, opts, path, depth+1)
		}
		if expected.HasInlineMembers() {
			found := []Issue{issues.Messagef(issues.CodeInlineSchemaFallback, path,
				"resource type %q was not found; validating against the members shown in the example", name)}
			return append(found, w.container(obj, schema.FromMembers(name, expected.InlineMembers()), opts, path, depth+1)...)
		}
		return []Issue{issues.Errorf(issues.CodeResourceTypeNotFound, path,
			"resource type %q was not found", name)}
	case expected.HasInlineMembers():
		return w.container(obj, schema.FromMembers("", expected.InlineMembers()), opts, path, depth+1)
	}
	return []Issue{issues.Warningf(issues.CodeCustomValidationNotSupported, path,
		"property has no documented type; its members were not validated")}
}

// additional classifies a property that s does not declare.
func (w *walker) additional(name string, s *schema.Schema, opts Options, path string) []Issue {
	if name == schema.DiscriminatorProperty || s.OpenType() || slices.Contains(opts.IgnorablePropertyTypes, name) {
		return nil
	}
	if base, suffix, ok := schema.SplitAnnotation(name); ok {
		if _, known := s.Property(base); known && slices.Contains(opts.IgnorablePropertyTypes, suffix) {
			return nil
		}
	}

	if hint := suggest(name, s); hint != "" {
		return []Issue{issues.Warningf(issues.CodeAdditionalPropertyDetected, path,
			"undocumented property %q; did you mean %q?", name, hint)}
	}
	return []Issue{issues.Warningf(issues.CodeAdditionalPropertyDetected, path,
		"undocumented property %q", name)}
}

// missing reports the declared properties never seen on obj.
func (w *walker) missing(obj map[string]any, s *schema.Schema, opts Options, path string) []Issue {
	var names []string
	for _, name := range s.PropertyNames() {
		if _, present := obj[name]; present {
			continue
		}
		if s.IsOptional(name) || slices.Contains(opts.OptionalProperties, name) {
			continue
		}
		if opts.AllowTruncatedResponses {
			if opts.RequiredPropertyNames == nil || !opts.requiredOverride(name) {
				continue
			}
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil
	}
	return []Issue{issues.Errorf(issues.CodeRequiredPropertiesMissing, path,
		"missing required properties: %s", strings.Join(names, ", "))}
}

// suggest returns a declared property equal to name under case folding.
func suggest(name string, s *schema.Schema) string {
	caser := cases.Fold()
	folded := caser.String(name)
	for _, candidate := range s.PropertyNames() {
		if caser.String(candidate) == folded {
			return candidate
		}
	}
	return ""
}
