package registry

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"golang.org/x/text/cases"

	"github.com/erraggy/docschema/annotation"
	"github.com/erraggy/docschema/docerrors"
	"github.com/erraggy/docschema/internal/issues"
	"github.com/erraggy/docschema/logging"
	"github.com/erraggy/docschema/schema"
)

// Registry is an immutable table of the named schemas of a documentation
// set. A nil *Registry is valid and empty.
type Registry struct {
	schemas   map[string]*schema.Schema
	resources map[string]schema.Resource
	folded    map[string][]string
	logger    logging.Logger
}

// Option configures a Builder or RegisterAll.
type Option func(*Builder) error

// WithLogger sets the logger used while building and resolving.
func WithLogger(l logging.Logger) Option {
	return func(b *Builder) error {
		b.Logger = l
		return nil
	}
}

// Builder collects resource declarations and links them into a Registry.
//
// Building happens in two passes. Every declaration is first turned into a
// schema, with ancestors folded in. Each schema is then registered as a child
// of every ancestor that is itself declared. Base types that are never
// declared are skipped.
type Builder struct {
	// Logger receives build diagnostics. Nil discards them.
	Logger logging.Logger

	resources []schema.Resource
	index     map[string]int
	errs      []error
}

// NewBuilder creates an empty Builder.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{index: make(map[string]int)}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Add collects resource declarations. A declaration whose name is empty or
// already collected is rejected with an error reported by Build.
func (b *Builder) Add(resources ...schema.Resource) *Builder {
	if b.index == nil {
		b.index = make(map[string]int)
	}
	for _, res := range resources {
		name := annotation.TrimTypeName(res.Name)
		if name == "" {
			b.errs = append(b.errs, &docerrors.BuildError{Message: "resource declaration without a name"})
			continue
		}
		if i, dup := b.index[name]; dup {
			b.errs = append(b.errs, &docerrors.BuildError{
				Resource: name,
				Message:  fmt.Sprintf("duplicate declaration (first in %s)", sourceOf(b.resources[i])),
			})
			continue
		}
		res.Name = name
		b.index[name] = len(b.resources)
		b.resources = append(b.resources, res)
	}
	return b
}

// Len returns the number of collected declarations.
func (b *Builder) Len() int { return len(b.resources) }

// Build links the collected declarations and publishes a Registry. The
// returned Registry is never nil; declarations that fail to build are left
// out of it and reported through the joined error.
func (b *Builder) Build() (*Registry, error) {
	logger := logging.OrNop(b.Logger)
	lookup := func(name string) (schema.Resource, bool) {
		i, ok := b.index[annotation.TrimTypeName(name)]
		if !ok {
			return schema.Resource{}, false
		}
		return b.resources[i], true
	}

	reg := &Registry{
		schemas:   make(map[string]*schema.Schema, len(b.resources)),
		resources: make(map[string]schema.Resource, len(b.resources)),
		folded:    make(map[string][]string, len(b.resources)),
		logger:    logger,
	}
	errs := slices.Clone(b.errs)

	// collect
	for _, res := range b.resources {
		s, err := schema.FromResource(res, lookup)
		if err != nil {
			logger.Warn("skipping resource", "resource", res.Name, "source", res.SourceFile, "error", err)
			errs = append(errs, err)
			continue
		}
		reg.schemas[s.Name()] = s
		reg.resources[s.Name()] = res
		key := fold(s.Name())
		reg.folded[key] = append(reg.folded[key], s.Name())
	}

	// link
	for _, name := range reg.Names() {
		child := reg.schemas[name]
		seen := map[string]bool{name: true}
		for base := child.BaseType(); base != "" && !seen[base]; {
			seen[base] = true
			if parent, ok := reg.schemas[base]; ok {
				parent.RegisterChild(child)
			}
			res, ok := lookup(base)
			if !ok {
				logger.Debug("base type not declared", "resource", name, "baseType", base)
				break
			}
			base = annotation.TrimTypeName(res.BaseType)
		}
	}

	logger.Debug("registry built", "resources", len(reg.schemas), "errors", len(errs))
	return reg, errors.Join(errs...)
}

// RegisterAll builds a Registry from resources in one step.
func RegisterAll(resources []schema.Resource, opts ...Option) (*Registry, error) {
	b, err := NewBuilder(opts...)
	if err != nil {
		return nil, err
	}
	return b.Add(resources...).Build()
}

// Len returns the number of registered schemas.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.schemas)
}

// Names returns the registered resource names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.schemas))
}

// Lookup returns the schema registered under exactly name.
func (r *Registry) Lookup(name string) (*schema.Schema, bool) {
	if r == nil {
		return nil, false
	}
	s, ok := r.schemas[annotation.TrimTypeName(name)]
	return s, ok
}

// Resource returns the declaration a schema was built from.
func (r *Registry) Resource(name string) (schema.Resource, bool) {
	if r == nil {
		return schema.Resource{}, false
	}
	res, ok := r.resources[annotation.TrimTypeName(name)]
	return res, ok
}

// LookupFold returns the schema whose name matches name case-insensitively.
// An ambiguous match reports false.
func (r *Registry) LookupFold(name string) (*schema.Schema, bool) {
	if r == nil {
		return nil, false
	}
	names := r.folded[fold(annotation.TrimTypeName(name))]
	if len(names) != 1 {
		return nil, false
	}
	return r.schemas[names[0]], true
}

// Resolve returns the schema for typeName. When the name is not registered
// and fallbackJSON is not empty, a temporary schema is inferred from it; see
// ResolveAnnotated.
func (r *Registry) Resolve(typeName, fallbackJSON string) (*schema.Schema, []issues.Issue) {
	return r.ResolveAnnotated(annotation.Annotation{ResourceType: typeName}, fallbackJSON)
}

// ResolveAnnotated resolves the resource type named by ann:
//
//  1. an exact registered name;
//  2. a registered name differing only in case, reported as a Message;
//  3. a temporary schema inferred from fallbackJSON, reported as a Warning;
//  4. nothing, reported as an Error.
//
// The returned schema is nil when no schema could be produced.
func (r *Registry) ResolveAnnotated(ann annotation.Annotation, fallbackJSON string) (*schema.Schema, []issues.Issue) {
	name := ann.TypeName()
	if s, ok := r.Lookup(name); ok && name != "" {
		return s, nil
	}
	if s, ok := r.LookupFold(name); ok && name != "" {
		return s, []issues.Issue{issues.Messagef(issues.CodeTypeNameCaseMismatch, "",
			"resource type %q matched registered resource %q with different case", name, s.Name())}
	}

	if fallbackJSON != "" {
		s, err := schema.FromExample(fallbackJSON, ann, nil)
		if err != nil {
			return nil, []issues.Issue{issues.Errorf(issues.CodeSchemaBuildFailed, "",
				"could not infer a schema for %q: %v", name, err)}
		}
		r.log().Warn("resource not documented, inferring schema from example", "resource", name)
		if name == "" {
			return s, []issues.Issue{issues.Warningf(issues.CodeMissingResource, "",
				"no resource type declared; validating against a schema inferred from the example")}
		}
		return s, []issues.Issue{issues.Warningf(issues.CodeMissingResource, "",
			"resource type %q is not documented; validating against a schema inferred from the example", name)}
	}

	return nil, []issues.Issue{issues.Errorf(issues.CodeResourceTypeNotFound, "",
		"resource type %q was not found", name)}
}

func (r *Registry) log() logging.Logger {
	if r == nil {
		return logging.NopLogger{}
	}
	return logging.OrNop(r.logger)
}

// fold returns the case-folded form of a resource name. A Caser is not safe
// for concurrent use, so each call creates one.
func fold(name string) string {
	return cases.Fold().String(name)
}

func sourceOf(res schema.Resource) string {
	if res.SourceFile != "" {
		return res.SourceFile
	}
	return "an earlier declaration"
}
