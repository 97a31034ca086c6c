package schemaexport

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/erraggy/docschema/docerrors"
	"github.com/erraggy/docschema/internal/jsonvalue"
	"github.com/erraggy/docschema/registry"
	"github.com/erraggy/docschema/schema"
)

// Dialect is the JSON Schema dialect of exported documents.
const Dialect = "https://json-schema.org/draft/2020-12/schema"

// DefaultBaseURI prefixes the $id of exported documents.
const DefaultBaseURI = "https://docschema.local/schemas/"

// Exporter renders schemas as JSON Schema documents.
type Exporter struct {
	// Registry resolves named nested types into $defs. Nil exports named
	// types by their inline shape only.
	Registry *registry.Registry
	// Strict forbids undeclared properties on non-open types.
	Strict bool
	// BaseURI prefixes the $id of every document.
	BaseURI string
}

// Option is a function that configures an Exporter.
type Option func(*Exporter) error

// WithStrict forbids undeclared properties in exported object schemas.
// Default: false
func WithStrict(enabled bool) Option {
	return func(e *Exporter) error {
		e.Strict = enabled
		return nil
	}
}

// WithBaseURI sets the prefix of exported $id values. It must be an
// absolute URI.
// Default: DefaultBaseURI
func WithBaseURI(base string) Option {
	return func(e *Exporter) error {
		u, err := url.Parse(base)
		if err != nil || !u.IsAbs() {
			return &docerrors.ConfigError{Option: "BaseURI", Value: base, Message: "must be an absolute URI", Cause: err}
		}
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		e.BaseURI = base
		return nil
	}
}

// New creates an Exporter over reg.
func New(reg *registry.Registry, opts ...Option) (*Exporter, error) {
	e := &Exporter{Registry: reg, BaseURI: DefaultBaseURI}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("schemaexport: invalid options: %w", err)
		}
	}
	return e, nil
}

// Export renders s as a JSON Schema document. Named nested types found in
// the registry are emitted once under $defs and referenced from every use.
// The document is compiled before it is returned.
func (e *Exporter) Export(s *schema.Schema) ([]byte, error) {
	doc := e.Document(s)
	data, err := jsonvalue.MarshalIndent(doc)
	if err != nil {
		return nil, &docerrors.BuildError{Resource: s.Name(), Message: "cannot encode JSON Schema", Cause: err}
	}
	if _, err := Compile(e.id(s.Name()), data); err != nil {
		return nil, &docerrors.BuildError{Resource: s.Name(), Message: "exported JSON Schema does not compile", Cause: err}
	}
	return data, nil
}

// ExportAll renders every registered schema, keyed by resource name.
func (e *Exporter) ExportAll() (map[string][]byte, error) {
	out := make(map[string][]byte, e.Registry.Len())
	for _, name := range e.Registry.Names() {
		s, _ := e.Registry.Lookup(name)
		data, err := e.Export(s)
		if err != nil {
			return nil, err
		}
		out[name] = data
	}
	return out, nil
}

// Document builds the JSON Schema document of s as a JSON value tree.
func (e *Exporter) Document(s *schema.Schema) map[string]any {
	r := &renderer{exporter: e, root: s.Name(), defs: map[string]any{}, visiting: map[string]bool{}}
	doc := r.object(s)
	doc["$schema"] = Dialect
	doc["$id"] = e.id(s.Name())
	if s.Name() != "" {
		doc["title"] = s.Name()
	}
	if len(r.defs) > 0 {
		doc["$defs"] = r.defs
	}
	return doc
}

func (e *Exporter) id(name string) string {
	base := e.BaseURI
	if base == "" {
		base = DefaultBaseURI
	}
	if name == "" {
		name = "anonymous"
	}
	return base + url.PathEscape(name) + ".json"
}

// Compile compiles a JSON Schema document registered under id.
func Compile(id string, data []byte) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft2020)
	if err := c.AddResource(id, doc); err != nil {
		return nil, err
	}
	return c.Compile(id)
}

// renderer carries the $defs of one document.
type renderer struct {
	exporter *Exporter
	root     string
	defs     map[string]any
	visiting map[string]bool
}

func (r *renderer) object(s *schema.Schema) map[string]any {
	props := map[string]any{}
	var required []string
	for _, p := range s.Properties() {
		node := r.property(p.Type)
		if p.Description != "" {
			node["description"] = p.Description
		}
		if s.IsNullable(p.Name) {
			node = map[string]any{"anyOf": []any{node, map[string]any{"type": "null"}}}
		}
		props[p.Name] = node
		if !s.IsOptional(p.Name) {
			required = append(required, p.Name)
		}
	}

	out := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		out["required"] = required
	}
	if r.exporter.Strict && !s.OpenType() {
		out["additionalProperties"] = false
	}
	return out
}

func (r *renderer) property(t schema.PropertyType) map[string]any {
	if t.IsNonSpecific() {
		return map[string]any{}
	}
	switch t.Kind() {
	case schema.KindBoolean:
		return map[string]any{"type": "boolean"}
	case schema.KindInt64:
		return map[string]any{"type": "integer"}
	case schema.KindDouble:
		return map[string]any{"type": "number"}
	case schema.KindString:
		return stringNode(t.Format())
	case schema.KindDateTimeOffset:
		return map[string]any{"type": "string", "format": "date-time"}
	case schema.KindGuid:
		return map[string]any{"type": "string", "format": "uuid"}
	case schema.KindBinary:
		return map[string]any{"type": "string", "contentEncoding": "base64"}
	case schema.KindStream:
		return map[string]any{"type": "string"}
	case schema.KindGenericCollection:
		return map[string]any{"type": "array"}
	case schema.KindCollection:
		elem, _ := t.ElementType()
		return map[string]any{"type": "array", "items": r.property(elem)}
	case schema.KindObject:
		return r.named(t)
	}
	return map[string]any{"type": "object"}
}

func (r *renderer) named(t schema.PropertyType) map[string]any {
	name := t.CustomTypeName()
	if name != "" {
		if name == r.root {
			return map[string]any{"$ref": "#"}
		}
		if s, ok := r.exporter.Registry.Lookup(name); ok {
			ref := map[string]any{"$ref": "#/$defs/" + escapePointer(name)}
			if _, done := r.defs[name]; done || r.visiting[name] {
				return ref
			}
			r.visiting[name] = true
			r.defs[name] = r.object(s)
			delete(r.visiting, name)
			return ref
		}
	}
	if t.HasInlineMembers() {
		return r.object(schema.FromMembers(name, t.InlineMembers()))
	}
	return map[string]any{"type": "object"}
}

func stringNode(f schema.StringFormat) map[string]any {
	node := map[string]any{"type": "string"}
	switch f.Kind {
	case schema.FormatDateTime:
		node["format"] = "date-time"
	case schema.FormatURL:
		node["format"] = "uri"
	case schema.FormatEnum:
		values := make([]any, 0, len(f.Values))
		for _, v := range f.Values {
			values = append(values, v)
		}
		node["enum"] = values
	}
	return node
}

// escapePointer escapes a $defs key for use in a JSON pointer.
func escapePointer(name string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(name)
}
