// Package annotation describes the metadata record attached to a JSON code
// block in the documentation set.
//
// In Markdown sources the record is an HTML comment holding a JSON object
// immediately before the fenced code block it describes:
//
//	<!-- {
//	  "blockType": "response",
//	  "@odata.type": "microsoft.graph.user",
//	  "isCollection": true,
//	  "truncated": true
//	} -->
//	```json
//	{ "value": [ ... ] }
//	```
package annotation

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/erraggy/docschema/docerrors"
)

// DefaultCollectionProperty is the property that wraps collection members when
// an annotation does not name one.
const DefaultCollectionProperty = "value"

// BlockType identifies what a code block contributes to the documentation set.
type BlockType string

const (
	// BlockResource declares a resource: its example defines the resource schema.
	BlockResource BlockType = "resource"
	// BlockExample is a sample payload validated against a resource schema.
	BlockExample BlockType = "example"
	// BlockRequest is an HTTP request; requests are not validated.
	BlockRequest BlockType = "request"
	// BlockResponse is a sample HTTP response validated against a resource schema.
	BlockResponse BlockType = "response"
	// BlockIgnored marks a block that must not be processed.
	BlockIgnored BlockType = "ignored"
)

// Valid reports whether b is a known block type.
func (b BlockType) Valid() bool {
	switch b {
	case BlockResource, BlockExample, BlockRequest, BlockResponse, BlockIgnored:
		return true
	}
	return false
}

// Annotation is the metadata record for one code block.
type Annotation struct {
	// BlockType says what the block is.
	BlockType BlockType `json:"blockType,omitempty" yaml:"blockType,omitempty"`
	// ResourceType names the resource the payload represents.
	ResourceType string `json:"@odata.type,omitempty" yaml:"resourceType,omitempty"`
	// Name is an optional identifier for the block.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// IsCollection marks the payload as a collection of ResourceType members.
	IsCollection bool `json:"isCollection,omitempty" yaml:"isCollection,omitempty"`
	// IsEmpty marks a collection payload as intentionally empty.
	IsEmpty bool `json:"isEmpty,omitempty" yaml:"isEmpty,omitempty"`
	// Truncated allows the payload to omit otherwise required properties.
	Truncated bool `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	// ExpectError marks the payload as an error envelope.
	ExpectError bool `json:"expectError,omitempty" yaml:"expectError,omitempty"`
	// CollectionProperty is the property wrapping collection members.
	CollectionProperty string `json:"collectionProperty,omitempty" yaml:"collectionProperty,omitempty"`
	// OptionalProperties may be absent without being reported missing.
	OptionalProperties []string `json:"optionalProperties,omitempty" yaml:"optionalProperties,omitempty"`
	// NullableProperties may be null without a warning.
	NullableProperties []string `json:"nullableProperties,omitempty" yaml:"nullableProperties,omitempty"`
	// BaseType is the base resource of a resource block.
	BaseType string `json:"baseType,omitempty" yaml:"baseType,omitempty"`
	// KeyProperty is the key property of a resource block.
	KeyProperty string `json:"keyProperty,omitempty" yaml:"keyProperty,omitempty"`
	// OpenType marks a resource as accepting undeclared properties.
	OpenType bool `json:"openType,omitempty" yaml:"openType,omitempty"`
}

// Parse decodes an annotation from its JSON text. The surrounding HTML
// comment markers, if present, are stripped first.
func Parse(text string) (Annotation, error) {
	body := strings.TrimSpace(text)
	body = strings.TrimPrefix(body, "<!--")
	body = strings.TrimSuffix(body, "-->")
	body = strings.TrimSpace(body)

	var a Annotation
	if err := json.Unmarshal([]byte(body), &a); err != nil {
		return Annotation{}, &docerrors.ParseError{Message: "invalid code block annotation", Cause: err}
	}
	if a.BlockType != "" && !a.BlockType.Valid() {
		return Annotation{}, &docerrors.ParseError{Message: fmt.Sprintf("unknown blockType %q", a.BlockType)}
	}
	return a, nil
}

// TypeName returns ResourceType without a leading '#'.
func (a Annotation) TypeName() string {
	return TrimTypeName(a.ResourceType)
}

// CollectionPropertyName returns CollectionProperty or the default "value".
func (a Annotation) CollectionPropertyName() string {
	if a.CollectionProperty == "" {
		return DefaultCollectionProperty
	}
	return a.CollectionProperty
}

// Validated reports whether blocks of this annotation carry a payload to validate.
func (a Annotation) Validated() bool {
	return a.BlockType == BlockExample || a.BlockType == BlockResponse
}

// TrimTypeName removes surrounding whitespace and the leading '#' used by
// type discriminator values.
func TrimTypeName(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "#")
}
