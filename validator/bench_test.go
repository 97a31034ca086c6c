package validator

import (
	"strings"
	"testing"

	"github.com/erraggy/docschema/annotation"
	"github.com/erraggy/docschema/registry"
	"github.com/erraggy/docschema/schema"
)

func BenchmarkValidateCollection(b *testing.B) {
	reg, err := registry.RegisterAll([]schema.Resource{{
		Name:    "test.user",
		Example: `{"id": "string", "displayName": "string", "created": "timestamp", "manager": {"id": "string"}, "tags": ["string"]}`,
	}})
	if err != nil {
		b.Fatal(err)
	}
	v, err := New(reg)
	if err != nil {
		b.Fatal(err)
	}

	member := `{"id": "1", "displayName": "Ada", "created": "2024-01-02T03:04:05Z", "manager": {"id": "2"}, "tags": ["a", "b"]}`
	payload := `{"value": [` + strings.Repeat(member+",", 99) + member + `]}`
	ann := annotation.Annotation{ResourceType: "test.user", IsCollection: true}

	b.ReportAllocs()
	for b.Loop() {
		_ = v.ValidateExample(payload, ann)
	}
}
