package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/docschema/docerrors"
)

func TestParse(t *testing.T) {
	t.Run("html comment", func(t *testing.T) {
		a, err := Parse(`<!-- {
			"blockType": "response",
			"@odata.type": "#microsoft.graph.user",
			"isCollection": true,
			"truncated": true,
			"optionalProperties": ["manager"],
			"nullableProperties": ["mail"]
		} -->`)
		require.NoError(t, err)
		assert.Equal(t, BlockResponse, a.BlockType)
		assert.Equal(t, "microsoft.graph.user", a.TypeName())
		assert.True(t, a.IsCollection)
		assert.True(t, a.Truncated)
		assert.Equal(t, []string{"manager"}, a.OptionalProperties)
		assert.Equal(t, []string{"mail"}, a.NullableProperties)
		assert.True(t, a.Validated())
	})

	t.Run("bare json", func(t *testing.T) {
		a, err := Parse(`{"blockType":"resource","@odata.type":"x.item","baseType":"x.entity","keyProperty":"id","openType":true}`)
		require.NoError(t, err)
		assert.Equal(t, BlockResource, a.BlockType)
		assert.Equal(t, "x.entity", a.BaseType)
		assert.True(t, a.OpenType)
		assert.False(t, a.Validated())
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := Parse(`<!-- not json -->`)
		assert.ErrorIs(t, err, docerrors.ErrParse)

		_, err = Parse(`{"blockType":"diagram"}`)
		assert.ErrorIs(t, err, docerrors.ErrParse)
	})
}

func TestCollectionPropertyName(t *testing.T) {
	assert.Equal(t, "value", Annotation{}.CollectionPropertyName())
	assert.Equal(t, "items", Annotation{CollectionProperty: "items"}.CollectionPropertyName())
}

func TestTrimTypeName(t *testing.T) {
	assert.Equal(t, "x.user", TrimTypeName(" #x.user "))
	assert.Equal(t, "x.user", TrimTypeName("x.user"))
	assert.Equal(t, "", TrimTypeName(""))
}
