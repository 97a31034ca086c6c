package jsonvalue

import (
	"testing"
	"unicode/utf8"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/docschema/docerrors"
)

func TestParse(t *testing.T) {
	t.Run("object with preserved numbers", func(t *testing.T) {
		v, err := Parse(`{"id":"1","count":42,"ratio":0.5,"tags":["a"],"ok":true,"none":null}`)
		require.NoError(t, err)

		obj, ok := Object(v)
		require.True(t, ok)
		assert.Equal(t, KindString, KindOf(obj["id"]))
		assert.Equal(t, KindInteger, KindOf(obj["count"]))
		assert.Equal(t, KindNumber, KindOf(obj["ratio"]))
		assert.Equal(t, KindArray, KindOf(obj["tags"]))
		assert.Equal(t, KindBool, KindOf(obj["ok"]))
		assert.Equal(t, KindNull, KindOf(obj["none"]))
		assert.Equal(t, json.Number("42"), obj["count"])
	})

	t.Run("top-level array", func(t *testing.T) {
		v, err := Parse(`[1, 2]`)
		require.NoError(t, err)
		arr, ok := Array(v)
		require.True(t, ok)
		assert.Len(t, arr, 2)
	})

	t.Run("errors", func(t *testing.T) {
		for _, in := range []string{"", "   ", `{"a":`, `{"a":1} {"b":2}`, `{'a':1}`} {
			_, err := Parse(in)
			assert.ErrorIs(t, err, docerrors.ErrParse, "input %q", in)
		}
	})
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		in   any
		want Kind
	}{
		{json.Number("1"), KindInteger},
		{json.Number("-12"), KindInteger},
		{json.Number("1e3"), KindNumber},
		{json.Number("1.0"), KindNumber},
		{json.Number("99999999999999999999"), KindNumber},
		{3.5, KindNumber},
		{int64(3), KindInteger},
		{struct{}{}, KindInvalid},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.in), "KindOf(%v)", tt.in)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "integer", KindInteger.String())
	assert.Equal(t, "invalid", Kind(99).String())
}

func TestPreview(t *testing.T) {
	assert.Equal(t, `"abc"`, Preview("abc", 20))
	assert.Equal(t, "12", Preview(json.Number("12"), 20))
	assert.Equal(t, `{"a":1}`, Preview(map[string]any{"a": json.Number("1")}, 20))
	assert.Equal(t, `"abcdefg...`, Preview("abcdefghijklmnop", 11))
	assert.Equal(t, `"é...`, Preview("ééééé", 7), "cut backs off to a rune boundary")
	assert.True(t, utf8.ValidString(Preview("日本語のテキスト", 10)))
}

func TestStringField(t *testing.T) {
	obj := map[string]any{"@odata.type": "#x.user", "n": json.Number("1")}
	s, ok := StringField(obj, "@odata.type")
	assert.True(t, ok)
	assert.Equal(t, "#x.user", s)
	_, ok = StringField(obj, "n")
	assert.False(t, ok)
}
