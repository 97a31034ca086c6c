// Package jsonvalue decodes JSON text into a generic token tree and classifies
// the resulting values.
//
// Decoding preserves numeric literals as json.Number so that integral values
// can be told apart from fractional ones; the tree otherwise consists of
// map[string]any, []any, string, bool and nil.
package jsonvalue

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	"github.com/erraggy/docschema/docerrors"
)

// Kind classifies a decoded JSON value.
type Kind int

const (
	// KindInvalid is reported for values that are not part of a decoded tree.
	KindInvalid Kind = iota
	// KindNull is the JSON null literal.
	KindNull
	// KindBool is true or false.
	KindBool
	// KindInteger is a number without fraction or exponent that fits in int64.
	KindInteger
	// KindNumber is any other number.
	KindNumber
	// KindString is a string literal.
	KindString
	// KindObject is a JSON object.
	KindObject
	// KindArray is a JSON array.
	KindArray
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindNull:    "null",
	KindBool:    "boolean",
	KindInteger: "integer",
	KindNumber:  "number",
	KindString:  "string",
	KindObject:  "object",
	KindArray:   "array",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "invalid"
	}
	return kindNames[k]
}

// Parse decodes a single JSON value from text. Trailing non-whitespace
// content is rejected.
func Parse(text string) (any, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &docerrors.ParseError{Message: "empty JSON input"}
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &docerrors.ParseError{Message: "invalid JSON", Cause: err}
	}
	var trailing any
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, &docerrors.ParseError{Message: "unexpected content after JSON value", Offset: dec.InputOffset()}
	}
	return v, nil
}

// Marshal encodes v as compact JSON.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// MarshalIndent encodes v as indented JSON.
func MarshalIndent(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// KindOf classifies a value produced by Parse.
func KindOf(v any) Kind {
	switch t := v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case json.Number:
		if isIntegral(string(t)) {
			return KindInteger
		}
		return KindNumber
	case float64, float32:
		return KindNumber
	case int, int32, int64:
		return KindInteger
	case string:
		return KindString
	case map[string]any:
		return KindObject
	case []any:
		return KindArray
	default:
		return KindInvalid
	}
}

// isIntegral reports whether a number literal is an integer that fits in int64.
func isIntegral(lit string) bool {
	if strings.ContainsAny(lit, ".eE") {
		return false
	}
	_, err := strconv.ParseInt(lit, 10, 64)
	return err == nil
}

// Object returns v as an object, if it is one.
func Object(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// Array returns v as an array, if it is one.
func Array(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

// StringField returns the string value of obj[name], if present and a string.
func StringField(obj map[string]any, name string) (string, bool) {
	s, ok := obj[name].(string)
	return s, ok
}

// Preview renders a short, single-line representation of v for messages.
func Preview(v any, limit int) string {
	var s string
	switch t := v.(type) {
	case string:
		s = strconv.Quote(t)
	case json.Number:
		s = string(t)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return KindOf(v).String()
		}
		s = string(b)
	}
	if limit > 3 && len(s) > limit {
		cut := limit - 3
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	return s
}
