package validator

import (
	"encoding/base64"
	"net/url"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/erraggy/docschema/internal/issues"
	"github.com/erraggy/docschema/internal/jsonvalue"
	"github.com/erraggy/docschema/schema"
)

// previewLimit bounds the value preview attached to an issue.
const previewLimit = 60

// dateTimeLayouts are the ISO-8601 shapes accepted for date-time values.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// actualType classifies a scalar payload value as the kind it provably is.
// Strings are always String; richer string kinds are established by the
// format checks in checkSimple.
func actualType(v any) schema.PropertyType {
	switch jsonvalue.KindOf(v) {
	case jsonvalue.KindBool:
		return schema.Simple(schema.KindBoolean)
	case jsonvalue.KindInteger:
		return schema.Simple(schema.KindInt64)
	case jsonvalue.KindNumber:
		return schema.Simple(schema.KindDouble)
	default:
		return schema.Simple(schema.KindString)
	}
}

// checkSimple compares a scalar value with a simple expected type.
func checkSimple(expected schema.PropertyType, actual any, relaxed bool, path string) []Issue {
	got := actualType(actual)
	str, isString := actual.(string)

	switch expected.Kind() {
	case schema.KindBoolean, schema.KindInt64:
		if got.Kind() == expected.Kind() {
			return nil
		}
	case schema.KindDouble:
		if got.Kind() == schema.KindDouble || got.Kind() == schema.KindInt64 {
			return nil
		}
	case schema.KindString:
		if isString {
			return checkFormat(expected.Format(), str, path)
		}
	case schema.KindStream:
		if isString {
			return nil
		}
	case schema.KindDateTimeOffset:
		if isString && (isDateTime(str) || isPlaceholder(str, schema.FormatDateTime)) {
			return nil
		}
	case schema.KindGuid:
		if isString {
			if _, err := uuid.Parse(str); err == nil {
				return nil
			}
		}
	case schema.KindBinary:
		if isString && isBase64(str) {
			return nil
		}
	}

	preview := jsonvalue.Preview(actual, previewLimit)
	if got.IsLessSpecificThan(expected) {
		if relaxed {
			return []Issue{issues.Messagef(issues.CodeRelaxedTypeMatch, path,
				"expected %s; accepted less specific %s", expected, got).WithValue(preview)}
		}
		return []Issue{issues.Errorf(issues.CodeExpectedTypeDifferent, path,
			"expected %s but found less specific %s", expected, got).WithValue(preview)}
	}
	return []Issue{issues.Errorf(issues.CodeExpectedTypeDifferent, path,
		"expected %s but found %s", expected, got).WithValue(preview)}
}

// checkFormat applies a string format. Documentation placeholders of the
// same format ("timestamp" for a date-time) are accepted.
func checkFormat(format schema.StringFormat, value, path string) []Issue {
	if format.Kind == schema.FormatGeneric || isPlaceholder(value, format.Kind) {
		return nil
	}

	switch format.Kind {
	case schema.FormatDateTime:
		if !isDateTime(value) {
			return []Issue{issues.Errorf(issues.CodeInvalidDateTimeFormat, path,
				"value is not an ISO-8601 date-time").WithValue(jsonvalue.Preview(value, previewLimit))}
		}
	case schema.FormatURL:
		if u, err := url.Parse(value); err != nil || !u.IsAbs() || u.Host == "" {
			return []Issue{issues.Errorf(issues.CodeInvalidURLFormat, path,
				"value is not an absolute URL").WithValue(jsonvalue.Preview(value, previewLimit))}
		}
	case schema.FormatEnum:
		if !slices.Contains(format.Values, value) {
			return []Issue{issues.Errorf(issues.CodeInvalidEnumeratedValue, path,
				"value is not one of %s", format).WithValue(jsonvalue.Preview(value, previewLimit))}
		}
	}
	return nil
}

func isPlaceholder(value string, kind schema.FormatKind) bool {
	return schema.SniffFormat(value).Kind == kind
}

func isDateTime(value string) bool {
	for _, layout := range dateTimeLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

func isBase64(value string) bool {
	if _, err := base64.StdEncoding.DecodeString(value); err == nil {
		return true
	}
	_, err := base64.URLEncoding.DecodeString(value)
	return err == nil
}
