package issues

// Code is a stable identifier for a validation finding. Codes are rendered in
// reports and matched by regression scenarios, so existing values must not
// change.
type Code string

// Payload level codes.
const (
	CodeJSONParserException     Code = "JsonParserException"
	CodeJSONErrorObject         Code = "JsonErrorObject"
	CodeJSONErrorObjectExpected Code = "JsonErrorObjectExpected"
	CodeNestingTooDeep          Code = "NestingTooDeep"
)

// Collection codes.
const (
	CodeMissingCollectionProperty Code = "MissingCollectionProperty"
	CodeCollectionArrayEmpty      Code = "CollectionArrayEmpty"
	CodeCollectionArrayNotEmpty   Code = "CollectionArrayNotEmpty"
)

// Property codes.
const (
	CodeExpectedTypeDifferent        Code = "ExpectedTypeDifferent"
	CodeNullPropertyValue            Code = "NullPropertyValue"
	CodeExpectedArrayValue           Code = "ExpectedArrayValue"
	CodeExpectedNonArrayValue        Code = "ExpectedNonArrayValue"
	CodeExpectedObjectValue          Code = "ExpectedObjectValue"
	CodeInvalidDateTimeFormat        Code = "InvalidDateTimeFormat"
	CodeInvalidURLFormat             Code = "InvalidUrlFormat"
	CodeInvalidEnumeratedValue       Code = "InvalidEnumeratedValue"
	CodeRelaxedTypeMatch             Code = "RelaxedTypeMatch"
	CodeAdditionalPropertyDetected   Code = "AdditionalPropertyDetected"
	CodeRequiredPropertiesMissing    Code = "RequiredPropertiesMissing"
	CodeCustomValidationNotSupported Code = "CustomValidationNotSupported"
)

// Schema resolution codes.
const (
	CodeResourceTypeNotFound Code = "ResourceTypeNotFound"
	CodeMissingResource      Code = "MissingResource"
	CodeTypeNameCaseMismatch Code = "TypeNameCaseMismatch"
	CodeUnknownDiscriminator Code = "UnknownDiscriminator"
	CodeInlineSchemaFallback Code = "InlineSchemaFallback"
)

// Documentation scanning codes.
const (
	CodeInvalidAnnotation Code = "InvalidAnnotation"
	CodeSchemaBuildFailed Code = "SchemaBuildFailed"
)
