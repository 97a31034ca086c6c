package commands

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/erraggy/docschema"
	"github.com/erraggy/docschema/annotation"
	"github.com/erraggy/docschema/docscan"
	"github.com/erraggy/docschema/validator"
)

// ValidateFlags contains flags for the validate command
type ValidateFlags struct {
	SettingsFlags
	ResourceType string
	Docs         []string
	Expected     string
	Collection   bool
	Truncated    bool
	ExpectError  bool
	Optional     []string
	Nullable     []string
	Verbose      bool
}

// SetupValidateFlags creates and configures a FlagSet for the validate command.
// Returns the FlagSet and a ValidateFlags struct with bound flag variables.
func SetupValidateFlags() (*flag.FlagSet, *ValidateFlags) {
	fs := newFlagSet("validate")
	flags := &ValidateFlags{}

	bindSettingsFlags(fs, &flags.SettingsFlags)
	fs.StringVarP(&flags.ResourceType, "type", "t", "", "resource type the payload represents")
	fs.StringSliceVarP(&flags.Docs, "docs", "d", nil, "documentation files or directories declaring resources (repeatable)")
	fs.StringVarP(&flags.Expected, "expected", "e", "", "documented response to compare the payload against")
	fs.BoolVar(&flags.Collection, "collection", false, "the payload wraps members in a value array")
	fs.BoolVar(&flags.Truncated, "truncated", false, "the payload may omit documented properties")
	fs.BoolVar(&flags.ExpectError, "expect-error", false, "the payload is an error response")
	fs.StringSliceVar(&flags.Optional, "optional", nil, "properties that may be absent")
	fs.StringSliceVar(&flags.Nullable, "nullable", nil, "properties that may be null")
	fs.BoolVarP(&flags.Verbose, "verbose", "v", false, "log scanning and registry details to stderr")

	fs.Usage = func() {
		Writef(stderr, "Usage: docschema validate [flags] <file|->\n\n")
		Writef(stderr, "Validate a JSON payload against the documented resource it represents.\n\n")
		Writef(stderr, "Flags:\n")
		fs.PrintDefaults()
		Writef(stderr, "\nOutput Formats:\n")
		Writef(stderr, "  text (default)  Human-readable text output\n")
		Writef(stderr, "  json            JSON format for programmatic processing\n")
		Writef(stderr, "  yaml            YAML format for programmatic processing\n")
		Writef(stderr, "\nExamples:\n")
		Writef(stderr, "  docschema validate --type microsoft.graph.user --docs docs/ payload.json\n")
		Writef(stderr, "  docschema validate --type microsoft.graph.user --collection --truncated list.json\n")
		Writef(stderr, "  docschema validate --type microsoft.graph.user --docs docs/ --expected documented.json actual.json\n")
		Writef(stderr, "  curl -s $URL | docschema validate --type microsoft.graph.user --docs docs/ -q -\n")
		Writef(stderr, "\nExit Codes:\n")
		Writef(stderr, "  0    Validation successful\n")
		Writef(stderr, "  1    Validation failed with errors\n")
	}

	return fs, flags
}

// ValidateReport is the structured output of the validate command.
type ValidateReport struct {
	Payload      string            `json:"payload" yaml:"payload"`
	ResourceType string            `json:"resourceType,omitempty" yaml:"resourceType,omitempty"`
	Resources    int               `json:"resources" yaml:"resources"`
	Valid        bool              `json:"valid" yaml:"valid"`
	ErrorCount   int               `json:"errorCount" yaml:"errorCount"`
	WarningCount int               `json:"warningCount" yaml:"warningCount"`
	MessageCount int               `json:"messageCount" yaml:"messageCount"`
	Issues       []validator.Issue `json:"issues" yaml:"issues"`
}

// HandleValidate executes the validate command
func HandleValidate(args []string) error {
	fs, flags := SetupValidateFlags()
	if help, err := parseArgs(fs, args); help || err != nil {
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("validate command requires exactly one file path or '-' for stdin")
	}
	payloadPath := fs.Arg(0)

	cfg, err := loadSettings(fs, &flags.SettingsFlags)
	if err != nil {
		return err
	}

	payload, err := ReadInput(payloadPath)
	if err != nil {
		return err
	}
	var expected string
	if flags.Expected != "" {
		if expected, err = ReadInput(flags.Expected); err != nil {
			return err
		}
	}

	logger := newLogger(flags.Verbose)
	var docs []*docscan.Document
	if len(flags.Docs) > 0 {
		if docs, err = scanDocs(context.Background(), cfg, logger, flags.Docs); err != nil {
			return err
		}
	}
	reg, buildErr := buildRegistry(docs, logger)
	if reg == nil {
		return buildErr
	}
	if buildErr != nil && !flags.Quiet {
		Writef(stderr, "Warning: some resources could not be registered:\n%v\n\n", buildErr)
	}

	v, err := validator.New(reg, append(cfg.ValidatorOptions(), validator.WithLogger(logger))...)
	if err != nil {
		return err
	}
	ann := annotation.Annotation{
		BlockType:          annotation.BlockExample,
		ResourceType:       flags.ResourceType,
		IsCollection:       flags.Collection,
		Truncated:          flags.Truncated,
		ExpectError:        flags.ExpectError,
		OptionalProperties: flags.Optional,
		NullableProperties: flags.Nullable,
	}
	var result *validator.Result
	if flags.Expected != "" {
		ann.BlockType = annotation.BlockResponse
		result = v.ValidateResponse(expected, payload, ann)
	} else {
		result = v.ValidateExample(payload, ann)
	}

	if cfg.Format != FormatText {
		report := ValidateReport{
			Payload:      FormatInputPath(payloadPath),
			ResourceType: result.ResourceType,
			Resources:    reg.Len(),
			Valid:        result.Valid,
			ErrorCount:   result.ErrorCount,
			WarningCount: result.WarningCount,
			MessageCount: result.MessageCount,
			Issues:       result.Issues,
		}
		if report.Issues == nil {
			report.Issues = []validator.Issue{}
		}
		if err := OutputStructured(stdout, report, cfg.Format); err != nil {
			return err
		}
	} else if !flags.Quiet {
		Writef(stderr, "Documentation Payload Validator\n")
		Writef(stderr, "===============================\n\n")
		Writef(stderr, "docschema version: %s\n", docschema.Version())
		Writef(stderr, "Payload: %s\n", FormatInputPath(payloadPath))
		if result.ResourceType != "" {
			Writef(stderr, "Resource Type: %s\n", result.ResourceType)
		}
		Writef(stderr, "Documented Resources: %d\n\n", reg.Len())
		writeIssues(stderr, result.Issues)
		writeSummary(stderr, result.Valid, result.ErrorCount, result.WarningCount)
	}

	if !result.Valid {
		return ErrValidationFailed
	}
	return nil
}
