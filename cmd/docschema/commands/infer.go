package commands

import (
	"fmt"
	"text/tabwriter"

	flag "github.com/spf13/pflag"

	"github.com/erraggy/docschema/annotation"
	"github.com/erraggy/docschema/schema"
	"github.com/erraggy/docschema/schemaexport"
)

// InferFlags contains flags for the infer command
type InferFlags struct {
	ResourceType string
	Collection   bool
	Optional     []string
	Nullable     []string
	JSONSchema   bool
	Format       string
}

// SetupInferFlags creates and configures a FlagSet for the infer command.
func SetupInferFlags() (*flag.FlagSet, *InferFlags) {
	fs := newFlagSet("infer")
	flags := &InferFlags{}

	fs.StringVarP(&flags.ResourceType, "type", "t", "", "name of the inferred resource")
	fs.BoolVar(&flags.Collection, "collection", false, "the example wraps members in a value array")
	fs.StringSliceVar(&flags.Optional, "optional", nil, "properties that may be absent")
	fs.StringSliceVar(&flags.Nullable, "nullable", nil, "properties that may be null")
	fs.BoolVar(&flags.JSONSchema, "json-schema", false, "print a JSON Schema 2020-12 document instead")
	fs.StringVarP(&flags.Format, "format", "f", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		Writef(stderr, "Usage: docschema infer [flags] <file|->\n\n")
		Writef(stderr, "Infer a resource schema from a JSON example whose values are type\n")
		Writef(stderr, "placeholders (\"string\", \"timestamp\", \"low | high\", 0, 1.5, true).\n\n")
		Writef(stderr, "Flags:\n")
		fs.PrintDefaults()
		Writef(stderr, "\nExamples:\n")
		Writef(stderr, "  docschema infer --type microsoft.graph.user example.json\n")
		Writef(stderr, "  docschema infer --type microsoft.graph.user --optional mail,photo example.json\n")
		Writef(stderr, "  docschema infer --json-schema --type microsoft.graph.user example.json\n")
	}

	return fs, flags
}

// InferredProperty is one row of the infer command output.
type InferredProperty struct {
	Name          string `json:"name" yaml:"name"`
	Type          string `json:"type" yaml:"type"`
	Optional      bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
	Nullable      bool   `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	OriginalValue string `json:"originalValue,omitempty" yaml:"originalValue,omitempty"`
}

// InferReport is the structured output of the infer command.
type InferReport struct {
	ResourceType string             `json:"resourceType,omitempty" yaml:"resourceType,omitempty"`
	Properties   []InferredProperty `json:"properties" yaml:"properties"`
}

// NewInferReport describes the properties of s in name order.
func NewInferReport(s *schema.Schema) InferReport {
	props := s.Properties()
	out := InferReport{ResourceType: s.Name(), Properties: make([]InferredProperty, 0, len(props))}
	for _, p := range props {
		out.Properties = append(out.Properties, InferredProperty{
			Name:          p.Name,
			Type:          p.Type.String(),
			Optional:      s.IsOptional(p.Name),
			Nullable:      s.IsNullable(p.Name),
			OriginalValue: p.OriginalValue,
		})
	}
	return out
}

// HandleInfer executes the infer command
func HandleInfer(args []string) error {
	fs, flags := SetupInferFlags()
	if help, err := parseArgs(fs, args); help || err != nil {
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("infer command requires exactly one file path or '-' for stdin")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	example, err := ReadInput(fs.Arg(0))
	if err != nil {
		return err
	}
	s, err := schema.FromExample(example, annotation.Annotation{
		BlockType:          annotation.BlockResource,
		ResourceType:       flags.ResourceType,
		IsCollection:       flags.Collection,
		OptionalProperties: flags.Optional,
		NullableProperties: flags.Nullable,
	}, nil)
	if err != nil {
		return err
	}

	if flags.JSONSchema {
		e, err := schemaexport.New(nil)
		if err != nil {
			return err
		}
		data, err := e.Export(s)
		if err != nil {
			return err
		}
		Writef(stdout, "%s\n", data)
		return nil
	}

	report := NewInferReport(s)
	if flags.Format != FormatText {
		return OutputStructured(stdout, report, flags.Format)
	}

	if report.ResourceType != "" {
		Writef(stdout, "Resource: %s\n\n", report.ResourceType)
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	Writef(tw, "PROPERTY\tTYPE\tFLAGS\n")
	for _, p := range report.Properties {
		Writef(tw, "%s\t%s\t%s\n", p.Name, p.Type, propertyFlags(p))
	}
	return tw.Flush()
}

func propertyFlags(p InferredProperty) string {
	switch {
	case p.Optional && p.Nullable:
		return "optional, nullable"
	case p.Optional:
		return "optional"
	case p.Nullable:
		return "nullable"
	default:
		return "-"
	}
}
