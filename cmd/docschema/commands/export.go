package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	flag "github.com/spf13/pflag"

	"github.com/erraggy/docschema/annotation"
	"github.com/erraggy/docschema/internal/config"
	"github.com/erraggy/docschema/internal/fileutil"
	"github.com/erraggy/docschema/internal/pathutil"
	"github.com/erraggy/docschema/schemaexport"
)

// ExportFlags contains flags for the export command
type ExportFlags struct {
	Config  string
	Docs    []string
	Types   []string
	Out     string
	Closed  bool
	BaseURI string
	Quiet   bool
	Verbose bool
}

// SetupExportFlags creates and configures a FlagSet for the export command.
func SetupExportFlags() (*flag.FlagSet, *ExportFlags) {
	fs := newFlagSet("export")
	flags := &ExportFlags{}

	fs.StringVarP(&flags.Config, "config", "c", "", "configuration file (default "+config.FileName+" when present)")
	fs.StringSliceVarP(&flags.Docs, "docs", "d", nil, "documentation files or directories declaring resources (repeatable)")
	fs.StringSliceVarP(&flags.Types, "type", "t", nil, "export only these resources (repeatable; default all)")
	fs.StringVarP(&flags.Out, "out", "o", "", "directory receiving one <resource>.schema.json per resource")
	fs.BoolVar(&flags.Closed, "closed", false, "forbid undeclared properties on non-open types")
	fs.StringVar(&flags.BaseURI, "base-uri", schemaexport.DefaultBaseURI, "absolute URI prefixing every $id")
	fs.BoolVarP(&flags.Quiet, "quiet", "q", false, "quiet mode: do not list written files")
	fs.BoolVarP(&flags.Verbose, "verbose", "v", false, "log scanning and registry details to stderr")

	fs.Usage = func() {
		Writef(stderr, "Usage: docschema export [flags] --docs <file|dir>...\n\n")
		Writef(stderr, "Export documented resources as JSON Schema (draft 2020-12) documents.\n")
		Writef(stderr, "Without --out a single resource is written to stdout.\n\n")
		Writef(stderr, "Flags:\n")
		fs.PrintDefaults()
		Writef(stderr, "\nExamples:\n")
		Writef(stderr, "  docschema export --docs docs/ --out schemas/\n")
		Writef(stderr, "  docschema export --docs docs/ --type microsoft.graph.user > user.schema.json\n")
		Writef(stderr, "  docschema export --docs docs/ --closed --base-uri https://example.com/schemas/ -o schemas/\n")
	}

	return fs, flags
}

// HandleExport executes the export command
func HandleExport(args []string) error {
	fs, flags := SetupExportFlags()
	if help, err := parseArgs(fs, args); help || err != nil {
		return err
	}

	docsPaths := slices.Concat(flags.Docs, fs.Args())
	if len(docsPaths) == 0 {
		fs.Usage()
		return fmt.Errorf("export command requires --docs")
	}

	cfg, err := config.Load(flags.Config)
	if err != nil {
		return err
	}
	logger := newLogger(flags.Verbose)
	docs, err := scanDocs(context.Background(), cfg, logger, docsPaths)
	if err != nil {
		return err
	}
	reg, buildErr := buildRegistry(docs, logger)
	if reg == nil {
		return buildErr
	}
	if buildErr != nil && !flags.Quiet {
		Writef(stderr, "Warning: some resources could not be registered:\n%v\n\n", buildErr)
	}

	e, err := schemaexport.New(reg, schemaexport.WithStrict(flags.Closed), schemaexport.WithBaseURI(flags.BaseURI))
	if err != nil {
		return err
	}

	names := reg.Names()
	if len(flags.Types) > 0 {
		names = names[:0:0]
		for _, t := range flags.Types {
			s, ok := reg.LookupFold(t)
			if !ok {
				return fmt.Errorf("resource %s is not documented", annotation.TrimTypeName(t))
			}
			names = append(names, s.Name())
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("no resources declared in %v", docsPaths)
	}

	if flags.Out == "" {
		if len(names) != 1 {
			return fmt.Errorf("%d resources to export: use --out or select one with --type", len(names))
		}
		s, _ := reg.Lookup(names[0])
		data, err := e.Export(s)
		if err != nil {
			return err
		}
		Writef(stdout, "%s\n", data)
		return nil
	}

	if err := ValidateOutputPath(flags.Out, docsPaths); err != nil {
		return err
	}
	if err := os.MkdirAll(flags.Out, fileutil.OutputDir); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, name := range names {
		s, _ := reg.Lookup(name)
		data, err := e.Export(s)
		if err != nil {
			return err
		}
		target, err := pathutil.SanitizeOutputPath(filepath.Join(flags.Out, SchemaFileName(name)))
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, append(data, '\n'), fileutil.ReadableByAll); err != nil {
			return fmt.Errorf("writing %s: %w", target, err)
		}
		if !flags.Quiet {
			Writef(stderr, "Wrote %s\n", target)
		}
	}
	return nil
}

// SchemaFileName returns the file name an exported resource is written to.
func SchemaFileName(resource string) string {
	return resource + ".schema.json"
}
