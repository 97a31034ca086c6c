package commands

import (
	"context"
	"fmt"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/erraggy/docschema"
	"github.com/erraggy/docschema/docscan"
	"github.com/erraggy/docschema/internal/issues"
	"github.com/erraggy/docschema/registry"
	"github.com/erraggy/docschema/validator"
)

// CheckFlags contains flags for the check command
type CheckFlags struct {
	SettingsFlags
	Verbose bool
}

// SetupCheckFlags creates and configures a FlagSet for the check command.
func SetupCheckFlags() (*flag.FlagSet, *CheckFlags) {
	fs := newFlagSet("check")
	flags := &CheckFlags{}

	bindSettingsFlags(fs, &flags.SettingsFlags)
	fs.BoolVarP(&flags.Verbose, "verbose", "v", false, "log scanning and registry details to stderr")

	fs.Usage = func() {
		Writef(stderr, "Usage: docschema check [flags] <file|dir>...\n\n")
		Writef(stderr, "Register every resource declared in the documentation set and validate\n")
		Writef(stderr, "every annotated example and response block against it.\n\n")
		Writef(stderr, "Flags:\n")
		fs.PrintDefaults()
		Writef(stderr, "\nExamples:\n")
		Writef(stderr, "  docschema check docs/\n")
		Writef(stderr, "  docschema check --strict docs/api-reference docs/resources\n")
		Writef(stderr, "  docschema check --format json docs/ | jq '.errorCount'\n")
		Writef(stderr, "\nExit Codes:\n")
		Writef(stderr, "  0    Every block validated\n")
		Writef(stderr, "  1    At least one block or resource failed\n")
	}

	return fs, flags
}

// CheckReport is the structured output of the check command.
type CheckReport struct {
	Files        int            `json:"files" yaml:"files"`
	Resources    int            `json:"resources" yaml:"resources"`
	Blocks       int            `json:"blocks" yaml:"blocks"`
	FailedBlocks int            `json:"failedBlocks" yaml:"failedBlocks"`
	Valid        bool           `json:"valid" yaml:"valid"`
	ErrorCount   int            `json:"errorCount" yaml:"errorCount"`
	WarningCount int            `json:"warningCount" yaml:"warningCount"`
	Issues       []issues.Issue `json:"issues" yaml:"issues"`
}

// NewCheckReport summarizes a docscan report.
func NewCheckReport(r *docscan.Report) CheckReport {
	out := CheckReport{
		Files:        r.Files,
		Resources:    r.Resources,
		Blocks:       len(r.Blocks),
		Valid:        r.Valid(),
		ErrorCount:   r.ErrorCount,
		WarningCount: r.WarningCount,
		Issues:       r.Issues(),
	}
	for _, b := range r.Blocks {
		if !b.Result.Valid {
			out.FailedBlocks++
		}
	}
	return out
}

// HandleCheck executes the check command
func HandleCheck(args []string) error {
	fs, flags := SetupCheckFlags()
	if help, err := parseArgs(fs, args); help || err != nil {
		return err
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("check command requires at least one file or directory")
	}

	cfg, err := loadSettings(fs, &flags.SettingsFlags)
	if err != nil {
		return err
	}

	startTime := time.Now()
	logger := newLogger(flags.Verbose)
	docs, err := scanDocs(context.Background(), cfg, logger, fs.Args())
	if err != nil {
		return err
	}
	report, err := docscan.Check(context.Background(), docs, docscan.CheckOptions{
		ValidatorOptions: append(cfg.ValidatorOptions(), validator.WithLogger(logger)),
		RegistryOptions:  []registry.Option{registry.WithLogger(logger)},
		Concurrency:      cfg.Concurrency,
	})
	if err != nil {
		return err
	}
	summary := NewCheckReport(report)

	if cfg.Format != FormatText {
		if err := OutputStructured(stdout, summary, cfg.Format); err != nil {
			return err
		}
	} else if !flags.Quiet {
		Writef(stderr, "Documentation Set Checker\n")
		Writef(stderr, "=========================\n\n")
		Writef(stderr, "docschema version: %s\n", docschema.Version())
		Writef(stderr, "Files: %d\n", summary.Files)
		Writef(stderr, "Resources: %d\n", summary.Resources)
		Writef(stderr, "Blocks: %d (%d failed)\n", summary.Blocks, summary.FailedBlocks)
		Writef(stderr, "Total Time: %v\n\n", time.Since(startTime).Round(time.Millisecond))
		writeIssues(stderr, summary.Issues)
		writeSummary(stderr, summary.Valid, summary.ErrorCount, summary.WarningCount)
	}

	if !summary.Valid {
		return ErrValidationFailed
	}
	return nil
}
