// Package commands provides CLI command handlers for docschema.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	flag "github.com/spf13/pflag"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/docschema/internal/config"
	"github.com/erraggy/docschema/internal/issues"
	"github.com/erraggy/docschema/internal/severity"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// ErrValidationFailed is returned by handlers whose input did not validate.
// The findings have already been printed; callers only set the exit code.
var ErrValidationFailed = errors.New("validation failed")

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	stdin  io.Reader = os.Stdin
)

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured writes data in the specified format (json or yaml) to w.
func OutputStructured(w io.Writer, data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	Writef(w, "%s\n", bytes)
	return nil
}

// ValidateOutputPath checks that outputPath does not overwrite any input.
func ValidateOutputPath(outputPath string, inputPaths []string) error {
	absOutputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	for _, inputPath := range inputPaths {
		absInputPath, err := filepath.Abs(inputPath)
		if err != nil {
			return fmt.Errorf("invalid input path %s: %w", inputPath, err)
		}
		if absOutputPath == absInputPath {
			return fmt.Errorf("output %s would overwrite input %s", outputPath, inputPath)
		}
	}
	return nil
}

// FormatInputPath returns a display-friendly path for an input file.
func FormatInputPath(path string) string {
	if path == StdinFilePath {
		return "<stdin>"
	}
	return path
}

// ReadInput reads a payload file, or stdin when path is StdinFilePath.
func ReadInput(path string) (string, error) {
	if path == StdinFilePath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // input paths are provided by the user
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil { //nolint:gosec // G705 - CLI tool, not a web server
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// SettingsFlags are the validation flags shared by several commands. They
// override the configuration file and environment only when given.
type SettingsFlags struct {
	Config     string
	Relaxed    bool
	Strict     bool
	NoWarnings bool
	Quiet      bool
	Format     string
}

// newFlagSet returns a FlagSet that reports errors instead of exiting and
// writes its usage to stderr.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// bindSettingsFlags registers the shared flags on fs.
func bindSettingsFlags(fs *flag.FlagSet, flags *SettingsFlags) {
	fs.StringVarP(&flags.Config, "config", "c", "", "configuration file (default "+config.FileName+" when present)")
	fs.BoolVar(&flags.Relaxed, "relaxed", false, "accept less specific string values with a message")
	fs.BoolVar(&flags.Strict, "strict", false, "treat warnings as errors")
	fs.BoolVar(&flags.NoWarnings, "no-warnings", false, "suppress warning messages (only show errors)")
	fs.BoolVarP(&flags.Quiet, "quiet", "q", false, "quiet mode: only output the result, no diagnostic messages")
	fs.StringVarP(&flags.Format, "format", "f", FormatText, "output format: text, json, or yaml")
}

// loadSettings loads the configuration and applies the flags that were set
// on the command line.
func loadSettings(fs *flag.FlagSet, flags *SettingsFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.Config)
	if err != nil {
		return nil, err
	}
	if fs.Changed("relaxed") {
		cfg.RelaxedStringValidation = flags.Relaxed
	}
	if fs.Changed("strict") {
		cfg.TreatWarningsAsErrors = flags.Strict
	}
	if fs.Changed("no-warnings") {
		cfg.NoWarnings = flags.NoWarnings
	}
	if fs.Changed("format") {
		cfg.Format = flags.Format
	}
	if cfg.Format == "" {
		cfg.Format = FormatText
	}
	if err := ValidateOutputFormat(cfg.Format); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseArgs parses args and reports whether help was requested.
func parseArgs(fs *flag.FlagSet, args []string) (help bool, err error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// writeIssues prints issues in the text format, grouped by severity.
func writeIssues(w io.Writer, list []issues.Issue) {
	for _, sev := range []severity.Severity{severity.SeverityError, severity.SeverityWarning, severity.SeverityMessage} {
		var group []issues.Issue
		for _, is := range list {
			if is.Severity == sev {
				group = append(group, is)
			}
		}
		if len(group) == 0 {
			continue
		}
		Writef(w, "%ss (%d):\n", titleOf(sev), len(group))
		for _, is := range group {
			if is.Source != "" {
				Writef(w, "  %s: %s\n", is.Location(), is.String())
			} else {
				Writef(w, "  %s\n", is.String())
			}
		}
		Writef(w, "\n")
	}
}

func titleOf(sev severity.Severity) string {
	switch sev {
	case severity.SeverityError:
		return "Error"
	case severity.SeverityWarning:
		return "Warning"
	default:
		return "Message"
	}
}

// writeSummary prints the pass/fail line.
func writeSummary(w io.Writer, valid bool, errs, warnings int) {
	if valid {
		Writef(w, "✓ Validation passed")
		if warnings > 0 {
			Writef(w, " with %d warning(s)", warnings)
		}
		Writef(w, "\n")
		return
	}
	Writef(w, "✗ Validation failed: %d error(s)", errs)
	if warnings > 0 {
		Writef(w, ", %d warning(s)", warnings)
	}
	Writef(w, "\n")
}
