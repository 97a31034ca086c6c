package commands

import (
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/erraggy/docschema/internal/issues"
	"github.com/erraggy/docschema/scenario"
)

// ScenarioFlags contains flags for the scenario command
type ScenarioFlags struct {
	Run     string
	Format  string
	Quiet   bool
	Verbose bool
}

// SetupScenarioFlags creates and configures a FlagSet for the scenario command.
func SetupScenarioFlags() (*flag.FlagSet, *ScenarioFlags) {
	fs := newFlagSet("scenario")
	flags := &ScenarioFlags{}

	fs.StringVar(&flags.Run, "run", "", "only run checks whose name contains this text")
	fs.StringVarP(&flags.Format, "format", "f", FormatText, "output format: text, json, or yaml")
	fs.BoolVarP(&flags.Quiet, "quiet", "q", false, "only print failed checks")
	fs.BoolVarP(&flags.Verbose, "verbose", "v", false, "print the issues of passing checks too")

	fs.Usage = func() {
		Writef(stderr, "Usage: docschema scenario [flags] <dir|archive.txtar>...\n\n")
		Writef(stderr, "Run regression archives. Each txtar archive holds a %s manifest\n", scenario.ManifestFile)
		Writef(stderr, "declaring resources and checks, plus the payload files the checks name.\n\n")
		Writef(stderr, "Flags:\n")
		fs.PrintDefaults()
		Writef(stderr, "\nExamples:\n")
		Writef(stderr, "  docschema scenario testdata/\n")
		Writef(stderr, "  docschema scenario --run truncated testdata/truncated.txtar\n")
		Writef(stderr, "\nExit Codes:\n")
		Writef(stderr, "  0    Every check produced its expected codes\n")
		Writef(stderr, "  1    At least one check did not\n")
	}

	return fs, flags
}

// CheckOutcome is one check in the scenario command output.
type CheckOutcome struct {
	Scenario string        `json:"scenario" yaml:"scenario"`
	Check    string        `json:"check" yaml:"check"`
	Passed   bool          `json:"passed" yaml:"passed"`
	Mismatch string        `json:"mismatch,omitempty" yaml:"mismatch,omitempty"`
	Codes    []issues.Code `json:"codes" yaml:"codes"`
}

// ScenarioReport is the structured output of the scenario command.
type ScenarioReport struct {
	Passed   int            `json:"passed" yaml:"passed"`
	Failed   int            `json:"failed" yaml:"failed"`
	Outcomes []CheckOutcome `json:"outcomes" yaml:"outcomes"`
}

// HandleScenario executes the scenario command
func HandleScenario(args []string) error {
	fs, flags := SetupScenarioFlags()
	if help, err := parseArgs(fs, args); help || err != nil {
		return err
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("scenario command requires at least one directory or archive")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	scenarios, err := loadScenarios(fs.Args())
	if err != nil {
		return err
	}

	var report ScenarioReport
	var details []scenario.Outcome
	for _, sc := range scenarios {
		if flags.Run != "" {
			sc.Checks = filterChecks(sc.Checks, flags.Run)
		}
		outcomes, err := sc.Run()
		if err != nil {
			return err
		}
		for _, o := range outcomes {
			codes := o.Result.Codes()
			if codes == nil {
				codes = []issues.Code{}
			}
			report.Outcomes = append(report.Outcomes, CheckOutcome{
				Scenario: sc.Name,
				Check:    o.Check.Name,
				Passed:   o.Passed,
				Mismatch: o.Mismatch,
				Codes:    codes,
			})
			details = append(details, o)
			if o.Passed {
				report.Passed++
			} else {
				report.Failed++
			}
		}
	}

	if flags.Format != FormatText {
		if err := OutputStructured(stdout, report, flags.Format); err != nil {
			return err
		}
	} else {
		for i, o := range report.Outcomes {
			if o.Passed && flags.Quiet {
				continue
			}
			status := "PASS"
			if !o.Passed {
				status = "FAIL"
			}
			Writef(stderr, "%s  %s/%s\n", status, o.Scenario, o.Check)
			if !o.Passed {
				Writef(stderr, "      %s\n", o.Mismatch)
			}
			if !o.Passed || flags.Verbose {
				for _, is := range details[i].Result.Issues {
					Writef(stderr, "      %s\n", is.String())
				}
			}
		}
		Writef(stderr, "\n%d passed, %d failed\n", report.Passed, report.Failed)
	}

	if report.Failed > 0 {
		return ErrValidationFailed
	}
	return nil
}

// loadScenarios loads every archive named by paths; directories contribute
// their *.txtar files.
func loadScenarios(paths []string) ([]*scenario.Scenario, error) {
	var out []*scenario.Scenario
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		if info.IsDir() {
			list, err := scenario.LoadDir(p)
			if err != nil {
				return nil, err
			}
			out = append(out, list...)
			continue
		}
		sc, err := scenario.Load(p)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no scenario archives found in %v", paths)
	}
	return out, nil
}

func filterChecks(checks []scenario.Check, run string) []scenario.Check {
	var out []scenario.Check
	for _, c := range checks {
		if strings.Contains(c.Name, run) {
			out = append(out, c)
		}
	}
	return out
}
