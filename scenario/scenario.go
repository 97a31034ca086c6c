package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.yaml.in/yaml/v4"
	"golang.org/x/tools/txtar"

	"github.com/erraggy/docschema/annotation"
	"github.com/erraggy/docschema/docerrors"
	"github.com/erraggy/docschema/internal/issues"
	"github.com/erraggy/docschema/registry"
	"github.com/erraggy/docschema/schema"
	"github.com/erraggy/docschema/validator"
)

// ManifestFile is the archive member holding the declarations and checks.
const ManifestFile = "resources.yaml"

// Check is one payload validation with its expected outcome.
type Check struct {
	// Name identifies the check in reports.
	Name string `yaml:"name"`
	// Payload names the archive member holding the payload.
	Payload string `yaml:"payload"`
	// Expected names the archive member holding an expected response. When
	// set, the payload is validated as the actual response.
	Expected string `yaml:"expected,omitempty"`
	// Annotation describes the payload.
	Annotation annotation.Annotation `yaml:"annotation"`
	// WantCodes are the issue codes the check must produce, in report order.
	WantCodes []issues.Code `yaml:"wantCodes"`
	// WantValid, when set, is the expected validity.
	WantValid *bool `yaml:"wantValid,omitempty"`
}

// Settings are validator settings applied to every check of an archive.
type Settings struct {
	RelaxedStringValidation bool     `yaml:"relaxedStringValidation,omitempty"`
	TreatWarningsAsErrors   bool     `yaml:"treatWarningsAsErrors,omitempty"`
	MaxDepth                int      `yaml:"maxDepth,omitempty"`
	IgnorableProperties     []string `yaml:"ignorableProperties,omitempty"`
}

// Manifest is the decoded resources.yaml of an archive.
type Manifest struct {
	Resources []schema.Resource `yaml:"resources"`
	Checks    []Check           `yaml:"checks"`
	Settings  Settings          `yaml:"settings,omitempty"`
}

// Scenario is a regression archive: resource declarations, payload files
// and the checks relating them.
type Scenario struct {
	// Name is the archive name, usually its file name without extension.
	Name string
	// Comment is the free text preceding the first archive member.
	Comment string
	Manifest
	files map[string]string
}

// Parse decodes a txtar archive. A resource without an inline example takes
// its example from the member "<resource name>.json", when present.
func Parse(name string, data []byte) (*Scenario, error) {
	ar := txtar.Parse(data)
	sc := &Scenario{
		Name:    name,
		Comment: strings.TrimSpace(string(ar.Comment)),
		files:   make(map[string]string, len(ar.Files)),
	}
	for _, f := range ar.Files {
		if _, dup := sc.files[f.Name]; dup {
			return nil, &docerrors.ParseError{Path: name, Message: fmt.Sprintf("duplicate archive member %s", f.Name)}
		}
		sc.files[f.Name] = string(f.Data)
	}

	manifest, ok := sc.files[ManifestFile]
	if !ok {
		return nil, &docerrors.ParseError{Path: name, Message: "archive has no " + ManifestFile}
	}
	if err := yaml.Unmarshal([]byte(manifest), &sc.Manifest); err != nil {
		return nil, &docerrors.ParseError{Path: name, Message: "invalid " + ManifestFile, Cause: err}
	}

	for i := range sc.Resources {
		res := &sc.Resources[i]
		if res.SourceFile == "" {
			res.SourceFile = name
		}
		if strings.TrimSpace(res.Example) == "" {
			res.Example = sc.files[res.Name+".json"]
		}
	}
	for _, c := range sc.Checks {
		if _, ok := sc.files[c.Payload]; !ok {
			return nil, &docerrors.ParseError{Path: name, Message: fmt.Sprintf("check %q: no archive member %q", c.Name, c.Payload)}
		}
		if _, ok := sc.files[c.Expected]; c.Expected != "" && !ok {
			return nil, &docerrors.ParseError{Path: name, Message: fmt.Sprintf("check %q: no archive member %q", c.Name, c.Expected)}
		}
	}
	return sc, nil
}

// Load reads and parses one archive file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path) //nolint:gosec // archive paths are provided by the user
	if err != nil {
		return nil, &docerrors.ScanError{Path: path, Message: "cannot read archive", Cause: err}
	}
	return Parse(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), data)
}

// LoadDir parses every *.txtar file in dir, in name order.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.txtar"))
	if err != nil {
		return nil, &docerrors.ScanError{Path: dir, Message: "cannot list archives", Cause: err}
	}
	slices.Sort(paths)
	out := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		sc, err := Load(p)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

// File returns the content of an archive member.
func (s *Scenario) File(name string) (string, bool) {
	content, ok := s.files[name]
	return content, ok
}

// Outcome is the result of running one check.
type Outcome struct {
	Check  Check
	Result *validator.Result
	// Passed is true when the produced codes, and validity if asserted,
	// match the check.
	Passed bool
	// Mismatch explains a failed check; empty when Passed.
	Mismatch string
}

// Run registers the archive's resources and runs every check. extra options
// are applied after the archive settings. A resource that fails to build is
// an error: archives are expected to be well formed.
func (s *Scenario) Run(extra ...validator.Option) ([]Outcome, error) {
	reg, err := registry.RegisterAll(s.Resources)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	v, err := validator.New(reg, append(s.Settings.options(), extra...)...)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	outcomes := make([]Outcome, 0, len(s.Checks))
	for _, c := range s.Checks {
		var result *validator.Result
		if c.Expected != "" {
			result = v.ValidateResponse(s.files[c.Expected], s.files[c.Payload], c.Annotation)
		} else {
			result = v.ValidateExample(s.files[c.Payload], c.Annotation)
		}
		outcomes = append(outcomes, judge(c, result))
	}
	return outcomes, nil
}

func (st Settings) options() []validator.Option {
	opts := []validator.Option{
		validator.WithRelaxedStringValidation(st.RelaxedStringValidation),
		validator.WithTreatWarningsAsErrors(st.TreatWarningsAsErrors),
	}
	if st.MaxDepth > 0 {
		opts = append(opts, validator.WithMaxDepth(st.MaxDepth))
	}
	if st.IgnorableProperties != nil {
		opts = append(opts, validator.WithIgnorableProperties(st.IgnorableProperties...))
	}
	return opts
}

func judge(c Check, result *validator.Result) Outcome {
	out := Outcome{Check: c, Result: result, Passed: true}
	got := result.Codes()
	if !slices.Equal(got, c.WantCodes) {
		out.Passed = false
		out.Mismatch = fmt.Sprintf("codes: want %v, got %v", c.WantCodes, got)
	}
	if c.WantValid != nil && *c.WantValid != result.Valid {
		out.Passed = false
		if out.Mismatch != "" {
			out.Mismatch += "; "
		}
		out.Mismatch += fmt.Sprintf("valid: want %t, got %t", *c.WantValid, result.Valid)
	}
	return out
}
