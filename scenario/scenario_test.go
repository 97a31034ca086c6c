package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/docschema/docerrors"
	"github.com/erraggy/docschema/internal/issues"
	"github.com/erraggy/docschema/validator"
)

func TestArchives(t *testing.T) {
	scenarios, err := LoadDir("testdata")
	require.NoError(t, err)
	require.Len(t, scenarios, 3)

	for _, sc := range scenarios {
		t.Run(sc.Name, func(t *testing.T) {
			outcomes, err := sc.Run()
			require.NoError(t, err)
			require.Len(t, outcomes, len(sc.Checks))
			for _, o := range outcomes {
				assert.True(t, o.Passed, "%s: %s; issues: %v", o.Check.Name, o.Mismatch, o.Result.Issues)
			}
		})
	}
}

func TestParse(t *testing.T) {
	sc, err := Load("testdata/item.txtar")
	require.NoError(t, err)

	assert.Equal(t, "item", sc.Name)
	assert.Equal(t, "A resource with a required id and optional tags.", sc.Comment)
	require.Len(t, sc.Resources, 1)
	assert.JSONEq(t, `{"id": "string", "tags": ["string"]}`, sc.Resources[0].Example)
	assert.Equal(t, "item", sc.Resources[0].SourceFile)
	require.Len(t, sc.Resources[0].Fields, 2)
	assert.True(t, *sc.Resources[0].Fields[0].Required)

	require.Len(t, sc.Checks, 4)
	assert.Equal(t, []issues.Code{issues.CodeExpectedTypeDifferent}, sc.Checks[1].WantCodes)
	assert.True(t, sc.Checks[3].Annotation.IsCollection)

	payload, ok := sc.File("minimal.json")
	assert.True(t, ok)
	assert.Equal(t, "{\"id\": \"1\"}\n", payload)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		archive string
		want    string
	}{
		{"no manifest", "-- a.json --\n{}\n", "no resources.yaml"},
		{"bad yaml", "-- resources.yaml --\nresources: [\n", "invalid resources.yaml"},
		{
			"missing payload",
			"-- resources.yaml --\nchecks:\n  - name: c\n    payload: nope.json\n",
			`no archive member "nope.json"`,
		},
		{
			"missing expected",
			"-- resources.yaml --\nchecks:\n  - name: c\n    payload: a.json\n    expected: b.json\n-- a.json --\n{}\n",
			`no archive member "b.json"`,
		},
		{"duplicate member", "-- resources.yaml --\n-- a.json --\n{}\n-- a.json --\n{}\n", "duplicate archive member a.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("broken", []byte(tt.archive))
			require.Error(t, err)
			assert.ErrorIs(t, err, docerrors.ErrParse)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRunReportsMismatch(t *testing.T) {
	archive := `-- resources.yaml --
resources:
  - name: test.item
    example: '{"id": "string"}'
checks:
  - name: wrong expectation
    payload: p.json
    annotation:
      resourceType: test.item
    wantCodes: []
    wantValid: false
-- p.json --
{"id": 3}
`
	sc, err := Parse("mismatch", []byte(archive))
	require.NoError(t, err)

	outcomes, err := sc.Run()
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.False(t, outcomes[0].Passed)
	assert.Equal(t, "codes: want [], got [ExpectedTypeDifferent]", outcomes[0].Mismatch)

	outcomes, err = sc.Run(validator.WithIncludeWarnings(false))
	require.NoError(t, err)
	assert.False(t, outcomes[0].Passed)
}

func TestRunRejectsBrokenResources(t *testing.T) {
	archive := "-- resources.yaml --\nresources:\n  - name: test.item\n    example: '{\"id\": '\n"
	sc, err := Parse("broken", []byte(archive))
	require.NoError(t, err)

	_, err = sc.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, docerrors.ErrBuild)
}

func TestSettingsOptions(t *testing.T) {
	st := Settings{MaxDepth: 3, IgnorableProperties: []string{"x"}, TreatWarningsAsErrors: true}
	v, err := validator.New(nil, st.options()...)
	require.NoError(t, err)
	assert.Equal(t, 3, v.MaxDepth)
	assert.Equal(t, []string{"x"}, v.IgnorableProperties)
	assert.True(t, v.TreatWarningsAsErrors)
	assert.False(t, v.RelaxedStringValidation)
}
