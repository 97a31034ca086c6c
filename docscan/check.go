package docscan

import (
	"context"
	"errors"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/erraggy/docschema/annotation"
	"github.com/erraggy/docschema/docerrors"
	"github.com/erraggy/docschema/internal/issues"
	"github.com/erraggy/docschema/registry"
	"github.com/erraggy/docschema/schema"
	"github.com/erraggy/docschema/validator"
)

// BlockResult is the validation outcome of one code block.
type BlockResult struct {
	// File and Line locate the block.
	File string
	Line int
	// Annotation is the metadata record of the block.
	Annotation annotation.Annotation
	// Result holds the findings. Issues carry File and Line as their source.
	Result *validator.Result
}

// Report is the outcome of checking a documentation set.
type Report struct {
	// Files is the number of documents checked.
	Files int
	// Resources is the number of resources registered.
	Resources int
	// Registry is the registry the examples were validated against.
	Registry *registry.Registry
	// BuildIssues are the resource declarations that could not be registered.
	BuildIssues []issues.Issue
	// ScanIssues are the annotations that could not be read, with the file
	// and line of each.
	ScanIssues []issues.Issue
	// Blocks holds one result per validated block, in document order.
	Blocks []BlockResult
	// ErrorCount and WarningCount total every finding in the report.
	ErrorCount   int
	WarningCount int
}

// Valid reports whether no block failed validation, every resource built and
// every annotation was readable.
func (r *Report) Valid() bool {
	if issues.HasErrors(r.BuildIssues) || issues.HasErrors(r.ScanIssues) {
		return false
	}
	for _, b := range r.Blocks {
		if !b.Result.Valid {
			return false
		}
	}
	return true
}

// Issues returns every finding in report order.
func (r *Report) Issues() []issues.Issue {
	out := slices.Concat(r.BuildIssues, r.ScanIssues)
	for _, b := range r.Blocks {
		out = append(out, b.Result.Issues...)
	}
	return out
}

// CheckOptions configures Check.
type CheckOptions struct {
	// Validator options applied to every block.
	ValidatorOptions []validator.Option
	// Registry options, e.g. the logger.
	RegistryOptions []registry.Option
	// Concurrency limits the number of blocks validated at once; 0 means
	// unlimited.
	Concurrency int
	// Resources are extra declarations registered alongside the scanned ones.
	Resources []schema.Resource
}

// Check registers every resource declared in docs and validates every
// example and response block against the registry. Build failures of single
// resources are reported as issues; the returned error is reserved for bad
// options and cancellation.
func Check(ctx context.Context, docs []*Document, opts CheckOptions) (*Report, error) {
	b, err := registry.NewBuilder(opts.RegistryOptions...)
	if err != nil {
		return nil, err
	}
	b.Add(opts.Resources...)
	for _, doc := range docs {
		b.Add(doc.Resources...)
	}
	reg, buildErr := b.Build()

	report := &Report{Files: len(docs), Resources: reg.Len(), Registry: reg}
	report.BuildIssues = buildIssues(buildErr)
	for _, doc := range docs {
		report.ScanIssues = append(report.ScanIssues, doc.Issues...)
	}

	v, err := validator.New(reg, opts.ValidatorOptions...)
	if err != nil {
		return nil, err
	}

	var blocks []Block
	for _, doc := range docs {
		for _, block := range doc.Blocks {
			if block.Annotation.Validated() {
				blocks = append(blocks, block)
			}
		}
	}

	report.Blocks = make([]BlockResult, len(blocks))
	g, ctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}
	for i, block := range blocks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var result *validator.Result
			if block.HasNoContent() {
				result = &validator.Result{Valid: true, ResourceType: block.Annotation.TypeName()}
			} else {
				result = v.ValidateExample(block.Body, block.Annotation)
			}
			for j := range result.Issues {
				result.Issues[j].Source = block.File
				result.Issues[j].Line = block.Line
			}
			report.Blocks[i] = BlockResult{
				File:       block.File,
				Line:       block.Line,
				Annotation: block.Annotation,
				Result:     result,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	errs, warnings, _ := issues.Count(slices.Concat(report.BuildIssues, report.ScanIssues))
	report.ErrorCount, report.WarningCount = errs, warnings
	for _, br := range report.Blocks {
		report.ErrorCount += br.Result.ErrorCount
		report.WarningCount += br.Result.WarningCount
	}
	return report, nil
}

// buildIssues converts the joined registry build error into issues, one per
// failed declaration.
func buildIssues(err error) []issues.Issue {
	if err == nil {
		return nil
	}
	var list []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		list = joined.Unwrap()
	} else {
		list = []error{err}
	}

	out := make([]issues.Issue, 0, len(list))
	for _, e := range list {
		is := issues.Errorf(issues.CodeSchemaBuildFailed, "", "%v", e)
		var be *docerrors.BuildError
		if errors.As(e, &be) {
			is.Path = be.Property
		}
		out = append(out, is)
	}
	return out
}
