package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/erraggy/docschema/docscan"
	"github.com/erraggy/docschema/internal/config"
	"github.com/erraggy/docschema/logging"
	"github.com/erraggy/docschema/registry"
)

// newLogger returns a debug logger on stderr when verbose, otherwise a no-op.
func newLogger(verbose bool) logging.Logger {
	if !verbose {
		return logging.NopLogger{}
	}
	return logging.NewTextLogger(stderr, slog.LevelDebug)
}

// scanDocs collects and scans the Markdown files under roots.
func scanDocs(ctx context.Context, cfg *config.Config, logger logging.Logger, roots []string) ([]*docscan.Document, error) {
	files, err := docscan.CollectFiles(roots...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no Markdown files found in %v", roots)
	}
	s, err := docscan.New(append(cfg.ScannerOptions(), docscan.WithLogger(logger))...)
	if err != nil {
		return nil, err
	}
	return s.ScanFiles(ctx, files)
}

// buildRegistry registers every resource declared in docs. Declarations that
// fail to build are returned alongside the registry of the rest.
func buildRegistry(docs []*docscan.Document, logger logging.Logger) (*registry.Registry, error) {
	b, err := registry.NewBuilder(registry.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		b.Add(doc.Resources...)
	}
	return b.Build()
}
