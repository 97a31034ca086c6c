package docscan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/erraggy/docschema/annotation"
	"github.com/erraggy/docschema/docerrors"
	"github.com/erraggy/docschema/internal/issues"
	"github.com/erraggy/docschema/logging"
	"github.com/erraggy/docschema/schema"
)

// DefaultMaxFileSize is the default limit on the size of one documentation file.
const DefaultMaxFileSize int64 = 8 << 20

// Block is one annotated code block found in a documentation file.
type Block struct {
	// Annotation is the metadata record preceding the block.
	Annotation annotation.Annotation
	// File is the documentation file the block came from.
	File string
	// Line is the 1-based line of the opening fence.
	Line int
	// Language is the info string of the fence, e.g. "json" or "http".
	Language string
	// Raw is the block content as written.
	Raw string
	// Body is the JSON payload: Raw, or the body of a raw HTTP message.
	Body string
	// StatusCode is the status of a raw HTTP response; 0 otherwise.
	StatusCode int
}

// HasNoContent reports whether the block is a raw HTTP response without a
// body, such as "HTTP/1.1 204 No Content".
func (b Block) HasNoContent() bool {
	return b.StatusCode != 0 && strings.TrimSpace(b.Body) == ""
}

// Document is everything scanned from one documentation file.
type Document struct {
	// Path is the file path as given to the scanner.
	Path string
	// Blocks are the annotated code blocks in file order.
	Blocks []Block
	// Resources are the resource declarations of the file, with the fields of
	// its property tables attached.
	Resources []schema.Resource
	// Issues are the annotations that could not be read. The code block
	// following a bad annotation is skipped.
	Issues []issues.Issue
}

// Scanner extracts annotated code blocks and property tables from Markdown
// documentation. A Scanner is safe for concurrent use once configured.
type Scanner struct {
	// Logger receives per-file diagnostics. Nil discards them.
	Logger logging.Logger
	// Concurrency limits the number of files parsed at once.
	Concurrency int
	// MaxFileSize is the largest file the scanner reads, in bytes.
	MaxFileSize int64
}

// Option is a function that configures a Scanner.
type Option func(*Scanner) error

// WithLogger sets the logger for scan diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(s *Scanner) error {
		s.Logger = l
		return nil
	}
}

// WithConcurrency sets the number of files parsed at once.
// Default: runtime.GOMAXPROCS(0)
func WithConcurrency(n int) Option {
	return func(s *Scanner) error {
		if n < 1 {
			return &docerrors.ConfigError{Option: "Concurrency", Value: n, Message: "must be at least 1"}
		}
		s.Concurrency = n
		return nil
	}
}

// WithMaxFileSize sets the largest file the scanner reads.
// Default: DefaultMaxFileSize
func WithMaxFileSize(size int64) Option {
	return func(s *Scanner) error {
		if size < 1 {
			return &docerrors.ConfigError{Option: "MaxFileSize", Value: size, Message: "must be positive"}
		}
		s.MaxFileSize = size
		return nil
	}
}

// New creates a Scanner.
func New(opts ...Option) (*Scanner, error) {
	s := &Scanner{
		Concurrency: runtime.GOMAXPROCS(0),
		MaxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("docscan: invalid options: %w", err)
		}
	}
	return s, nil
}

// ScanFile reads and parses one documentation file.
func (s *Scanner) ScanFile(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, &docerrors.ScanError{Path: path, Message: "cannot stat file", Cause: err}
	}
	if limit := s.maxFileSize(); info.Size() > limit {
		return nil, &docerrors.ScanError{Path: path, Cause: &docerrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        limit,
			Actual:       info.Size(),
		}}
	}
	src, err := os.ReadFile(path) //nolint:gosec // documentation paths are provided by the user
	if err != nil {
		return nil, &docerrors.ScanError{Path: path, Message: "cannot read file", Cause: err}
	}
	return s.Parse(path, src)
}

// ScanFiles parses the given files concurrently. Documents are returned in
// the order of paths. The first failure cancels the remaining work.
func (s *Scanner) ScanFiles(ctx context.Context, paths []string) ([]*Document, error) {
	docs := make([]*Document, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency())
	for i, path := range paths {
		g.Go(func() error {
			doc, err := s.ScanFile(ctx, path)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Parse scans Markdown source already in memory. path is used for
// diagnostics only.
func (s *Scanner) Parse(path string, src []byte) (*Document, error) {
	doc, err := parseMarkdown(path, src)
	if err != nil {
		return nil, err
	}
	s.log().Debug("scanned documentation file",
		"file", path,
		"blocks", len(doc.Blocks),
		"resources", len(doc.Resources))
	for _, is := range doc.Issues {
		s.log().Warn("skipped code block", "file", path, "line", is.Line, "reason", is.Message)
	}
	return doc, nil
}

func (s *Scanner) log() logging.Logger {
	return logging.OrNop(s.Logger)
}

func (s *Scanner) concurrency() int {
	if s.Concurrency < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return s.Concurrency
}

func (s *Scanner) maxFileSize() int64 {
	if s.MaxFileSize < 1 {
		return DefaultMaxFileSize
	}
	return s.MaxFileSize
}

// CollectFiles expands files and directories into the sorted list of
// Markdown files they contain. Hidden directories are skipped.
func CollectFiles(roots ...string) ([]string, error) {
	var files []string
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, &docerrors.ScanError{Path: root, Message: "cannot stat path", Cause: err}
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if isMarkdown(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, &docerrors.ScanError{Path: root, Message: "cannot walk directory", Cause: err}
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
