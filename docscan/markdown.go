package docscan

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/erraggy/docschema/annotation"
	"github.com/erraggy/docschema/docerrors"
	"github.com/erraggy/docschema/internal/issues"
	"github.com/erraggy/docschema/schema"
)

// markdown is shared; a goldmark parser is safe for concurrent use.
var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// fileState carries what has been seen so far in one file.
type fileState struct {
	path    string
	src     []byte
	doc     *Document
	pending *annotation.Annotation
	// orphanFields come from tables that precede every resource block.
	orphanFields []schema.FieldDescriptor
	// navigable is set under a "Relationships" heading.
	navigable bool
}

func parseMarkdown(path string, src []byte) (*Document, error) {
	root := markdown.Parser().Parse(text.NewReader(src))
	st := &fileState{path: path, src: src, doc: &Document{Path: path}}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if err := st.visit(n); err != nil {
			return nil, err
		}
	}

	if len(st.orphanFields) > 0 && len(st.doc.Resources) > 0 {
		first := &st.doc.Resources[0]
		first.Fields = slices.Concat(st.orphanFields, first.Fields)
	}
	return st.doc, nil
}

// visit handles one top-level block. An annotation applies only to the code
// block immediately following it.
func (st *fileState) visit(n ast.Node) error {
	switch node := n.(type) {
	case *ast.HTMLBlock:
		body := st.htmlBlockText(node)
		if !isAnnotationComment(body) {
			st.pending = nil
			return nil
		}
		ann, err := annotation.Parse(body)
		if err != nil {
			st.pending = nil
			is := issues.Errorf(issues.CodeInvalidAnnotation, "", "invalid annotation: %v", err)
			is.Source, is.Line = st.path, st.line(node)
			st.doc.Issues = append(st.doc.Issues, is)
			return nil
		}
		st.pending = &ann
		return nil
	case *ast.FencedCodeBlock:
		pending := st.pending
		st.pending = nil
		if pending == nil || pending.BlockType == annotation.BlockIgnored {
			return nil
		}
		return st.addBlock(*pending, node)
	case *ast.Heading:
		st.pending = nil
		st.navigable = strings.Contains(strings.ToLower(st.inlineText(node)), "relationship")
		return nil
	case *extast.Table:
		st.pending = nil
		st.addTable(node)
		return nil
	}
	st.pending = nil
	return nil
}

func (st *fileState) addBlock(ann annotation.Annotation, node *ast.FencedCodeBlock) error {
	raw := st.lines(node.Lines())
	block := Block{
		Annotation: ann,
		File:       st.path,
		Line:       st.line(node),
		Language:   string(node.Language(st.src)),
		Raw:        raw,
		Body:       raw,
	}
	if isHTTPMessage(raw) {
		if ann.BlockType == annotation.BlockRequest {
			block.Body = ""
		} else {
			status, body, err := responseBody(raw)
			if err != nil {
				return &docerrors.ScanError{Path: st.path, Message: fmt.Sprintf("http message at line %d", block.Line), Cause: err}
			}
			block.StatusCode, block.Body = status, body
		}
	}
	st.doc.Blocks = append(st.doc.Blocks, block)

	if ann.BlockType == annotation.BlockResource {
		st.doc.Resources = append(st.doc.Resources, schema.Resource{
			Name:               ann.TypeName(),
			BaseType:           ann.BaseType,
			Example:            block.Body,
			OpenType:           ann.OpenType,
			KeyPropertyName:    ann.KeyProperty,
			OptionalProperties: ann.OptionalProperties,
			NullableProperties: ann.NullableProperties,
			SourceFile:         st.path,
		})
	}
	return nil
}

// addTable turns a property table into field descriptors of the most recent
// resource in the file. Tables without a name and a type column are ignored.
func (st *fileState) addTable(table *extast.Table) {
	var header []string
	var fields []schema.FieldDescriptor
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		cells := st.cells(row)
		if _, isHeader := row.(*extast.TableHeader); isHeader {
			header = cells
			continue
		}
		cols := columnsOf(header)
		if !cols.valid() {
			return
		}
		if fd, ok := cols.descriptor(cells, st.navigable); ok {
			fields = append(fields, fd)
		}
	}
	if len(fields) == 0 {
		return
	}
	if n := len(st.doc.Resources); n > 0 {
		last := &st.doc.Resources[n-1]
		last.Fields = append(last.Fields, fields...)
		return
	}
	st.orphanFields = append(st.orphanFields, fields...)
}

func (st *fileState) cells(row ast.Node) []string {
	var out []string
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, strings.TrimSpace(st.inlineText(c)))
	}
	return out
}

// inlineText concatenates the text of every inline descendant of n.
func (st *fileState) inlineText(n ast.Node) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(st.src))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func (st *fileState) htmlBlockText(node *ast.HTMLBlock) string {
	body := st.lines(node.Lines())
	if node.HasClosure() {
		body += string(node.ClosureLine.Value(st.src))
	}
	return body
}

func (st *fileState) lines(segments *text.Segments) string {
	var buf bytes.Buffer
	for i := 0; i < segments.Len(); i++ {
		seg := segments.At(i)
		buf.Write(seg.Value(st.src))
	}
	return buf.String()
}

// line returns the 1-based line on which a block node starts. Fenced code
// blocks report the line of the opening fence.
func (st *fileState) line(n ast.Node) int {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return 0
	}
	start := lines.At(0).Start
	line := bytes.Count(st.src[:start], []byte{'\n'}) + 1
	if _, fenced := n.(*ast.FencedCodeBlock); fenced {
		line--
	}
	return line
}

func isAnnotationComment(body string) bool {
	trimmed := strings.TrimSpace(body)
	if !strings.HasPrefix(trimmed, "<!--") || !strings.HasSuffix(trimmed, "-->") {
		return false
	}
	inner := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(trimmed, "<!--"), "-->"))
	return strings.HasPrefix(inner, "{")
}
