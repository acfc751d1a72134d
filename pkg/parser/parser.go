// Package parser wraps tree-sitter for parsing Python source into the
// immutable SourceUnit view consumed by all smell detectors.
package parser

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Parser wraps a tree-sitter parser configured for Python.
// A Parser is not safe for concurrent use; create one per worker.
type Parser struct {
	parser *sitter.Parser
}

// SourceUnit is the parsed view of one source file. It owns the syntax
// tree and the raw text split into lines, and is read-only to detectors.
type SourceUnit struct {
	Tree   *sitter.Tree
	Source []byte
	Lines  []string
	Path   string
}

// New creates a new parser instance.
func New() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{parser: p}
}

// ParseFile reads and parses a source file.
func (p *Parser) ParseFile(path string) (*SourceUnit, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.Parse(source, path)
}

// Parse parses source text into a SourceUnit. The path is used only for
// labeling results.
func (p *Parser) Parse(source []byte, path string) (*SourceUnit, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}

	return &SourceUnit{
		Tree:   tree,
		Source: source,
		Lines:  strings.Split(string(source), "\n"),
		Path:   path,
	}, nil
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}

// Root returns the root node of the unit's syntax tree.
func (u *SourceUnit) Root() *sitter.Node {
	return u.Tree.RootNode()
}

// LineCount returns the number of raw text lines in the unit.
func (u *SourceUnit) LineCount() int {
	return len(u.Lines)
}

// HasSyntaxError reports whether the tree contains any error or missing
// nodes. Tree-sitter never fails outright on bad input; it degrades to
// ERROR nodes instead.
func (u *SourceUnit) HasSyntaxError() bool {
	return u.Root().HasError()
}

// FirstSyntaxError returns the 1-based line and 0-based column of the
// first ERROR or missing node in document order. ok is false when the
// tree is clean.
func (u *SourceUnit) FirstSyntaxError() (line, col int, ok bool) {
	var found *sitter.Node
	Walk(u.Root(), func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		if n.Type() == "ERROR" || n.IsMissing() {
			found = n
			return false
		}
		// Error nodes only occur beneath subtrees that carry the flag.
		return n.HasError()
	})
	if found == nil {
		return 1, 0, false
	}
	return int(found.StartPoint().Row) + 1, int(found.StartPoint().Column), true
}

// NodeVisitor is a function that visits syntax-tree nodes. Returning
// false stops descent into the node's children.
type NodeVisitor func(node *sitter.Node) bool

// Walk traverses the tree depth-first, calling visitor for each node.
func Walk(node *sitter.Node, visitor NodeVisitor) {
	if node == nil {
		return
	}
	if !visitor(node) {
		return
	}
	for i := range int(node.ChildCount()) {
		Walk(node.Child(i), visitor)
	}
}

// NodeText extracts the source text for a node.
// Returns empty string if node is nil or byte offsets are out of bounds.
func (u *SourceUnit) NodeText(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start > end || end > uint32(len(u.Source)) {
		return ""
	}
	return string(u.Source[start:end])
}

// StartLine returns the 1-based first line of a node.
func StartLine(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}

// EndLine returns the 1-based last line of a node.
func EndLine(node *sitter.Node) int {
	return int(node.EndPoint().Row) + 1
}
