// Package metrics provides the shared pure metric functions used by the
// smell detectors. Keeping a single definition of cyclomatic complexity
// here is what guarantees LongMethod and GodClass never disagree on a
// complexity figure.
package metrics

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jparkin/whiff/pkg/parser"
)

// decisionTypes are the node kinds that add one execution path each.
// elif clauses are separate nodes in tree-sitter rather than nested if
// statements, so they are listed explicitly.
var decisionTypes = map[string]bool{
	"if_statement":    true,
	"elif_clause":     true,
	"while_statement": true,
	"for_statement":   true,
	"except_clause":   true,
	"with_statement":  true,
}

// Cyclomatic computes the cyclomatic complexity of a function body:
// base 1, +1 per conditional branch, loop, exception handler, or
// scoped-resource block (async variants included), and +1 per boolean
// operator, which yields N-1 for a chain of N operands.
func Cyclomatic(body *sitter.Node) int {
	complexity := 1
	parser.Walk(body, func(n *sitter.Node) bool {
		t := n.Type()
		if decisionTypes[t] || t == "boolean_operator" {
			complexity++
		}
		return true
	})
	return complexity
}

// SLOC counts source lines of code in the 1-based inclusive range:
// lines that are non-blank after trimming and do not start with the
// line-comment marker.
func SLOC(startLine, endLine int, lines []string) int {
	if startLine < 1 {
		startLine = 1
	}
	if endLine > len(lines) {
		endLine = len(lines)
	}
	sloc := 0
	for i := startLine - 1; i < endLine; i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			sloc++
		}
	}
	return sloc
}

// ParamCount counts declared positional parameters, excluding a leading
// self or cls receiver, plus one each for *args and **kwargs.
// Keyword-only parameters are not counted.
func ParamCount(fn parser.Function) int {
	count := 0
	for i, p := range fn.Params {
		switch p.Kind {
		case parser.ParamPositional:
			if i == 0 && (p.Name == "self" || p.Name == "cls") {
				continue
			}
			count++
		case parser.ParamVarPositional, parser.ParamVarKeyword:
			count++
		}
	}
	return count
}

// AttrAccess is one attribute access whose receiver is a plain local
// name, e.g. self.total or order.items. Chained accesses contribute
// only their innermost receiver, matching how a name node appears only
// at the base of a chain.
type AttrAccess struct {
	Object string
	Attr   string
	Line   int
}

// AttributeAccesses collects every attribute access under node whose
// receiver is a bare identifier. Shared by GodClass and FeatureEnvy so
// the two smells count foreign data identically.
func AttributeAccesses(u *parser.SourceUnit, node *sitter.Node) []AttrAccess {
	var accesses []AttrAccess
	parser.Walk(node, func(n *sitter.Node) bool {
		if n.Type() != "attribute" {
			return true
		}
		obj := n.ChildByFieldName("object")
		if obj == nil || obj.Type() != "identifier" {
			return true
		}
		attr := n.ChildByFieldName("attribute")
		accesses = append(accesses, AttrAccess{
			Object: u.NodeText(obj),
			Attr:   u.NodeText(attr),
			Line:   parser.StartLine(n),
		})
		return true
	})
	return accesses
}
