package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// ParamKind classifies a declared parameter.
type ParamKind string

const (
	// ParamPositional is an ordinary positional parameter, with or
	// without a default value.
	ParamPositional ParamKind = "positional"
	// ParamVarPositional is a *args parameter.
	ParamVarPositional ParamKind = "vararg"
	// ParamVarKeyword is a **kwargs parameter.
	ParamVarKeyword ParamKind = "kwarg"
	// ParamKeywordOnly is a parameter declared after a bare * or after
	// *args.
	ParamKeywordOnly ParamKind = "keyword_only"
)

// Param is a declared parameter of a function.
type Param struct {
	Name string
	Kind ParamKind
}

// Function is a derived view over a function or method definition node.
type Function struct {
	Name      string
	Params    []Param
	Node      *sitter.Node
	Body      *sitter.Node
	StartLine int
	EndLine   int
	Async     bool
}

// Class is a derived view over a class definition node.
type Class struct {
	Name      string
	Methods   []Function
	Fields    []string
	Node      *sitter.Node
	Body      *sitter.Node
	StartLine int
	EndLine   int
}

// Functions extracts every function and method definition in the unit,
// including ones nested inside classes and other functions.
func (u *SourceUnit) Functions() []Function {
	var functions []Function
	Walk(u.Root(), func(node *sitter.Node) bool {
		if node.Type() == "function_definition" {
			functions = append(functions, u.extractFunction(node))
		}
		return true
	})
	return functions
}

// Classes extracts every class definition in the unit.
func (u *SourceUnit) Classes() []Class {
	var classes []Class
	Walk(u.Root(), func(node *sitter.Node) bool {
		if node.Type() == "class_definition" {
			classes = append(classes, u.extractClass(node))
		}
		return true
	})
	return classes
}

func (u *SourceUnit) extractFunction(node *sitter.Node) Function {
	fn := Function{
		Node:      node,
		StartLine: StartLine(node),
		EndLine:   EndLine(node),
	}

	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		fn.Name = u.NodeText(nameNode)
	}
	fn.Body = node.ChildByFieldName("body")

	// The async keyword is a bare leading token, not a field.
	for i := range int(node.ChildCount()) {
		if node.Child(i).Type() == "async" {
			fn.Async = true
			break
		}
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		fn.Params = u.extractParams(params)
	}

	return fn
}

// extractParams flattens a parameters node into declared order. Bare *
// and / separators are not parameters themselves but flip subsequent
// positionals to keyword-only.
func (u *SourceUnit) extractParams(params *sitter.Node) []Param {
	var out []Param
	sawStar := false

	for i := range int(params.ChildCount()) {
		child := params.Child(i)
		switch child.Type() {
		case "identifier":
			out = append(out, Param{Name: u.NodeText(child), Kind: positionalKind(sawStar)})
		case "typed_parameter":
			// First child is the pattern (identifier or splat).
			if inner := child.Child(0); inner != nil {
				switch inner.Type() {
				case "identifier":
					out = append(out, Param{Name: u.NodeText(inner), Kind: positionalKind(sawStar)})
				case "list_splat_pattern":
					sawStar = true
					out = append(out, Param{Name: u.NodeText(inner.NamedChild(0)), Kind: ParamVarPositional})
				case "dictionary_splat_pattern":
					out = append(out, Param{Name: u.NodeText(inner.NamedChild(0)), Kind: ParamVarKeyword})
				}
			}
		case "default_parameter", "typed_default_parameter":
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				out = append(out, Param{Name: u.NodeText(nameNode), Kind: positionalKind(sawStar)})
			}
		case "list_splat_pattern":
			sawStar = true
			out = append(out, Param{Name: u.NodeText(child.NamedChild(0)), Kind: ParamVarPositional})
		case "dictionary_splat_pattern":
			out = append(out, Param{Name: u.NodeText(child.NamedChild(0)), Kind: ParamVarKeyword})
		case "keyword_separator":
			sawStar = true
		}
	}

	return out
}

func positionalKind(sawStar bool) ParamKind {
	if sawStar {
		return ParamKeywordOnly
	}
	return ParamPositional
}

func (u *SourceUnit) extractClass(node *sitter.Node) Class {
	cls := Class{
		Node:      node,
		StartLine: StartLine(node),
		EndLine:   EndLine(node),
	}

	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		cls.Name = u.NodeText(nameNode)
	}
	cls.Body = node.ChildByFieldName("body")
	if cls.Body == nil {
		return cls
	}

	for i := range int(cls.Body.ChildCount()) {
		item := cls.Body.Child(i)
		if item.Type() == "decorated_definition" {
			if def := item.ChildByFieldName("definition"); def != nil {
				item = def
			}
		}
		switch item.Type() {
		case "function_definition":
			cls.Methods = append(cls.Methods, u.extractFunction(item))
		case "expression_statement":
			// Class-level field assignment: name = value
			for j := range int(item.ChildCount()) {
				expr := item.Child(j)
				if expr.Type() != "assignment" {
					continue
				}
				if left := expr.ChildByFieldName("left"); left != nil && left.Type() == "identifier" {
					cls.Fields = append(cls.Fields, u.NodeText(left))
				}
			}
		}
	}

	return cls
}
