package dupcode

import (
	"regexp"
	"strings"
)

var (
	trailingComment = regexp.MustCompile(`#[^\n]*`)
	whitespaceRun   = regexp.MustCompile(`\s+`)

	// String literals with optional prefixes; single and double quoted
	// forms are matched separately since backreferences are unavailable.
	stringLiteral = regexp.MustCompile(`(?i)(?:\b(?:rb|br|rf|fr|r|b|f|u))?('(?:\\.|[^'\\])*'|"(?:\\.|[^"\\])*")`)
	numberLiteral = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)
	identifier    = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*\b`)
)

// pythonKeywords survive structural normalization so control flow stays
// part of the signature.
var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true,
	"class": true, "continue": true, "def": true, "del": true,
	"elif": true, "else": true, "except": true, "finally": true,
	"for": true, "from": true, "global": true, "if": true,
	"import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true,
	"raise": true, "return": true, "try": true, "while": true,
	"with": true, "yield": true,
}

// normalizeExact strips comments and collapses whitespace runs so that
// formatting differences do not defeat the exact match.
func normalizeExact(content string) string {
	s := trailingComment.ReplaceAllString(content, "")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// normalizeStructural additionally replaces string literals, numbers,
// and non-keyword identifiers with STR, NUM, and ID placeholders.
func normalizeStructural(content string) string {
	s := trailingComment.ReplaceAllString(content, "")
	s = stringLiteral.ReplaceAllString(s, "STR")
	s = numberLiteral.ReplaceAllString(s, "NUM")
	s = identifier.ReplaceAllStringFunc(s, func(tok string) string {
		if pythonKeywords[tok] || tok == "STR" || tok == "NUM" {
			return tok
		}
		return "ID"
	})
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
