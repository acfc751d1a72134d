// Package dupcode detects duplicated code with a two-phase signature
// match: exact duplicates after whitespace/comment normalization, then
// structural duplicates after replacing identifiers and literals with
// placeholders.
package dupcode

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jparkin/whiff/pkg/config"
	"github.com/jparkin/whiff/pkg/detector"
	"github.com/jparkin/whiff/pkg/models"
	"github.com/jparkin/whiff/pkg/parser"
)

var _ detector.Detector = (*Analyzer)(nil)

// Analyzer detects exact and structural code clones inside one unit.
type Analyzer struct {
	cfg config.DuplicatedCodeConfig
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithConfig sets all thresholds from a config record.
func WithConfig(cfg config.DuplicatedCodeConfig) Option {
	return func(a *Analyzer) {
		a.cfg = cfg
	}
}

// WithMinBlockLines sets the minimum SLOC for a candidate block.
func WithMinBlockLines(lines int) Option {
	return func(a *Analyzer) {
		a.cfg.MinBlockLines = lines
	}
}

// New creates a duplicate-code analyzer with default thresholds.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{cfg: config.DefaultConfig().DuplicatedCode}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Type implements detector.Detector.
func (a *Analyzer) Type() models.SmellType {
	return models.SmellDuplicatedCode
}

// block is a candidate clone region with both normalized signatures.
// The synthetic name disambiguates nested blocks ("load:If@42") and is
// stripped back to the callable name for display.
type block struct {
	name          string
	kind          string
	startLine     int
	endLine       int
	exactSig      string
	structuralSig string
	exactKey      uint64
	structuralKey uint64
}

// Detect extracts candidate blocks and reports every unordered pair
// sharing an exact signature (severity medium), then every pair sharing
// only a structural signature (severity low). Exact reports precede
// structural ones.
func (a *Analyzer) Detect(unit *parser.SourceUnit) []models.SmellResult {
	blocks := a.extractBlocks(unit)

	var results []models.SmellResult

	// Phase 1: exact duplicates.
	for _, group := range groupBlocks(blocks, func(b block) uint64 { return b.exactKey }) {
		for x := 0; x < len(group); x++ {
			for y := x + 1; y < len(group); y++ {
				b1, b2 := blocks[group[x]], blocks[group[y]]
				if b1.exactSig != b2.exactSig {
					continue // hash collision
				}
				results = append(results, a.pairResult(unit, b1, b2, models.SeverityMedium,
					fmt.Sprintf("Duplicated code detected between %q and %q", displayName(b1.name), displayName(b2.name))))
			}
		}
	}

	// Phase 2: structural duplicates, excluding pairs already reported
	// as exact.
	for _, group := range groupBlocks(blocks, func(b block) uint64 { return b.structuralKey }) {
		for x := 0; x < len(group); x++ {
			for y := x + 1; y < len(group); y++ {
				b1, b2 := blocks[group[x]], blocks[group[y]]
				if b1.structuralSig != b2.structuralSig || b1.exactSig == b2.exactSig {
					continue
				}
				results = append(results, a.pairResult(unit, b1, b2, models.SeverityLow,
					fmt.Sprintf("Duplicated structure detected between %q and %q", displayName(b1.name), displayName(b2.name))))
			}
		}
	}

	return results
}

func (a *Analyzer) pairResult(unit *parser.SourceUnit, b1, b2 block, severity models.Severity, msg string) models.SmellResult {
	return models.SmellResult{
		Type:      models.SmellDuplicatedCode,
		FilePath:  unit.Path,
		LineStart: min(b1.startLine, b2.startLine),
		LineEnd:   max(b1.endLine, b2.endLine),
		Severity:  severity,
		Message:   msg,
		Details: map[string]any{
			"block1_name":       displayName(b1.name),
			"block1_type":       b1.kind,
			"block1_start_line": b1.startLine,
			"block1_end_line":   b1.endLine,
			"block2_name":       displayName(b2.name),
			"block2_type":       b2.kind,
			"block2_start_line": b2.startLine,
			"block2_end_line":   b2.endLine,
		},
	}
}

// groupBlocks buckets block indices by signature key, preserving the
// order each key first appears so result order is deterministic.
func groupBlocks(blocks []block, key func(block) uint64) [][]int {
	byKey := make(map[uint64]int)
	var groups [][]int
	for i, b := range blocks {
		k := key(b)
		slot, ok := byKey[k]
		if !ok {
			slot = len(groups)
			byKey[k] = slot
			groups = append(groups, nil)
		}
		groups[slot] = append(groups[slot], i)
	}
	var out [][]int
	for _, g := range groups {
		if len(g) >= 2 {
			out = append(out, g)
		}
	}
	return out
}

var nestedBlockKinds = map[string]string{
	"if_statement":    "If",
	"elif_clause":     "If",
	"for_statement":   "For",
	"while_statement": "While",
}

// extractBlocks collects candidates: every callable, every loop or
// conditional nested inside a callable, and every class body. Blocks
// below the SLOC floor are discarded before signing.
func (a *Analyzer) extractBlocks(unit *parser.SourceUnit) []block {
	var blocks []block

	add := func(name, kind string, startLine, endLine int) {
		content, sloc := blockContent(unit.Lines, startLine, endLine)
		if sloc < a.cfg.MinBlockLines {
			return
		}
		exact := normalizeExact(content)
		structural := normalizeStructural(content)
		blocks = append(blocks, block{
			name:          name,
			kind:          kind,
			startLine:     startLine,
			endLine:       endLine,
			exactSig:      exact,
			structuralSig: structural,
			exactKey:      xxhash.Sum64String(exact),
			structuralKey: xxhash.Sum64String(structural),
		})
	}

	for _, fn := range unit.Functions() {
		add(fn.Name, "Function", fn.StartLine, fn.EndLine)

		// Nested loops and conditionals inside the callable, without
		// descending into nested function definitions (those are
		// candidates in their own right).
		if fn.Body == nil {
			continue
		}
		parser.Walk(fn.Body, func(n *sitter.Node) bool {
			if n.Type() == "function_definition" {
				return false
			}
			if kind, ok := nestedBlockKinds[n.Type()]; ok {
				name := fmt.Sprintf("%s:%s@%d", fn.Name, kind, parser.StartLine(n))
				add(name, kind, parser.StartLine(n), parser.EndLine(n))
			}
			return true
		})
	}

	for _, cls := range unit.Classes() {
		add(cls.Name, "Class", cls.StartLine, cls.EndLine)
	}

	return blocks
}

// blockContent joins the stripped, non-blank, non-comment lines of the
// inclusive range and returns them with their count.
func blockContent(lines []string, startLine, endLine int) (string, int) {
	if startLine < 1 {
		startLine = 1
	}
	if endLine > len(lines) {
		endLine = len(lines)
	}
	var kept []string
	for i := startLine - 1; i < endLine; i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, "\n"), len(kept)
}

// displayName strips the synthetic ":Kind@line" suffix from nested
// block labels, so "load:If@42" reports as "load".
func displayName(name string) string {
	if at := strings.LastIndex(name, "@"); at != -1 && isDigits(name[at+1:]) {
		name = name[:at]
	}
	if colon := strings.Index(name, ":"); colon != -1 {
		name = name[:colon]
	}
	return name
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
