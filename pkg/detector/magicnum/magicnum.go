// Package magicnum detects repeated unexplained numeric literals.
package magicnum

import (
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jparkin/whiff/pkg/config"
	"github.com/jparkin/whiff/pkg/detector"
	"github.com/jparkin/whiff/pkg/models"
	"github.com/jparkin/whiff/pkg/parser"
)

var _ detector.Detector = (*Analyzer)(nil)

// Analyzer detects magic numbers by counting literal occurrences.
type Analyzer struct {
	cfg config.MagicNumbersConfig
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithConfig sets all thresholds from a config record.
func WithConfig(cfg config.MagicNumbersConfig) Option {
	return func(a *Analyzer) {
		a.cfg = cfg
	}
}

// WithMinOccurrences sets how many repeats make a literal magic.
func WithMinOccurrences(n int) Option {
	return func(a *Analyzer) {
		a.cfg.MinOccurrences = n
	}
}

// New creates a magic-number analyzer with default thresholds.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{cfg: config.DefaultConfig().MagicNumbers}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Type implements detector.Detector.
func (a *Analyzer) Type() models.SmellType {
	return models.SmellMagicNumbers
}

type occurrence struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// Detect collects every non-whitelisted numeric literal and reports one
// finding per distinct value reaching the occurrence floor. The line
// range spans the first to the last occurrence. Values are keyed
// numerically, so 2 and 2.0 count as the same literal.
func (a *Analyzer) Detect(unit *parser.SourceUnit) []models.SmellResult {
	whitelist := make(map[float64]bool, len(a.cfg.Whitelist))
	for _, v := range a.cfg.Whitelist {
		whitelist[v] = true
	}

	occurrences := make(map[float64][]occurrence)
	var order []float64

	parser.Walk(unit.Root(), func(node *sitter.Node) bool {
		t := node.Type()
		if t != "integer" && t != "float" {
			return true
		}
		value, ok := parseNumber(unit.NodeText(node))
		if !ok || whitelist[value] {
			return true
		}
		if _, seen := occurrences[value]; !seen {
			order = append(order, value)
		}
		occurrences[value] = append(occurrences[value], occurrence{
			Line: parser.StartLine(node),
			Col:  int(node.StartPoint().Column),
		})
		return true
	})

	var results []models.SmellResult
	for _, value := range order {
		occs := occurrences[value]
		if len(occs) < a.cfg.MinOccurrences {
			continue
		}

		lineStart, lineEnd := occs[0].Line, occs[0].Line
		for _, occ := range occs[1:] {
			if occ.Line < lineStart {
				lineStart = occ.Line
			}
			if occ.Line > lineEnd {
				lineEnd = occ.Line
			}
		}

		results = append(results, models.SmellResult{
			Type:      models.SmellMagicNumbers,
			FilePath:  unit.Path,
			LineStart: lineStart,
			LineEnd:   lineEnd,
			Severity:  models.SeverityMedium,
			Message:   fmt.Sprintf("Magic number %s appears %d times", formatNumber(value), len(occs)),
			Details: map[string]any{
				"number":      value,
				"occurrences": len(occs),
				"locations":   occs,
				"threshold":   a.cfg.MinOccurrences,
			},
		})
	}

	return results
}

// parseNumber evaluates a Python numeric literal. Imaginary literals
// are skipped; the sign of a literal lives on the enclosing unary
// operator, so values here are always non-negative.
func parseNumber(text string) (float64, bool) {
	s := strings.ReplaceAll(text, "_", "")
	if strings.HasSuffix(s, "j") || strings.HasSuffix(s, "J") {
		return 0, false
	}
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return float64(i), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	return 0, false
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
