// Package longmethod flags callables whose size or branching exceeds
// configured thresholds.
package longmethod

import (
	"fmt"

	"github.com/jparkin/whiff/pkg/config"
	"github.com/jparkin/whiff/pkg/detector"
	"github.com/jparkin/whiff/pkg/metrics"
	"github.com/jparkin/whiff/pkg/models"
	"github.com/jparkin/whiff/pkg/parser"
)

var _ detector.Detector = (*Analyzer)(nil)

// Analyzer detects overly long or overly branched methods.
type Analyzer struct {
	cfg config.LongMethodConfig
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithConfig sets all thresholds from a config record.
func WithConfig(cfg config.LongMethodConfig) Option {
	return func(a *Analyzer) {
		a.cfg = cfg
	}
}

// WithThresholds sets the SLOC and complexity thresholds directly.
func WithThresholds(sloc, cyclomatic int) Option {
	return func(a *Analyzer) {
		a.cfg.SLOC = sloc
		a.cfg.Cyclomatic = cyclomatic
	}
}

// New creates a long-method analyzer with default thresholds.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{cfg: config.DefaultConfig().LongMethod}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Type implements detector.Detector.
func (a *Analyzer) Type() models.SmellType {
	return models.SmellLongMethod
}

// Detect flags every callable where SLOC or cyclomatic complexity
// exceeds its threshold. Severity is high once SLOC passes 1.5x the
// SLOC threshold.
func (a *Analyzer) Detect(unit *parser.SourceUnit) []models.SmellResult {
	var results []models.SmellResult

	for _, fn := range unit.Functions() {
		sloc := metrics.SLOC(fn.StartLine, fn.EndLine, unit.Lines)
		complexity := metrics.Cyclomatic(fn.Body)

		if sloc <= a.cfg.SLOC && complexity <= a.cfg.Cyclomatic {
			continue
		}

		severity := models.SeverityMedium
		if float64(sloc) > float64(a.cfg.SLOC)*1.5 {
			severity = models.SeverityHigh
		}

		results = append(results, models.SmellResult{
			Type:      models.SmellLongMethod,
			FilePath:  unit.Path,
			LineStart: fn.StartLine,
			LineEnd:   fn.EndLine,
			Severity:  severity,
			Message:   fmt.Sprintf("Method %q is too long (SLOC: %d, Complexity: %d)", fn.Name, sloc, complexity),
			Details: map[string]any{
				"method_name":           fn.Name,
				"sloc":                  sloc,
				"cyclomatic_complexity": complexity,
				"sloc_threshold":        a.cfg.SLOC,
				"complexity_threshold":  a.cfg.Cyclomatic,
			},
		})
	}

	return results
}
