// Package engine runs the configured smell detectors over parsed
// Python source and merges their findings.
package engine

import (
	"github.com/jparkin/whiff/pkg/config"
	"github.com/jparkin/whiff/pkg/detector"
	"github.com/jparkin/whiff/pkg/detector/dupcode"
	"github.com/jparkin/whiff/pkg/detector/featureenvy"
	"github.com/jparkin/whiff/pkg/detector/godclass"
	"github.com/jparkin/whiff/pkg/detector/longmethod"
	"github.com/jparkin/whiff/pkg/detector/magicnum"
	"github.com/jparkin/whiff/pkg/detector/paramlist"
	"github.com/jparkin/whiff/pkg/models"
	"github.com/jparkin/whiff/pkg/parser"
)

// Engine holds the detectors selected by configuration, in their fixed
// registration order. Results for one unit are emitted detector by
// detector, so output order is stable across runs.
type Engine struct {
	detectors []detector.Detector
}

// Option is a functional option for configuring Engine.
type Option func(*options)

type options struct {
	enabled models.SmellSet
}

// WithSmells restricts the engine to the given smells. A nil set keeps
// every smell enabled by configuration.
func WithSmells(set models.SmellSet) Option {
	return func(o *options) {
		o.enabled = set
	}
}

// New builds an engine from configuration. Detector registration order
// is fixed: LongMethod, GodClass, DuplicatedCode, LargeParameterList,
// MagicNumbers, FeatureEnvy.
func New(cfg *config.Config, opts ...Option) *Engine {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	byType := map[models.SmellType]detector.Detector{
		models.SmellLongMethod:         longmethod.New(longmethod.WithConfig(cfg.LongMethod)),
		models.SmellGodClass:           godclass.New(godclass.WithConfig(cfg.GodClass)),
		models.SmellDuplicatedCode:     dupcode.New(dupcode.WithConfig(cfg.DuplicatedCode)),
		models.SmellLargeParameterList: paramlist.New(paramlist.WithConfig(cfg.LargeParameterList)),
		models.SmellMagicNumbers:       magicnum.New(magicnum.WithConfig(cfg.MagicNumbers)),
		models.SmellFeatureEnvy:        featureenvy.New(featureenvy.WithConfig(cfg.FeatureEnvy)),
	}

	configured := cfg.EnabledSmells()
	e := &Engine{}
	for _, smell := range models.AllSmells {
		if !configured.Enabled(smell) || !o.enabled.Enabled(smell) {
			continue
		}
		e.detectors = append(e.detectors, byType[smell])
	}
	return e
}

// Detectors returns the active detectors in registration order.
func (e *Engine) Detectors() []detector.Detector {
	return e.detectors
}

// Detect parses source text and analyzes it. A fresh parser is created
// per call; callers holding a long-lived parser should parse themselves
// and use DetectUnit.
func (e *Engine) Detect(source []byte, path string) ([]models.SmellResult, error) {
	p := parser.New()
	defer p.Close()

	unit, err := p.Parse(source, path)
	if err != nil {
		return nil, err
	}
	return e.DetectUnit(unit), nil
}

// DetectUnit runs every active detector against a parsed unit. A unit
// with syntax errors yields exactly one SyntaxError result and no
// detector runs. A detector panic discards only that detector's
// findings for the unit.
func (e *Engine) DetectUnit(unit *parser.SourceUnit) []models.SmellResult {
	if unit.HasSyntaxError() {
		line, _, _ := unit.FirstSyntaxError()
		return []models.SmellResult{{
			Type:      models.SmellSyntaxError,
			FilePath:  unit.Path,
			LineStart: line,
			LineEnd:   line,
			Severity:  models.SeverityError,
			Message:   "Syntax error: invalid syntax",
			Details:   map[string]any{},
		}}
	}

	var results []models.SmellResult
	for _, d := range e.detectors {
		results = append(results, runDetector(d, unit)...)
	}

	for i := range results {
		clampLines(&results[i], unit.LineCount())
	}
	return results
}

// runDetector isolates detector faults: one misbehaving detector must
// not take down analysis of the unit.
func runDetector(d detector.Detector, unit *parser.SourceUnit) (results []models.SmellResult) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
		}
	}()
	return d.Detect(unit)
}

func clampLines(r *models.SmellResult, lineCount int) {
	if r.LineStart < 1 {
		r.LineStart = 1
	}
	if lineCount > 0 && r.LineEnd > lineCount {
		r.LineEnd = lineCount
	}
	if r.LineEnd < r.LineStart {
		r.LineEnd = r.LineStart
	}
}
