// Package paramlist flags callables with too many parameters.
package paramlist

import (
	"fmt"

	"github.com/jparkin/whiff/pkg/config"
	"github.com/jparkin/whiff/pkg/detector"
	"github.com/jparkin/whiff/pkg/metrics"
	"github.com/jparkin/whiff/pkg/models"
	"github.com/jparkin/whiff/pkg/parser"
)

var _ detector.Detector = (*Analyzer)(nil)

// Analyzer detects large parameter lists.
type Analyzer struct {
	cfg config.LargeParameterListConfig
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithConfig sets all thresholds from a config record.
func WithConfig(cfg config.LargeParameterListConfig) Option {
	return func(a *Analyzer) {
		a.cfg = cfg
	}
}

// WithMaxParams sets the parameter-count threshold.
func WithMaxParams(n int) Option {
	return func(a *Analyzer) {
		a.cfg.MaxParams = n
	}
}

// New creates a parameter-list analyzer with default thresholds.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{cfg: config.DefaultConfig().LargeParameterList}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Type implements detector.Detector.
func (a *Analyzer) Type() models.SmellType {
	return models.SmellLargeParameterList
}

// Detect flags every callable whose counted parameters exceed the
// threshold. A leading self or cls receiver and keyword-only parameters
// are not counted; *args and **kwargs each count as one. Severity is high
// once the count passes 1.5x the threshold.
func (a *Analyzer) Detect(unit *parser.SourceUnit) []models.SmellResult {
	var results []models.SmellResult

	for _, fn := range unit.Functions() {
		count := metrics.ParamCount(fn)
		if count <= a.cfg.MaxParams {
			continue
		}

		severity := models.SeverityMedium
		if float64(count) > float64(a.cfg.MaxParams)*1.5 {
			severity = models.SeverityHigh
		}

		results = append(results, models.SmellResult{
			Type:      models.SmellLargeParameterList,
			FilePath:  unit.Path,
			LineStart: fn.StartLine,
			LineEnd:   fn.EndLine,
			Severity:  severity,
			Message:   fmt.Sprintf("Method %q has too many parameters (%d)", fn.Name, count),
			Details: map[string]any{
				"method_name":     fn.Name,
				"parameter_count": count,
				"parameters":      paramNames(fn),
				"threshold":       a.cfg.MaxParams,
			},
		})
	}

	return results
}

// paramNames lists positional parameters by name (the self receiver
// included) plus starred forms, mirroring how the signature reads.
func paramNames(fn parser.Function) []string {
	names := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		switch p.Kind {
		case parser.ParamPositional:
			names = append(names, p.Name)
		case parser.ParamVarPositional:
			names = append(names, "*"+p.Name)
		case parser.ParamVarKeyword:
			names = append(names, "**"+p.Name)
		}
	}
	return names
}
