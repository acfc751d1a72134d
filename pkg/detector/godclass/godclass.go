// Package godclass detects Blob classes with the Marinescu rule:
// (ATFD > Few) AND (WMC >= Very High) AND (TCC < One Third).
package godclass

import (
	"fmt"

	"github.com/jparkin/whiff/pkg/config"
	"github.com/jparkin/whiff/pkg/detector"
	"github.com/jparkin/whiff/pkg/metrics"
	"github.com/jparkin/whiff/pkg/models"
	"github.com/jparkin/whiff/pkg/parser"
)

var _ detector.Detector = (*Analyzer)(nil)

// Analyzer detects god classes via ATFD, WMC, and TCC.
type Analyzer struct {
	cfg config.GodClassConfig
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithConfig sets all thresholds from a config record.
func WithConfig(cfg config.GodClassConfig) Option {
	return func(a *Analyzer) {
		a.cfg = cfg
	}
}

// New creates a god-class analyzer with default thresholds.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{cfg: config.DefaultConfig().GodClass}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Type implements detector.Detector.
func (a *Analyzer) Type() models.SmellType {
	return models.SmellGodClass
}

// Detect evaluates every class in the unit. ATFD sums attribute
// accesses on non-self receivers across all methods; WMC sums the
// shared cyclomatic metric; TCC is the fraction of method pairs that
// touch at least one common self attribute.
func (a *Analyzer) Detect(unit *parser.SourceUnit) []models.SmellResult {
	var results []models.SmellResult

	for _, cls := range unit.Classes() {
		wmc := 0
		atfd := 0
		methodSelfAttrs := make([]map[string]bool, 0, len(cls.Methods))
		methodNames := make([]string, 0, len(cls.Methods))

		for _, method := range cls.Methods {
			wmc += metrics.Cyclomatic(method.Body)

			selfAttrs := make(map[string]bool)
			for _, access := range metrics.AttributeAccesses(unit, method.Node) {
				if access.Object == "self" {
					selfAttrs[access.Attr] = true
				} else {
					atfd++
				}
			}
			methodSelfAttrs = append(methodSelfAttrs, selfAttrs)
			methodNames = append(methodNames, method.Name)
		}

		tcc := tightClassCohesion(methodSelfAttrs)

		if atfd > a.cfg.ATFDFew && wmc >= a.cfg.WMCVeryHigh && tcc < a.cfg.TCCOneThird {
			results = append(results, models.SmellResult{
				Type:      models.SmellGodClass,
				FilePath:  unit.Path,
				LineStart: cls.StartLine,
				LineEnd:   cls.EndLine,
				Severity:  models.SeverityHigh,
				Message: fmt.Sprintf("Class %q flagged as God Class (ATFD=%d > %d, WMC=%d >= %d, TCC=%.2f < %g)",
					cls.Name, atfd, a.cfg.ATFDFew, wmc, a.cfg.WMCVeryHigh, tcc, a.cfg.TCCOneThird),
				Details: map[string]any{
					"class_name": cls.Name,
					"metrics": map[string]any{
						"ATFD": atfd,
						"WMC":  wmc,
						"TCC":  tcc,
					},
					"thresholds": map[string]any{
						"ATFD_Few":      a.cfg.ATFDFew,
						"WMC_Very_High": a.cfg.WMCVeryHigh,
						"TCC_One_Third": a.cfg.TCCOneThird,
					},
					"methods": methodNames,
				},
			})
		}
	}

	return results
}

// tightClassCohesion computes connected method pairs over total pairs.
// Two methods are connected when they access at least one common self
// attribute. Fewer than two methods is trivially cohesive (1.0).
func tightClassCohesion(methodSelfAttrs []map[string]bool) float64 {
	n := len(methodSelfAttrs)
	if n < 2 {
		return 1.0
	}

	totalPairs := n * (n - 1) / 2
	connected := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if sharesAttr(methodSelfAttrs[i], methodSelfAttrs[j]) {
				connected++
			}
		}
	}
	return float64(connected) / float64(totalPairs)
}

func sharesAttr(a, b map[string]bool) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for attr := range a {
		if b[attr] {
			return true
		}
	}
	return false
}
