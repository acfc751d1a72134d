// Package featureenvy detects methods more interested in other objects'
// data than their own, using the ATFD, LAA, and FDP metrics.
package featureenvy

import (
	"fmt"

	"github.com/jparkin/whiff/pkg/config"
	"github.com/jparkin/whiff/pkg/detector"
	"github.com/jparkin/whiff/pkg/metrics"
	"github.com/jparkin/whiff/pkg/models"
	"github.com/jparkin/whiff/pkg/parser"
)

var _ detector.Detector = (*Analyzer)(nil)

// Analyzer detects feature envy in class methods.
type Analyzer struct {
	cfg config.FeatureEnvyConfig
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithConfig sets all thresholds from a config record.
func WithConfig(cfg config.FeatureEnvyConfig) Option {
	return func(a *Analyzer) {
		a.cfg = cfg
	}
}

// New creates a feature-envy analyzer with default thresholds.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{cfg: config.DefaultConfig().FeatureEnvy}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Type implements detector.Detector.
func (a *Analyzer) Type() models.SmellType {
	return models.SmellFeatureEnvy
}

// Detect evaluates every class method except __init__. Methods below
// the SLOC floor are skipped. A method is flagged when ATFD exceeds its
// threshold, LAA falls below its threshold, and FDP reaches its
// threshold. A method touching no foreign data has ATFD 0 and is never
// flagged.
func (a *Analyzer) Detect(unit *parser.SourceUnit) []models.SmellResult {
	var results []models.SmellResult

	for _, cls := range unit.Classes() {
		for _, method := range cls.Methods {
			if method.Name == "__init__" {
				continue
			}

			sloc := metrics.SLOC(method.StartLine, method.EndLine, unit.Lines)
			if sloc < a.cfg.MinSLOC {
				continue
			}

			selfAccesses := 0
			foreign := make(map[string]int)
			var foreignOrder []string
			for _, access := range metrics.AttributeAccesses(unit, method.Node) {
				if access.Object == "self" {
					selfAccesses++
					continue
				}
				if _, seen := foreign[access.Object]; !seen {
					foreignOrder = append(foreignOrder, access.Object)
				}
				foreign[access.Object]++
			}

			atfd := 0
			for _, n := range foreign {
				atfd += n
			}
			laa := 0.0
			if total := selfAccesses + atfd; total > 0 {
				laa = float64(selfAccesses) / float64(total)
			}
			fdp := len(foreign)

			if atfd <= a.cfg.ATFDThreshold || laa >= a.cfg.LAAThreshold || fdp < a.cfg.FDPThreshold {
				continue
			}

			enviedName, enviedCount := mostEnvied(foreign, foreignOrder)

			results = append(results, models.SmellResult{
				Type:      models.SmellFeatureEnvy,
				FilePath:  unit.Path,
				LineStart: method.StartLine,
				LineEnd:   method.EndLine,
				Severity:  models.SeverityMedium,
				Message: fmt.Sprintf("Method %q in class %q shows Feature Envy (ATFD=%d, LAA=%.2f, FDP=%d)",
					method.Name, cls.Name, atfd, laa, fdp),
				Details: map[string]any{
					"method_name":       method.Name,
					"class_name":        cls.Name,
					"sloc":              sloc,
					"atfd":              atfd,
					"laa":               laa,
					"fdp":               fdp,
					"most_envied_class": enviedName,
					"most_envied_count": enviedCount,
					"thresholds": map[string]any{
						"min_sloc":       a.cfg.MinSLOC,
						"atfd_threshold": a.cfg.ATFDThreshold,
						"laa_threshold":  a.cfg.LAAThreshold,
						"fdp_threshold":  a.cfg.FDPThreshold,
					},
				},
			})
		}
	}

	return results
}

// mostEnvied returns the foreign provider with the highest access
// count. Ties go to the provider accessed first.
func mostEnvied(foreign map[string]int, order []string) (string, int) {
	name, best := "unknown", 0
	for _, obj := range order {
		if foreign[obj] > best {
			name, best = obj, foreign[obj]
		}
	}
	return name, best
}
