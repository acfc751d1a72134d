package godclass

import (
	"testing"

	"github.com/jparkin/whiff/pkg/config"
	"github.com/jparkin/whiff/pkg/models"
	"github.com/jparkin/whiff/pkg/parser"
)

func parse(t *testing.T, code string) *parser.SourceUnit {
	t.Helper()
	p := parser.New()
	defer p.Close()
	unit, err := p.Parse([]byte(code), "test.py")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return unit
}

func testConfig() config.GodClassConfig {
	return config.GodClassConfig{
		ATFDFew:     2,
		WMCVeryHigh: 3,
		TCCOneThird: 0.5,
	}
}

const blobClass = `class Orchestrator:
    def route(self):
        if self.mode:
            return billing.rate + billing.fee

    def retry(self):
        if self.pending:
            return transport.backoff

    def flush(self):
        return self.buffer
`

func TestBlobClassFlagged(t *testing.T) {
	a := New(WithConfig(testConfig()))
	results := a.Detect(parse(t, blobClass))
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	r := results[0]
	if r.Type != models.SmellGodClass {
		t.Errorf("Type = %v, want %v", r.Type, models.SmellGodClass)
	}
	if r.Severity != models.SeverityHigh {
		t.Errorf("Severity = %v, want high", r.Severity)
	}
	if r.Details["class_name"] != "Orchestrator" {
		t.Errorf("class_name = %v, want Orchestrator", r.Details["class_name"])
	}
	m := r.Details["metrics"].(map[string]any)
	if m["ATFD"] != 3 {
		t.Errorf("ATFD = %v, want 3", m["ATFD"])
	}
	if m["WMC"] != 5 {
		t.Errorf("WMC = %v, want 5", m["WMC"])
	}
	if m["TCC"] != 0.0 {
		t.Errorf("TCC = %v, want 0", m["TCC"])
	}
}

func TestCohesiveClassNotFlagged(t *testing.T) {
	a := New(WithConfig(testConfig()))
	// Same foreign accesses and branching, but every method touches
	// the same self attribute so TCC is 1.0.
	code := `class Cohesive:
    def route(self):
        if self.state:
            return billing.rate + billing.fee

    def retry(self):
        if self.state:
            return transport.backoff

    def flush(self):
        return self.state
`
	results := a.Detect(parse(t, code))
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0 for cohesive class", len(results))
	}
}

func TestLowForeignAccessNotFlagged(t *testing.T) {
	a := New(WithConfig(testConfig()))
	code := `class SelfContained:
    def route(self):
        if self.mode:
            return self.rate

    def retry(self):
        if self.pending:
            return self.backoff

    def flush(self):
        return self.buffer
`
	results := a.Detect(parse(t, code))
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0 without foreign data access", len(results))
	}
}

func TestSimpleClassNotFlagged(t *testing.T) {
	a := New(WithConfig(config.GodClassConfig{ATFDFew: 2, WMCVeryHigh: 50, TCCOneThird: 0.5}))
	results := a.Detect(parse(t, blobClass))
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0 below the WMC threshold", len(results))
	}
}

func TestTightClassCohesion(t *testing.T) {
	tests := []struct {
		name  string
		attrs []map[string]bool
		want  float64
	}{
		{"no methods", nil, 1.0},
		{"one method", []map[string]bool{{"x": true}}, 1.0},
		{"disjoint", []map[string]bool{{"x": true}, {"y": true}}, 0.0},
		{"shared", []map[string]bool{{"x": true}, {"x": true}}, 1.0},
		{"partial", []map[string]bool{{"x": true}, {"x": true}, {"y": true}}, 1.0 / 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tightClassCohesion(tt.attrs); got != tt.want {
				t.Errorf("tightClassCohesion = %v, want %v", got, tt.want)
			}
		})
	}
}
