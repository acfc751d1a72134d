package longmethod

import (
	"fmt"
	"strings"
	"testing"

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

// funcWithBody builds a def with n statement lines.
func funcWithBody(n int) string {
	var b strings.Builder
	b.WriteString("def work():\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "    x%d = %d\n", i, i)
	}
	return b.String()
}

func TestShortFunctionNotFlagged(t *testing.T) {
	a := New(WithThresholds(5, 3))
	results := a.Detect(parse(t, funcWithBody(3)))
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}

func TestAtThresholdNotFlagged(t *testing.T) {
	a := New(WithThresholds(5, 3))
	// def line + 4 body lines = 5 SLOC, equal to the threshold.
	results := a.Detect(parse(t, funcWithBody(4)))
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0 at exact threshold", len(results))
	}
}

func TestLongFunctionFlaggedMedium(t *testing.T) {
	a := New(WithThresholds(5, 3))
	results := a.Detect(parse(t, funcWithBody(6)))
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	r := results[0]
	if r.Type != models.SmellLongMethod {
		t.Errorf("Type = %v, want %v", r.Type, models.SmellLongMethod)
	}
	if r.Severity != models.SeverityMedium {
		t.Errorf("Severity = %v, want medium", r.Severity)
	}
	if r.Details["method_name"] != "work" {
		t.Errorf("method_name = %v, want work", r.Details["method_name"])
	}
	if r.Details["sloc"] != 7 {
		t.Errorf("sloc = %v, want 7", r.Details["sloc"])
	}
}

func TestVeryLongFunctionFlaggedHigh(t *testing.T) {
	a := New(WithThresholds(5, 3))
	// 11 SLOC, past 1.5x the 5-line threshold.
	results := a.Detect(parse(t, funcWithBody(10)))
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].Severity != models.SeverityHigh {
		t.Errorf("Severity = %v, want high", results[0].Severity)
	}
}

func TestComplexFunctionFlagged(t *testing.T) {
	a := New(WithThresholds(100, 2))
	code := `def branchy(x):
    if x > 0:
        pass
    if x > 1:
        pass
    if x > 2:
        pass
`
	results := a.Detect(parse(t, code))
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	r := results[0]
	if r.Severity != models.SeverityMedium {
		t.Errorf("Severity = %v, want medium for complexity-only flag", r.Severity)
	}
	if r.Details["cyclomatic_complexity"] != 4 {
		t.Errorf("cyclomatic_complexity = %v, want 4", r.Details["cyclomatic_complexity"])
	}
}

func TestNestedFunctionsCheckedIndependently(t *testing.T) {
	a := New(WithThresholds(3, 100))
	code := `def outer():
    def inner():
        a = 1
        b = 2
        c = 3
    return inner
`
	results := a.Detect(parse(t, code))
	// Both outer (6 SLOC) and inner (4 SLOC) exceed the 3-line threshold.
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
}
