package featureenvy

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

func testConfig() config.FeatureEnvyConfig {
	return config.FeatureEnvyConfig{
		MinSLOC:       3,
		ATFDThreshold: 5,
		LAAThreshold:  0.33,
		FDPThreshold:  2,
	}
}

const enviousClass = `class Invoice:
    def total(self):
        a = order.price
        b = order.tax
        c = order.fee
        d = customer.discount
        e = customer.credit
        f = order.shipping
        return a + b + c + d + e + f
`

func TestEnviousMethodFlagged(t *testing.T) {
	a := New(WithConfig(testConfig()))
	results := a.Detect(parse(t, enviousClass))
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	r := results[0]
	if r.Type != models.SmellFeatureEnvy {
		t.Errorf("Type = %v, want %v", r.Type, models.SmellFeatureEnvy)
	}
	if r.Severity != models.SeverityMedium {
		t.Errorf("Severity = %v, want medium", r.Severity)
	}
	if r.Details["method_name"] != "total" || r.Details["class_name"] != "Invoice" {
		t.Errorf("method/class = %v/%v", r.Details["method_name"], r.Details["class_name"])
	}
	if r.Details["atfd"] != 6 {
		t.Errorf("atfd = %v, want 6", r.Details["atfd"])
	}
	if r.Details["laa"] != 0.0 {
		t.Errorf("laa = %v, want 0", r.Details["laa"])
	}
	if r.Details["fdp"] != 2 {
		t.Errorf("fdp = %v, want 2", r.Details["fdp"])
	}
	if r.Details["most_envied_class"] != "order" || r.Details["most_envied_count"] != 4 {
		t.Errorf("most envied = %v (%v), want order (4)",
			r.Details["most_envied_class"], r.Details["most_envied_count"])
	}
}

func TestSelfHeavyMethodNotFlagged(t *testing.T) {
	a := New(WithConfig(testConfig()))
	code := `class Invoice:
    def total(self):
        a = self.price + order.price
        b = self.tax + order.tax
        c = self.fee + order.fee
        d = self.base + customer.discount
        e = self.rate + customer.credit
        f = self.extra + order.shipping
        return a + b + c + d + e + f
`
	if results := a.Detect(parse(t, code)); len(results) != 0 {
		t.Errorf("len(results) = %d, want 0 when local accesses balance foreign", len(results))
	}
}

func TestSingleProviderNotFlagged(t *testing.T) {
	a := New(WithConfig(testConfig()))
	code := `class Invoice:
    def total(self):
        a = order.price
        b = order.tax
        c = order.fee
        d = order.discount
        e = order.credit
        f = order.shipping
        return a + b + c + d + e + f
`
	if results := a.Detect(parse(t, code)); len(results) != 0 {
		t.Errorf("len(results) = %d, want 0 with one foreign provider", len(results))
	}
}

func TestInitSkipped(t *testing.T) {
	a := New(WithConfig(testConfig()))
	code := `class Invoice:
    def __init__(self):
        a = order.price
        b = order.tax
        c = order.fee
        d = customer.discount
        e = customer.credit
        f = order.shipping
        self.total = a + b + c + d + e + f
`
	if results := a.Detect(parse(t, code)); len(results) != 0 {
		t.Errorf("len(results) = %d, want 0 for __init__", len(results))
	}
}

func TestShortMethodSkipped(t *testing.T) {
	cfg := testConfig()
	cfg.MinSLOC = 10
	a := New(WithConfig(cfg))
	if results := a.Detect(parse(t, enviousClass)); len(results) != 0 {
		t.Errorf("len(results) = %d, want 0 below the SLOC floor", len(results))
	}
}

func TestFreeFunctionIgnored(t *testing.T) {
	a := New(WithConfig(testConfig()))
	code := `def total():
    a = order.price
    b = order.tax
    c = order.fee
    d = customer.discount
    e = customer.credit
    f = order.shipping
    return a + b + c + d + e + f
`
	if results := a.Detect(parse(t, code)); len(results) != 0 {
		t.Errorf("len(results) = %d, want 0 outside a class", len(results))
	}
}

func TestMostEnviedTieGoesToFirstSeen(t *testing.T) {
	foreign := map[string]int{"order": 3, "customer": 3}
	name, count := mostEnvied(foreign, []string{"customer", "order"})
	if name != "customer" || count != 3 {
		t.Errorf("mostEnvied = %q (%d), want customer (3)", name, count)
	}
}
