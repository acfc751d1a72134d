package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"toon", FormatTOON},
		{"table", FormatTable},
		{"", FormatTable},
		{"garbage", FormatTable},
	}
	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOutputJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	f, err := NewFormatter(FormatJSON, path, true)
	if err != nil {
		t.Fatalf("NewFormatter failed: %v", err)
	}

	payload := map[string]int{"findings": 3}
	if err := f.Output(payload); err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var decoded map[string]int
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded["findings"] != 3 {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestOutputTOONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.toon")
	f, err := NewFormatter(FormatTOON, path, false)
	if err != nil {
		t.Fatalf("NewFormatter failed: %v", err)
	}

	if err := f.Output(map[string]string{"status": "clean"}); err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "clean") {
		t.Errorf("output missing value:\n%s", data)
	}
}

func TestTableRenderText(t *testing.T) {
	tbl := &Table{
		Title:   "Findings",
		Headers: []string{"File", "Count"},
		Rows: [][]string{
			{"a.py", "3"},
			{"b.py", "1"},
		},
	}

	var sb strings.Builder
	if err := tbl.RenderText(&sb, false); err != nil {
		t.Fatalf("RenderText failed: %v", err)
	}
	out := sb.String()
	for _, want := range []string{"Findings", "a.py", "b.py", "3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTableRenderDataMapsRows(t *testing.T) {
	tbl := &Table{
		Headers: []string{"File", "Count"},
		Rows:    [][]string{{"a.py", "3"}},
	}
	rows, ok := tbl.RenderData().([]map[string]string)
	if !ok {
		t.Fatalf("RenderData type = %T", tbl.RenderData())
	}
	if len(rows) != 1 || rows[0]["File"] != "a.py" || rows[0]["Count"] != "3" {
		t.Errorf("rows = %v", rows)
	}
}

func TestTableRenderDataPrefersData(t *testing.T) {
	payload := map[string]int{"total": 4}
	tbl := &Table{Headers: []string{"x"}, Data: payload}
	got, ok := tbl.RenderData().(map[string]int)
	if !ok || got["total"] != 4 {
		t.Errorf("RenderData = %v", tbl.RenderData())
	}
}

func TestTableOutputAsJSONUsesRenderData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.json")
	f, err := NewFormatter(FormatJSON, path, false)
	if err != nil {
		t.Fatalf("NewFormatter failed: %v", err)
	}
	tbl := &Table{
		Headers: []string{"Smell", "Count"},
		Rows:    [][]string{{"LongMethod", "2"}},
	}
	if err := f.Output(tbl); err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var rows []map[string]string
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("Unmarshal failed: %v\n%s", err, data)
	}
	if len(rows) != 1 || rows[0]["Smell"] != "LongMethod" {
		t.Errorf("rows = %v", rows)
	}
}

func TestSeverityColorPassthroughWhenUnknown(t *testing.T) {
	if got := SeverityColor("whatever", "text"); got != "text" {
		t.Errorf("SeverityColor = %q, want text unchanged", got)
	}
}
