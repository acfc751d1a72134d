package scan

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/jparkin/whiff/internal/fileproc"
	"github.com/jparkin/whiff/pkg/config"
	"github.com/jparkin/whiff/pkg/models"
)

const longFunc = `def big(a, b, c, d, e, f, g):
    x = 0
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    x = step(x)
    return x
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Cache.Dir = filepath.Join(t.TempDir(), "cache")
	return cfg
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestScanPathsFindsSmells(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "big.py", longFunc)
	writeSource(t, dir, "clean.py", "def f(x):\n    return x\n")

	r, err := NewRunner(testConfig(t))
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	result, err := r.ScanPaths(context.Background(), []string{dir}, nil)
	if err != nil {
		t.Fatalf("ScanPaths failed: %v", err)
	}

	if result.FilesAnalyzed != 2 {
		t.Errorf("FilesAnalyzed = %d, want 2", result.FilesAnalyzed)
	}
	if result.Errors != nil {
		t.Errorf("Errors = %v, want nil", result.Errors)
	}

	var types []models.SmellType
	for _, r := range result.Results {
		types = append(types, r.Type)
	}
	// The fixture is both a long method and a large parameter list.
	if len(result.Results) != 2 ||
		types[0] != models.SmellLongMethod || types[1] != models.SmellLargeParameterList {
		t.Errorf("types = %v, want [LongMethod LargeParameterList]", types)
	}
}

func TestScanPathsOrderedByPath(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "zz.py", longFunc)
	writeSource(t, dir, "aa.py", longFunc)

	r, err := NewRunner(testConfig(t))
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	result, err := r.ScanPaths(context.Background(), []string{dir}, nil)
	if err != nil {
		t.Fatalf("ScanPaths failed: %v", err)
	}

	var paths []string
	for _, res := range result.Results {
		paths = append(paths, res.FilePath)
	}
	if !sort.StringsAreSorted(paths) {
		t.Errorf("results not ordered by path: %v", paths)
	}
}

func TestScanPathsSyntaxError(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "bad.py", "def broken(:\n    pass\n")

	r, err := NewRunner(testConfig(t))
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	result, err := r.ScanPaths(context.Background(), []string{dir}, nil)
	if err != nil {
		t.Fatalf("ScanPaths failed: %v", err)
	}
	if len(result.Results) != 1 || result.Results[0].Type != models.SmellSyntaxError {
		t.Errorf("results = %+v, want one SyntaxError", result.Results)
	}
}

func TestScanPathsCacheHit(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "big.py", longFunc)
	cfg := testConfig(t)

	r, err := NewRunner(cfg)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	first, err := r.ScanPaths(context.Background(), []string{dir}, nil)
	if err != nil {
		t.Fatalf("first ScanPaths failed: %v", err)
	}

	// Second run against the same cache dir must reproduce the results.
	r2, err := NewRunner(cfg)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	second, err := r2.ScanPaths(context.Background(), []string{dir}, nil)
	if err != nil {
		t.Fatalf("second ScanPaths failed: %v", err)
	}

	if len(first.Results) != len(second.Results) {
		t.Fatalf("cached run returned %d results, want %d", len(second.Results), len(first.Results))
	}
	for i := range first.Results {
		if first.Results[i].Message != second.Results[i].Message {
			t.Errorf("results[%d] = %q, want %q", i, second.Results[i].Message, first.Results[i].Message)
		}
	}
}

func TestScanPathsProgressCallback(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.py", "x = 1\n")
	writeSource(t, dir, "b.py", "y = 2\n")

	r, err := NewRunner(testConfig(t))
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	var total int
	var ticks atomic.Int64
	_, err = r.ScanPaths(context.Background(), []string{dir}, func(n int) fileproc.ProgressFunc {
		total = n
		return func() { ticks.Add(1) }
	})
	if err != nil {
		t.Fatalf("ScanPaths failed: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	if ticks.Load() != 2 {
		t.Errorf("ticks = %d, want 2", ticks.Load())
	}
}

func TestSelectSmells(t *testing.T) {
	set, err := SelectSmells(nil, nil)
	if err != nil || set != nil {
		t.Errorf("SelectSmells(nil, nil) = %v, %v, want nil, nil", set, err)
	}

	set, err = SelectSmells([]string{"LongMethod"}, nil)
	if err != nil {
		t.Fatalf("SelectSmells failed: %v", err)
	}
	if !set.Enabled(models.SmellLongMethod) || set.Enabled(models.SmellGodClass) {
		t.Errorf("only set = %v", set)
	}

	set, err = SelectSmells(nil, []string{"MagicNumbers"})
	if err != nil {
		t.Fatalf("SelectSmells failed: %v", err)
	}
	if set.Enabled(models.SmellMagicNumbers) || !set.Enabled(models.SmellLongMethod) {
		t.Errorf("exclude set = %v", set)
	}

	if _, err := SelectSmells([]string{"NotASmell"}, nil); err == nil {
		t.Error("unknown smell accepted")
	}
}
