// Package report assembles detection results into the report document
// emitted by the CLI and MCP server.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/jparkin/whiff/internal/output"
	"github.com/jparkin/whiff/pkg/models"
	"github.com/jparkin/whiff/pkg/stats"
)

// Metadata describes one scan run.
type Metadata struct {
	ScanTimestamp time.Time `json:"scan_timestamp"`
	Version       string    `json:"detector_version"`
	Paths         []string  `json:"paths"`
	FilesAnalyzed int       `json:"files_analyzed"`
	ActiveSmells  []string  `json:"active_smells"`
	DurationMS    int64     `json:"duration_ms"`
}

// Summary aggregates results across all scanned files.
type Summary struct {
	TotalSmells       int            `json:"total_smells_detected"`
	SeverityBreakdown map[string]int `json:"severity_breakdown"`
	SmellsByType      map[string]int `json:"smells_by_type"`
	FilesWithSmells   int            `json:"files_with_smells"`
	DuplicatedLines   uint64         `json:"duplicated_lines"`
	MeanSmellsPerFile float64        `json:"mean_smells_per_file"`
	P90SmellsPerFile  float64        `json:"p90_smells_per_file"`
}

// Location points a finding at a file and line range.
type Location struct {
	File      string `json:"file"`
	LineStart int    `json:"line_start"`
	LineEnd   int    `json:"line_end"`
}

// Detail is one finding in the report.
type Detail struct {
	SmellType string         `json:"smell_type"`
	Severity  string         `json:"severity"`
	Message   string         `json:"message"`
	Location  Location       `json:"location"`
	Details   map[string]any `json:"details"`
}

// Report is the full scan report.
type Report struct {
	Metadata Metadata `json:"metadata"`
	Summary  Summary  `json:"summary"`
	Details  []Detail `json:"details"`
}

// Build assembles a report from raw results. Result order is preserved
// in the details section.
func Build(results []models.SmellResult, meta Metadata) *Report {
	summary := Summary{
		SeverityBreakdown: map[string]int{"high": 0, "medium": 0, "low": 0, "error": 0},
		SmellsByType:      make(map[string]int),
	}

	perFile := make(map[string]int)
	dupLines := make(map[string]*roaring.Bitmap)

	details := make([]Detail, 0, len(results))
	for _, r := range results {
		summary.TotalSmells++
		summary.SeverityBreakdown[string(r.Severity)]++
		summary.SmellsByType[string(r.Type)]++
		perFile[r.FilePath]++

		if r.Type == models.SmellDuplicatedCode {
			bm, ok := dupLines[r.FilePath]
			if !ok {
				bm = roaring.New()
				dupLines[r.FilePath] = bm
			}
			bm.AddRange(uint64(r.LineStart), uint64(r.LineEnd)+1)
		}

		details = append(details, Detail{
			SmellType: string(r.Type),
			Severity:  string(r.Severity),
			Message:   r.Message,
			Location: Location{
				File:      r.FilePath,
				LineStart: r.LineStart,
				LineEnd:   r.LineEnd,
			},
			Details: r.Details,
		})
	}

	summary.FilesWithSmells = len(perFile)
	for _, bm := range dupLines {
		summary.DuplicatedLines += bm.GetCardinality()
	}

	if meta.FilesAnalyzed > 0 {
		counts := make([]float64, 0, meta.FilesAnalyzed)
		for _, n := range perFile {
			counts = append(counts, float64(n))
		}
		// Clean files contribute zero findings.
		for len(counts) < meta.FilesAnalyzed {
			counts = append(counts, 0)
		}
		summary.MeanSmellsPerFile = stats.Mean(counts)
		summary.P90SmellsPerFile = stats.Percentile(counts, 0.9)
	}

	return &Report{
		Metadata: meta,
		Summary:  summary,
		Details:  details,
	}
}

// RenderData implements output.Renderable.
func (r *Report) RenderData() any {
	return r
}

// RenderText implements output.Renderable with a summary header, a
// per-type breakdown, and a findings table.
func (r *Report) RenderText(w io.Writer, colored bool) error {
	fmt.Fprintln(w, "Code Smell Report")
	fmt.Fprintln(w, "=================")
	fmt.Fprintf(w, "Scanned: %d files in %dms\n", r.Metadata.FilesAnalyzed, r.Metadata.DurationMS)
	fmt.Fprintf(w, "Total smells: %d (high: %d, medium: %d, low: %d, errors: %d)\n",
		r.Summary.TotalSmells,
		r.Summary.SeverityBreakdown["high"],
		r.Summary.SeverityBreakdown["medium"],
		r.Summary.SeverityBreakdown["low"],
		r.Summary.SeverityBreakdown["error"])
	if r.Summary.DuplicatedLines > 0 {
		fmt.Fprintf(w, "Duplicated lines: %d\n", r.Summary.DuplicatedLines)
	}
	fmt.Fprintln(w)

	if len(r.Summary.SmellsByType) > 0 {
		types := make([]string, 0, len(r.Summary.SmellsByType))
		for t := range r.Summary.SmellsByType {
			types = append(types, t)
		}
		sort.Strings(types)
		byType := make([][]string, 0, len(types))
		for _, t := range types {
			byType = append(byType, []string{t, fmt.Sprintf("%d", r.Summary.SmellsByType[t])})
		}
		typeTable := &output.Table{
			Headers: []string{"Smell", "Count"},
			Rows:    byType,
		}
		if err := typeTable.RenderText(w, colored); err != nil {
			return err
		}
	}

	if len(r.Details) == 0 {
		fmt.Fprintln(w, "No smells detected.")
		return nil
	}

	rows := make([][]string, 0, len(r.Details))
	for _, d := range r.Details {
		severity := d.Severity
		if colored {
			severity = output.SeverityColor(d.Severity, d.Severity)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%s:%d-%d", d.Location.File, d.Location.LineStart, d.Location.LineEnd),
			d.SmellType,
			severity,
			d.Message,
		})
	}
	findings := &output.Table{
		Headers: []string{"Location", "Smell", "Severity", "Message"},
		Rows:    rows,
	}
	return findings.RenderText(w, colored)
}
