// Package models defines the result types shared by the detection
// engine, the report layer, and every output surface.
package models

// SmellType identifies a smell detector or the synthetic parse-failure
// result.
type SmellType string

const (
	SmellLongMethod         SmellType = "LongMethod"
	SmellGodClass           SmellType = "GodClass"
	SmellDuplicatedCode     SmellType = "DuplicatedCode"
	SmellLargeParameterList SmellType = "LargeParameterList"
	SmellMagicNumbers       SmellType = "MagicNumbers"
	SmellFeatureEnvy        SmellType = "FeatureEnvy"

	// SmellSyntaxError is emitted when the source fails to parse; it is
	// never a registered detector.
	SmellSyntaxError SmellType = "SyntaxError"
)

// AllSmells lists the six detectable smells in engine registration
// order.
var AllSmells = []SmellType{
	SmellLongMethod,
	SmellGodClass,
	SmellDuplicatedCode,
	SmellLargeParameterList,
	SmellMagicNumbers,
	SmellFeatureEnvy,
}

// KnownSmell reports whether s names one of the six detectable smells.
func KnownSmell(s SmellType) bool {
	for _, known := range AllSmells {
		if s == known {
			return true
		}
	}
	return false
}

// Severity represents the severity level of a detected smell.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
	SeverityError  Severity = "error"
)

// Weight returns a numeric weight for sorting (higher = more severe).
func (s Severity) Weight() int {
	switch s {
	case SeverityError:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// SmellResult is a single structural defect finding. Line numbers are
// 1-based and inclusive, with LineEnd >= LineStart, and always fall
// within the analyzed file's line count. Results carry no reference
// back to the syntax tree and are safe to retain indefinitely.
type SmellResult struct {
	Type      SmellType      `json:"smell_type"`
	FilePath  string         `json:"file_path"`
	LineStart int            `json:"line_start"`
	LineEnd   int            `json:"line_end"`
	Severity  Severity       `json:"severity"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details"`
}

// SmellSet is the set of smells enabled for one detect call. A nil set
// enables everything.
type SmellSet map[SmellType]bool

// NewSmellSet builds a SmellSet from smell names.
func NewSmellSet(smells ...SmellType) SmellSet {
	set := make(SmellSet, len(smells))
	for _, s := range smells {
		set[s] = true
	}
	return set
}

// Enabled reports whether the set allows the given smell.
func (s SmellSet) Enabled(smell SmellType) bool {
	if s == nil {
		return true
	}
	return s[smell]
}
