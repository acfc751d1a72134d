// Package detector defines the contract every smell detector
// implements. Detectors are stateless after construction, independent
// of each other, and safe for concurrent use across source units.
package detector

import (
	"github.com/jparkin/whiff/pkg/models"
	"github.com/jparkin/whiff/pkg/parser"
)

// Detector analyzes one parsed source unit and produces zero or more
// findings. Implementations must treat the unit as read-only.
type Detector interface {
	// Type identifies the smell this detector reports.
	Type() models.SmellType
	// Detect runs the detector against a parsed unit.
	Detect(unit *parser.SourceUnit) []models.SmellResult
}
