// Package report provides report generation for QC run results. It defines
// the Writer interface and provides a registry for managing the supported
// output formats (Excel, HTML).
package report

import (
	"ngsreports/internal/model"
)

// Writer defines the interface for generating QC run reports.
// Implementations write a QCResult to a file in their specific format.
type Writer interface {
	// Write generates a report from the QC result and saves it to the
	// specified output path. The path should include the file extension
	// appropriate for the format; writers append it when missing.
	//
	// Returns an error if the report generation or file writing fails.
	Write(result *model.QCResult, outputPath string) error

	// Format returns the format identifier for this writer.
	// Common values are "excel" and "html".
	Format() string
}
