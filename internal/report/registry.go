// Package report provides report generation for QC run results. It defines
// the Writer interface and provides a registry for managing the supported
// output formats (Excel, HTML).
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"ngsreports/internal/model"
	"ngsreports/internal/report/excel"
	"ngsreports/internal/report/html"
)

// Registry manages report writers for different formats.
// It provides a centralized way to access report writers by format name.
type Registry struct {
	writers map[string]Writer
}

// NewRegistry creates a new report registry with pre-registered Excel and
// HTML writers. If timezone is nil, UTC is used. htmlTemplatePath is
// optional; if empty, the HTML writer uses the embedded default template.
func NewRegistry(timezone *time.Location, htmlTemplatePath string) *Registry {
	if timezone == nil {
		timezone = time.UTC
	}

	excelWriter := excel.NewWriter(timezone, model.DefaultPalette)
	htmlWriter := html.NewWriter(timezone, model.DefaultPalette, htmlTemplatePath)

	r := &Registry{
		writers: make(map[string]Writer),
	}

	// Register writers using their Format() return values
	r.writers[excelWriter.Format()] = excelWriter
	r.writers[htmlWriter.Format()] = htmlWriter

	return r
}

// Get returns a writer for the specified format.
// Format names are case-insensitive (e.g., "Excel", "EXCEL", "excel" all work).
// Returns an error if the format is not supported.
func (r *Registry) Get(format string) (Writer, error) {
	normalizedFormat := strings.ToLower(strings.TrimSpace(format))

	writer, ok := r.writers[normalizedFormat]
	if !ok {
		supported := r.GetAll()
		return nil, fmt.Errorf("unsupported report format %q, supported formats: %s",
			format, strings.Join(supported, ", "))
	}

	return writer, nil
}

// GetAll returns all supported format names in sorted order.
func (r *Registry) GetAll() []string {
	formats := make([]string, 0, len(r.writers))
	for format := range r.writers {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

// Has checks if the specified format is supported.
// Format names are case-insensitive.
func (r *Registry) Has(format string) bool {
	normalizedFormat := strings.ToLower(strings.TrimSpace(format))
	_, ok := r.writers[normalizedFormat]
	return ok
}
