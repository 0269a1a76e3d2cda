// Package html provides HTML report generation for QC run results.
// It implements the report.Writer interface to generate .html files with the
// run overview, the PASS/WARN/FAIL status grid, and the flag list.
package html

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ngsreports/internal/model"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// Writer implements report.Writer for HTML format.
type Writer struct {
	timezone     *time.Location
	palette      model.PwfPalette
	templatePath string // User-defined template path (optional)
}

// TemplateData holds all data passed to the HTML template.
type TemplateData struct {
	Title       string
	RunTime     string
	Duration    string
	Summary     *model.RunSummary
	FlagSummary *model.FlagSummary
	Modules     []string
	Files       []*FileData
	Flags       []*FlagData
	Failed      []*FileData
	Palette     model.PwfPalette
	Version     string
	GeneratedAt string
}

// FileData represents one report file formatted for template rendering.
type FileData struct {
	Filename       string
	Label          string
	SourceFastq    string
	FastQCVersion  string
	Encoding       string
	TotalSequences string
	SequenceLength string
	PercentGC      string
	Status         string
	StatusClass    string
	Cells          []*CellData // aligned with TemplateData.Modules
	Error          string
}

// CellData is one verdict cell in the status grid.
type CellData struct {
	Status string
	Class  string
}

// FlagData represents one flag formatted for template rendering.
type FlagData struct {
	Filename    string
	Module      string
	Status      string
	StatusClass string
	Message     string
}

// NewWriter creates a new HTML report writer.
// If timezone is nil, it defaults to UTC.
// If templatePath is empty, the embedded default template will be used.
func NewWriter(timezone *time.Location, palette model.PwfPalette, templatePath string) *Writer {
	if timezone == nil {
		timezone = time.UTC
	}
	return &Writer{
		timezone:     timezone,
		palette:      palette,
		templatePath: templatePath,
	}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "html"
}

// Write generates an HTML report from the QC result.
func (w *Writer) Write(result *model.QCResult, outputPath string) error {
	if result == nil {
		return fmt.Errorf("QC result is nil")
	}

	// Ensure output path has .html extension
	if !strings.HasSuffix(strings.ToLower(outputPath), ".html") {
		outputPath = outputPath + ".html"
	}

	tmpl, err := w.loadTemplate()
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}

	data := w.prepareTemplateData(result)

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := tmpl.Execute(file, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return nil
}

// loadTemplate loads the HTML template.
// It first tries to load a user-defined template, then falls back to the embedded default.
func (w *Writer) loadTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"statusClass": statusClass,
	}

	// Try user-defined template first
	if w.templatePath != "" {
		if _, err := os.Stat(w.templatePath); err == nil {
			tmpl, err := template.New(filepath.Base(w.templatePath)).Funcs(funcMap).ParseFiles(w.templatePath)
			if err != nil {
				return nil, fmt.Errorf("failed to parse user template: %w", err)
			}
			return tmpl, nil
		}
		// User template not found, fall through to default
	}

	tmpl, err := template.New("default.html").Funcs(funcMap).ParseFS(embeddedTemplates, "templates/default.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}

// prepareTemplateData converts a QCResult to TemplateData for rendering.
func (w *Writer) prepareTemplateData(result *model.QCResult) *TemplateData {
	files := make([]*FileData, 0, len(result.Files))
	failed := make([]*FileData, 0)
	for _, file := range result.Files {
		if file == nil {
			continue
		}
		data := w.convertFileData(file, result.Modules)
		if file.Failed() {
			failed = append(failed, data)
			continue
		}
		files = append(files, data)
	}

	return &TemplateData{
		Title:       "FastQC Aggregation Report",
		RunTime:     result.RunTime.In(w.timezone).Format("2006-01-02 15:04:05"),
		Duration:    formatDuration(result.Duration),
		Summary:     result.Summary,
		FlagSummary: result.FlagSummary,
		Modules:     result.Modules,
		Files:       files,
		Flags:       w.convertFlags(result.Flags),
		Failed:      failed,
		Palette:     w.palette,
		Version:     result.Version,
		GeneratedAt: time.Now().In(w.timezone).Format("2006-01-02 15:04:05"),
	}
}

// convertFileData converts a FileResult to FileData for template rendering.
func (w *Writer) convertFileData(file *model.FileResult, modules []string) *FileData {
	cells := make([]*CellData, 0, len(modules))
	for _, module := range modules {
		status := file.Statuses[module]
		if !status.IsValid() {
			cells = append(cells, &CellData{Status: "-", Class: "missing"})
			continue
		}
		cells = append(cells, &CellData{Status: string(status), Class: statusClass(status)})
	}

	return &FileData{
		Filename:       file.Filename,
		Label:          file.Label,
		SourceFastq:    file.SourceFastq,
		FastQCVersion:  file.FastQCVersion,
		Encoding:       file.Encoding,
		TotalSequences: formatCount(file.TotalSequences),
		SequenceLength: file.SequenceLength,
		PercentGC:      fmt.Sprintf("%.0f", file.PercentGC),
		Status:         string(file.Status),
		StatusClass:    statusClass(file.Status),
		Cells:          cells,
		Error:          file.Error,
	}
}

// convertFlags converts and sorts flags for template rendering, worst first.
func (w *Writer) convertFlags(flags []*model.QCFlag) []*FlagData {
	sorted := make([]*model.QCFlag, len(flags))
	copy(sorted, flags)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Status != sorted[j].Status {
			return sorted[i].Status.Severity() > sorted[j].Status.Severity()
		}
		if sorted[i].Filename != sorted[j].Filename {
			return sorted[i].Filename < sorted[j].Filename
		}
		return sorted[i].Module < sorted[j].Module
	})

	result := make([]*FlagData, 0, len(sorted))
	for _, flag := range sorted {
		result = append(result, &FlagData{
			Filename:    flag.Filename,
			Module:      flag.Module,
			Status:      string(flag.Status),
			StatusClass: statusClass(flag.Status),
			Message:     flag.Message,
		})
	}
	return result
}

// statusClass maps a verdict to its CSS class name.
func statusClass(status model.Status) string {
	switch status {
	case model.StatusPass:
		return "pass"
	case model.StatusWarn:
		return "warn"
	case model.StatusFail:
		return "fail"
	default:
		return "missing"
	}
}

// formatCount renders a read count without decimals.
func formatCount(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

// formatDuration formats a duration in a human-readable format.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fmin", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
