// Package excel provides Excel report generation for QC run results.
// It implements the report.Writer interface to generate .xlsx files with an
// overview, the PASS/WARN/FAIL status grid, the flag list, and the basic
// statistics of every report in the run.
package excel

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"ngsreports/internal/model"
)

const (
	// Sheet names
	sheetOverview   = "Overview"
	sheetStatusGrid = "Status Grid"
	sheetFlags      = "Flags"
	sheetBasicStats = "Basic Statistics"

	// Default sheet to remove
	defaultSheet = "Sheet1"

	// Header colors (RGB without #); verdict colors come from the palette.
	colorHeaderBg = "4472C4"
	colorHeaderFg = "FFFFFF"

	// Column widths
	fileColWidth   = 28.0
	moduleColWidth = 14.0
	metaColWidth   = 20.0
)

// missingCell is rendered where a file has no verdict for a module.
const missingCell = "-"

// Writer implements report.Writer for Excel format.
type Writer struct {
	timezone *time.Location
	palette  model.PwfPalette
}

// statusStyles holds the style ids for one workbook, built once per Write.
type statusStyles struct {
	header  int
	pass    int
	warn    int
	fail    int
	missing int
}

// NewWriter creates a new Excel report writer.
// If timezone is nil, it defaults to UTC.
func NewWriter(timezone *time.Location, palette model.PwfPalette) *Writer {
	if timezone == nil {
		timezone = time.UTC
	}
	return &Writer{
		timezone: timezone,
		palette:  palette,
	}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "excel"
}

// Write generates an Excel report from the QC result.
func (w *Writer) Write(result *model.QCResult, outputPath string) error {
	if result == nil {
		return fmt.Errorf("QC result is nil")
	}

	// Ensure output path has .xlsx extension
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}

	f := excelize.NewFile()
	defer f.Close()

	styles, err := w.createStyles(f)
	if err != nil {
		return fmt.Errorf("failed to create styles: %w", err)
	}

	if err := w.createOverviewSheet(f, result, styles); err != nil {
		return fmt.Errorf("failed to create overview sheet: %w", err)
	}

	if err := w.createStatusGridSheet(f, result, styles); err != nil {
		return fmt.Errorf("failed to create status grid sheet: %w", err)
	}

	if err := w.createFlagsSheet(f, result, styles); err != nil {
		return fmt.Errorf("failed to create flags sheet: %w", err)
	}

	if err := w.createBasicStatsSheet(f, result, styles); err != nil {
		return fmt.Errorf("failed to create basic statistics sheet: %w", err)
	}

	// Remove default Sheet1 and land on the overview
	_ = f.DeleteSheet(defaultSheet)
	idx, _ := f.GetSheetIndex(sheetOverview)
	f.SetActiveSheet(idx)

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	return nil
}

// createStyles builds the shared header and verdict styles from the palette.
func (w *Writer) createStyles(f *excelize.File) (*statusStyles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Size:  11,
			Color: colorHeaderFg,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{colorHeaderBg},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, err
	}

	pass, err := w.verdictStyle(f, w.palette.Pass)
	if err != nil {
		return nil, err
	}
	warn, err := w.verdictStyle(f, w.palette.Warn)
	if err != nil {
		return nil, err
	}
	fail, err := w.verdictStyle(f, w.palette.Fail)
	if err != nil {
		return nil, err
	}
	missing, err := w.verdictStyle(f, w.palette.Missing)
	if err != nil {
		return nil, err
	}

	return &statusStyles{
		header:  header,
		pass:    pass,
		warn:    warn,
		fail:    fail,
		missing: missing,
	}, nil
}

func (w *Writer) verdictStyle(f *excelize.File, color model.StatusColor) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Color: color.Foreground,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{color.Background},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
}

// styleFor maps a verdict to its workbook style id.
func (s *statusStyles) styleFor(status model.Status) int {
	switch status {
	case model.StatusPass:
		return s.pass
	case model.StatusWarn:
		return s.warn
	case model.StatusFail:
		return s.fail
	default:
		return s.missing
	}
}

// createOverviewSheet creates the run overview worksheet.
func (w *Writer) createOverviewSheet(f *excelize.File, result *model.QCResult, styles *statusStyles) error {
	idx, err := f.NewSheet(sheetOverview)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 18,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	valueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size: 12,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	f.SetColWidth(sheetOverview, "A", "A", 22)
	f.SetColWidth(sheetOverview, "B", "B", 30)

	f.MergeCell(sheetOverview, "A1", "B1")
	f.SetCellValue(sheetOverview, "A1", "FastQC Aggregation Report")
	f.SetCellStyle(sheetOverview, "A1", "B1", titleStyle)
	f.SetRowHeight(sheetOverview, 1, 30)

	overviewData := []struct {
		label string
		value interface{}
	}{
		{"Run time", result.RunTime.In(w.timezone).Format("2006-01-02 15:04:05")},
		{"Duration", formatDuration(result.Duration)},
		{"Total files", result.Summary.TotalFiles},
		{"Pass files", result.Summary.PassFiles},
		{"Warn files", result.Summary.WarnFiles},
		{"Fail files", result.Summary.FailFiles},
		{"Unparsed files", result.Summary.FailedFiles},
		{"Total flags", result.FlagSummary.TotalFlags},
		{"Warn flags", result.FlagSummary.WarnCount},
		{"Fail flags", result.FlagSummary.FailCount},
	}

	if result.Version != "" {
		overviewData = append(overviewData, struct {
			label string
			value interface{}
		}{"Tool version", result.Version})
	}

	for i, item := range overviewData {
		row := i + 3 // Start from row 3
		f.SetCellValue(sheetOverview, fmt.Sprintf("A%d", row), item.label)
		f.SetCellValue(sheetOverview, fmt.Sprintf("B%d", row), item.value)
		f.SetCellStyle(sheetOverview, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), styles.header)
		f.SetCellStyle(sheetOverview, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), valueStyle)
		f.SetRowHeight(sheetOverview, row, 22)
	}

	return nil
}

// createStatusGridSheet creates the files x modules verdict grid.
func (w *Writer) createStatusGridSheet(f *excelize.File, result *model.QCResult, styles *statusStyles) error {
	_, err := f.NewSheet(sheetStatusGrid)
	if err != nil {
		return err
	}

	headers := append([]string{"File", "Label"}, result.Modules...)

	f.SetColWidth(sheetStatusGrid, "A", "A", fileColWidth)
	f.SetColWidth(sheetStatusGrid, "B", "B", metaColWidth)
	for i := range result.Modules {
		col := columnName(3 + i)
		f.SetColWidth(sheetStatusGrid, col, col, moduleColWidth)
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", columnName(i+1))
		f.SetCellValue(sheetStatusGrid, cell, header)
		f.SetCellStyle(sheetStatusGrid, cell, cell, styles.header)
	}
	f.SetRowHeight(sheetStatusGrid, 1, 25)

	// Freeze the header row and the two name columns
	f.SetPanes(sheetStatusGrid, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      2,
		YSplit:      1,
		TopLeftCell: "C2",
		ActivePane:  "bottomRight",
	})

	for i, file := range result.Files {
		row := i + 2
		rowStr := fmt.Sprintf("%d", row)

		f.SetCellValue(sheetStatusGrid, "A"+rowStr, file.Filename)
		f.SetCellValue(sheetStatusGrid, "B"+rowStr, file.Label)

		for j, module := range result.Modules {
			cell := columnName(3+j) + rowStr
			status := file.Statuses[module]
			if !status.IsValid() {
				f.SetCellValue(sheetStatusGrid, cell, missingCell)
				f.SetCellStyle(sheetStatusGrid, cell, cell, styles.missing)
				continue
			}
			f.SetCellValue(sheetStatusGrid, cell, string(status))
			f.SetCellStyle(sheetStatusGrid, cell, cell, styles.styleFor(status))
		}
	}

	return nil
}

// createFlagsSheet creates the WARN/FAIL flag list, worst first.
func (w *Writer) createFlagsSheet(f *excelize.File, result *model.QCResult, styles *statusStyles) error {
	_, err := f.NewSheet(sheetFlags)
	if err != nil {
		return err
	}

	headers := []string{"File", "Module", "Status", "Value", "Warn Cutoff", "Fail Cutoff", "Message"}
	colWidths := []float64{28, 26, 10, 10, 12, 12, 60}
	for i, width := range colWidths {
		col := columnName(i + 1)
		f.SetColWidth(sheetFlags, col, col, width)
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", columnName(i+1))
		f.SetCellValue(sheetFlags, cell, header)
		f.SetCellStyle(sheetFlags, cell, cell, styles.header)
	}
	f.SetRowHeight(sheetFlags, 1, 25)

	f.SetPanes(sheetFlags, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	flags := sortedFlags(result.Flags)
	for i, flag := range flags {
		row := i + 2
		rowStr := fmt.Sprintf("%d", row)

		f.SetCellValue(sheetFlags, "A"+rowStr, flag.Filename)
		f.SetCellValue(sheetFlags, "B"+rowStr, flag.Module)
		f.SetCellValue(sheetFlags, "C"+rowStr, string(flag.Status))
		if flag.HasValue {
			f.SetCellValue(sheetFlags, "D"+rowStr, flag.Value)
			f.SetCellValue(sheetFlags, "E"+rowStr, flag.WarnThreshold)
			f.SetCellValue(sheetFlags, "F"+rowStr, flag.FailThreshold)
		} else {
			f.SetCellValue(sheetFlags, "D"+rowStr, missingCell)
			f.SetCellValue(sheetFlags, "E"+rowStr, missingCell)
			f.SetCellValue(sheetFlags, "F"+rowStr, missingCell)
		}
		f.SetCellValue(sheetFlags, "G"+rowStr, flag.Message)

		f.SetCellStyle(sheetFlags, "C"+rowStr, "C"+rowStr, styles.styleFor(flag.Status))
	}

	return nil
}

// createBasicStatsSheet creates the per-file basic statistics worksheet.
func (w *Writer) createBasicStatsSheet(f *excelize.File, result *model.QCResult, styles *statusStyles) error {
	_, err := f.NewSheet(sheetBasicStats)
	if err != nil {
		return err
	}

	headers := []string{
		"File", "Label", "Source Fastq", "FastQC Version", "Encoding",
		"Total Sequences", "Sequence Length", "%GC", "Verdict", "Error",
	}
	colWidths := []float64{28, 20, 28, 14, 24, 16, 16, 8, 10, 50}
	for i, width := range colWidths {
		col := columnName(i + 1)
		f.SetColWidth(sheetBasicStats, col, col, width)
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", columnName(i+1))
		f.SetCellValue(sheetBasicStats, cell, header)
		f.SetCellStyle(sheetBasicStats, cell, cell, styles.header)
	}
	f.SetRowHeight(sheetBasicStats, 1, 25)

	f.SetPanes(sheetBasicStats, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	for i, file := range result.Files {
		row := i + 2
		rowStr := fmt.Sprintf("%d", row)

		f.SetCellValue(sheetBasicStats, "A"+rowStr, file.Filename)
		f.SetCellValue(sheetBasicStats, "B"+rowStr, file.Label)

		if file.Failed() {
			f.SetCellValue(sheetBasicStats, "C"+rowStr, missingCell)
			f.SetCellValue(sheetBasicStats, "I"+rowStr, "unparsed")
			f.SetCellStyle(sheetBasicStats, "I"+rowStr, "I"+rowStr, styles.missing)
			f.SetCellValue(sheetBasicStats, "J"+rowStr, file.Error)
			continue
		}

		f.SetCellValue(sheetBasicStats, "C"+rowStr, file.SourceFastq)
		f.SetCellValue(sheetBasicStats, "D"+rowStr, file.FastQCVersion)
		f.SetCellValue(sheetBasicStats, "E"+rowStr, file.Encoding)
		f.SetCellValue(sheetBasicStats, "F"+rowStr, file.TotalSequences)
		f.SetCellValue(sheetBasicStats, "G"+rowStr, file.SequenceLength)
		f.SetCellValue(sheetBasicStats, "H"+rowStr, file.PercentGC)
		f.SetCellValue(sheetBasicStats, "I"+rowStr, string(file.Status))
		f.SetCellStyle(sheetBasicStats, "I"+rowStr, "I"+rowStr, styles.styleFor(file.Status))
	}

	return nil
}

// sortedFlags orders flags worst first, then by filename and module.
func sortedFlags(flags []*model.QCFlag) []*model.QCFlag {
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
	return sorted
}

// columnName converts a 1-based column index to Excel column name (A, B, ..., Z, AA, AB, ...).
func columnName(index int) string {
	result := ""
	for index > 0 {
		index--
		result = string(rune('A'+index%26)) + result
		index /= 26
	}
	return result
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
