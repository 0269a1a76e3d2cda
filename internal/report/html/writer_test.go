package html

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ngsreports/internal/model"
)

func TestNewWriter(t *testing.T) {
	t.Run("nil timezone defaults to UTC", func(t *testing.T) {
		w := NewWriter(nil, model.DefaultPalette, "")
		if w.timezone == nil {
			t.Fatal("expected timezone to be set")
		}
		if w.timezone != time.UTC {
			t.Errorf("expected timezone UTC, got %s", w.timezone.String())
		}
	})

	t.Run("custom timezone", func(t *testing.T) {
		loc := time.FixedZone("X", 3600)
		w := NewWriter(loc, model.DefaultPalette, "")
		if w.timezone != loc {
			t.Errorf("expected custom timezone")
		}
	})

	t.Run("with template path", func(t *testing.T) {
		w := NewWriter(nil, model.DefaultPalette, "/path/to/template.html")
		if w.templatePath != "/path/to/template.html" {
			t.Errorf("expected template path to be set")
		}
	})
}

func TestWriter_Format(t *testing.T) {
	w := NewWriter(nil, model.DefaultPalette, "")
	if w.Format() != "html" {
		t.Errorf("expected format 'html', got '%s'", w.Format())
	}
}

func TestWriter_Write_NilResult(t *testing.T) {
	w := NewWriter(nil, model.DefaultPalette, "")
	err := w.Write(nil, "test.html")
	if err == nil {
		t.Error("expected error for nil result")
	}
	if !strings.Contains(err.Error(), "nil") {
		t.Errorf("expected error message to mention nil, got: %s", err.Error())
	}
}

func TestWriter_Write_Success(t *testing.T) {
	tempDir := t.TempDir()
	outputPath := filepath.Join(tempDir, "test_report.html")

	w := NewWriter(nil, model.DefaultPalette, "")
	result := createTestQCResult()

	err := w.Write(result, outputPath)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if _, err := os.Stat(outputPath); os.IsNotExist(err) {
		t.Error("output file was not created")
	}

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}

	contentStr := string(content)
	expectedContent := []string{
		"<!DOCTYPE html>",
		"FastQC Aggregation Report",
		"a_fastqc.zip",
		"b_fastqc.zip",
		"broken.txt",
		"Per base sequence quality",
		"Adapter Content",
		"Status Grid",
		"Basic Statistics",
		"Unparsed Files",
		"2025-06-12 09:30:00",
		"expected ##FastQC version line",
	}

	for _, expected := range expectedContent {
		if !strings.Contains(contentStr, expected) {
			t.Errorf("expected content to contain '%s'", expected)
		}
	}
}

func TestWriter_Write_StatusCells(t *testing.T) {
	tempDir := t.TempDir()
	outputPath := filepath.Join(tempDir, "cells.html")

	w := NewWriter(nil, model.DefaultPalette, "")
	if err := w.Write(createTestQCResult(), outputPath); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	contentStr := string(content)

	// Verdict cells carry the CSS class for their status.
	for _, expected := range []string{
		`<td class="pass">PASS</td>`,
		`<td class="warn">WARN</td>`,
		`<td class="fail">FAIL</td>`,
	} {
		if !strings.Contains(contentStr, expected) {
			t.Errorf("expected content to contain '%s'", expected)
		}
	}

	// The unparsed file must not appear as a status grid row.
	if strings.Contains(contentStr, `<td class="missing">-</td>`) {
		t.Error("unparsed file should be listed separately, not as missing grid cells")
	}
}

func TestWriter_Write_FlagsWorstFirst(t *testing.T) {
	tempDir := t.TempDir()
	outputPath := filepath.Join(tempDir, "flags.html")

	w := NewWriter(nil, model.DefaultPalette, "")
	if err := w.Write(createTestQCResult(), outputPath); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	contentStr := string(content)

	failIdx := strings.Index(contentStr, "Adapter Content: FAIL")
	warnIdx := strings.Index(contentStr, "value 22.50")
	if failIdx < 0 || warnIdx < 0 {
		t.Fatalf("expected both flag messages in output, got fail=%d warn=%d", failIdx, warnIdx)
	}
	if failIdx > warnIdx {
		t.Error("expected FAIL flag to be rendered before WARN flag")
	}
}

func TestWriter_Write_AddsHtmlExtension(t *testing.T) {
	tempDir := t.TempDir()
	outputPath := filepath.Join(tempDir, "test_report") // No extension

	w := NewWriter(nil, model.DefaultPalette, "")
	result := createTestQCResult()

	err := w.Write(result, outputPath)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	expectedPath := outputPath + ".html"
	if _, err := os.Stat(expectedPath); os.IsNotExist(err) {
		t.Error("expected .html extension to be added")
	}
}

func TestWriter_Write_CustomTemplate(t *testing.T) {
	tempDir := t.TempDir()

	templatePath := filepath.Join(tempDir, "custom.html")
	custom := `<html><body><h1>CUSTOM {{.Title}}</h1><p>files: {{len .Files}}</p></body></html>`
	if err := os.WriteFile(templatePath, []byte(custom), 0o644); err != nil {
		t.Fatalf("failed to write custom template: %v", err)
	}

	outputPath := filepath.Join(tempDir, "custom_report.html")
	w := NewWriter(nil, model.DefaultPalette, templatePath)

	if err := w.Write(createTestQCResult(), outputPath); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	contentStr := string(content)

	if !strings.Contains(contentStr, "CUSTOM FastQC Aggregation Report") {
		t.Error("expected output to be rendered from the custom template")
	}
	if !strings.Contains(contentStr, "files: 2") {
		t.Errorf("expected 2 parsed files in template data, got: %s", contentStr)
	}
	if strings.Contains(contentStr, "Status Grid") {
		t.Error("custom template output should not contain default template sections")
	}
}

func TestWriter_Write_MissingCustomTemplateFallsBack(t *testing.T) {
	tempDir := t.TempDir()
	outputPath := filepath.Join(tempDir, "fallback.html")

	w := NewWriter(nil, model.DefaultPalette, filepath.Join(tempDir, "does_not_exist.html"))
	if err := w.Write(createTestQCResult(), outputPath); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	if !strings.Contains(string(content), "Status Grid") {
		t.Error("expected fallback to the embedded default template")
	}
}

func TestStatusClass(t *testing.T) {
	tests := []struct {
		status   model.Status
		expected string
	}{
		{model.StatusPass, "pass"},
		{model.StatusWarn, "warn"},
		{model.StatusFail, "fail"},
		{model.Status(""), "missing"},
		{model.Status("bogus"), "missing"},
	}

	for _, tt := range tests {
		if got := statusClass(tt.status); got != tt.expected {
			t.Errorf("statusClass(%q) = %q, expected %q", tt.status, got, tt.expected)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{500 * time.Millisecond, "500ms"},
		{90 * time.Second, "1.5min"},
		{2 * time.Hour, "2.0h"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.duration); got != tt.expected {
			t.Errorf("formatDuration(%v) = %q, expected %q", tt.duration, got, tt.expected)
		}
	}
}

// createTestQCResult builds a small run with one clean file, one flagged
// file and one unparsable file.
func createTestQCResult() *model.QCResult {
	runTime := time.Date(2025, 6, 12, 9, 30, 0, 0, time.UTC)
	result := model.NewQCResult(runTime)
	result.Version = "1.0.0"

	fileA := model.NewFileResult("a_fastqc.zip", "/data/a_fastqc.zip")
	fileA.Label = "a"
	fileA.SourceFastq = "a.fastq.gz"
	fileA.FastQCVersion = "0.11.9"
	fileA.Encoding = "Sanger / Illumina 1.9"
	fileA.TotalSequences = 250000
	fileA.SequenceLength = "35-76"
	fileA.PercentGC = 48
	fileA.SetStatus("Basic Statistics", model.StatusPass)
	fileA.SetStatus("Per base sequence quality", model.StatusPass)
	fileA.SetStatus("Adapter Content", model.StatusPass)
	result.AddFile(fileA)

	fileB := model.NewFileResult("b_fastqc.zip", "/data/b_fastqc.zip")
	fileB.Label = "b"
	fileB.SourceFastq = "b.fastq.gz"
	fileB.FastQCVersion = "0.11.9"
	fileB.Encoding = "Sanger / Illumina 1.9"
	fileB.TotalSequences = 180000
	fileB.SequenceLength = "35-76"
	fileB.PercentGC = 51
	fileB.SetStatus("Basic Statistics", model.StatusPass)
	fileB.SetStatus("Per base sequence quality", model.StatusWarn)
	fileB.SetStatus("Adapter Content", model.StatusFail)
	fileB.AddFlag(model.NewThresholdFlag("b_fastqc.zip", "Per base sequence quality", model.StatusWarn, 22.5, 25, 20))
	fileB.AddFlag(model.NewQCFlag("b_fastqc.zip", "Adapter Content", model.StatusFail))
	result.AddFile(fileB)

	fileC := model.NewFailedFileResult("broken.txt", errors.New("expected ##FastQC version line"))
	result.AddFile(fileC)

	result.AddModule("Basic Statistics")
	result.AddModule("Per base sequence quality")
	result.AddModule("Adapter Content")
	result.Finalize(runTime.Add(1500 * time.Millisecond))

	return result
}
