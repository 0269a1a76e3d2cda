//go:build ignore
// +build ignore

// This script generates a sample Excel report for manual verification.
// Run with: go run scripts/verify_excel.go
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ngsreports/internal/model"
	"ngsreports/internal/report/excel"
)

func main() {
	// Create test data
	result := createSampleData()

	// Create Excel writer
	writer := excel.NewWriter(time.UTC, model.DefaultPalette)

	// Generate report
	outputPath := filepath.Join(".", "sample_qc_report.xlsx")
	if err := writer.Write(result, outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Excel report generated: %s\n", outputPath)
	fmt.Println("\nReport contents:")
	fmt.Println("  - Overview: run summary statistics")
	fmt.Println("  - Status Grid: file x module verdicts")
	fmt.Println("  - Flags: WARN/FAIL flags sorted worst first")
	fmt.Println("  - Basic Statistics: per-file sequencing stats")
	fmt.Println("\nPlease open the file to verify:")
	fmt.Println("  - PASS cells have green background")
	fmt.Println("  - WARN cells have yellow background")
	fmt.Println("  - FAIL cells have red background")
	fmt.Println("  - Missing modules render as grey dashes")
	fmt.Println("  - Flags are sorted (FAIL first)")
	fmt.Println("  - The unparsed file appears with its error message")
}

// sampleModules is the grid column order used by the sample data.
var sampleModules = []string{
	"Per base sequence quality",
	"Per sequence quality scores",
	"Per sequence GC content",
	"Overrepresented sequences",
	"Adapter Content",
}

func createSampleData() *model.QCResult {
	runTime := time.Now().UTC()
	result := model.NewQCResult(runTime)
	result.Version = "1.0.0-dev"

	result.AddFile(createPassFile("good_1_fastqc.zip", "good_1"))
	result.AddFile(createWarnFile("library_2_fastqc.zip", "library_2"))
	result.AddFile(createFailFile("degraded_3_fastqc.zip", "degraded_3"))
	result.AddFile(model.NewFailedFileResult("truncated.txt",
		errors.New(`expected ##FastQC version line, got "random text"`)))

	for _, module := range sampleModules {
		result.AddModule(module)
	}

	result.Finalize(runTime.Add(2300 * time.Millisecond))
	return result
}

func createPassFile(filename, label string) *model.FileResult {
	file := model.NewFileResult(filename, filepath.Join("fastqc", filename))
	file.Label = label
	file.SourceFastq = label + ".fastq.gz"
	file.FastQCVersion = "0.11.9"
	file.Encoding = "Sanger / Illumina 1.9"
	file.TotalSequences = 250000
	file.SequenceLength = "35-76"
	file.PercentGC = 48
	for _, module := range sampleModules {
		file.SetStatus(module, model.StatusPass)
	}
	return file
}

func createWarnFile(filename, label string) *model.FileResult {
	file := createPassFile(filename, label)
	file.TotalSequences = 180000
	file.PercentGC = 51

	file.SetStatus("Per base sequence quality", model.StatusWarn)
	file.SetStatus("Per sequence GC content", model.StatusWarn)
	file.AddFlag(model.NewThresholdFlag(filename, "Per base sequence quality",
		model.StatusWarn, 23.4, 25.0, 20.0))
	return file
}

func createFailFile(filename, label string) *model.FileResult {
	file := createPassFile(filename, label)
	file.TotalSequences = 96000
	file.PercentGC = 39

	file.SetStatus("Per base sequence quality", model.StatusFail)
	file.SetStatus("Overrepresented sequences", model.StatusWarn)
	file.SetStatus("Adapter Content", model.StatusFail)
	file.AddFlag(model.NewThresholdFlag(filename, "Per base sequence quality",
		model.StatusFail, 17.2, 25.0, 20.0))
	file.AddFlag(model.NewQCFlag(filename, "Adapter Content", model.StatusFail))
	return file
}
