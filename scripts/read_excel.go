//go:build ignore
// +build ignore

// This script reads and displays the contents of an Excel report for verification.
package main

import (
	"fmt"
	"github.com/xuri/excelize/v2"
)

func main() {
	f, err := excelize.OpenFile("sample_qc_report.xlsx")
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer f.Close()

	fmt.Println("📊 Sheets:", f.GetSheetList())
	fmt.Println()

	// Overview sheet
	fmt.Println("═══════════════════════════════════════")
	fmt.Println("  Overview")
	fmt.Println("═══════════════════════════════════════")
	for row := 1; row <= 16; row++ {
		a, _ := f.GetCellValue("Overview", fmt.Sprintf("A%d", row))
		b, _ := f.GetCellValue("Overview", fmt.Sprintf("B%d", row))
		if a != "" || b != "" {
			fmt.Printf("  %-20s %s\n", a, b)
		}
	}
	fmt.Println()

	// Status grid - headers
	fmt.Println("═══════════════════════════════════════")
	fmt.Println("  Status Grid (headers)")
	fmt.Println("═══════════════════════════════════════")
	headers := []string{}
	for col := 1; col <= 20; col++ {
		cell := columnName(col) + "1"
		v, _ := f.GetCellValue("Status Grid", cell)
		if v == "" {
			break
		}
		headers = append(headers, v)
	}
	for i, h := range headers {
		fmt.Printf("  [%d] %s\n", i+1, h)
	}
	fmt.Println()

	// Status grid - file rows
	fmt.Println("═══════════════════════════════════════")
	fmt.Println("  Status Grid (files)")
	fmt.Println("═══════════════════════════════════════")
	for row := 2; row <= 8; row++ {
		file, _ := f.GetCellValue("Status Grid", fmt.Sprintf("A%d", row))
		label, _ := f.GetCellValue("Status Grid", fmt.Sprintf("B%d", row))
		first, _ := f.GetCellValue("Status Grid", fmt.Sprintf("C%d", row))
		second, _ := f.GetCellValue("Status Grid", fmt.Sprintf("D%d", row))
		third, _ := f.GetCellValue("Status Grid", fmt.Sprintf("E%d", row))
		if file != "" {
			fmt.Printf("  %-24s %-12s %-5s %-5s %s\n", file, label, first, second, third)
		}
	}
	fmt.Println()

	// Flags sheet
	fmt.Println("═══════════════════════════════════════")
	fmt.Println("  Flags (worst first)")
	fmt.Println("═══════════════════════════════════════")
	fmt.Println("  File                     | Status | Module                        | Value")
	fmt.Println("  -------------------------+--------+-------------------------------+------")
	for row := 2; row <= 10; row++ {
		file, _ := f.GetCellValue("Flags", fmt.Sprintf("A%d", row))
		module, _ := f.GetCellValue("Flags", fmt.Sprintf("B%d", row))
		status, _ := f.GetCellValue("Flags", fmt.Sprintf("C%d", row))
		value, _ := f.GetCellValue("Flags", fmt.Sprintf("D%d", row))
		if file != "" {
			fmt.Printf("  %-24s | %-6s | %-29s | %s\n", file, status, module, value)
		}
	}
	fmt.Println()

	// Basic statistics sheet
	fmt.Println("═══════════════════════════════════════")
	fmt.Println("  Basic Statistics")
	fmt.Println("═══════════════════════════════════════")
	for row := 2; row <= 8; row++ {
		file, _ := f.GetCellValue("Basic Statistics", fmt.Sprintf("A%d", row))
		fastq, _ := f.GetCellValue("Basic Statistics", fmt.Sprintf("C%d", row))
		total, _ := f.GetCellValue("Basic Statistics", fmt.Sprintf("F%d", row))
		gc, _ := f.GetCellValue("Basic Statistics", fmt.Sprintf("H%d", row))
		verdict, _ := f.GetCellValue("Basic Statistics", fmt.Sprintf("I%d", row))
		if file != "" {
			fmt.Printf("  %-24s %-24s Seqs:%-8s GC:%-4s %s\n", file, fastq, total, gc, verdict)
		}
	}
	fmt.Println()
	fmt.Println("✅ Excel report verified!")
	fmt.Println("   Open sample_qc_report.xlsx in Excel/LibreOffice to check the styling")
}

func columnName(index int) string {
	result := ""
	for index > 0 {
		index--
		result = string(rune('A'+index%26)) + result
		index /= 26
	}
	return result
}
