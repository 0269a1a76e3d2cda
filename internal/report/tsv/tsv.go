// Package tsv exports module tables as tab-separated values.
package tsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"ngsreports/internal/model"
)

// Write renders the table as TSV: a header row of column names followed by
// one record per table row. Cells keep their original report text.
func Write(w io.Writer, table *model.Table) error {
	if table == nil {
		return fmt.Errorf("table is nil")
	}

	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, table.NumCols())
	for _, row := range table.Rows {
		for i, v := range row {
			record[i] = v.String()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the table to path, appending a .tsv extension when the
// path has none.
func WriteFile(path string, table *model.Table) error {
	if !strings.HasSuffix(path, ".tsv") {
		path += ".tsv"
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create TSV file: %w", err)
	}
	defer f.Close()

	return Write(f, table)
}
