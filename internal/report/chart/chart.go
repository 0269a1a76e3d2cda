// Package chart emits chart documents: a declarative spec paired with its
// prepared data table, serialised as JSON for an external plotting
// collaborator. No rendering happens here.
package chart

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"ngsreports/internal/model"
)

// Document pairs a chart spec with the table it plots. Rows keep JSON number
// typing for numeric columns so the renderer does not re-parse cell text.
type Document struct {
	Spec    *model.ChartSpec `json:"spec"`
	Columns []string         `json:"columns"`
	Rows    [][]any          `json:"rows"`
}

// NewDocument prepares a chart document from a spec and its prepared table.
func NewDocument(spec *model.ChartSpec, table *model.Table) (*Document, error) {
	if spec == nil {
		return nil, fmt.Errorf("chart spec is nil")
	}
	if table == nil {
		return nil, fmt.Errorf("chart table is nil")
	}

	rows := make([][]any, 0, table.NumRows())
	for _, row := range table.Rows {
		cells := make([]any, len(row))
		for i, v := range row {
			if v.IsNumeric() {
				cells[i] = v.Num
			} else {
				cells[i] = v.Raw
			}
		}
		rows = append(rows, cells)
	}

	return &Document{Spec: spec, Columns: table.Columns, Rows: rows}, nil
}

// WriteJSON renders the document as indented JSON.
func (d *Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode chart document: %w", err)
	}
	return nil
}

// WriteFile writes the document to path, appending a .json extension when
// the path has none.
func (d *Document) WriteFile(path string) error {
	if !strings.HasSuffix(path, ".json") {
		path += ".json"
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	return d.WriteJSON(f)
}
