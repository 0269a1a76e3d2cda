// Package model provides data models for the ngsreports tool.
package model

import (
	"fmt"
	"strconv"
)

// ColumnType describes how cells in a column are typed.
type ColumnType string

const (
	ColumnString ColumnType = "string"
	ColumnInt    ColumnType = "int"
	ColumnFloat  ColumnType = "float"
)

// Value is a single table cell. Raw preserves the text exactly as parsed so
// exports can round-trip the source formatting; Num carries the parsed number
// for int/float cells.
type Value struct {
	Type ColumnType `json:"type"`
	Raw  string     `json:"raw"`
	Num  float64    `json:"num,omitempty"`
}

// StringValue creates a string cell.
func StringValue(s string) Value {
	return Value{Type: ColumnString, Raw: s}
}

// IntValue creates an integer cell.
func IntValue(i int) Value {
	return Value{Type: ColumnInt, Raw: strconv.Itoa(i), Num: float64(i)}
}

// FloatValue creates a float cell.
func FloatValue(f float64) Value {
	return Value{Type: ColumnFloat, Raw: strconv.FormatFloat(f, 'f', -1, 64), Num: f}
}

// String returns the display form of the cell.
func (v Value) String() string {
	return v.Raw
}

// Float returns the numeric value of the cell, or an error for string cells.
func (v Value) Float() (float64, error) {
	if v.Type == ColumnString {
		return 0, fmt.Errorf("cell %q is not numeric", v.Raw)
	}
	return v.Num, nil
}

// Int returns the cell as an int, truncating float cells.
func (v Value) Int() (int, error) {
	f, err := v.Float()
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// IsNumeric returns true for int and float cells.
func (v Value) IsNumeric() bool {
	return v.Type == ColumnInt || v.Type == ColumnFloat
}

// Table is an ordered-column, row-major data table. Tables are treated as
// read-only once built: every reshaping operation returns a new Table.
type Table struct {
	Columns []string     `json:"columns"`
	Types   []ColumnType `json:"types"`
	Rows    [][]Value    `json:"rows"`
}

// NewTable creates an empty table with the given columns. When types is nil
// every column defaults to string.
func NewTable(columns []string, types []ColumnType) *Table {
	if types == nil {
		types = make([]ColumnType, len(columns))
		for i := range types {
			types[i] = ColumnString
		}
	}
	return &Table{
		Columns: append([]string(nil), columns...),
		Types:   append([]ColumnType(nil), types...),
		Rows:    make([][]Value, 0),
	}
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.Columns)
}

// Col returns the index of the named column.
func (t *Table) Col(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// HasColumn returns true if the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Col(name)
	return ok
}

// AppendRow adds a row, which must match the column count.
func (t *Table) AppendRow(values ...Value) error {
	if len(values) != len(t.Columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(values), len(t.Columns))
	}
	t.Rows = append(t.Rows, values)
	return nil
}

// Cell returns the value at (row, named column).
func (t *Table) Cell(row int, column string) (Value, error) {
	idx, ok := t.Col(column)
	if !ok {
		return Value{}, fmt.Errorf("column %q not found", column)
	}
	if row < 0 || row >= len(t.Rows) {
		return Value{}, fmt.Errorf("row %d out of range (%d rows)", row, len(t.Rows))
	}
	return t.Rows[row][idx], nil
}

// Floats extracts the named column as float64 values, erroring on the first
// non-numeric cell.
func (t *Table) Floats(column string) ([]float64, error) {
	idx, ok := t.Col(column)
	if !ok {
		return nil, fmt.Errorf("column %q not found", column)
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		f, err := row[idx].Float()
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", column, i, err)
		}
		out[i] = f
	}
	return out, nil
}

// Strings extracts the named column in display form.
func (t *Table) Strings(column string) ([]string, error) {
	idx, ok := t.Col(column)
	if !ok {
		return nil, fmt.Errorf("column %q not found", column)
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx].String()
	}
	return out, nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := NewTable(t.Columns, t.Types)
	out.Rows = make([][]Value, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = append([]Value(nil), row...)
	}
	return out
}

// SameColumns reports whether the other table has identical column names and
// order. Aggregation requires matching shapes before concatenation.
func (t *Table) SameColumns(other *Table) bool {
	if len(t.Columns) != len(other.Columns) {
		return false
	}
	for i, c := range t.Columns {
		if other.Columns[i] != c {
			return false
		}
	}
	return true
}
