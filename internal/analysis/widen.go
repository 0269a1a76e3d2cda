package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"ngsreports/internal/model"
)

// Widen pivots an aggregated module table into a dense matrix for
// clustering: one row per filename in first-seen order, one column per
// (key, metric) pair with keys in first-seen order. Every filename must
// cover the identical key set; ragged coverage has no consistent join and
// raises an AggregationError.
func Widen(t *model.Table, keyColumn string, valueColumns []string) (*mat.Dense, []string, error) {
	fileIdx, ok := t.Col(FilenameColumn)
	if !ok {
		return nil, nil, &AggregationError{Msg: "widen: table has no Filename column"}
	}
	keyIdx, ok := t.Col(keyColumn)
	if !ok {
		return nil, nil, &AggregationError{Msg: fmt.Sprintf("widen: key column %q not found", keyColumn)}
	}
	if len(valueColumns) == 0 {
		return nil, nil, &AggregationError{Msg: "widen: no value columns given"}
	}
	valueIdx := make([]int, len(valueColumns))
	for i, name := range valueColumns {
		idx, ok := t.Col(name)
		if !ok {
			return nil, nil, &AggregationError{Msg: fmt.Sprintf("widen: value column %q not found", name)}
		}
		valueIdx[i] = idx
	}

	var files []string
	var keys []string
	cells := make(map[string]map[string][]model.Value) // file -> key -> values
	keySeen := make(map[string]bool)

	for _, row := range t.Rows {
		file := row[fileIdx].String()
		key := row[keyIdx].String()

		if _, seen := cells[file]; !seen {
			files = append(files, file)
			cells[file] = make(map[string][]model.Value)
		}
		if !keySeen[key] {
			keySeen[key] = true
			keys = append(keys, key)
		}
		if _, dup := cells[file][key]; dup {
			return nil, nil, &AggregationError{
				Msg: fmt.Sprintf("widen: file %s has two rows for key %q", file, key),
			}
		}
		cells[file][key] = row
	}

	if len(files) == 0 {
		return nil, nil, &AggregationError{Msg: "widen: table has no rows"}
	}

	m := mat.NewDense(len(files), len(keys)*len(valueColumns), nil)
	for r, file := range files {
		rows := cells[file]
		if len(rows) != len(keys) {
			return nil, nil, &AggregationError{
				Msg: fmt.Sprintf("widen: file %s covers %d of %d keys", file, len(rows), len(keys)),
			}
		}
		for k, key := range keys {
			row, ok := rows[key]
			if !ok {
				return nil, nil, &AggregationError{
					Msg: fmt.Sprintf("widen: file %s has no row for key %q", file, key),
				}
			}
			for v, idx := range valueIdx {
				f, err := row[idx].Float()
				if err != nil {
					return nil, nil, &AggregationError{
						Msg: fmt.Sprintf("widen: file %s key %q: %v", file, key, err),
					}
				}
				m.Set(r, k*len(valueColumns)+v, f)
			}
		}
	}

	return m, files, nil
}
