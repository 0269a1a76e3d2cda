package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"ngsreports/internal/model"
)

// DefaultResidualDecimals is the rounding applied to residuals when the
// caller has no configured preference.
const DefaultResidualDecimals = 2

// Residuals centers every (position, metric) value on its cross-file mean to
// highlight per-file deviation from the baseline. Carry-forward expansion
// repeats whole rows, so rows whose value columns are all unchanged from the
// previous position of the same filename are dropped first; each filename's
// first position is always kept. The residual is value minus the mean of the
// deduplicated values at that (position, metric), rounded to the given
// number of decimals, so residuals at a position sum to zero up to rounding.
func Residuals(t *model.Table, valueColumns []string, decimals int) (*model.Table, error) {
	if decimals < 0 {
		return nil, &AggregationError{Msg: fmt.Sprintf("residuals: negative decimals %d", decimals)}
	}
	fileIdx, ok := t.Col(FilenameColumn)
	if !ok {
		return nil, &AggregationError{Msg: "residuals: table has no Filename column"}
	}
	startIdx, ok := t.Col(startColumn)
	if !ok {
		return nil, &AggregationError{Msg: "residuals: table has no Start column"}
	}
	if len(valueColumns) == 0 {
		return nil, &AggregationError{Msg: "residuals: no value columns given"}
	}
	valueIdx := make([]int, len(valueColumns))
	for i, name := range valueColumns {
		idx, ok := t.Col(name)
		if !ok {
			return nil, &AggregationError{Msg: fmt.Sprintf("residuals: value column %q not found", name)}
		}
		valueIdx[i] = idx
	}

	// group per filename in first-seen order, position-sorted within a file
	var fileOrder []string
	byFile := make(map[string][][]model.Value)
	for _, row := range t.Rows {
		name := row[fileIdx].String()
		if _, seen := byFile[name]; !seen {
			fileOrder = append(fileOrder, name)
		}
		byFile[name] = append(byFile[name], row)
	}

	type keptRow struct {
		row   []model.Value
		start int
	}
	var kept []keptRow

	for _, name := range fileOrder {
		rows := byFile[name]

		starts := make([]int, len(rows))
		for i, row := range rows {
			s, err := row[startIdx].Int()
			if err != nil {
				return nil, &AggregationError{Msg: fmt.Sprintf("residuals: file %s: %v", name, err)}
			}
			starts[i] = s
		}
		order := make([]int, len(rows))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool { return starts[order[a]] < starts[order[b]] })

		for pos, i := range order {
			if pos > 0 && sameValues(rows[i], rows[order[pos-1]], valueIdx) {
				continue
			}
			kept = append(kept, keptRow{row: rows[i], start: starts[i]})
		}
	}

	// cross-file mean per (position, metric) over the deduplicated rows
	samples := make(map[int][][]float64) // start -> per-metric value lists
	for _, k := range kept {
		perMetric, ok := samples[k.start]
		if !ok {
			perMetric = make([][]float64, len(valueIdx))
			samples[k.start] = perMetric
		}
		for v, idx := range valueIdx {
			f, err := k.row[idx].Float()
			if err != nil {
				return nil, &AggregationError{Msg: fmt.Sprintf("residuals: position %d: %v", k.start, err)}
			}
			if !math.IsNaN(f) {
				perMetric[v] = append(perMetric[v], f)
			}
		}
	}
	means := make(map[int][]float64, len(samples))
	for start, perMetric := range samples {
		ms := make([]float64, len(perMetric))
		for v, vals := range perMetric {
			if len(vals) == 0 {
				ms[v] = math.NaN()
				continue
			}
			ms[v] = stat.Mean(vals, nil)
		}
		means[start] = ms
	}

	types := append([]model.ColumnType(nil), t.Types...)
	for _, idx := range valueIdx {
		types[idx] = model.ColumnFloat
	}
	out := model.NewTable(t.Columns, types)

	pow := math.Pow(10, float64(decimals))
	for _, k := range kept {
		row := append([]model.Value(nil), k.row...)
		for v, idx := range valueIdx {
			f, _ := k.row[idx].Float()
			r := math.Round((f-means[k.start][v])*pow) / pow
			if r == 0 {
				r = math.Abs(r) // avoid the negative-zero rendering
			}
			raw := strconv.FormatFloat(r, 'f', decimals, 64)
			if math.IsNaN(r) {
				raw = "NaN"
			}
			row[idx] = model.Value{Type: model.ColumnFloat, Raw: raw, Num: r}
		}
		out.Rows = append(out.Rows, row)
	}

	return out, nil
}

// sameValues reports whether every value column matches between two rows,
// compared on the raw text so float formatting quirks cannot split a run.
func sameValues(a, b []model.Value, valueIdx []int) bool {
	for _, idx := range valueIdx {
		if a[idx].Raw != b[idx].Raw {
			return false
		}
	}
	return true
}
