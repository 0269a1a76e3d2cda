package analysis

import (
	"fmt"
	"math"

	"ngsreports/internal/model"
)

// StatusColumn is the column ClassifyByValue appends.
const StatusColumn = "Status"

// StatusFor classifies one value against warn/fail cutoffs: FAIL when
// value < fail, WARN when fail <= value < warn, PASS when value >= warn.
// Both boundaries use strict less-than, so a value sitting exactly on a
// cutoff lands in the stricter band below it (value == fail is WARN,
// value == warn is PASS). A NaN value has no defined quality and yields the
// missing status.
func StatusFor(value, warn, fail float64) model.Status {
	switch {
	case math.IsNaN(value):
		return ""
	case value < fail:
		return model.StatusFail
	case value < warn:
		return model.StatusWarn
	default:
		return model.StatusPass
	}
}

// ClassifyByValue appends a Status column classifying the named numeric
// column of every row against the warn/fail cutoffs, following the StatusFor
// convention. warn must be greater than fail.
func ClassifyByValue(t *model.Table, column string, warn, fail float64) (*model.Table, error) {
	if warn <= fail {
		return nil, &AggregationError{
			Msg: fmt.Sprintf("classify: warn cutoff %.2f must be greater than fail cutoff %.2f", warn, fail),
		}
	}
	idx, ok := t.Col(column)
	if !ok {
		return nil, &AggregationError{Msg: fmt.Sprintf("classify: column %q not found", column)}
	}

	columns := append(append([]string(nil), t.Columns...), StatusColumn)
	types := append(append([]model.ColumnType(nil), t.Types...), model.ColumnString)
	out := model.NewTable(columns, types)

	for i, row := range t.Rows {
		v, err := row[idx].Float()
		if err != nil {
			return nil, &AggregationError{Msg: fmt.Sprintf("classify: row %d: %v", i, err)}
		}
		status := StatusFor(v, warn, fail)

		values := make([]model.Value, 0, len(row)+1)
		values = append(values, row...)
		values = append(values, model.StringValue(string(status)))
		if err := out.AppendRow(values...); err != nil {
			return nil, &AggregationError{Msg: err.Error()}
		}
	}
	return out, nil
}

// SummaryStatuses joins each report's own summary status for the module by
// filename, in collection order. A file without the module keeps the missing
// zero value; it must never default to PASS.
func SummaryStatuses(c *Collection, module string) map[string]model.Status {
	out := make(map[string]model.Status, c.Len())
	for _, rep := range c.reports {
		out[rep.Filename] = rep.ModuleStatus(module)
	}
	return out
}
