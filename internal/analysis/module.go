package analysis

import (
	"fmt"

	"ngsreports/internal/model"
)

// GetModule concatenates the named module's table across every report that
// carries it, in collection order, prepending a Filename column. Reports
// without the module contribute nothing. When no report has the module the
// result is a ModuleNotFoundError; contributing tables that disagree on
// columns make concatenation ill-defined and raise an AggregationError.
func GetModule(c *Collection, module string) (*model.Table, error) {
	var out *model.Table
	found := false

	for _, rep := range c.reports {
		sec, ok := rep.Module(module)
		if !ok {
			continue
		}
		found = true

		t := sec.Table
		if t == nil || t.NumCols() == 0 {
			// header-less empty module, nothing to contribute
			continue
		}

		if out == nil {
			columns := append([]string{FilenameColumn}, t.Columns...)
			types := append([]model.ColumnType{model.ColumnString}, t.Types...)
			out = model.NewTable(columns, types)
		} else if !sameColumns(out.Columns[1:], t.Columns) {
			return nil, &AggregationError{
				Module: module,
				Msg:    fmt.Sprintf("report %s has columns %v, earlier reports have %v", rep.Filename, t.Columns, out.Columns[1:]),
			}
		}

		for _, row := range t.Rows {
			values := make([]model.Value, 0, len(row)+1)
			values = append(values, model.StringValue(rep.Filename))
			values = append(values, row...)
			if err := out.AppendRow(values...); err != nil {
				return nil, &AggregationError{Module: module, Msg: err.Error()}
			}
		}
	}

	if !found {
		return nil, &ModuleNotFoundError{Module: module}
	}
	if out == nil {
		// present everywhere but always empty
		return model.NewTable([]string{FilenameColumn}, nil), nil
	}
	return out, nil
}

// GetModuleScalars collects a named per-module scalar annotation (e.g.
// "Total Deduplicated Percentage") by filename, in collection order. Files
// whose module or scalar is absent are skipped; a ModuleNotFoundError is
// returned when nothing carries it.
func GetModuleScalars(c *Collection, module, scalar string) (*model.Table, error) {
	out := model.NewTable(
		[]string{FilenameColumn, scalar},
		[]model.ColumnType{model.ColumnString, model.ColumnFloat},
	)
	found := false

	for _, rep := range c.reports {
		sec, ok := rep.Module(module)
		if !ok {
			continue
		}
		found = true
		v, ok := sec.Scalars[scalar]
		if !ok {
			continue
		}
		if err := out.AppendRow(model.StringValue(rep.Filename), model.FloatValue(v)); err != nil {
			return nil, &AggregationError{Module: module, Msg: err.Error()}
		}
	}

	if !found {
		return nil, &ModuleNotFoundError{Module: module}
	}
	return out, nil
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i, c := range a {
		if b[i] != c {
			return false
		}
	}
	return true
}
