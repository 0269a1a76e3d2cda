package analysis

import (
	"fmt"
	"sort"
	"strconv"

	"ngsreports/internal/model"
)

const (
	startColumn = "Start"
	endColumn   = "End"
)

// positionLabels are the raw range columns a positional table may carry
// beside the derived Start/End pair.
var positionLabels = []string{"Base", "Position", "Length"}

// ExpandBins fills the binned positions of an aggregated positional table
// into one row per integer position, per filename. FastQC only writes a row
// when its log-scale display threshold is crossed, so later positions are
// under-sampled; the true metric is assumed piecewise-constant within a bin
// and missing positions take the last observed row's values (carry-forward).
// Metric values are never invented, only repeated; the position columns are
// rewritten to the single positions they now describe. Expanding an already
// dense table returns an identical copy.
func ExpandBins(t *model.Table) (*model.Table, error) {
	fileIdx, ok := t.Col(FilenameColumn)
	if !ok {
		return nil, &AggregationError{Msg: "expand: table has no Filename column"}
	}
	startIdx, ok := t.Col(startColumn)
	if !ok {
		return nil, &AggregationError{Msg: "expand: table has no Start column"}
	}
	endIdx, ok := t.Col(endColumn)
	if !ok {
		return nil, &AggregationError{Msg: "expand: table has no End column"}
	}
	labelIdx := -1
	for _, name := range positionLabels {
		if idx, ok := t.Col(name); ok {
			labelIdx = idx
			break
		}
	}

	// group rows per filename, preserving first-seen file order
	var fileOrder []string
	byFile := make(map[string][][]model.Value)
	for _, row := range t.Rows {
		name := row[fileIdx].String()
		if _, seen := byFile[name]; !seen {
			fileOrder = append(fileOrder, name)
		}
		byFile[name] = append(byFile[name], row)
	}

	out := model.NewTable(t.Columns, t.Types)
	for _, name := range fileOrder {
		rows := byFile[name]

		starts := make([]int, len(rows))
		ends := make([]int, len(rows))
		for i, row := range rows {
			s, err := row[startIdx].Int()
			if err != nil {
				return nil, &AggregationError{Msg: fmt.Sprintf("expand: file %s: %v", name, err)}
			}
			e, err := row[endIdx].Int()
			if err != nil {
				return nil, &AggregationError{Msg: fmt.Sprintf("expand: file %s: %v", name, err)}
			}
			starts[i], ends[i] = s, e
		}

		order := make([]int, len(rows))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool { return starts[order[a]] < starts[order[b]] })

		for i := 1; i < len(order); i++ {
			if starts[order[i]] == starts[order[i-1]] {
				return nil, &AggregationError{
					Msg: fmt.Sprintf("expand: file %s has two rows starting at position %d", name, starts[order[i]]),
				}
			}
		}

		minPos := starts[order[0]]
		maxPos := ends[order[0]]
		for _, i := range order {
			if ends[i] > maxPos {
				maxPos = ends[i]
			}
		}

		cur := 0
		for p := minPos; p <= maxPos; p++ {
			for cur+1 < len(order) && starts[order[cur+1]] <= p {
				cur++
			}
			src := rows[order[cur]]

			row := append([]model.Value(nil), src...)
			row[startIdx] = model.IntValue(p)
			row[endIdx] = model.IntValue(p)
			if labelIdx >= 0 {
				row[labelIdx] = model.StringValue(strconv.Itoa(p))
			}
			out.Rows = append(out.Rows, row)
		}
	}

	return out, nil
}
