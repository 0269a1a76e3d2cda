package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngsreports/internal/model"
)

// ===== Test Helpers =====

type binRow struct {
	file       string
	label      string
	mean       float64
	start, end int
}

func binnedTable(rows []binRow) *model.Table {
	t := model.NewTable(
		[]string{"Filename", "Base", "Mean", "Start", "End"},
		[]model.ColumnType{model.ColumnString, model.ColumnString, model.ColumnFloat, model.ColumnInt, model.ColumnInt},
	)
	for _, r := range rows {
		_ = t.AppendRow(
			model.StringValue(r.file),
			model.StringValue(r.label),
			model.FloatValue(r.mean),
			model.IntValue(r.start),
			model.IntValue(r.end),
		)
	}
	return t
}

// ===== ExpandBins Tests =====

func TestExpandBins_FillsBinnedPositions(t *testing.T) {
	in := binnedTable([]binRow{
		{"a_fastqc.zip", "1", 30.0, 1, 1},
		{"a_fastqc.zip", "2", 32.0, 2, 2},
		{"a_fastqc.zip", "3-5", 28.0, 3, 5},
		{"a_fastqc.zip", "6-9", 27.5, 6, 9},
	})

	out, err := ExpandBins(in)
	require.NoError(t, err)
	require.Equal(t, 9, out.NumRows())

	starts, err := out.Floats("Start")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}, starts)

	means, err := out.Floats("Mean")
	require.NoError(t, err)
	assert.Equal(t, []float64{30, 32, 28, 28, 28, 27.5, 27.5, 27.5, 27.5}, means)

	// position columns describe the single expanded position
	base, err := out.Cell(3, "Base")
	require.NoError(t, err)
	assert.Equal(t, "4", base.Raw)
	end, err := out.Cell(3, "End")
	require.NoError(t, err)
	assert.Equal(t, float64(4), end.Num)
}

func TestExpandBins_Idempotent(t *testing.T) {
	in := binnedTable([]binRow{
		{"a_fastqc.zip", "1", 30.0, 1, 1},
		{"a_fastqc.zip", "2-4", 32.0, 2, 4},
	})

	once, err := ExpandBins(in)
	require.NoError(t, err)
	twice, err := ExpandBins(once)
	require.NoError(t, err)

	assert.Equal(t, once.Rows, twice.Rows)
	assert.Equal(t, once.Columns, twice.Columns)
}

func TestExpandBins_NeverInventsValues(t *testing.T) {
	in := binnedTable([]binRow{
		{"a_fastqc.zip", "1", 31.2, 1, 1},
		{"a_fastqc.zip", "2-9", 29.8, 2, 9},
		{"a_fastqc.zip", "10-49", 27.1, 10, 49},
	})

	out, err := ExpandBins(in)
	require.NoError(t, err)

	observed := map[float64]bool{31.2: true, 29.8: true, 27.1: true}
	means, err := out.Floats("Mean")
	require.NoError(t, err)
	for _, m := range means {
		assert.True(t, observed[m], "carry-forward introduced value %v", m)
	}
}

func TestExpandBins_PerFilename(t *testing.T) {
	in := binnedTable([]binRow{
		{"a_fastqc.zip", "1", 30.0, 1, 1},
		{"a_fastqc.zip", "2-3", 28.0, 2, 3},
		{"b_fastqc.zip", "1", 35.0, 1, 1},
		{"b_fastqc.zip", "2-5", 33.0, 2, 5},
	})

	out, err := ExpandBins(in)
	require.NoError(t, err)

	files, err := out.Strings(FilenameColumn)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"a_fastqc.zip", "a_fastqc.zip", "a_fastqc.zip",
		"b_fastqc.zip", "b_fastqc.zip", "b_fastqc.zip", "b_fastqc.zip", "b_fastqc.zip",
	}, files)

	means, err := out.Floats("Mean")
	require.NoError(t, err)
	assert.Equal(t, []float64{30, 28, 28, 35, 33, 33, 33, 33}, means)
}

func TestExpandBins_SortsBeforeFilling(t *testing.T) {
	// rows arrive out of position order; expansion must sort, not trust input
	in := binnedTable([]binRow{
		{"a_fastqc.zip", "3-4", 28.0, 3, 4},
		{"a_fastqc.zip", "1-2", 30.0, 1, 2},
	})

	out, err := ExpandBins(in)
	require.NoError(t, err)

	means, err := out.Floats("Mean")
	require.NoError(t, err)
	assert.Equal(t, []float64{30, 30, 28, 28}, means)
}

func TestExpandBins_Errors(t *testing.T) {
	tests := []struct {
		name     string
		table    *model.Table
		contains string
	}{
		{
			name:     "NoFilenameColumn",
			table:    model.NewTable([]string{"Start", "End"}, nil),
			contains: "no Filename column",
		},
		{
			name:     "NoStartColumn",
			table:    model.NewTable([]string{"Filename", "End"}, nil),
			contains: "no Start column",
		},
		{
			name: "DuplicateStart",
			table: binnedTable([]binRow{
				{"a_fastqc.zip", "1-2", 30.0, 1, 2},
				{"a_fastqc.zip", "1", 29.0, 1, 1},
			}),
			contains: "two rows starting at position 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExpandBins(tt.table)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)

			var aggErr *AggregationError
			assert.ErrorAs(t, err, &aggErr)
		})
	}
}
