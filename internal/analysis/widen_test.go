package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngsreports/internal/model"
)

// ===== Widen Tests =====

func TestWiden(t *testing.T) {
	in := binnedTable([]binRow{
		{"a_fastqc.zip", "1", 30.0, 1, 1},
		{"a_fastqc.zip", "2", 32.0, 2, 2},
		{"a_fastqc.zip", "3", 28.0, 3, 3},
		{"b_fastqc.zip", "1", 34.0, 1, 1},
		{"b_fastqc.zip", "2", 30.0, 2, 2},
		{"b_fastqc.zip", "3", 26.0, 3, 3},
	})

	m, files, err := Widen(in, "Base", []string{"Mean"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a_fastqc.zip", "b_fastqc.zip"}, files)

	rows, cols := m.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)

	assert.Equal(t, 30.0, m.At(0, 0))
	assert.Equal(t, 32.0, m.At(0, 1))
	assert.Equal(t, 28.0, m.At(0, 2))
	assert.Equal(t, 34.0, m.At(1, 0))
	assert.Equal(t, 26.0, m.At(1, 2))
}

func TestWiden_MultipleValueColumns(t *testing.T) {
	in := model.NewTable(
		[]string{"Filename", "Base", "G", "A"},
		[]model.ColumnType{model.ColumnString, model.ColumnString, model.ColumnFloat, model.ColumnFloat},
	)
	rows := []struct {
		file string
		base string
		g, a float64
	}{
		{"a_fastqc.zip", "1", 25.0, 24.0},
		{"a_fastqc.zip", "2", 26.0, 23.0},
		{"b_fastqc.zip", "1", 50.0, 10.0},
		{"b_fastqc.zip", "2", 51.0, 9.0},
	}
	for _, r := range rows {
		_ = in.AppendRow(
			model.StringValue(r.file),
			model.StringValue(r.base),
			model.FloatValue(r.g),
			model.FloatValue(r.a),
		)
	}

	m, files, err := Widen(in, "Base", []string{"G", "A"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a_fastqc.zip", "b_fastqc.zip"}, files)

	_, cols := m.Dims()
	assert.Equal(t, 4, cols) // 2 keys x 2 metrics

	// columns interleave per key: (key1,G), (key1,A), (key2,G), (key2,A)
	assert.Equal(t, 25.0, m.At(0, 0))
	assert.Equal(t, 24.0, m.At(0, 1))
	assert.Equal(t, 51.0, m.At(1, 2))
	assert.Equal(t, 9.0, m.At(1, 3))
}

func TestWiden_RaggedCoverage(t *testing.T) {
	in := binnedTable([]binRow{
		{"a_fastqc.zip", "1", 30.0, 1, 1},
		{"a_fastqc.zip", "2", 32.0, 2, 2},
		{"b_fastqc.zip", "1", 34.0, 1, 1},
	})

	_, _, err := Widen(in, "Base", []string{"Mean"})
	require.Error(t, err)

	var aggErr *AggregationError
	require.ErrorAs(t, err, &aggErr)
	assert.Contains(t, err.Error(), "b_fastqc.zip")
	assert.Contains(t, err.Error(), "covers 1 of 2 keys")
}

func TestWiden_DuplicateKey(t *testing.T) {
	in := binnedTable([]binRow{
		{"a_fastqc.zip", "1", 30.0, 1, 1},
		{"a_fastqc.zip", "1", 31.0, 1, 1},
	})

	_, _, err := Widen(in, "Base", []string{"Mean"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `two rows for key "1"`)
}

func TestWiden_Errors(t *testing.T) {
	in := binnedTable([]binRow{{"a_fastqc.zip", "1", 30.0, 1, 1}})

	_, _, err := Widen(in, "Tile", []string{"Mean"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `key column "Tile" not found`)

	_, _, err = Widen(in, "Base", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no value columns")

	_, _, err = Widen(in, "Base", []string{"Median"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `value column "Median" not found`)

	empty := model.NewTable([]string{"Filename", "Base", "Mean"}, nil)
	_, _, err = Widen(empty, "Base", []string{"Mean"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rows")
}
