package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngsreports/internal/model"
)

// ===== StatusFor Tests =====

func TestStatusFor(t *testing.T) {
	const (
		warn = 25.0
		fail = 20.0
	)

	tests := []struct {
		name  string
		value float64
		want  model.Status
	}{
		{name: "WellAboveWarn", value: 34.0, want: model.StatusPass},
		{name: "ExactlyWarn", value: 25.0, want: model.StatusPass},
		{name: "JustBelowWarn", value: 24.999, want: model.StatusWarn},
		{name: "BetweenCutoffs", value: 22.0, want: model.StatusWarn},
		{name: "ExactlyFail", value: 20.0, want: model.StatusWarn},
		{name: "JustBelowFail", value: 19.999, want: model.StatusFail},
		{name: "WellBelowFail", value: 2.0, want: model.StatusFail},
		{name: "NaN", value: math.NaN(), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.value, warn, fail))
		})
	}
}

// ===== ClassifyByValue Tests =====

func TestClassifyByValue(t *testing.T) {
	in := binnedTable([]binRow{
		{"a_fastqc.zip", "1", 30.0, 1, 1},
		{"a_fastqc.zip", "2", 22.0, 2, 2},
		{"a_fastqc.zip", "3", 12.0, 3, 3},
	})

	out, err := ClassifyByValue(in, "Mean", 25, 20)
	require.NoError(t, err)

	assert.Equal(t, []string{"Filename", "Base", "Mean", "Start", "End", "Status"}, out.Columns)

	statuses, err := out.Strings(StatusColumn)
	require.NoError(t, err)
	assert.Equal(t, []string{"PASS", "WARN", "FAIL"}, statuses)

	// input table is untouched
	assert.Equal(t, []string{"Filename", "Base", "Mean", "Start", "End"}, in.Columns)
	assert.Equal(t, 3, in.NumRows())
}

func TestClassifyByValue_WarnMustExceedFail(t *testing.T) {
	in := binnedTable([]binRow{{"a_fastqc.zip", "1", 30.0, 1, 1}})

	_, err := ClassifyByValue(in, "Mean", 20, 20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be greater than fail cutoff")

	_, err = ClassifyByValue(in, "Mean", 15, 20)
	require.Error(t, err)
}

func TestClassifyByValue_MissingColumn(t *testing.T) {
	in := binnedTable([]binRow{{"a_fastqc.zip", "1", 30.0, 1, 1}})

	_, err := ClassifyByValue(in, "Median", 25, 20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "Median" not found`)
}

func TestClassifyByValue_NonNumericColumn(t *testing.T) {
	in := binnedTable([]binRow{{"a_fastqc.zip", "1", 30.0, 1, 1}})

	_, err := ClassifyByValue(in, "Base", 25, 20)
	require.Error(t, err)

	var aggErr *AggregationError
	assert.ErrorAs(t, err, &aggErr)
}

// ===== SummaryStatuses Tests =====

func TestSummaryStatuses(t *testing.T) {
	a := qualityReport("a_fastqc.zip", []float64{30})
	a.Sections[0].Status = model.StatusWarn
	b := qualityReport("b_fastqc.zip", []float64{34})
	bare := &model.Report{Filename: "bare_fastqc.zip"}

	c := mustCollection(t, a, b, bare)

	statuses := SummaryStatuses(c, "Per base sequence quality")
	assert.Equal(t, model.StatusWarn, statuses["a_fastqc.zip"])
	assert.Equal(t, model.StatusPass, statuses["b_fastqc.zip"])

	// absent module keeps the missing zero value, never defaults to PASS
	missing, ok := statuses["bare_fastqc.zip"]
	assert.True(t, ok)
	assert.Equal(t, model.Status(""), missing)
}
