package trimlog

import (
	"fmt"
	"regexp"
	"strings"

	"ngsreports/internal/model"
)

// Completion lines Trimmomatic prints on stderr when a run finishes.
var (
	trimmomaticSE = regexp.MustCompile(`^Input Reads: (\d+) Surviving: (\d+) \(([0-9.]+)%\) Dropped: (\d+) \(([0-9.]+)%\)$`)
	trimmomaticPE = regexp.MustCompile(`^Input Read Pairs: (\d+) Both Surviving: (\d+) \(([0-9.]+)%\) Forward Only Surviving: (\d+) \(([0-9.]+)%\) Reverse Only Surviving: (\d+) \(([0-9.]+)%\) Dropped: (\d+) \(([0-9.]+)%\)$`)
)

var (
	trimmomaticSEColumns = []string{
		"Mode", "Input Reads", "Surviving", "Surviving Percent", "Dropped", "Dropped Percent",
	}
	trimmomaticSETypes = []model.ColumnType{
		model.ColumnString, model.ColumnInt, model.ColumnInt, model.ColumnFloat, model.ColumnInt, model.ColumnFloat,
	}
	trimmomaticPEColumns = []string{
		"Mode", "Input Read Pairs",
		"Both Surviving", "Both Surviving Percent",
		"Forward Only Surviving", "Forward Only Surviving Percent",
		"Reverse Only Surviving", "Reverse Only Surviving Percent",
		"Dropped", "Dropped Percent",
	}
	trimmomaticPETypes = []model.ColumnType{
		model.ColumnString, model.ColumnInt,
		model.ColumnInt, model.ColumnFloat,
		model.ColumnInt, model.ColumnFloat,
		model.ColumnInt, model.ColumnFloat,
		model.ColumnInt, model.ColumnFloat,
	}
)

// ParseTrimmomatic parses the completion summary of a Trimmomatic run into a
// one-row table. The run mode comes from the "TrimmomaticSE: Started" or
// "TrimmomaticPE: Started" banner; when the banner is missing, whichever
// completion line matches decides. Single-end and paired-end runs yield
// different column sets.
func ParseTrimmomatic(lines []string) (*model.Table, error) {
	mode := ""
	for _, line := range lines {
		if strings.HasPrefix(line, "TrimmomaticSE: Started") {
			mode = "SE"
			break
		}
		if strings.HasPrefix(line, "TrimmomaticPE: Started") {
			mode = "PE"
			break
		}
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if mode != "PE" {
			if m := trimmomaticSE.FindStringSubmatch(line); m != nil {
				return trimmomaticTable("SE", m[1:], trimmomaticSEColumns, trimmomaticSETypes)
			}
		}
		if mode != "SE" {
			if m := trimmomaticPE.FindStringSubmatch(line); m != nil {
				return trimmomaticTable("PE", m[1:], trimmomaticPEColumns, trimmomaticPETypes)
			}
		}
	}

	if mode != "" {
		return nil, fmt.Errorf("Trimmomatic%s log has no completion line", mode)
	}
	return nil, fmt.Errorf("no Trimmomatic completion line found")
}

func trimmomaticTable(mode string, fields []string, columns []string, types []model.ColumnType) (*model.Table, error) {
	t := model.NewTable(columns, types)

	values := make([]model.Value, 0, len(columns))
	values = append(values, model.StringValue(mode))
	for i, raw := range fields {
		v, err := parseNumeric(raw, types[i+1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", columns[i+1], err)
		}
		values = append(values, v)
	}

	if err := t.AppendRow(values...); err != nil {
		return nil, err
	}
	return t, nil
}
