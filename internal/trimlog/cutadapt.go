package trimlog

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"ngsreports/internal/model"
)

const summaryHeader = "=== Summary ==="

// summaryLine matches one counter inside the Summary block, e.g.
//
//	Reads with adapters:                    78,694 (7.9%)
//	Total basepairs processed: 1,000,000,000 bp
var summaryLine = regexp.MustCompile(`^\s*([^:]+):\s+([\d,]+)(?:\s+bp)?(?:\s+\(([0-9.]+)%\))?\s*$`)

// perReadLabel marks the indented per-read breakdown of a paired-end total
// ("Read 1:", "Read 2:"), which repeats what the total line already carries.
var perReadLabel = regexp.MustCompile(`^Read [12]$`)

// ParseCutadapt parses the "=== Summary ===" block of a cutadapt report into
// a tall Measure/Count/Percent table, one counter per row in log order.
// Thousands separators are stripped; counters without a percentage carry an
// empty Percent cell. Paired-end reports keep their pair-level counters while
// the per-read breakdown rows of basepair totals are dropped.
func ParseCutadapt(lines []string) (*model.Table, error) {
	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == summaryHeader {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("no %s block found", summaryHeader)
	}

	t := model.NewTable(
		[]string{"Measure", "Count", "Percent"},
		[]model.ColumnType{model.ColumnString, model.ColumnInt, model.ColumnFloat},
	)

	for i, line := range lines[start:] {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "===") {
			break // next report section (adapter details)
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "==") {
			continue // blank or sub-header like "== Read fate breakdown =="
		}

		m := summaryLine.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("summary line %d: unrecognised %q", start+i+1, trimmed)
		}
		measure := strings.TrimSpace(m[1])
		if perReadLabel.MatchString(measure) {
			continue
		}

		count, err := strconv.Atoi(strings.ReplaceAll(m[2], ",", ""))
		if err != nil {
			return nil, fmt.Errorf("summary line %d: invalid count %q", start+i+1, m[2])
		}

		percent := model.Value{Type: model.ColumnFloat, Raw: "", Num: math.NaN()}
		if m[3] != "" {
			p, err := strconv.ParseFloat(m[3], 64)
			if err != nil {
				return nil, fmt.Errorf("summary line %d: invalid percentage %q", start+i+1, m[3])
			}
			percent = model.Value{Type: model.ColumnFloat, Raw: m[3], Num: p}
		}

		err = t.AppendRow(
			model.StringValue(measure),
			model.Value{Type: model.ColumnInt, Raw: m[2], Num: float64(count)},
			percent,
		)
		if err != nil {
			return nil, err
		}
	}

	if t.NumRows() == 0 {
		return nil, fmt.Errorf("%s block carries no counters", summaryHeader)
	}
	return t, nil
}
