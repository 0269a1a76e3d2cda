// Package fasta exports overrepresented sequences from aggregated FastQC
// data as FASTA records.
package fasta

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"ngsreports/internal/model"
)

// ModuleName is the FastQC module the export reads from.
const ModuleName = "Overrepresented sequences"

// Column names of the aggregated Overrepresented sequences table.
const (
	filenameColumn   = "Filename"
	sequenceColumn   = "Sequence"
	percentageColumn = "Percentage"
	sourceColumn     = "Possible Source"
)

// Sequence is one overrepresented-sequence record prepared for export.
type Sequence struct {
	Label      string
	Sequence   string
	Source     string
	Percentage float64
}

// Options control which records FromTable keeps.
type Options struct {
	Count           int  // maximum number of records, zero or negative keeps all
	ExcludeAdapters bool // drop records whose source names an adapter or primer
}

// FromTable prepares export records from an aggregated Overrepresented
// sequences table: optionally relabelled, filtered, sorted by percentage
// descending and truncated to opts.Count. Percentage ties order by label
// then sequence so the output is stable across runs.
func FromTable(table *model.Table, labels model.Labels, opts Options) ([]*Sequence, error) {
	if table == nil {
		return nil, fmt.Errorf("overrepresented sequences table is nil")
	}
	if !table.HasColumn(sequenceColumn) {
		return nil, fmt.Errorf("table has no %q column", sequenceColumn)
	}
	if !table.HasColumn(percentageColumn) {
		return nil, fmt.Errorf("table has no %q column", percentageColumn)
	}

	records := make([]*Sequence, 0, table.NumRows())
	for i := 0; i < table.NumRows(); i++ {
		seq, err := table.Cell(i, sequenceColumn)
		if err != nil {
			return nil, err
		}
		pctCell, err := table.Cell(i, percentageColumn)
		if err != nil {
			return nil, err
		}
		pct, err := pctCell.Float()
		if err != nil {
			return nil, fmt.Errorf("row %d: bad percentage: %w", i, err)
		}

		record := &Sequence{Sequence: seq.String(), Percentage: pct}
		if table.HasColumn(sourceColumn) {
			src, err := table.Cell(i, sourceColumn)
			if err != nil {
				return nil, err
			}
			record.Source = src.String()
		}
		if table.HasColumn(filenameColumn) {
			name, err := table.Cell(i, filenameColumn)
			if err != nil {
				return nil, err
			}
			record.Label = name.String()
			if label, ok := labels.Get(record.Label); ok {
				record.Label = label
			}
		}

		if opts.ExcludeAdapters && isAdapter(record.Source) {
			continue
		}
		records = append(records, record)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Percentage != records[j].Percentage {
			return records[i].Percentage > records[j].Percentage
		}
		if records[i].Label != records[j].Label {
			return records[i].Label < records[j].Label
		}
		return records[i].Sequence < records[j].Sequence
	})

	if opts.Count > 0 && len(records) > opts.Count {
		records = records[:opts.Count]
	}
	return records, nil
}

// Header renders the FASTA description line, without the leading '>'.
func (s *Sequence) Header() string {
	header := s.Label
	if header == "" {
		header = "overrepresented"
	}
	header += " " + strconv.FormatFloat(s.Percentage, 'f', -1, 64) + "%"
	if s.Source != "" {
		header += " " + s.Source
	}
	return header
}

// Write renders the records as two-line FASTA entries.
func Write(w io.Writer, sequences []*Sequence) error {
	for _, seq := range sequences {
		if _, err := fmt.Fprintf(w, ">%s\n%s\n", seq.Header(), seq.Sequence); err != nil {
			return fmt.Errorf("failed to write FASTA record: %w", err)
		}
	}
	return nil
}

// WriteFile writes the records to path, appending a .fasta extension when
// the path has neither .fasta nor .fa.
func WriteFile(path string, sequences []*Sequence) error {
	if !strings.HasSuffix(path, ".fasta") && !strings.HasSuffix(path, ".fa") {
		path += ".fasta"
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create FASTA file: %w", err)
	}
	defer f.Close()

	return Write(f, sequences)
}

// isAdapter reports whether a Possible Source annotation names an adapter or
// primer match.
func isAdapter(source string) bool {
	lower := strings.ToLower(source)
	return strings.Contains(lower, "adapter") || strings.Contains(lower, "primer")
}
