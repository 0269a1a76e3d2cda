// Package model provides data models for the ngsreports tool.
package model

import (
	"fmt"
	"strings"
)

// DefaultLabelSuffixes are the filename suffixes stripped when deriving
// display labels, tried in order so compound suffixes win.
var DefaultLabelSuffixes = []string{
	"_fastqc.zip",
	"_fastqc",
	".fastq.gz",
	".fq.gz",
	".fastq",
	".fq",
	".txt",
}

// StripLabelSuffix removes the first matching suffix from the filename.
func StripLabelSuffix(filename string, suffixes []string) string {
	for _, suffix := range suffixes {
		if strings.HasSuffix(filename, suffix) {
			return strings.TrimSuffix(filename, suffix)
		}
	}
	return filename
}

// Labels maps filenames to display labels. The mapping is one-to-one: two
// filenames may not share a label.
type Labels map[string]string

// NewLabels derives labels for the given filenames, stripping the first
// matching suffix unless an explicit override is provided. Colliding labels
// are an error the caller resolves with overrides.
func NewLabels(filenames []string, suffixes []string, overrides map[string]string) (Labels, error) {
	if suffixes == nil {
		suffixes = DefaultLabelSuffixes
	}
	labels := make(Labels, len(filenames))
	seen := make(map[string]string, len(filenames))
	for _, filename := range filenames {
		label, ok := overrides[filename]
		if !ok {
			label = StripLabelSuffix(filename, suffixes)
		}
		if prev, dup := seen[label]; dup {
			return nil, fmt.Errorf("label %q maps to both %q and %q", label, prev, filename)
		}
		seen[label] = filename
		labels[filename] = label
	}
	return labels, nil
}

// Get returns the label for a filename.
func (l Labels) Get(filename string) (string, bool) {
	label, ok := l[filename]
	return label, ok
}

// Apply relabels the Filename column of a table, returning a new table.
// Rows whose filename has no label entry are dropped.
func (l Labels) Apply(t *Table) (*Table, int) {
	idx, ok := t.Col("Filename")
	if !ok {
		return t.Clone(), 0
	}
	out := NewTable(t.Columns, t.Types)
	dropped := 0
	for _, row := range t.Rows {
		label, ok := l[row[idx].String()]
		if !ok {
			dropped++
			continue
		}
		newRow := append([]Value(nil), row...)
		newRow[idx] = StringValue(label)
		out.Rows = append(out.Rows, newRow)
	}
	return out, dropped
}
