// Package analysis aggregates parsed FastQC reports across files and derives
// plot-ready data: concatenated module tables, binned-position expansion,
// threshold classification, hierarchical clustering order and per-position
// residuals.
//
// Every function is pure and deterministic: inputs are never mutated, no
// partial results are returned on error, and identical inputs always produce
// identical outputs. The collection fixes the filename order before any
// concatenation, so results do not depend on parse completion order.
package analysis

import (
	"fmt"

	"ngsreports/internal/model"
)

// FilenameColumn is the column GetModule prepends to every aggregated table.
const FilenameColumn = "Filename"

// Collection is an ordered set of parsed reports, unique by filename.
type Collection struct {
	reports []*model.Report
	byName  map[string]*model.Report
}

// NewCollection builds a collection preserving the given report order.
// Duplicate filenames are an input error.
func NewCollection(reports ...*model.Report) (*Collection, error) {
	c := &Collection{
		reports: make([]*model.Report, 0, len(reports)),
		byName:  make(map[string]*model.Report, len(reports)),
	}
	for _, r := range reports {
		if _, exists := c.byName[r.Filename]; exists {
			return nil, fmt.Errorf("duplicate filename %q in collection", r.Filename)
		}
		c.reports = append(c.reports, r)
		c.byName[r.Filename] = r
	}
	return c, nil
}

// Len returns the number of reports.
func (c *Collection) Len() int {
	return len(c.reports)
}

// Reports returns the reports in collection order. The slice is shared:
// treat it as read-only.
func (c *Collection) Reports() []*model.Report {
	return c.reports
}

// Filenames returns the report filenames in collection order.
func (c *Collection) Filenames() []string {
	names := make([]string, len(c.reports))
	for i, r := range c.reports {
		names[i] = r.Filename
	}
	return names
}

// Report looks up a report by filename.
func (c *Collection) Report(filename string) (*model.Report, bool) {
	r, ok := c.byName[filename]
	return r, ok
}
