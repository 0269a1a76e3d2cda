// Package model provides data models for the ngsreports tool.
package model

// Section is one parsed module of a FastQC report: the verdict embedded in
// the ">>" marker, the raw data lines, any annotation scalars, and the typed
// table derived from them.
type Section struct {
	Name    string             `json:"name"`
	Status  Status             `json:"status"`
	Lines   []string           `json:"lines"`             // raw lines between the markers, headers included
	Scalars map[string]float64 `json:"scalars,omitempty"` // e.g. "Total Deduplicated Percentage"
	Table   *Table             `json:"table"`
}

// Report is one fully parsed FastQC report. Reports are immutable after
// parsing; aggregation never mutates them.
type Report struct {
	Path     string     `json:"path"`     // source file on disk (txt or zip bundle)
	Filename string     `json:"filename"` // base name of the source file; the aggregation key
	Version  string     `json:"version"`  // FastQC version from the ##FastQC line
	Sections []*Section `json:"sections"` // modules in file order
}

// SourceFastq returns the fastq filename FastQC recorded in Basic Statistics.
func (r *Report) SourceFastq() string {
	name, _ := r.BasicStat("Filename")
	return name
}

// Module finds a section by module name.
func (r *Report) Module(name string) (*Section, bool) {
	for _, s := range r.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// HasModule returns true if the report contains the named module.
func (r *Report) HasModule(name string) bool {
	_, ok := r.Module(name)
	return ok
}

// ModuleNames returns the module names in file order.
func (r *Report) ModuleNames() []string {
	names := make([]string, len(r.Sections))
	for i, s := range r.Sections {
		names[i] = s.Name
	}
	return names
}

// ModuleStatus returns the embedded verdict for the named module, or the
// missing zero value when the module is absent.
func (r *Report) ModuleStatus(name string) Status {
	if s, ok := r.Module(name); ok {
		return s.Status
	}
	return ""
}

// Summary builds the module -> status table extracted from the section
// markers.
func (r *Report) Summary() *Table {
	t := NewTable([]string{"Module", "Status"}, nil)
	for _, s := range r.Sections {
		// error impossible: arity matches the fixed columns
		_ = t.AppendRow(StringValue(s.Name), StringValue(string(s.Status)))
	}
	return t
}

// BasicStat looks up a Measure row of the Basic Statistics module and returns
// its Value cell as text.
func (r *Report) BasicStat(measure string) (string, bool) {
	s, ok := r.Module("Basic Statistics")
	if !ok || s.Table == nil {
		return "", false
	}
	mi, ok := s.Table.Col("Measure")
	if !ok {
		return "", false
	}
	vi, ok := s.Table.Col("Value")
	if !ok {
		return "", false
	}
	for _, row := range s.Table.Rows {
		if row[mi].String() == measure {
			return row[vi].String(), true
		}
	}
	return "", false
}
