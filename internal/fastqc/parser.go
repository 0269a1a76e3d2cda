// Package fastqc parses FastQC report output into tabular models.
//
// A FastQC report is a tab-separated text file opening with a "##FastQC"
// version line, followed by modules delimited by ">>Module Name\t<status>"
// and ">>END_MODULE" markers. Inside a module, "#"-prefixed lines carry the
// column header and optional named scalars; every other line is one data row.
// Parsing is strict: any structural violation fails the whole file with a
// FormatError and no partial Report is returned.
package fastqc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"ngsreports/internal/model"
)

const (
	versionPrefix   = "##FastQC\t"
	markerPrefix    = ">>"
	endModuleMarker = ">>END_MODULE"

	basicStatsModule = "Basic Statistics"
)

// Parser parses FastQC reports using a set of module definitions that declare
// column types for the known modules. Modules without a definition still
// parse, with every column inferred as string.
type Parser struct {
	defs   []*model.ModuleDefinition
	index  map[string]*model.ModuleDefinition
	logger zerolog.Logger
}

// NewParser creates a parser over the given module definitions.
func NewParser(modules []*model.ModuleDefinition, logger zerolog.Logger) *Parser {
	index := make(map[string]*model.ModuleDefinition, len(modules))
	for _, m := range modules {
		index[m.Name] = m
	}
	return &Parser{
		defs:   modules,
		index:  index,
		logger: logger.With().Str("component", "fastqc-parser").Logger(),
	}
}

// Parse reads a FastQC report from disk. Paths ending in ".zip" are treated
// as FastQC bundles and the embedded fastqc_data.txt is parsed; anything else
// is read as the raw text report.
func (p *Parser) Parse(path string) (*model.Report, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return p.parseZip(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	return p.ParseReader(f, path)
}

// rawSection collects one module's lines during the marker scan.
type rawSection struct {
	name      string
	status    model.Status
	lines     []string
	startLine int // line number of the ">>" marker
}

// ParseReader parses FastQC report text. The path is used for error context
// and becomes the Report's identity, so callers pass the on-disk source even
// when reading out of a zip bundle.
func (p *Parser) ParseReader(r io.Reader, path string) (*model.Report, error) {
	p.logger.Debug().Str("path", path).Msg("parsing report")

	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read report %s: %w", path, err)
		}
		return nil, &FormatError{Path: path, Line: 1, Msg: "empty file, expected ##FastQC version line"}
	}
	lineNo := 1
	version, err := parseVersionLine(scanner.Text())
	if err != nil {
		return nil, &FormatError{Path: path, Line: 1, Msg: err.Error()}
	}

	var sections []*rawSection
	var current *rawSection

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		switch {
		case line == endModuleMarker:
			if current == nil {
				return nil, &FormatError{Path: path, Line: lineNo, Msg: ">>END_MODULE without an open module"}
			}
			sections = append(sections, current)
			current = nil
		case strings.HasPrefix(line, markerPrefix):
			if current != nil {
				return nil, &FormatError{Path: path, Module: current.name, Line: lineNo, Msg: "missing >>END_MODULE before next module"}
			}
			name, status, err := parseModuleMarker(line)
			if err != nil {
				return nil, &FormatError{Path: path, Line: lineNo, Msg: err.Error()}
			}
			current = &rawSection{name: name, status: status, startLine: lineNo}
		case current != nil:
			current.lines = append(current.lines, line)
		case strings.TrimSpace(line) == "":
			// blank lines between modules are tolerated
		default:
			return nil, &FormatError{Path: path, Line: lineNo, Msg: fmt.Sprintf("content outside module markers: %q", line)}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}
	if current != nil {
		return nil, &FormatError{Path: path, Module: current.name, Msg: "missing >>END_MODULE at end of file"}
	}
	if len(sections) == 0 {
		return nil, &FormatError{Path: path, Msg: "no module markers found"}
	}

	report := &model.Report{
		Path:     path,
		Filename: filepath.Base(path),
		Version:  version,
		Sections: make([]*model.Section, 0, len(sections)),
	}

	for _, raw := range sections {
		section, err := p.buildSection(path, raw)
		if err != nil {
			return nil, err
		}
		report.Sections = append(report.Sections, section)
	}

	for _, def := range p.defs {
		if def.Required && !report.HasModule(def.Name) {
			return nil, &FormatError{Path: path, Module: def.Name, Msg: "required module missing"}
		}
	}
	if report.HasModule(basicStatsModule) {
		if _, ok := report.BasicStat("Filename"); !ok {
			return nil, &FormatError{Path: path, Module: basicStatsModule, Field: "Filename", Msg: "missing Filename measure"}
		}
	}

	p.logger.Debug().
		Str("path", path).
		Str("version", version).
		Int("modules", len(report.Sections)).
		Msg("parsed report")
	return report, nil
}

// parseVersionLine validates the "##FastQC\t<version>" opening line.
func parseVersionLine(line string) (string, error) {
	if !strings.HasPrefix(line, versionPrefix) {
		return "", fmt.Errorf("expected ##FastQC version line, found %q", line)
	}
	version := strings.TrimSpace(strings.TrimPrefix(line, versionPrefix))
	if version == "" {
		return "", fmt.Errorf("##FastQC line carries no version")
	}
	return version, nil
}

// parseModuleMarker splits ">>Module Name\t<status>" into its parts.
func parseModuleMarker(line string) (string, model.Status, error) {
	parts := strings.Split(strings.TrimPrefix(line, markerPrefix), "\t")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("malformed module marker %q, expected \">>Name\\t<status>\"", line)
	}
	name := parts[0]
	if name == "" {
		return "", "", fmt.Errorf("module marker %q has an empty name", line)
	}
	status, err := model.ParseStatus(parts[1])
	if err != nil {
		return "", "", fmt.Errorf("module %q: %v", name, err)
	}
	return name, status, nil
}

// buildSection turns one raw module into a typed Section. Scalars declared by
// the module definition are pulled out of "#" lines; the last remaining "#"
// line is the column header.
func (p *Parser) buildSection(path string, raw *rawSection) (*model.Section, error) {
	def := p.index[raw.name]
	if def == nil {
		p.logger.Debug().Str("module", raw.name).Msg("module has no definition, inferring string columns")
	}

	section := &model.Section{
		Name:   raw.name,
		Status: raw.status,
		Lines:  raw.lines,
	}

	type dataRow struct {
		text   string
		lineNo int
	}

	var headerLine string
	var rows []dataRow

	for i, line := range raw.lines {
		lineNo := raw.startLine + 1 + i

		if strings.HasPrefix(line, "#") {
			if name, value, ok := matchScalar(def, line); ok {
				f, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return nil, &FormatError{
						Path: path, Module: raw.name, Field: name, Line: lineNo,
						Msg: fmt.Sprintf("invalid scalar value %q", value),
					}
				}
				if section.Scalars == nil {
					section.Scalars = make(map[string]float64)
				}
				section.Scalars[name] = f
				continue
			}
			headerLine = strings.TrimPrefix(line, "#")
			continue
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, dataRow{text: line, lineNo: lineNo})
	}

	if len(rows) == 0 {
		section.Table = emptyTable(def)
		return section, nil
	}
	if headerLine == "" {
		return nil, &FormatError{Path: path, Module: raw.name, Line: raw.startLine, Msg: "missing column header line"}
	}

	columns := strings.Split(headerLine, "\t")
	types := make([]model.ColumnType, len(columns))
	for i, c := range columns {
		if def != nil {
			types[i] = def.ColumnType(c)
		} else {
			types[i] = model.ColumnString
		}
	}

	// Position-keyed modules get derived Start/End columns beside the raw
	// range column.
	posIdx := -1
	if def != nil && def.IsPositional() {
		posIdx = findPositionColumn(columns)
		if posIdx < 0 {
			return nil, &FormatError{
				Path: path, Module: raw.name, Line: raw.startLine,
				Msg: fmt.Sprintf("no position column among %v", positionColumns),
			}
		}
		columns = append(columns, startColumn, endColumn)
		types = append(types, model.ColumnInt, model.ColumnInt)
	}

	table := model.NewTable(columns, types)
	for _, row := range rows {
		cells := strings.Split(row.text, "\t")
		want := len(columns)
		if posIdx >= 0 {
			want -= 2 // Start and End are derived, not read
		}
		if len(cells) != want {
			return nil, &FormatError{
				Path: path, Module: raw.name, Line: row.lineNo,
				Msg: fmt.Sprintf("expected %d fields, found %d", want, len(cells)),
			}
		}

		values := make([]model.Value, 0, len(columns))
		for i, cell := range cells {
			v, err := typedValue(cell, types[i])
			if err != nil {
				return nil, &FormatError{
					Path: path, Module: raw.name, Field: columns[i], Line: row.lineNo,
					Msg: fmt.Sprintf("invalid %s value %q", types[i], cell),
				}
			}
			values = append(values, v)
		}

		if posIdx >= 0 {
			start, end, err := ParseRange(cells[posIdx])
			if err != nil {
				return nil, &FormatError{
					Path: path, Module: raw.name, Field: columns[posIdx], Line: row.lineNo,
					Msg: err.Error(),
				}
			}
			values = append(values, model.IntValue(start), model.IntValue(end))
		}

		if err := table.AppendRow(values...); err != nil {
			return nil, &FormatError{Path: path, Module: raw.name, Line: row.lineNo, Msg: err.Error()}
		}
	}

	section.Table = table
	return section, nil
}

// matchScalar reports whether the "#" line is one of the module's declared
// scalar annotations, returning its name and raw value.
func matchScalar(def *model.ModuleDefinition, line string) (string, string, bool) {
	if def == nil {
		return "", "", false
	}
	parts := strings.SplitN(line, "\t", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	name := strings.TrimPrefix(parts[0], "#")
	if !def.HasScalar(name) {
		return "", "", false
	}
	return name, parts[1], true
}

// typedValue converts one cell under the declared column type, preserving the
// raw text for display and export.
func typedValue(cell string, t model.ColumnType) (model.Value, error) {
	switch t {
	case model.ColumnFloat:
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return model.Value{}, err
		}
		return model.Value{Type: model.ColumnFloat, Raw: cell, Num: f}, nil
	case model.ColumnInt:
		n, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return model.Value{}, err
		}
		return model.Value{Type: model.ColumnInt, Raw: cell, Num: float64(n)}, nil
	default:
		return model.StringValue(cell), nil
	}
}

// emptyTable builds a zero-row table for a module that carried no data lines,
// keeping the declared columns so aggregation still sees a stable shape.
func emptyTable(def *model.ModuleDefinition) *model.Table {
	if def == nil || len(def.Columns) == 0 {
		return model.NewTable(nil, nil)
	}
	columns := make([]string, len(def.Columns))
	types := make([]model.ColumnType, len(def.Columns))
	for i, c := range def.Columns {
		columns[i] = c.Name
		types[i] = c.Type
	}
	if def.IsPositional() && findPositionColumn(columns) >= 0 {
		columns = append(columns, startColumn, endColumn)
		types = append(types, model.ColumnInt, model.ColumnInt)
	}
	return model.NewTable(columns, types)
}
