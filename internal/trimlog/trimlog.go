// Package trimlog parses adapter-trimmer log output into tabular models.
//
// Each supported tool has its own stateless line grammar over the fixed
// message templates the tool prints; there is no configuration. Logs are
// consumed as plain text lines, with gzip-compressed files handled
// transparently by ParseFile.
package trimlog

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"ngsreports/internal/model"
)

// Tool identifies the trimmer that produced a log.
type Tool string

const (
	ToolTrimmomatic Tool = "trimmomatic"
	ToolCutadapt    Tool = "cutadapt"
)

// Detect identifies the tool that produced the log lines, or returns false
// when no known banner is present.
func Detect(lines []string) (Tool, bool) {
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "TrimmomaticSE:"), strings.HasPrefix(line, "TrimmomaticPE:"):
			return ToolTrimmomatic, true
		case strings.HasPrefix(line, "This is cutadapt"), strings.TrimSpace(line) == summaryHeader:
			return ToolCutadapt, true
		}
	}
	return "", false
}

// Parse detects the tool and dispatches to its grammar.
func Parse(lines []string) (*model.Table, Tool, error) {
	tool, ok := Detect(lines)
	if !ok {
		return nil, "", fmt.Errorf("unrecognised trimmer log format")
	}

	var (
		table *model.Table
		err   error
	)
	switch tool {
	case ToolTrimmomatic:
		table, err = ParseTrimmomatic(lines)
	case ToolCutadapt:
		table, err = ParseCutadapt(lines)
	}
	if err != nil {
		return nil, tool, err
	}
	return table, tool, nil
}

// ParseFile reads a trimmer log from disk, decompressing gzip transparently,
// and parses it with the detected grammar.
func ParseFile(path string) (*model.Table, Tool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	lines, err := readLines(f)
	if err != nil {
		return nil, "", fmt.Errorf("read log %s: %w", path, err)
	}

	table, tool, err := Parse(lines)
	if err != nil {
		return nil, tool, fmt.Errorf("parse log %s: %w", path, err)
	}
	return table, tool, nil
}

// readLines splits the reader into lines, sniffing the gzip magic bytes
// first so compressed logs read the same as plain ones.
func readLines(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)

	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		defer gz.Close()
		return scanLines(gz)
	}
	return scanLines(br)
}

func scanLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// parseNumeric converts a regex-matched numeric field into a typed cell,
// preserving the raw text.
func parseNumeric(raw string, t model.ColumnType) (model.Value, error) {
	switch t {
	case model.ColumnInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return model.Value{}, fmt.Errorf("invalid count %q", raw)
		}
		return model.Value{Type: model.ColumnInt, Raw: raw, Num: float64(n)}, nil
	case model.ColumnFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.Value{}, fmt.Errorf("invalid percentage %q", raw)
		}
		return model.Value{Type: model.ColumnFloat, Raw: raw, Num: f}, nil
	default:
		return model.StringValue(raw), nil
	}
}
