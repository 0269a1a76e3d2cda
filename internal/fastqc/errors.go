// Package fastqc parses FastQC report output into tabular models.
package fastqc

import (
	"fmt"
	"strings"
)

// FormatError reports a structural problem in a FastQC report: a missing
// version line, an unterminated module, a ragged row, or a cell that does not
// parse under the module's declared column type. The fields locate the
// problem as precisely as the grammar allows.
type FormatError struct {
	Path   string // source file on disk
	Module string // module being parsed, if known
	Field  string // offending column or measure, if known
	Line   int    // 1-based line number in fastqc_data.txt, 0 if unknown
	Msg    string
	Err    error // underlying cause, if any
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	if e.Module != "" {
		fmt.Fprintf(&sb, "module %q: ", e.Module)
	}
	if e.Field != "" {
		fmt.Fprintf(&sb, "field %q: ", e.Field)
	}
	if e.Line > 0 {
		fmt.Fprintf(&sb, "line %d: ", e.Line)
	}
	sb.WriteString(e.Msg)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *FormatError) Unwrap() error {
	return e.Err
}
