// Package model provides data models for the ngsreports tool.
package model

import (
	"fmt"
	"strings"
)

// Status represents a FastQC module verdict. The zero value means the status
// is missing (e.g. the module was absent from a report) and must never be
// silently promoted to a pass.
type Status string

const (
	StatusPass Status = "PASS"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// ParseStatus normalises the status tokens FastQC emits: lowercase inside
// fastqc_data.txt module markers, uppercase inside summary.txt.
func ParseStatus(token string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "pass":
		return StatusPass, nil
	case "warn", "warning":
		return StatusWarn, nil
	case "fail":
		return StatusFail, nil
	default:
		return "", fmt.Errorf("unknown status token %q", token)
	}
}

// IsValid returns true for the three defined verdicts, false for missing.
func (s Status) IsValid() bool {
	return s == StatusPass || s == StatusWarn || s == StatusFail
}

// Severity orders statuses for worst-of rollups: missing < PASS < WARN < FAIL.
func (s Status) Severity() int {
	switch s {
	case StatusPass:
		return 1
	case StatusWarn:
		return 2
	case StatusFail:
		return 3
	default:
		return 0
	}
}

// WorstStatus returns the most severe status among the given values.
// Missing statuses never outrank a defined verdict.
func WorstStatus(statuses ...Status) Status {
	worst := Status("")
	for _, s := range statuses {
		if s.Severity() > worst.Severity() {
			worst = s
		}
	}
	return worst
}

// StatusColor pairs a background and foreground colour for one verdict,
// as RGB hex without the leading '#'.
type StatusColor struct {
	Background string `json:"background"`
	Foreground string `json:"foreground"`
}

// PwfPalette maps PASS/WARN/FAIL (and missing) to display colours. Palettes
// are explicit values handed to report writers; there is no mutable global.
type PwfPalette struct {
	Pass    StatusColor `json:"pass"`
	Warn    StatusColor `json:"warn"`
	Fail    StatusColor `json:"fail"`
	Missing StatusColor `json:"missing"`
}

// DefaultPalette is the documented default colour scheme.
var DefaultPalette = PwfPalette{
	Pass:    StatusColor{Background: "C6EFCE", Foreground: "006100"},
	Warn:    StatusColor{Background: "FFEB9C", Foreground: "9C6500"},
	Fail:    StatusColor{Background: "FFC7CE", Foreground: "9C0006"},
	Missing: StatusColor{Background: "D9D9D9", Foreground: "595959"},
}

// ColorFor returns the colour pair for the given status, falling back to the
// missing colour for undefined statuses.
func (p PwfPalette) ColorFor(s Status) StatusColor {
	switch s {
	case StatusPass:
		return p.Pass
	case StatusWarn:
		return p.Warn
	case StatusFail:
		return p.Fail
	default:
		return p.Missing
	}
}
