// Package model provides data models for the ngsreports tool.
package model

import "fmt"

// QCFlag records one WARN or FAIL verdict for a file/module pair, either
// taken verbatim from the report summary or derived from a threshold check.
type QCFlag struct {
	Filename      string  `json:"filename"`
	Module        string  `json:"module"`
	Status        Status  `json:"status"`
	Value         float64 `json:"value,omitempty"`          // measured value for threshold-derived flags
	HasValue      bool    `json:"has_value,omitempty"`      // false for verbatim summary flags
	WarnThreshold float64 `json:"warn_threshold,omitempty"` // thresholds that produced the flag
	FailThreshold float64 `json:"fail_threshold,omitempty"`
	Message       string  `json:"message,omitempty"`
}

// NewQCFlag creates a flag carried over verbatim from a report summary.
func NewQCFlag(filename, module string, status Status) *QCFlag {
	return &QCFlag{
		Filename: filename,
		Module:   module,
		Status:   status,
		Message:  fmt.Sprintf("%s: %s", module, status),
	}
}

// NewThresholdFlag creates a flag derived from a threshold classification.
func NewThresholdFlag(filename, module string, status Status, value, warn, fail float64) *QCFlag {
	return &QCFlag{
		Filename:      filename,
		Module:        module,
		Status:        status,
		Value:         value,
		HasValue:      true,
		WarnThreshold: warn,
		FailThreshold: fail,
		Message:       fmt.Sprintf("%s: %s (value %.2f, warn < %.2f, fail < %.2f)", module, status, value, warn, fail),
	}
}

// IsWarn returns true if this flag is at WARN level.
func (f *QCFlag) IsWarn() bool {
	return f.Status == StatusWarn
}

// IsFail returns true if this flag is at FAIL level.
func (f *QCFlag) IsFail() bool {
	return f.Status == StatusFail
}

// FlagSummary provides aggregated flag statistics.
type FlagSummary struct {
	TotalFlags int `json:"total_flags"`
	WarnCount  int `json:"warn_count"`
	FailCount  int `json:"fail_count"`
}

// NewFlagSummary creates a new FlagSummary from a list of flags.
func NewFlagSummary(flags []*QCFlag) *FlagSummary {
	summary := &FlagSummary{}
	for _, flag := range flags {
		if flag == nil {
			continue
		}
		summary.TotalFlags++
		switch flag.Status {
		case StatusWarn:
			summary.WarnCount++
		case StatusFail:
			summary.FailCount++
		}
	}
	return summary
}
