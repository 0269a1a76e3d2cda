// Package model provides data models for the ngsreports tool.
package model

import "time"

// RunSummary provides aggregated statistics about one QC run.
type RunSummary struct {
	TotalFiles  int `json:"total_files"`
	PassFiles   int `json:"pass_files"`   // worst module status PASS
	WarnFiles   int `json:"warn_files"`   // worst module status WARN
	FailFiles   int `json:"fail_files"`   // worst module status FAIL
	FailedFiles int `json:"failed_files"` // files that could not be parsed
}

// NewRunSummary creates a new RunSummary from file results.
func NewRunSummary(files []*FileResult) *RunSummary {
	summary := &RunSummary{}
	for _, file := range files {
		if file == nil {
			continue
		}
		summary.TotalFiles++
		if file.Error != "" {
			summary.FailedFiles++
			continue
		}
		switch file.Status {
		case StatusPass:
			summary.PassFiles++
		case StatusWarn:
			summary.WarnFiles++
		case StatusFail:
			summary.FailFiles++
		}
	}
	return summary
}

// FileResult represents the classified QC outcome for a single report file.
type FileResult struct {
	Filename      string `json:"filename"`       // report base name; matches the aggregation key
	Label         string `json:"label"`          // display label after suffix stripping
	Path          string `json:"path"`           // source path on disk
	SourceFastq   string `json:"source_fastq"`   // fastq filename recorded in Basic Statistics
	FastQCVersion string `json:"fastqc_version"` // from the ##FastQC line

	// Basic Statistics extracts used by summary reports.
	TotalSequences float64 `json:"total_sequences"`
	SequenceLength string  `json:"sequence_length"`
	PercentGC      float64 `json:"percent_gc"`
	Encoding       string  `json:"encoding"`

	// Per-module verdicts; missing modules keep the zero status.
	Statuses map[string]Status `json:"statuses"`

	// Worst status across all modules; zero when the file failed to parse.
	Status Status `json:"status"`

	Flags []*QCFlag `json:"flags,omitempty"`

	// Error carries the parse failure message for files the batch skipped.
	Error string `json:"error,omitempty"`
}

// NewFileResult creates a FileResult for a successfully parsed report.
func NewFileResult(filename, path string) *FileResult {
	return &FileResult{
		Filename: filename,
		Label:    filename,
		Path:     path,
		Status:   StatusPass,
		Statuses: make(map[string]Status),
		Flags:    make([]*QCFlag, 0),
	}
}

// NewFailedFileResult creates a FileResult recording a parse failure.
func NewFailedFileResult(path string, err error) *FileResult {
	r := &FileResult{
		Filename: path,
		Label:    path,
		Path:     path,
		Statuses: make(map[string]Status),
	}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// SetStatus records a module verdict and updates the worst-of rollup.
func (r *FileResult) SetStatus(module string, status Status) {
	if r.Statuses == nil {
		r.Statuses = make(map[string]Status)
	}
	r.Statuses[module] = status
	r.Status = WorstStatus(r.Status, status)
}

// AddFlag attaches a WARN/FAIL flag and folds its level into the rollup.
func (r *FileResult) AddFlag(flag *QCFlag) {
	if flag == nil {
		return
	}
	r.Flags = append(r.Flags, flag)
	r.Status = WorstStatus(r.Status, flag.Status)
}

// Failed returns true when the source file could not be parsed.
func (r *FileResult) Failed() bool {
	return r.Error != ""
}

// QCResult represents the complete outcome of one aggregation run.
type QCResult struct {
	RunTime  time.Time     `json:"run_time"`
	Duration time.Duration `json:"duration"`

	Summary *RunSummary `json:"summary"`

	// Files in deterministic filename order; Modules gives the grid column
	// order (union of module names across the collection, first-seen order).
	Files   []*FileResult `json:"files"`
	Modules []string      `json:"modules"`

	Flags       []*QCFlag    `json:"flags"`
	FlagSummary *FlagSummary `json:"flag_summary"`

	Version string `json:"version,omitempty"` // ngsreports version
}

// NewQCResult creates a new QCResult with the given start time.
func NewQCResult(runTime time.Time) *QCResult {
	return &QCResult{
		RunTime: runTime,
		Files:   make([]*FileResult, 0),
		Flags:   make([]*QCFlag, 0),
	}
}

// AddFile adds a file result and collects its flags.
func (r *QCResult) AddFile(file *FileResult) {
	if file == nil {
		return
	}
	r.Files = append(r.Files, file)
	r.Flags = append(r.Flags, file.Flags...)
}

// AddModule appends a module to the grid column order if not already present.
func (r *QCResult) AddModule(name string) {
	for _, m := range r.Modules {
		if m == name {
			return
		}
	}
	r.Modules = append(r.Modules, name)
}

// Finalize calculates summaries after all files have been added.
func (r *QCResult) Finalize(endTime time.Time) {
	r.Duration = endTime.Sub(r.RunTime)
	r.Summary = NewRunSummary(r.Files)
	r.FlagSummary = NewFlagSummary(r.Flags)
}

// FileByName finds a file result by its FastQC filename.
func (r *QCResult) FileByName(filename string) *FileResult {
	for _, f := range r.Files {
		if f != nil && f.Filename == filename {
			return f
		}
	}
	return nil
}

// FailedFiles returns the files that could not be parsed.
func (r *QCResult) FailedFiles() []*FileResult {
	var failed []*FileResult
	for _, f := range r.Files {
		if f != nil && f.Failed() {
			failed = append(failed, f)
		}
	}
	return failed
}

// HasFail returns true if any file carries a FAIL verdict.
func (r *QCResult) HasFail() bool {
	return r.Summary != nil && r.Summary.FailFiles > 0
}

// HasWarn returns true if any file carries a WARN verdict.
func (r *QCResult) HasWarn() bool {
	return r.Summary != nil && r.Summary.WarnFiles > 0
}

// HasFlags returns true if there are any WARN/FAIL flags.
func (r *QCResult) HasFlags() bool {
	return len(r.Flags) > 0
}
