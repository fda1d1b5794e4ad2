package domain

import (
	"time"
)

// File processing statuses
const (
	FileStatusCompleted = "completed"
	FileStatusFailed    = "failed"
)

// FileResult is the outcome of processing a single workbook.
type FileResult struct {
	File           InputFile      `json:"file"`
	Year           int            `json:"year,omitempty"`
	HomeSheet      string         `json:"home_sheet,omitempty"`
	BusinessSheet  string         `json:"business_sheet,omitempty"`
	Outputs        []OutputRecord `json:"outputs,omitempty"`
	MissingColumns []string       `json:"missing_columns,omitempty"`
	Status         string         `json:"status" validate:"required,oneof=completed failed"`
	ErrorType      string         `json:"error_type,omitempty"`
	Error          string         `json:"error,omitempty"`
	Duration       time.Duration  `json:"duration_ns"`
}

// Succeeded reports whether both extracts were written.
func (r *FileResult) Succeeded() bool {
	return r.Status == FileStatusCompleted
}

// RunSummary aggregates the per-file results of one pipeline run.
type RunSummary struct {
	RunID      string       `json:"run_id" validate:"required,uuid"`
	InputDir   string       `json:"input_dir"`
	StartTime  time.Time    `json:"start_time"`
	EndTime    time.Time    `json:"end_time"`
	TotalFiles int          `json:"total_files"`
	Succeeded  int          `json:"succeeded"`
	Failed     int          `json:"failed"`
	Files      []FileResult `json:"files" validate:"dive"`
}

// FailedFiles returns the names of the workbooks that did not produce output.
func (s *RunSummary) FailedFiles() []string {
	var names []string
	for _, f := range s.Files {
		if !f.Succeeded() {
			names = append(names, f.File.Name)
		}
	}
	return names
}
