package model

import "time"

// RunStatus represents the lifecycle state of one pipeline run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// IsFinished reports whether the run reached a terminal state.
func (s RunStatus) IsFinished() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// RunInput is everything the pipeline needs for one run. Credentials are
// passed by value and must not be retained after Execute returns.
type RunInput struct {
	Filename    string // Original upload name, used for format detection
	Data        []byte // Raw spreadsheet content
	Credentials Credentials
	Prefix      string // Filename prefix, defaults to "bill"
	StartIndex  int    // First sequence number, defaults to 1
	OnProgress  func(done, total int)
}

// RunSummary counts the terminal outcomes of one run. Succeeded plus
// Failed always equals Total.
type RunSummary struct {
	Total       int `json:"total"`
	Succeeded   int `json:"succeeded"`
	Failed      int `json:"failed"`
	SkippedRows int `json:"skipped_rows"`
	Duplicates  int `json:"duplicates"`
}

// RunResult is the complete output of one pipeline execution.
type RunResult struct {
	Records    []*ImageRecord // Successful fetches in row order
	Failures   []FailureEntry // Failed fetches in encounter order
	Archive    []byte         // ZIP of all successful images
	FailureCSV []byte         // CSV report, header only when no failures
	Summary    RunSummary
}

// Run is the interactive shell's view of one pipeline execution. It holds
// the produced artifacts but never the credentials used to make them.
type Run struct {
	ID         string
	Status     RunStatus
	CreatedAt  time.Time
	FinishedAt time.Time
	Done       int // URLs that reached an outcome so far
	Total      int
	Error      string
	Summary    RunSummary
	Archive    []byte
	FailureCSV []byte
}
