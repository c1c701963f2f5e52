package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// ErrInvalidRoot is the only error that stops the pipeline: the gallery root
// is missing or is not a directory.
var ErrInvalidRoot = errors.New("directory does not exist or is not a directory")

// ErrorCategory represents the type of error encountered
type ErrorCategory string

const (
	ErrorCategoryIO       ErrorCategory = "io_error"     // File system, permissions, disk space
	ErrorCategoryMissing  ErrorCategory = "missing_file" // File vanished between stages
	ErrorCategoryConflict ErrorCategory = "name_conflict"
	ErrorCategoryTrash    ErrorCategory = "trash_error"
	ErrorCategoryReport   ErrorCategory = "report_error"
	ErrorCategoryUnknown  ErrorCategory = "unknown_error"
)

// ErrorSeverity indicates how critical the error is
type ErrorSeverity string

const (
	ErrorSeverityError   ErrorSeverity = "error"   // The item was not processed
	ErrorSeverityWarning ErrorSeverity = "warning" // Skipped, nothing left half-done
)

// ProcessError represents a categorized per-file failure inside a stage.
type ProcessError struct {
	FilePath    string
	Stage       string
	Category    ErrorCategory
	Severity    ErrorSeverity
	OriginalErr error
	Suggestion  string
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("[%s/%s] %s: %s: %v", e.Severity, e.Category, e.Stage, e.FilePath, e.OriginalErr)
}

func (e *ProcessError) Unwrap() error { return e.OriginalErr }

// CategorizeError analyzes an error and returns a ProcessError with category and severity
func CategorizeError(stage, filePath string, err error) *ProcessError {
	if err == nil {
		return nil
	}

	procErr := &ProcessError{
		FilePath:    filePath,
		Stage:       stage,
		OriginalErr: err,
		Severity:    ErrorSeverityError,
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, ErrTrashUnavailable):
		procErr.Category = ErrorCategoryTrash
		procErr.Suggestion = "Use --trash staging to move duplicates into the duplicates folder instead"

	case errors.Is(err, ErrDestinationExists):
		procErr.Category = ErrorCategoryConflict
		procErr.Suggestion = "Another file already has the target name - likely left by an interrupted run"

	case IsCrossDevice(err):
		procErr.Category = ErrorCategoryIO
		procErr.Suggestion = "Source and destination must be on the same filesystem"

	case errors.Is(err, fs.ErrNotExist):
		procErr.Category = ErrorCategoryMissing
		procErr.Severity = ErrorSeverityWarning
		procErr.Suggestion = "File disappeared after the scan - it was skipped"

	case errors.Is(err, fs.ErrPermission):
		procErr.Category = ErrorCategoryIO
		procErr.Suggestion = "Check file permissions in the gallery directory"

	case strings.Contains(errStr, "no space left"):
		procErr.Category = ErrorCategoryIO
		procErr.Suggestion = "Free up disk space and retry"

	case strings.Contains(errStr, "read-only file system"):
		procErr.Category = ErrorCategoryIO
		procErr.Suggestion = "Gallery filesystem is read-only - check mount options"

	case strings.Contains(errStr, "input/output error"):
		procErr.Category = ErrorCategoryIO
		procErr.Suggestion = "I/O error - check disk health with SMART tools"

	default:
		procErr.Category = ErrorCategoryUnknown
		procErr.Suggestion = "Unexpected error - check logs for details"
	}

	if stage == StageReport && procErr.Category != ErrorCategoryMissing {
		procErr.Category = ErrorCategoryReport
	}
	if stage == StageDedup && procErr.Category == ErrorCategoryUnknown {
		procErr.Category = ErrorCategoryTrash
	}

	return procErr
}

// ErrorStats tracks error statistics during a run
type ErrorStats struct {
	Total      int
	Errors     int
	Warnings   int
	ByCategory map[ErrorCategory]int
	LastErrors []*ProcessError // Last 5 errors for quick diagnosis
}

func NewErrorStats() *ErrorStats {
	return &ErrorStats{
		ByCategory: make(map[ErrorCategory]int),
		LastErrors: make([]*ProcessError, 0, 5),
	}
}

func (s *ErrorStats) Add(err *ProcessError) {
	s.Total++
	s.ByCategory[err.Category]++

	switch err.Severity {
	case ErrorSeverityError:
		s.Errors++
	case ErrorSeverityWarning:
		s.Warnings++
	}

	if len(s.LastErrors) >= 5 {
		s.LastErrors = s.LastErrors[1:]
	}
	s.LastErrors = append(s.LastErrors, err)
}

// Lines renders the statistics as plain lines for a Sink.
func (s *ErrorStats) Lines() []string {
	if s.Total == 0 {
		return []string{"no errors"}
	}

	lines := []string{
		fmt.Sprintf("run encountered %d problems (%d errors, %d warnings)", s.Total, s.Errors, s.Warnings),
	}

	cats := make([]string, 0, len(s.ByCategory))
	for cat := range s.ByCategory {
		cats = append(cats, string(cat))
	}
	sort.Strings(cats)
	for _, cat := range cats {
		lines = append(lines, fmt.Sprintf("  %s: %d", cat, s.ByCategory[ErrorCategory(cat)]))
	}

	lines = append(lines, "recent problems:")
	for i, err := range s.LastErrors {
		lines = append(lines, fmt.Sprintf("  %d. %s (%s) %v", i+1, err.FilePath, err.Stage, err.OriginalErr))
		if err.Suggestion != "" {
			lines = append(lines, "     suggestion: "+err.Suggestion)
		}
	}
	return lines
}
