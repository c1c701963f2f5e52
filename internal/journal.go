package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Journal is an append-only JSONL audit log of one run. Nothing reads it
// back; every run starts from a fresh scan.
type Journal struct {
	ID   string
	Path string

	mu sync.Mutex
	f  *os.File
}

// JournalEvent represents a single event in the journal
type JournalEvent struct {
	Event string `json:"event"`
	Ts    string `json:"ts"`
	Run   string `json:"run"`

	Src  string `json:"src,omitempty"`
	Dest string `json:"dest,omitempty"`
	Hash string `json:"hash,omitempty"`
	Size int64  `json:"size,omitempty"`

	Stage           string `json:"stage,omitempty"`
	Error           string `json:"error,omitempty"`
	ErrorCategory   string `json:"error_category,omitempty"`
	ErrorSeverity   string `json:"error_severity,omitempty"`
	ErrorSuggestion string `json:"error_suggestion,omitempty"`

	// Run start/end fields
	Root      string `json:"root,omitempty"`
	Photos    int    `json:"photos,omitempty"`
	Removed   int    `json:"removed,omitempty"`
	Renamed   int    `json:"renamed,omitempty"`
	Organized int    `json:"organized,omitempty"`
	Missing   int    `json:"missing,omitempty"`
	Errors    int    `json:"errors,omitempty"`
}

const (
	EventRunStart = "run_start"
	EventTrashed  = "trashed"
	EventRenamed  = "renamed"
	EventMoved    = "moved"
	EventError    = "error"
	EventRunEnd   = "run_end"
)

// OpenJournal creates journal_<timestamp>.jsonl in dir.
func OpenJournal(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("journal_%s.jsonl", time.Now().Format(reportFileLayout)))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create journal file: %w", err)
	}

	return &Journal{ID: uuid.NewString(), Path: path, f: f}, nil
}

// The Log methods are no-ops on a nil journal.

func (j *Journal) LogRunStart(root string, photos int) error {
	if j == nil {
		return nil
	}
	return j.write(JournalEvent{Event: EventRunStart, Root: root, Photos: photos})
}

// LogMove records a file that left src for dest; event is one of
// EventTrashed, EventRenamed or EventMoved.
func (j *Journal) LogMove(event string, m Move) error {
	if j == nil {
		return nil
	}
	return j.write(JournalEvent{Event: event, Src: m.From, Dest: m.To, Hash: m.Hash, Size: m.Size})
}

func (j *Journal) LogError(procErr *ProcessError) error {
	if j == nil || procErr == nil {
		return nil
	}
	return j.write(JournalEvent{
		Event:           EventError,
		Src:             procErr.FilePath,
		Stage:           procErr.Stage,
		Error:           procErr.OriginalErr.Error(),
		ErrorCategory:   string(procErr.Category),
		ErrorSeverity:   string(procErr.Severity),
		ErrorSuggestion: procErr.Suggestion,
	})
}

func (j *Journal) LogRunEnd(stats RunStats) error {
	if j == nil {
		return nil
	}
	return j.write(JournalEvent{
		Event:     EventRunEnd,
		Photos:    stats.Photos,
		Removed:   stats.Removed,
		Renamed:   stats.Renamed,
		Organized: stats.Organized,
		Missing:   stats.Missing,
		Errors:    stats.Errors,
	})
}

func (j *Journal) Close() error {
	if j == nil || j.f == nil {
		return nil
	}
	return j.f.Close()
}

// write writes an event as a JSON line and syncs it
func (j *Journal) write(event JournalEvent) error {
	event.Ts = time.Now().UTC().Format(time.RFC3339)
	event.Run = j.ID

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write to journal: %w", err)
	}
	return j.f.Sync()
}
