package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrTrashUnavailable is reported when the platform has no usable trash.
var ErrTrashUnavailable = errors.New("moving to trash is not supported on this system")

// Trash is the platform capability duplicate removal goes through.
type Trash interface {
	// Available reports whether MoveToTrash can work at all.
	Available() bool
	// MoveToTrash moves the file at path into the trash and returns where it went.
	MoveToTrash(path string) (string, error)
}

type TrashMode string

const (
	TrashSystem  TrashMode = "system"
	TrashStaging TrashMode = "staging"
	TrashNone    TrashMode = "none"
)

// NewTrash builds the trash for mode. Staging moves duplicates into
// stagingDir instead of the platform trash.
func NewTrash(mode TrashMode, stagingDir string) (Trash, error) {
	switch mode {
	case TrashSystem:
		return newSystemTrash(), nil
	case TrashStaging:
		return &DirTrash{Dir: stagingDir}, nil
	case TrashNone:
		return NoTrash{}, nil
	}
	return nil, fmt.Errorf("unknown trash mode %q", mode)
}

// NoTrash is never available.
type NoTrash struct{}

func (NoTrash) Available() bool { return false }

func (NoTrash) MoveToTrash(string) (string, error) { return "", ErrTrashUnavailable }

// DirTrash moves files into a plain directory, renaming on name clashes.
type DirTrash struct {
	Dir string
}

func (t *DirTrash) Available() bool {
	return t.Dir != "" && os.MkdirAll(t.Dir, 0755) == nil
}

func (t *DirTrash) MoveToTrash(path string) (string, error) {
	if err := os.MkdirAll(t.Dir, 0755); err != nil {
		return "", err
	}
	dst := uniquePath(filepath.Join(t.Dir, filepath.Base(path)))
	if err := moveFile(path, dst); err != nil {
		return "", err
	}
	return dst, nil
}
