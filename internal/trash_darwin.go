//go:build darwin

package internal

import (
	"os"
	"path/filepath"
)

func newSystemTrash() Trash {
	home, err := os.UserHomeDir()
	if err != nil {
		return NoTrash{}
	}
	return &DirTrash{Dir: filepath.Join(home, ".Trash")}
}
