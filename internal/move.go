package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// ErrDestinationExists is returned when a move would overwrite another file.
var ErrDestinationExists = fmt.Errorf("destination already exists: %w", fs.ErrExist)

// CrossDeviceError reports a move that failed because source and destination
// live on different filesystems. Files are never copied and deleted instead.
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("cannot move %q to %q across filesystems: %v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

func IsCrossDevice(err error) bool {
	var e *CrossDeviceError
	return errors.As(err, &e)
}

// moveFile atomically renames src to dst. It never replaces an existing dst.
func moveFile(src, dst string) error {
	err := renameNoReplace(src, dst)
	switch {
	case err == nil:
		return nil
	case isEXDEV(err):
		return &CrossDeviceError{Src: src, Dst: dst, Err: err}
	case errors.Is(err, fs.ErrExist):
		return fmt.Errorf("%w: %s", ErrDestinationExists, dst)
	}
	return err
}

// renameIfAbsent is the fallback for platforms and filesystems without an
// atomic no-replace rename. The check and the rename are not one step.
func renameIfAbsent(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: fs.ErrExist}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.Rename(src, dst)
}

// uniquePath generates a free path if dest exists by appending _2, _3...
func uniquePath(dest string) string {
	if _, err := os.Lstat(dest); errors.Is(err, fs.ErrNotExist) {
		return dest
	}
	ext := filepath.Ext(dest)
	base := dest[:len(dest)-len(ext)]
	for i := 2; ; i++ {
		try := fmt.Sprintf("%s_%d%s", base, i, ext)
		if _, err := os.Lstat(try); errors.Is(err, fs.ErrNotExist) {
			return try
		}
	}
}

// writeFileAtomic writes name under dir through a temp file and a rename,
// so readers never observe a half-written file.
func writeFileAtomic(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(0644); err != nil && runtime.GOOS != "windows" {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, filepath.Join(dir, name))
}
