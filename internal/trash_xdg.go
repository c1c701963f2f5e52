//go:build linux || freebsd || openbsd || netbsd || dragonfly

package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// XDGTrash implements the freedesktop.org trash: files/ holds the trashed
// file and info/ a .trashinfo record naming where it came from. Files on
// the home filesystem go to the home trash in Dir; files on other mounts go
// to $topdir/.Trash/$uid or $topdir/.Trash-$uid of their own mount.
type XDGTrash struct {
	Dir string
	now func() time.Time
	// devOf reports the device a path lives on.
	devOf func(path string) (uint64, error)
}

func newSystemTrash() Trash {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return NoTrash{}
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return &XDGTrash{Dir: filepath.Join(dataHome, "Trash"), now: time.Now, devOf: deviceOf}
}

func deviceOf(path string) (uint64, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, err
	}
	return uint64(st.Dev), nil
}

func (t *XDGTrash) Available() bool {
	for _, sub := range []string{"files", "info"} {
		if err := os.MkdirAll(filepath.Join(t.Dir, sub), 0700); err != nil {
			return false
		}
	}
	return true
}

func (t *XDGTrash) MoveToTrash(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Lstat(abs); err != nil {
		return "", err
	}

	dir, infoPath, err := t.trashFor(abs)
	if err != nil {
		return "", err
	}
	return t.moveInto(dir, abs, infoPath)
}

// trashFor picks the trash directory for abs and the Path= value of its
// record: absolute for the home trash, relative to the mount for a topdir trash.
func (t *XDGTrash) trashFor(abs string) (string, string, error) {
	if t.devOf == nil {
		return t.Dir, abs, nil
	}
	homeDev, err := t.devOf(t.Dir)
	if err != nil {
		return t.Dir, abs, nil
	}
	fileDev, err := t.devOf(filepath.Dir(abs))
	if err != nil {
		return "", "", err
	}
	if fileDev == homeDev {
		return t.Dir, abs, nil
	}

	top := t.mountTop(filepath.Dir(abs), fileDev)
	dir, err := topdirTrash(top)
	if err != nil {
		return "", "", fmt.Errorf("no trash on the filesystem of %s: %w", abs, err)
	}
	rel, err := filepath.Rel(top, abs)
	if err != nil {
		return "", "", err
	}
	return dir, rel, nil
}

// mountTop walks up from dir to the topmost directory still on dev.
func (t *XDGTrash) mountTop(dir string, dev uint64) string {
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		if d, err := t.devOf(parent); err != nil || d != dev {
			return dir
		}
		dir = parent
	}
}

// topdirTrash returns $top/.Trash/$uid when an administrator prepared a
// sticky, non-symlink $top/.Trash, and $top/.Trash-$uid otherwise.
func topdirTrash(top string) (string, error) {
	uid := strconv.Itoa(os.Getuid())

	shared := filepath.Join(top, ".Trash")
	if fi, err := os.Lstat(shared); err == nil && fi.IsDir() && fi.Mode()&fs.ModeSticky != 0 {
		dir := filepath.Join(shared, uid)
		if err := mkTrashDirs(dir); err == nil {
			return dir, nil
		}
	}

	dir := filepath.Join(top, ".Trash-"+uid)
	if err := mkTrashDirs(dir); err != nil {
		return "", err
	}
	return dir, nil
}

func mkTrashDirs(dir string) error {
	for _, sub := range []string{"files", "info"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0700); err != nil {
			return err
		}
	}
	return nil
}

// moveInto reserves a name in dir by creating its .trashinfo exclusively,
// then moves the file.
func (t *XDGTrash) moveInto(dir, abs, recordPath string) (string, error) {
	ext := filepath.Ext(abs)
	stem := strings.TrimSuffix(filepath.Base(abs), ext)
	var name, infoPath string
	var info *os.File
	var err error
	for i := 1; ; i++ {
		name = stem + ext
		if i > 1 {
			name = fmt.Sprintf("%s_%d%s", stem, i, ext)
		}
		infoPath = filepath.Join(dir, "info", name+".trashinfo")
		info, err = os.OpenFile(infoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
	}

	now := time.Now
	if t.now != nil {
		now = t.now
	}
	record := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		(&url.URL{Path: filepath.ToSlash(recordPath)}).EscapedPath(), now().Format("2006-01-02T15:04:05"))
	_, werr := info.WriteString(record)
	if cerr := info.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		os.Remove(infoPath)
		return "", werr
	}

	dst := filepath.Join(dir, "files", name)
	if err := moveFile(abs, dst); err != nil {
		os.Remove(infoPath)
		return "", err
	}
	return dst, nil
}
