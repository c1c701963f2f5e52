package internal

import (
    "os"
    "time"
)

// creationTime returns the file birth time when the platform records one,
// falling back to the modification time.
func creationTime(path string, fi os.FileInfo) time.Time {
    if t, ok := birthTime(path, fi); ok && !t.IsZero() {
        return t
    }
    return fi.ModTime()
}
