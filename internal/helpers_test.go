package internal

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// captureSink records every emitted line.
type captureSink struct {
	mu    sync.Mutex
	lines []string
}

func (c *captureSink) Emit(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, line)
}

func (c *captureSink) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

// count returns how many lines contain substr.
func (c *captureSink) count(substr string) int {
	n := 0
	for _, line := range c.Lines() {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

func (c *captureSink) contains(substr string) bool {
	return c.count(substr) > 0
}

// writeFile creates path with data, making parent directories as needed.
func writeFile(t *testing.T, path string, data string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

// testConfig returns the defaults with a small worker pool.
func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Workers = 2
	return cfg
}

// fakePhoto backs a hand-built Photo with a real file so stages can move it.
func fakePhoto(t *testing.T, path, hash string, size int, created time.Time) *Photo {
	t.Helper()
	writeFile(t, path, strings.Repeat("x", size))
	return &Photo{Path: path, Hash: hash, Size: int64(size), Created: created}
}

var fixedTime = time.Date(2024, time.March, 15, 14, 30, 45, 0, time.Local)
