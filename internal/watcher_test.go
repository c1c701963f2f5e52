package internal

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebounce_CoalescesBursts(t *testing.T) {
	events := make(chan string)
	var fired atomic.Int32
	done := make(chan struct{})

	go func() {
		Debounce(context.Background(), events, 200*time.Millisecond, func() { fired.Add(1) })
		close(done)
	}()

	for i := 0; i < 5; i++ {
		events <- "a.jpg"
	}
	assert.Eventually(t, func() bool { return fired.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	// an echo right after the run is ignored
	events <- "b.jpg"
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())

	close(events)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Debounce did not return after events closed")
	}
}

func TestDebounce_StopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Debounce(ctx, make(chan string), time.Second, func() { t.Error("fire must not run") })
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Debounce did not return after cancel")
	}
}

func TestWatcher_ReportsImages(t *testing.T) {
	root := t.TempDir()
	w, err := NewWatcher(root, DefaultExtensions, []string{DefaultDuplicatesDir})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644))
	path := filepath.Join(root, "new.jpg")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	select {
	case got := <-w.Events():
		assert.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for a new image")
	}
}
