package internal

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// FileSink writes every emitted line to a log file with a timestamp prefix.
type FileSink struct {
	mu sync.Mutex
	f  *os.File
}

func NewFileSink(path string) (*FileSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileSink{f: f}, nil
}

func (l *FileSink) Emit(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.f, "%s %s\n", time.Now().Format(time.DateTime), line)
}

func (l *FileSink) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}
