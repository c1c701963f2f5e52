package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"
)

// Scanner discovers image files under a root and builds their Photo records
// on a bounded pool of hashing workers.
type Scanner struct {
	Extensions    []string
	Reserved      []string
	Workers       int
	ProgressEvery int
	// SniffContent drops files whose bytes do not look like an image.
	SniffContent bool
	Sink         Sink
}

func NewScanner(cfg *Config, sink Sink) *Scanner {
	return &Scanner{
		Extensions:    cfg.Extensions,
		Reserved:      cfg.ReservedDirs(),
		Workers:       cfg.WorkerCount(),
		ProgressEvery: cfg.ProgressEvery,
		SniffContent:  cfg.SniffContent,
		Sink:          sink,
	}
}

// Scan returns a Photo for every eligible file under root, ordered by path.
// Files that fail to stat or hash are logged and left out. The only error
// returned is ErrInvalidRoot, or the context error if ctx ends first.
func (s *Scanner) Scan(ctx context.Context, root string) ([]*Photo, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRoot, root)
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRoot, root, err)
	}

	files := discoverImages(root, newExtensionSet(s.Extensions), s.Reserved)
	total := len(files)
	emitf(s.Sink, "found %d files to process", total)
	if total == 0 {
		return nil, nil
	}

	workers := s.Workers
	if workers <= 0 {
		workers = 1
	}
	every := s.ProgressEvery
	if every <= 0 {
		every = 50
	}

	results := make([]*Photo, total)
	var done atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		i, path := i, path
		g.Go(func() error {
			p, err := s.load(path)
			if err != nil {
				errorf(s.Sink, "failed to process %s: %v", filepath.Base(path), err)
			} else {
				results[i] = p
			}
			if n := done.Add(1); n%int64(every) == 0 || n == int64(total) {
				emitf(s.Sink, "processed: %d / %d files", n, total)
			}
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	photos := make([]*Photo, 0, total)
	for _, p := range results {
		if p != nil {
			photos = append(photos, p)
		}
	}
	return photos, nil
}

func (s *Scanner) load(path string) (*Photo, error) {
	if s.SniffContent {
		mt, err := mimetype.DetectFile(path)
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(mt.String(), "image/") {
			return nil, fmt.Errorf("content is %s, not an image", mt.String())
		}
	}
	return NewPhoto(path)
}
