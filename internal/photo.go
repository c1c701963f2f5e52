package internal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	hashChunkSize  = 8192
	hashPrefixSize = 8
)

// Photo is one image file of the gallery. Path always names the file's
// current location; Hash and Created are fixed once the photo is scanned.
type Photo struct {
	Path    string
	Hash    string
	Created time.Time
	Size    int64
}

// NewPhoto stats and hashes the file at path.
func NewPhoto(path string) (*Photo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fi, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", abs)
	}

	hash, err := fileHash(abs)
	if err != nil {
		return nil, err
	}

	return &Photo{
		Path:    abs,
		Hash:    hash,
		Created: creationTime(abs, fi),
		Size:    fi.Size(),
	}, nil
}

// fileHash computes the MD5 hash of a file content, read in fixed-size chunks
func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	buf := make([]byte, hashChunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to hash %s: %w", path, err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (p *Photo) Name() string {
	return filepath.Base(p.Path)
}

// Ext returns the extension exactly as it appears in the file name.
func (p *Photo) Ext() string {
	return filepath.Ext(p.Path)
}

func (p *Photo) HashPrefix() string {
	if len(p.Hash) < hashPrefixSize {
		return p.Hash
	}
	return p.Hash[:hashPrefixSize]
}

// Exists reports whether the file is still present at Path.
func (p *Photo) Exists() bool {
	_, err := os.Stat(p.Path)
	return err == nil
}

// relocate points the photo at its new location and refreshes the size.
func (p *Photo) relocate(path string) {
	p.Path = path
	if fi, err := os.Stat(path); err == nil {
		p.Size = fi.Size()
	}
}

func (p *Photo) String() string {
	hash := p.HashPrefix()
	if hash == "" {
		hash = "no_hash"
	}
	return fmt.Sprintf("Photo{file=%s, hash=%s, date=%s}", p.Name(), hash, p.Created.Format(time.DateTime))
}

// normalizeExt lower-cases an extension and makes sure it has a leading dot.
func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
