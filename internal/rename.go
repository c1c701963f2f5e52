package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	TokenDate    = "{date}"
	TokenCounter = "{counter}"
	TokenHash    = "{hash}"

	DefaultPattern = "photo_{date}_{counter}"

	renameDateLayout = "20060102_150405"
)

// ValidatePattern checks that a naming pattern yields a plain file name
// that depends on at least one token.
func ValidatePattern(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return errors.New("rename pattern must not be empty")
	}
	if strings.ContainsAny(pattern, `/\`) {
		return fmt.Errorf("rename pattern %q must not contain path separators", pattern)
	}
	if !strings.Contains(pattern, TokenDate) && !strings.Contains(pattern, TokenCounter) && !strings.Contains(pattern, TokenHash) {
		return fmt.Errorf("rename pattern %q has none of %s, %s, %s", pattern, TokenDate, TokenCounter, TokenHash)
	}
	return nil
}

// Renamer renames photos in place following Pattern.
type Renamer struct {
	Pattern string
	Sink    Sink
}

// TargetName is the name photo p gets as the counter-th record of a pass.
// The original extension is kept verbatim.
func (r *Renamer) TargetName(p *Photo, counter int) string {
	name := strings.NewReplacer(
		TokenDate, p.Created.Format(renameDateLayout),
		TokenCounter, fmt.Sprintf("%04d", counter),
		TokenHash, p.HashPrefix(),
	).Replace(r.Pattern)
	return name + p.Ext()
}

// Rename renames every photo inside its own directory. The counter advances
// once per photo, including photos that are skipped or fail. Photos whose
// file is gone are skipped but stay in the working set, so a later pass
// numbers the rest the same way; photos whose rename fails keep their old
// path.
func (r *Renamer) Rename(photos []*Photo) StageResult {
	res := StageResult{Photos: photos}

	for i, p := range photos {
		counter := i + 1

		if _, err := os.Stat(p.Path); errors.Is(err, fs.ErrNotExist) {
			warnf(r.Sink, "file does not exist, skipping: %s", p.Name())
			res.Missing++
			res.Failures = append(res.Failures, CategorizeError(StageRename, p.Path, err))
			continue
		}

		name := r.TargetName(p, counter)
		if name == p.Name() {
			res.Unchanged++
			continue
		}

		oldName := p.Name()
		dst := filepath.Join(filepath.Dir(p.Path), name)
		if err := moveFile(p.Path, dst); err != nil {
			errorf(r.Sink, "failed to rename %s: %v", oldName, err)
			res.Failures = append(res.Failures, CategorizeError(StageRename, p.Path, err))
			continue
		}

		res.Moves = append(res.Moves, Move{From: p.Path, To: dst, Hash: p.Hash, Size: p.Size})
		p.relocate(dst)
		emitf(r.Sink, "renamed: %s -> %s", oldName, name)
	}

	return res
}
