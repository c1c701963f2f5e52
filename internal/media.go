package internal

import (
    "io/fs"
    "path/filepath"
    "strings"
)

type extensionSet map[string]struct{}

func newExtensionSet(exts []string) extensionSet {
    set := make(extensionSet, len(exts))
    for _, e := range exts {
        if e = normalizeExt(e); e != "" {
            set[e] = struct{}{}
        }
    }
    return set
}

func (s extensionSet) match(name string) bool {
    _, ok := s[normalizeExt(filepath.Ext(name))]
    return ok
}

// isTrashDir matches the per-mount trash directories of the system trash.
func isTrashDir(name string) bool {
    return name == ".Trash" || strings.HasPrefix(name, ".Trash-")
}

// discoverImages walks root depth-first and returns every regular file with a
// supported extension. Directories named in reserved, and trash directories,
// are pruned with all their descendants; unreadable subtrees are skipped silently.
func discoverImages(root string, exts extensionSet, reserved []string) []string {
    skip := make(map[string]bool, len(reserved))
    for _, name := range reserved {
        skip[name] = true
    }

    var files []string
    filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
        if err != nil {
            if d != nil && d.IsDir() {
                return filepath.SkipDir
            }
            return nil
        }
        if d.IsDir() {
            if path != root && (skip[d.Name()] || isTrashDir(d.Name())) {
                return filepath.SkipDir
            }
            return nil
        }
        if d.Type().IsRegular() && exts.match(d.Name()) {
            files = append(files, path)
        }
        return nil
    })
    return files
}
