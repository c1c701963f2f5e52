//go:build !linux

package internal

func renameNoReplace(src, dst string) error {
	return renameIfAbsent(src, dst)
}
