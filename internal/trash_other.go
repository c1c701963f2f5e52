//go:build !(linux || freebsd || openbsd || netbsd || dragonfly || darwin)

package internal

func newSystemTrash() Trash {
	return NoTrash{}
}
