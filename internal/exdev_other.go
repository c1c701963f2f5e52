//go:build !unix && !windows

package internal

func isEXDEV(error) bool { return false }
