//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package util

// IsTerminal reports whether fd refers to a terminal. Always false here.
func IsTerminal(fd uintptr) bool {
	return false
}
