//go:build !linux && !darwin

package cmd

// isTerminal reports whether fd is attached to a terminal. Without
// termios there is no cheap way to tell, so color stays off.
func isTerminal(fd uintptr) bool {
	return false
}
