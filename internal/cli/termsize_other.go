//go:build !unix

package cli

import "io"

// TerminalWidth returns the COLUMNS width or DefaultTerminalWidth.
func TerminalWidth(io.Writer) int {
	return envWidth()
}
