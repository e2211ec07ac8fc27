//go:build unix

package cli

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// TerminalWidth returns the number of columns of the terminal behind out,
// or DefaultTerminalWidth when out is not a terminal.
func TerminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok {
		return envWidth()
	}
	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 {
		return envWidth()
	}
	return int(ws.Col)
}
