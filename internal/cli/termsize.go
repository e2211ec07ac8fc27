package cli

import (
	"os"
	"strconv"
)

// DefaultTerminalWidth is used when the width cannot be queried.
const DefaultTerminalWidth = 80

// envWidth reads COLUMNS, which shells export for non-tty children.
func envWidth() int {
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return DefaultTerminalWidth
}
