package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Colors are dropped automatically when stdout is not a terminal or NO_COLOR is set.
var (
	pageColor = color.New(color.FgCyan, color.Bold)
	keyColor  = color.New(color.FgGreen)
)

func printHeader(out io.Writer, key string, count int) {
	keyColor.Fprintf(out, "# %s", key)
	fmt.Fprintf(out, " (%d)\n", count)
}
