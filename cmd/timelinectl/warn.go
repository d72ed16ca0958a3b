package main

import (
	"os"

	"github.com/fatih/color"
)

var warnColor = color.New(color.FgYellow)

// cliWarn is the Warn callback handed to timeline.Config: non-fatal
// diagnostics (an unknown recorder flag, a file recorder that couldn't
// open its output) printed to stderr in yellow.
func cliWarn(format string, args ...any) {
	warnColor.Fprintf(os.Stderr, format+"\n", args...)
}
