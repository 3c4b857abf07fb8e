package ui

import (
	"os"

	"golang.org/x/term"
)

// ColorEnabled reports whether styled output should be written to f.
// NO_COLOR wins over everything, then CLICOLOR=0 and CLICOLOR_FORCE;
// otherwise color follows whether f is a terminal.
func ColorEnabled(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	if _, ok := os.LookupEnv("CLICOLOR_FORCE"); ok {
		return true
	}
	return f != nil && term.IsTerminal(int(f.Fd()))
}
