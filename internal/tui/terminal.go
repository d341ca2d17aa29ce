package tui

import (
	"os"

	"golang.org/x/term"
)

// Terminal size fallbacks.
const (
	defaultWidth  = 100
	defaultHeight = 30
	minHeight     = 5
)

// OutputMode selects how list results are presented.
type OutputMode int

const (
	// OutputModePlain writes unstyled tables, for pipes and files.
	OutputModePlain OutputMode = iota
	// OutputModeStyled writes colored tables to a terminal.
	OutputModeStyled
	// OutputModeInteractive runs the browser.
	OutputModeInteractive
)

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// DetectOutputMode picks the richest mode the environment allows. plain forces
// plain output; NO_COLOR or noColor downgrade styled output to plain.
func DetectOutputMode(interactive, noColor, plain bool) OutputMode {
	if plain || !IsTTY() {
		return OutputModePlain
	}
	if noColor || os.Getenv("NO_COLOR") != "" {
		return OutputModePlain
	}
	if interactive && term.IsTerminal(int(os.Stdin.Fd())) {
		return OutputModeInteractive
	}
	return OutputModeStyled
}

// TerminalSize returns the stdout size, or defaults when it cannot be determined.
func TerminalSize() (int, int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || height <= 0 {
		return defaultWidth, defaultHeight
	}
	return width, height
}
