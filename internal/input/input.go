// Package input provides interactive terminal prompts.
//
// The CLI uses these when a decision is needed that flags did not settle,
// such as confirming an overwrite of an existing directory.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// IsTerminal reports whether stdin is attached to a terminal.
// Prompts must not be shown when input is piped or redirected.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Confirm asks the user a yes/no question and returns true for y/yes.
// Pressing Enter returns defaultYes.
//
// Example:
//
//	if input.Confirm("Overwrite existing files?", false) {
//	    // user said yes
//	}
func Confirm(message string, defaultYes bool) bool {
	return confirm(os.Stdin, message, defaultYes)
}

func confirm(r io.Reader, message string, defaultYes bool) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}

	fmt.Print(promptStyle.Render(message) + " " + hintStyle.Render(hint) + ": ")

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil {
		return defaultYes
	}

	line = strings.TrimSpace(strings.ToLower(line))
	if line == "" {
		return defaultYes
	}

	return line == "y" || line == "yes"
}
