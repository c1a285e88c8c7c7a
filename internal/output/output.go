// Package output provides styled terminal output for the AutoStack CLI.
//
// All commands print through this package so success, error, and progress
// messages look the same everywhere. Styling uses lipgloss but callers never
// touch styles directly.
package output

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	verboseMode bool
)

// SetVerbose enables or disables verbose output.
// The CLI calls this when the --verbose flag is set.
func SetVerbose(v bool) {
	verboseMode = v
}

// Success prints a completed-operation message in green.
//
// Example:
//
//	output.Success("Created project: myapp")
func Success(msg string) {
	fmt.Println(successStyle.Render("🚀 " + msg))
}

// Error prints a failure message in red.
func Error(msg string) {
	fmt.Println(errorStyle.Render("🔥 " + msg))
}

// Warn prints a warning in yellow. Use this for situations the user should
// look at but that did not stop the run.
func Warn(msg string) {
	fmt.Println(warnStyle.Render("⚠️  " + msg))
}

// Info prints a status update or explanation in cyan.
func Info(msg string) {
	fmt.Println(infoStyle.Render("ℹ️  " + msg))
}

// Step prints an indented sub-item in gray. Use this for next steps or
// per-file detail under a summary line.
//
// Example:
//
//	output.Step("cd myapp")
//	output.Step("docker compose up")
func Step(msg string) {
	fmt.Println(stepStyle.Render("   " + msg))
}

// Verbose prints a debug message only when verbose mode is enabled.
func Verbose(msg string) {
	if verboseMode {
		fmt.Println(stepStyle.Render("🔍 " + msg))
	}
}
