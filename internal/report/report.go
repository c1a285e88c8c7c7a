// Package report formats a resolved plan and commit result for humans.
// It is pure formatting: nothing here influences planning, rendering, or
// writing.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Ryandj11/AutoStack/internal/planner"
	"github.com/Ryandj11/AutoStack/internal/render"
	"github.com/Ryandj11/AutoStack/internal/writer"
)

var (
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	moduleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("white"))
	fileStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	keptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
)

// Commit renders the summary of a completed run: modules applied, files
// written, and pre-existing files that were preserved.
func Commit(plan *planner.Plan, result *writer.Result) string {
	var b strings.Builder

	writeModules(&b, plan)

	b.WriteString(headingStyle.Render(fmt.Sprintf("Files written (%d)", len(result.Written))) + "\n")
	for _, p := range result.Written {
		b.WriteString(fileStyle.Render("  "+p) + "\n")
	}

	if len(result.Preserved) > 0 {
		b.WriteString(keptStyle.Render(fmt.Sprintf("Pre-existing files preserved (%d)", len(result.Preserved))) + "\n")
		for _, p := range result.Preserved {
			b.WriteString(fileStyle.Render("  "+p) + "\n")
		}
	}

	return b.String()
}

// DryRun renders what a run would write, without a commit result.
func DryRun(plan *planner.Plan, files []render.File) string {
	var b strings.Builder

	writeModules(&b, plan)

	b.WriteString(headingStyle.Render(fmt.Sprintf("Would write (%d)", len(files))) + "\n")
	for _, f := range files {
		b.WriteString(fileStyle.Render(fmt.Sprintf("  %s (%d bytes)", f.Path, len(f.Content))) + "\n")
	}

	return b.String()
}

func writeModules(b *strings.Builder, plan *planner.Plan) {
	b.WriteString(headingStyle.Render("Modules applied") + "\n")
	for _, m := range plan.Modules {
		if m.Variant.Name == "none" {
			continue
		}
		b.WriteString(moduleStyle.Render(fmt.Sprintf("  %s: %s", m.Kind, m.Variant.Name)) + "\n")
	}
}
