// Package diff renders unified diffs between an existing file and its
// freshly generated replacement, so a forced overwrite can be inspected
// before it happens.
package diff

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Options configures diff output. Zero values pick sensible defaults.
type Options struct {
	ContextLines int // unchanged lines shown around changes, default 3
	TabWidth     int // spaces per tab, default 4
}

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("22"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("52"))
)

// Unified produces a styled unified diff between old and newer content.
// Identical content yields an empty string.
func Unified(path string, old, newer []byte, opts *Options) string {
	if opts == nil {
		opts = &Options{}
	}
	if opts.ContextLines == 0 {
		opts.ContextLines = 3
	}
	if opts.TabWidth == 0 {
		opts.TabWidth = 4
	}

	if isBinary(old) || isBinary(newer) {
		if bytes.Equal(old, newer) {
			return ""
		}
		return "Binary files differ\n"
	}

	oldLines := splitLines(string(old))
	newLines := splitLines(string(newer))

	script := editScript(oldLines, newLines)
	hunks := buildHunks(script, opts.ContextLines)
	if len(hunks) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("--- "+path) + "\n")
	b.WriteString(headerStyle.Render("+++ "+path+" (generated)") + "\n")

	width := terminalWidth()
	for _, h := range hunks {
		b.WriteString(formatHunk(h, opts, width))
	}
	return b.String()
}

type op int

const (
	opKeep op = iota
	opAdd
	opDel
)

type line struct {
	oldNum  int // 1-based line number in old content, 0 if added
	newNum  int // 1-based line number in new content, 0 if removed
	content string
	op      op
}

type hunk struct {
	oldStart, oldCount int
	newStart, newCount int
	lines              []line
}

// editScript computes the shortest edit script between two line slices
// using Myers' algorithm ("An O(ND) Difference Algorithm and Its
// Variations", 1986).
func editScript(old, newer []string) []line {
	n, m := len(old), len(newer)
	maxD := n + m

	v := map[int]int{1: 0}
	var trace []map[int]int

	for d := 0; d <= maxD; d++ {
		snapshot := make(map[int]int, len(v))
		for k, x := range v {
			snapshot[k] = x
		}
		trace = append(trace, snapshot)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[k-1] < v[k+1]) {
				x = v[k+1]
			} else {
				x = v[k-1] + 1
			}
			y := x - k
			for x < n && y < m && old[x] == newer[y] {
				x++
				y++
			}
			v[k] = x
			if x >= n && y >= m {
				return backtrack(trace, old, newer, n, m)
			}
		}
	}
	return backtrack(trace, old, newer, n, m)
}

func backtrack(trace []map[int]int, old, newer []string, n, m int) []line {
	var script []line
	x, y := n, m

	for d := len(trace) - 1; d >= 0; d-- {
		v := trace[d]
		k := x - y

		var prevK int
		if k == -d || (k != d && v[k-1] < v[k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := v[prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			script = append([]line{{oldNum: x + 1, newNum: y + 1, content: old[x], op: opKeep}}, script...)
		}

		if d > 0 {
			if x == prevX {
				y--
				script = append([]line{{newNum: y + 1, content: newer[y], op: opAdd}}, script...)
			} else {
				x--
				script = append([]line{{oldNum: x + 1, content: old[x], op: opDel}}, script...)
			}
		}
	}
	return script
}

// buildHunks groups changed lines into hunks with surrounding context.
func buildHunks(script []line, context int) []hunk {
	var hunks []hunk
	var current *hunk

	for i, ln := range script {
		if ln.op != opKeep {
			if current == nil {
				start := i - context
				if start < 0 {
					start = 0
				}
				current = &hunk{}
				current.lines = append(current.lines, script[start:i]...)
			}
			current.lines = append(current.lines, ln)
			continue
		}

		if current == nil {
			continue
		}
		current.lines = append(current.lines, ln)

		trailing := 1
		for j := i + 1; j < len(script) && script[j].op == opKeep; j++ {
			trailing++
		}
		if trailing > context*2 && i < len(script)-1 {
			if trim := trailing - context; trim > 0 && trim <= len(current.lines) {
				current.lines = current.lines[:len(current.lines)-trim]
			}
			finalize(current)
			hunks = append(hunks, *current)
			current = nil
		}
	}

	if current != nil {
		finalize(current)
		hunks = append(hunks, *current)
	}
	return hunks
}

func finalize(h *hunk) {
	for _, ln := range h.lines {
		if ln.oldNum > 0 && (h.oldStart == 0 || ln.oldNum < h.oldStart) {
			h.oldStart = ln.oldNum
		}
		if ln.newNum > 0 && (h.newStart == 0 || ln.newNum < h.newStart) {
			h.newStart = ln.newNum
		}
		if ln.op != opAdd {
			h.oldCount++
		}
		if ln.op != opDel {
			h.newCount++
		}
	}
}

func formatHunk(h hunk, opts *Options, width int) string {
	var b strings.Builder
	b.WriteString(hunkStyle.Render(fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.oldStart, h.oldCount, h.newStart, h.newCount)) + "\n")

	for _, ln := range h.lines {
		content := truncate(expandTabs(ln.content, opts.TabWidth), width-4)
		switch ln.op {
		case opAdd:
			b.WriteString(addedStyle.Render("+"+content) + "\n")
		case opDel:
			b.WriteString(removedStyle.Render("-"+content) + "\n")
		default:
			b.WriteString(" " + content + "\n")
		}
	}
	return b.String()
}

func isBinary(data []byte) bool {
	probe := data
	if len(probe) > 8192 {
		probe = probe[:8192]
	}
	return bytes.IndexByte(probe, 0) != -1
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func expandTabs(s string, tabWidth int) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

func truncate(s string, max int) string {
	if max <= 3 {
		max = 80
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
