package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/idlgraph/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - cycles, highlights
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - illegal cycles
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - labels
	colorDim    = lipgloss.Color("240") // Dim gray - stats, details
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleHighlight for class names in cycle listings.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleLabel   = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleInfo    = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// printer writes styled status lines for a command. Commands print to their
// own output stream so tests can capture it.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) printer { return printer{w: w} }

func (p printer) line(s string) { fmt.Fprintln(p.w, s) }

func (p printer) success(format string, args ...any) {
	p.line(styleSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func (p printer) warning(format string, args ...any) {
	p.line(StyleWarning.Render(iconWarning + " " + fmt.Sprintf(format, args...)))
}

func (p printer) info(format string, args ...any) {
	p.line(styleInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// detail prints an indented muted line.
func (p printer) detail(format string, args ...any) {
	p.line("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints an output path.
func (p printer) file(path string) {
	p.line("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// keyValue prints a labeled value.
func (p printer) keyValue(key, value string) {
	p.line(styleLabel.Render(key) + " " + StyleValue.Render(value))
}

// stats prints pipeline statistics on a single line.
func (p printer) stats(s pipeline.Stats) {
	p.line("  " + StyleDim.Render(statsLine(s)))
}

func statsLine(s pipeline.Stats) string {
	parts := []string{
		fmt.Sprintf("%d packages", s.PackageCount),
		fmt.Sprintf("%d classes", s.ClassCount),
		fmt.Sprintf("%d edges", s.EdgeCount),
	}
	if s.CycleCount > 0 {
		parts = append(parts, fmt.Sprintf("%d cycles", s.CycleCount))
	}
	total := s.TransformTime + s.AnalyzeTime + s.OrderTime
	parts = append(parts, total.Round(time.Millisecond).String())
	return strings.Join(parts, " · ")
}
