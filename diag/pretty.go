package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/rivo/uniseg"
	"golang.org/x/term"
)

// ColorMode controls whether PrettyPrinter colorizes its output.
type ColorMode int

const (
	// ColorAuto colorizes only when the underlying writer is a terminal.
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// defaultTermWidth is used when the output width can't be queried (not a
// terminal, or the query fails), matching report.MaxMessageWidth's role in
// the teacher's width.go: a sane wrap width rather than an unbounded one.
const defaultTermWidth = 80

// PrettyPrinter renders diagnostics as a clang-style single-line source
// snippet with a caret under the failing column, grounded on the teacher's
// experimental/report package (width.go's tabstop-aware column math), styled
// with the same lipgloss/isatty pairing yaklabco/gomdlint's internal/cli uses
// for its own colored terminal output.
type PrettyPrinter struct {
	w     io.Writer
	color bool
	width int

	errorStyle, warningStyle, infoStyle lipgloss.Style
}

// NewPrettyPrinter builds a PrettyPrinter writing to w. If w has an
// Fd() uintptr method (a plain *os.File does), that descriptor is consulted
// for terminal detection and width.
func NewPrettyPrinter(w io.Writer, mode ColorMode) *PrettyPrinter {
	color := mode == ColorAlways
	if mode == ColorAuto {
		if f, ok := w.(interface{ Fd() uintptr }); ok {
			color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}

	width := defaultTermWidth
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		if wd, _, err := term.GetSize(int(f.Fd())); err == nil && wd > 0 {
			width = wd
		}
	}

	p := &PrettyPrinter{w: w, color: color, width: width}
	if color {
		p.errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
		p.warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
		p.infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	} else {
		plain := lipgloss.NewStyle()
		p.errorStyle, p.warningStyle, p.infoStyle = plain, plain, plain
	}
	return p
}

var _ Reporter = (*PrettyPrinter)(nil)

func (p *PrettyPrinter) styleFor(l Level) lipgloss.Style {
	switch l {
	case Error, FatalError:
		return p.errorStyle
	case Warning:
		return p.warningStyle
	default:
		return p.infoStyle
	}
}

// Report implements Reporter. It always writes the plain
// "<file>:<line>:<column>: <level>: <message>" form from spec §7 first (so
// piped/CI consumers, and any non-terminal writer, get the stable
// grep-friendly line), then, when a specific source position is known,
// follows it with a source-line snippet and a caret under the failing
// column. A diagnostic with no location is written as "<level>: <message>".
func (p *PrettyPrinter) Report(d WithPos) {
	pos := d.Pos()
	level := p.styleFor(d.Level()).Render(d.Level().String())
	msg := wrap(d.Unwrap().Error(), p.width)

	src := pos.Source()
	if src == nil {
		fmt.Fprintf(p.w, "%s: %s\n", level, msg)
		return
	}
	fmt.Fprintf(p.w, "%s: %s: %s\n", pos.Pos(), level, msg)
	line := sourceLine(src.Data(), pos.Pos().Line)
	if line == "" {
		return
	}
	fmt.Fprintln(p.w, line)
	fmt.Fprintln(p.w, caretLine(line, pos.Pos().Col))
}

// sourceLine extracts the 1-indexed line n from data, without its trailing
// line terminator.
func sourceLine(data []byte, n int) string {
	line := 1
	start := 0
	for i, b := range data {
		if line == n && b == '\n' {
			return strings.TrimSuffix(string(data[start:i]), "\r")
		}
		if b == '\n' {
			line++
			start = i + 1
		}
	}
	if line == n {
		return strings.TrimSuffix(string(data[start:]), "\r")
	}
	return ""
}

// caretLine renders a "    ^" line pointing at column col (1-based), using
// uniseg.StringWidth for display-width-correct alignment under wide or
// combining runes in line's prefix, the same dependency and rationale the
// teacher's width.go documents for its own column math.
func caretLine(line string, col int) string {
	if col < 1 {
		col = 1
	}
	prefix := line
	if col-1 <= len(line) {
		prefix = line[:col-1]
	}
	return strings.Repeat(" ", uniseg.StringWidth(prefix)) + "^"
}

// wrap breaks msg into width-bounded lines, joined back with a continuation
// indent, for messages long enough to overrun a narrow terminal.
func wrap(msg string, width int) string {
	if width <= 0 || uniseg.StringWidth(msg) <= width {
		return msg
	}
	var b strings.Builder
	var lineWidth int
	for i, word := range strings.Fields(msg) {
		w := uniseg.StringWidth(word)
		if i > 0 {
			if lineWidth+1+w > width {
				b.WriteString("\n  ")
				lineWidth = 0
			} else {
				b.WriteByte(' ')
				lineWidth++
			}
		}
		b.WriteString(word)
		lineWidth += w
	}
	return b.String()
}
