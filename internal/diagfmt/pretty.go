package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"sortlint/internal/diag"
	"sortlint/internal/source"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow, color.Bold)
	infoColor  = color.New(color.FgCyan, color.Bold)
	codeColor  = color.New(color.Bold)
	noteColor  = color.New(color.FgCyan)
	fixColor   = color.New(color.FgGreen)
	caretColor = color.New(color.FgRed, color.Bold)
	okColor    = color.New(color.FgGreen, color.Bold)
)

// Pretty renders the diagnostics in human-readable form, one block per
// diagnostic:
//
//	<path>:<line>:<col>: <sev> <CODE>: <message>
//	    <source line>
//	    <caret underline over the span>
//	  note: ...
//	  fix [<id>]: <title>
//
// Iterates bag.Items() as-is; callers sort the bag first.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		printDiagnostic(w, d, fs, opts)
	}
}

func printDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	start, _ := fs.Resolve(d.Primary)
	path := fs.Get(d.Primary.File).FormatPath(opts.PathMode.formatArg(), fs.BaseDir())

	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		path, start.Line, start.Col,
		paint(opts.Color, severityColor(d.Severity), d.Severity.String()),
		paint(opts.Color, codeColor, d.Code.ID()),
		d.Message)

	if !opts.NoContext {
		printContext(w, d.Primary, fs, opts)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			ns, _ := fs.Resolve(n.Span)
			npath := fs.Get(n.Span.File).FormatPath(opts.PathMode.formatArg(), fs.BaseDir())
			fmt.Fprintf(w, "  %s: %s:%d:%d: %s\n",
				paint(opts.Color, noteColor, "note"), npath, ns.Line, ns.Col, n.Msg)
		}
	}

	if opts.ShowFixes {
		for _, f := range d.Fixes {
			fmt.Fprintf(w, "  %s [%s]: %s\n",
				paint(opts.Color, fixColor, "fix"), f.ID, f.Title)
		}
	}
}

// printContext shows the span's first source line with a caret underline.
// The underline is clamped to the line end; width accounting uses rune
// display widths so tabs and wide characters keep the caret aligned.
func printContext(w io.Writer, span source.Span, fs *source.FileSet, opts PrettyOpts) {
	file := fs.Get(span.File)
	start, end := fs.Resolve(span)
	line := file.GetLine(start.Line)
	if line == "" {
		return
	}

	gutter := fmt.Sprintf("%5d | ", start.Line)
	fmt.Fprintf(w, "%s%s\n", gutter, line)

	runes := []rune(line)
	startCol := int(start.Col) - 1
	endCol := len(runes)
	if end.Line == start.Line && int(end.Col)-1 < endCol {
		endCol = int(end.Col) - 1
	}
	if startCol > len(runes) {
		startCol = len(runes)
	}
	if endCol <= startCol {
		endCol = startCol + 1
	}

	pad := runewidth.StringWidth(string(runes[:startCol]))
	width := runewidth.StringWidth(string(runes[startCol:min(endCol, len(runes))]))
	if width < 1 {
		width = 1
	}

	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s%s%s\n",
		strings.Repeat(" ", len(gutter)),
		strings.Repeat(" ", pad),
		paint(opts.Color, caretColor, underline))
}

// Summary writes the closing line: error/warning totals, or a green all-clear.
func Summary(w io.Writer, bag *diag.Bag, colorEnabled bool) {
	errs, warns := 0, 0
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	switch {
	case errs == 0 && warns == 0:
		fmt.Fprintf(w, "%s\n", paint(colorEnabled, okColor, "no issues found"))
	case warns == 0:
		fmt.Fprintf(w, "%s\n", paint(colorEnabled, errorColor, fmt.Sprintf("found %d %s", errs, plural(errs, "error"))))
	default:
		fmt.Fprintf(w, "%s\n", paint(colorEnabled, errorColor,
			fmt.Sprintf("found %d %s, %d %s", errs, plural(errs, "error"), warns, plural(warns, "warning"))))
	}
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warnColor
	default:
		return infoColor
	}
}

func paint(enabled bool, c *color.Color, s string) string {
	if !enabled {
		return s
	}
	return c.Sprint(s)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
