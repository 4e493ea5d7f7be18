package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/diagnostics"
	"github.com/funvibe/quill/internal/evaluator"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// setupColor applies the configured color mode. Auto colors only terminals.
func setupColor(mode string) {
	enabled := mode == config.ColorAlways
	if mode == config.ColorAuto {
		fd := os.Stdout.Fd()
		enabled = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	if enabled {
		pterm.EnableColor()
	} else {
		pterm.DisableColor()
	}
}

// PrintErrorMessage prints a standard Go error to the console
func PrintErrorMessage(tag string, err error) {
	ErrorStyleBG.Print(tag)
	ErrorColorFG.Println(" " + err.Error())
}

// PrintWarningMessage prints a warning message to the console
func PrintWarningMessage(tag, msg string) {
	WarnStyleBG.Print(tag)
	WarnColorFG.Println(" " + msg)
}

// PrintInfoMessage prints an informational message to the user
func PrintInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// sourceCache reads each file once for code selections.
type sourceCache map[string][]byte

func (c sourceCache) get(file string) []byte {
	if src, ok := c[file]; ok {
		return src
	}
	src, _ := os.ReadFile(file)
	c[file] = src
	return src
}

// position converts a byte offset into a 1-based line and column.
func position(src []byte, offset int) (line, col int) {
	if offset > len(src) {
		offset = len(src)
	}
	line = 1 + bytes.Count(src[:offset], []byte("\n"))
	col = offset - (bytes.LastIndexByte(src[:offset], '\n') + 1) + 1
	return line, col
}

func lineAt(src []byte, line int) string {
	lines := strings.Split(string(src), "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.ReplaceAll(lines[line-1], "\t", "    ")
}

// writeDiagnostic renders d with a banner, the message, the selected code
// for every label and the help and note lines.
func writeDiagnostic(w io.Writer, d diagnostics.Diagnostic, sources sourceCache) {
	banner := "Type Error"
	style, color := ErrorStyleBG, ErrorColorFG
	switch d.Severity() {
	case diagnostics.SeverityWarning:
		banner = "Type Warning"
		style, color = WarnStyleBG, WarnColorFG
	case diagnostics.SeverityNote:
		banner = "Note"
		style, color = InfoStyleBG, InfoColorFG
	}
	if code, ok := d.Code(); ok {
		banner += " [" + string(code) + "]"
	}

	span, _ := d.PrimarySpan()
	fmt.Fprint(w, "-- ", style.Sprint(banner), " ")
	if span.File != "" {
		fmt.Fprint(w, InfoColorFG.Sprint(filepath.Base(span.File)))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, d.Message())

	for _, label := range d.Labels() {
		src := sources.get(label.Span.File)
		if label.Span.IsZero() || src == nil {
			continue
		}
		line, col := position(src, label.Span.Start)
		_, endCol := position(src, label.Span.End)
		if endCol <= col {
			endCol = col + 1
		}
		text := lineAt(src, line)
		if end := len(text) + 1; endCol > end {
			endCol = end
		}
		num := strconv.Itoa(line)
		pad := strings.Repeat(" ", len(num)+1)

		fmt.Fprintln(w, InfoColorFG.Sprint(num+" ")+"|  "+text)
		marker := strings.Repeat("^", endCol-col)
		if label.Primary {
			marker = color.Sprint(marker)
		} else {
			marker = InfoColorFG.Sprint(strings.Repeat("-", endCol-col))
		}
		if label.Message != "" {
			marker += " " + label.Message
		}
		fmt.Fprintln(w, pad+"|  "+strings.Repeat(" ", col-1)+marker)
	}

	if help := d.Help(); help != "" {
		fmt.Fprintln(w, "help: "+help)
	}
	if note := d.Note(); note != "" {
		fmt.Fprintln(w, "note: "+note)
	}
	fmt.Fprintln(w)
}

// writeRuntimeError renders a failed execution with its stack trace.
func writeRuntimeError(w io.Writer, err error) {
	var rerr *evaluator.RuntimeError
	if !errors.As(err, &rerr) {
		fmt.Fprintln(w, ErrorStyleBG.Sprint("Execution Error")+" "+ErrorColorFG.Sprint(err.Error()))
		return
	}
	fmt.Fprintln(w, ErrorStyleBG.Sprint("Runtime Error")+" "+ErrorColorFG.Sprint(rerr.Kind.Error()))
	if rerr.Span != nil && !rerr.Span.IsZero() {
		fmt.Fprintln(w, "  at "+rerr.Span.String())
	}
	if trace := rerr.StackTrace(); trace != "" {
		fmt.Fprintln(w, "Stack trace:")
		fmt.Fprint(w, trace)
	}
}
