// Package diagnostics defines the immutable diagnostic record produced by the
// type engine. A Diagnostic is built with a fluent, copy-on-write API so that a
// value handed out can never be changed by its recipient.
package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/funvibe/quill/internal/ir"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// ErrorCode identifies a class of diagnostic.
type ErrorCode string

const (
	ErrUndefinedIdentifier       ErrorCode = "undefined-identifier"
	ErrTypeMismatch              ErrorCode = "type-mismatch"
	ErrArgCountMismatch          ErrorCode = "arg-count-mismatch"
	ErrNotAFunction              ErrorCode = "not-a-function"
	ErrUndefinedEnumMember       ErrorCode = "undefined-enum-member"
	ErrTypeAliasCycle            ErrorCode = "type-alias-cycle"
	ErrRecordDefaultTypeMismatch ErrorCode = "record-default-type-mismatch"
	ErrNotImplemented            ErrorCode = "not-implemented"
)

// Label points at a source span. Exactly one label of a diagnostic is usually primary.
type Label struct {
	File    string
	Span    ir.Span
	Message string
	Primary bool
}

// Diagnostic is an immutable report. The zero value is an empty error.
type Diagnostic struct {
	severity Severity
	code     ErrorCode
	message  string
	labels   []Label
	help     string
	note     string
}

// New starts a diagnostic with the given severity and message.
func New(severity Severity, message string) Diagnostic {
	return Diagnostic{severity: severity, message: message}
}

// NewError builds an error diagnostic with a code and a primary label at span.
func NewError(code ErrorCode, span ir.Span, format string, args ...interface{}) Diagnostic {
	return New(SeverityError, fmt.Sprintf(format, args...)).
		WithCode(code).
		WithLabel(span, "")
}

// NewWarning is NewError with warning severity.
func NewWarning(code ErrorCode, span ir.Span, format string, args ...interface{}) Diagnostic {
	return New(SeverityWarning, fmt.Sprintf(format, args...)).
		WithCode(code).
		WithLabel(span, "")
}

func (d Diagnostic) WithCode(code ErrorCode) Diagnostic {
	d.code = code
	return d
}

// WithLabel adds a primary label.
func (d Diagnostic) WithLabel(span ir.Span, message string) Diagnostic {
	return d.addLabel(Label{File: span.File, Span: span, Message: message, Primary: true})
}

func (d Diagnostic) WithSecondaryLabel(span ir.Span, message string) Diagnostic {
	return d.addLabel(Label{File: span.File, Span: span, Message: message})
}

func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.help = help
	return d
}

func (d Diagnostic) WithNote(note string) Diagnostic {
	d.note = note
	return d
}

func (d Diagnostic) addLabel(l Label) Diagnostic {
	labels := make([]Label, len(d.labels), len(d.labels)+1)
	copy(labels, d.labels)
	d.labels = append(labels, l)
	return d
}

func (d Diagnostic) Severity() Severity { return d.severity }
func (d Diagnostic) Message() string    { return d.message }
func (d Diagnostic) Help() string       { return d.help }
func (d Diagnostic) Note() string       { return d.note }

// Code returns the diagnostic code, if any.
func (d Diagnostic) Code() (ErrorCode, bool) {
	return d.code, d.code != ""
}

// Labels returns a copy of the labels.
func (d Diagnostic) Labels() []Label {
	out := make([]Label, len(d.labels))
	copy(out, d.labels)
	return out
}

// PrimarySpan returns the span of the first primary label.
func (d Diagnostic) PrimarySpan() (ir.Span, bool) {
	for _, l := range d.labels {
		if l.Primary {
			return l.Span, true
		}
	}
	return ir.Span{}, false
}

func (d Diagnostic) Error() string {
	var sb strings.Builder
	sb.WriteString(d.severity.String())
	if d.code != "" {
		sb.WriteString("[" + string(d.code) + "]")
	}
	if span, ok := d.PrimarySpan(); ok && !span.IsZero() {
		sb.WriteString(" at " + span.String())
	}
	sb.WriteString(": " + d.message)
	return sb.String()
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.severity == SeverityError {
			return true
		}
	}
	return false
}

// Count returns how many diagnostics carry code.
func Count(diags []Diagnostic, code ErrorCode) int {
	n := 0
	for _, d := range diags {
		if d.code == code {
			n++
		}
	}
	return n
}

// Sort orders diagnostics by file then start offset, keeping report order for ties.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		si, _ := diags[i].PrimarySpan()
		sj, _ := diags[j].PrimarySpan()
		if si.File != sj.File {
			return si.File < sj.File
		}
		return si.Start < sj.Start
	})
}
