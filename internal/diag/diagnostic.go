package diag

import (
	"chad/internal/source"
)

// Severity orders diagnostics, most severe last.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{SevInfo: "INFO", SevWarning: "WARNING", SevError: "ERROR"}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// Blocking reports whether the diagnostic poisons the build: the next phase
// boundary refuses to go on once one has been reported.
func (s Severity) Blocking() bool {
	return s >= SevError
}

type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one finding. Context carries the extra lines attached by
// overload and impl resolution ("candidates considered" listings).
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Context  []string
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithContext(lines ...string) Diagnostic {
	d.Context = append(d.Context, lines...)
	return d
}
