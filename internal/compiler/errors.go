package compiler

import (
	"errors"
	"fmt"

	"walter/internal/diag"
	"walter/internal/source"
	"walter/internal/types"
)

// Error is a lowering failure. Codes in the internal range mark compiler
// bugs rather than problems in the program being compiled.
type Error struct {
	Code  diag.Code
	Span  source.Span
	Msg   string
	Notes []diag.Note
}

func (e *Error) Error() string { return e.Msg }

// Diagnostic converts the error for reporting.
func (e *Error) Diagnostic() diag.Diagnostic {
	d := diag.NewError(e.Code, e.Span, e.Msg)
	d.Notes = e.Notes
	return d
}

func errorf(code diag.Code, sp source.Span, format string, args ...any) *Error {
	return &Error{Code: code, Span: sp, Msg: fmt.Sprintf(format, args...)}
}

func unimplemented(sp source.Span, what string) *Error {
	return errorf(diag.SemaUnimplemented, sp, "%s are not supported yet", what)
}

// fromTypes lifts a type resolution error into a compiler error.
func fromTypes(err error) error {
	var te *types.Error
	if errors.As(err, &te) {
		return &Error{Code: te.Code, Span: te.Span, Msg: te.Msg}
	}
	return err
}

// AsDiagnostic extracts a diagnostic from errors produced by this package or
// the type resolver.
func AsDiagnostic(err error) (diag.Diagnostic, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Diagnostic(), true
	}
	var te *types.Error
	if errors.As(err, &te) {
		return te.Diagnostic(), true
	}
	return diag.Diagnostic{}, false
}
