package engine

import "fmt"

// ErrorCode classifies an evaluation failure.
type ErrorCode int

const (
	// ErrorCodeRef is a malformed or unresolvable cell/range reference.
	ErrorCodeRef ErrorCode = iota
	// ErrorCodeName is a call to a function that is not registered.
	ErrorCodeName
	// ErrorCodeEval is an arithmetic or parse failure.
	ErrorCodeEval
	// ErrorCodeNA is a lookup that found no match.
	ErrorCodeNA
	// ErrorCodeCircular marks a cell that participates in a reference cycle.
	ErrorCodeCircular
)

// Error display strings. These are part of the observable contract —
// hosts render them verbatim in place of a computed value.
const (
	DisplayRef      = "#REF!"
	DisplayName     = "#NAME?"
	DisplayError    = "#ERROR!"
	DisplayNA       = "#N/A"
	DisplayCircular = "#CIRCULAR!"
)

// CellError is an evaluation failure local to a single cell. It is
// resolved to a display string at the cell boundary and never escapes
// the engine as a panic.
type CellError struct {
	Code   ErrorCode
	Reason string
}

// Error implements the error interface.
func (e *CellError) Error() string {
	return fmt.Sprintf("%s: %s", e.Display(), e.Reason)
}

// Display returns the error marker shown in place of a cell value.
func (e *CellError) Display() string {
	switch e.Code {
	case ErrorCodeRef:
		return DisplayRef
	case ErrorCodeName:
		return DisplayName
	case ErrorCodeNA:
		return DisplayNA
	case ErrorCodeCircular:
		return DisplayCircular
	default:
		return DisplayError
	}
}

func newRefError(format string, args ...any) *CellError {
	return &CellError{Code: ErrorCodeRef, Reason: fmt.Sprintf(format, args...)}
}

func newNameError(format string, args ...any) *CellError {
	return &CellError{Code: ErrorCodeName, Reason: fmt.Sprintf(format, args...)}
}

func newEvalError(format string, args ...any) *CellError {
	return &CellError{Code: ErrorCodeEval, Reason: fmt.Sprintf(format, args...)}
}

func newNAError(format string, args ...any) *CellError {
	return &CellError{Code: ErrorCodeNA, Reason: fmt.Sprintf(format, args...)}
}

// asCellError converts any error into a CellError, passing CellErrors
// through untouched.
func asCellError(err error) *CellError {
	if ce, ok := err.(*CellError); ok {
		return ce
	}
	return &CellError{Code: ErrorCodeEval, Reason: err.Error()}
}
