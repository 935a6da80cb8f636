package apperrors

import (
	"errors"
	"strings"
)

// appError is the concrete implementation behind the Error interface.
type appError struct {
	msg           string  // primary error message
	base          error   // base error for errors.Is/As compatibility
	wrappedErrors []error // additional wrapped causes
	statuscode    int     // HTTP status code, 0 if unset
	suffix        string  // optional message detail
}

// Error returns the formatted error message, including the suffix if set.
func (e *appError) Error() string {
	if e.suffix != "" {
		return e.msg + ": " + e.suffix
	}
	return e.msg
}

// ErrorAll returns the full message including all wrapped causes.
func (e *appError) ErrorAll() string {
	var b strings.Builder
	b.WriteString(e.Error())
	for _, err := range e.wrappedErrors {
		b.WriteString("; ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap returns the base error for compatibility with errors.Is / errors.As.
func (e *appError) Unwrap() error {
	return e.base
}

// UnwrapAll returns all wrapped causes in the order they were added.
func (e *appError) UnwrapAll() []error {
	return e.wrappedErrors
}

// New derives a fresh error using the current error as a template.
// The derived error inherits the status code but carries no wrapped causes.
func (e *appError) New(msg string) Error {
	return &appError{
		msg:        msg,
		base:       e,
		statuscode: e.statuscode,
	}
}

// Msg derives an error with a new message and wraps the original.
func (e *appError) Msg(msg string) Error {
	return &appError{
		msg:           msg,
		base:          e,
		wrappedErrors: append([]error{e}, e.wrappedErrors...),
		statuscode:    e.statuscode,
	}
}

// MsgErr derives an error with a new message and wraps additional causes.
func (e *appError) MsgErr(msg string, errs ...error) Error {
	return &appError{
		msg:           msg,
		base:          e,
		wrappedErrors: append([]error{e}, errs...),
		statuscode:    e.statuscode,
	}
}

// Err derives an error that keeps the current message and attaches causes.
func (e *appError) Err(errs ...error) Error {
	return &appError{
		msg:           e.msg,
		base:          e,
		wrappedErrors: append([]error{e}, errs...),
		statuscode:    e.statuscode,
		suffix:        e.suffix,
	}
}

// Suffix returns a copy with an updated message detail. The original error
// remains unchanged and the copy still matches it under errors.Is.
func (e *appError) Suffix(s string) Error {
	cp := *e
	cp.suffix = s
	if cp.base == nil {
		cp.base = e
	}
	return &cp
}

// SetStatusCode returns a copy with an updated status code. The original
// error remains unchanged and the copy still matches it under errors.Is.
func (e *appError) SetStatusCode(code int) Error {
	cp := *e
	cp.statuscode = code
	if cp.base == nil {
		cp.base = e
	}
	return &cp
}

// StatusCode returns the recorded HTTP status code.
func (e *appError) StatusCode() int {
	return e.statuscode
}

// Is checks whether the error matches the target by checking the base error
// and all wrapped causes.
func (e *appError) Is(target error) bool {
	if target == nil {
		return false
	}
	if errors.Is(e.base, target) {
		return true
	}
	for _, err := range e.wrappedErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// New creates a root-level error with the given message. This is the entry
// point for declaring error sentinels.
func New(msg string) Error {
	return &appError{
		msg: msg,
	}
}
