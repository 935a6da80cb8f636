// Package apperrors provides the error values used throughout the client.
// Errors are chainable: a sentinel created with New acts as a template from
// which call sites derive errors carrying request-specific messages, wrapped
// causes, and an optional HTTP status code. Derived errors remain matchable
// against their sentinel with errors.Is.
package apperrors

// Error is the interface implemented by all application errors. It extends
// the standard error interface with derivation and status-code management.
// Methods return Error to support chaining.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	New(msg string) Error                  // derives a fresh error with a new message
	Msg(msg string) Error                  // derives an error with a new message, wrapping the original
	MsgErr(msg string, err ...error) Error // derives an error with a message and wrapped causes
	Err(err ...error) Error                // attaches causes, keeping the current message
	Suffix(s string) Error                 // appends detail to the rendered message
	SetStatusCode(code int) Error          // records the HTTP status code associated with the error
	StatusCode() int                       // returns the recorded status code, 0 if unset
	ErrorAll() string                      // returns the message followed by all wrapped causes
	UnwrapAll() []error                    // returns all wrapped causes
}
