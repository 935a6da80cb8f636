package unifi

import "github.com/TeknoVenus/unifi-go/internal/common/apperrors"

// Error sentinels for the client. Errors returned by this package match one
// of these under errors.Is.
var (
	// ErrTransport indicates a network-level failure: the controller never
	// produced a response. Never retried by this layer.
	ErrTransport = apperrors.New("controller unreachable")

	// ErrDecode indicates a response body that is not a well-formed envelope.
	// The error detail carries a preview of the offending body.
	ErrDecode = apperrors.New("malformed controller response")

	// ErrAPI indicates an envelope reporting an error other than session
	// expiry, or a session expiry that survived the single retry. The error
	// message carries the controller's message verbatim.
	ErrAPI = apperrors.New("controller reported an error")

	// ErrAuthentication indicates that the login call itself failed. It
	// aborts any pending retry and surfaces to the caller.
	ErrAuthentication = apperrors.New("authentication failed")
)
