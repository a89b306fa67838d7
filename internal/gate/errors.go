package gate

import "errors"

// Denial reasons. They explain a redirect decision and are never returned to callers.
var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrUnauthorizedRole  = errors.New("role not authorized for path")
	ErrUnrecognizedRole  = errors.New("unrecognized role")
	ErrMalformedPath     = errors.New("malformed request path")
)
