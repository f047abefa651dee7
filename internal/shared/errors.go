package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// The two error kinds every remote operation resolves to.
	//
	// ErrUnauthorized means the caller must re-authenticate: the refresh
	// token is missing, the client credentials are missing, or the provider
	// rejected the refresh request. ErrRemote covers every other provider,
	// network, or decoding failure.
	ErrUnauthorized = fmt.Errorf("spotify authorization required")
	ErrRemote       = fmt.Errorf("spotify request failed")

	// ErrInsufficientScope is a tagged variant of ErrRemote raised when the
	// provider reports that the granted scopes no longer cover the endpoint.
	// Callers should force a fresh consent flow rather than a plain retry.
	ErrInsufficientScope = fmt.Errorf("%w: insufficient scope", ErrRemote)

	// Storage errors
	ErrBatchNotFound = fmt.Errorf("cache batch not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
